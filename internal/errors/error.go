// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var (
	// ErrProductNotFound indicates no product exists with the requested ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrProductsExist indicates the seed endpoint was called against a
	// table that already holds at least one product.
	ErrProductsExist = errors.New("products already exist")
)

// Package store provides durable access to the products table.
package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the persisted representation of a product. The ID is assigned
// by the caller before the row is first written and never changes.
type Product struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int32
}

// ProductStore is a request-scoped unit of work over the products table.
// Add and AddMany only stage rows; nothing is written until Commit runs.
// Instances must not be shared between requests: the staged rows are
// per-unit state. Use a Factory to mint one per operation.
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll returns all stored products in unspecified order.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// AnyExist reports whether the table holds at least one product.
	AnyExist(ctx context.Context) (bool, error)

	// Add stages a single product for insertion. The caller has already
	// assigned a unique ID.
	Add(product Product)

	// AddMany stages a batch of products for insertion.
	AddMany(products []Product)

	// Commit writes all staged products in a single transaction.
	// A failed or cancelled commit leaves no rows behind.
	Commit(ctx context.Context) error
}

// Factory mints a fresh ProductStore unit of work.
type Factory func() ProductStore

// Package service provides the implementation of product-related business logic.
package service

import (
	"context"
	"fmt"

	perrors "github.com/abgdnv/minishop/internal/errors"
	"github.com/abgdnv/minishop/internal/seed"
	"github.com/abgdnv/minishop/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices serialize as bare JSON numbers, matching the wire contract.
	decimal.MarshalJSONWithoutQuotes = true
}

// ProductService defines the methods for managing products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier and
	// returns its id-less wire projection.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id uuid.UUID) (*ProductTransferDto, error)

	// FindAll returns all stored products, ids included.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create persists a new product from its wire projection, assigning a
	// fresh ID before the first write, and returns the full product.
	Create(ctx context.Context, product ProductTransferDto) (*ProductDto, error)

	// Seed inserts a fixed batch of fake products if the table is empty.
	// Returns ErrProductsExist when at least one product already exists.
	Seed(ctx context.Context) (int, error)
}

// Service implements ProductService. Every operation works on a fresh
// store unit of work so no pending writes leak between requests.
type Service struct {
	newStore  store.Factory
	generator *seed.Generator
}

var _ ProductService = (*Service)(nil)

// NewService creates a new instance of ProductService with the provided
// store factory and seeding generator.
func NewService(newStore store.Factory, generator *seed.Generator) *Service {
	return &Service{
		newStore:  newStore,
		generator: generator,
	}
}

// ProductDto is the full wire representation of a product. It is returned
// by the list and create endpoints.
type ProductDto struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
}

// ProductTransferDto is the id-less projection of a product: the inbound
// payload for creation and the outbound shape for single-item fetch.
// Price and stock carry no lower bound: negative values are accepted.
type ProductTransferDto struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int32           `json:"stock"`
}

// FindByID retrieves a product by its ID and returns it as a ProductTransferDto.
// Returns ErrProductNotFound if no product exists with the given ID.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*ProductTransferDto, error) {
	product, err := s.newStore().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}

	return toTransferDto(product), nil
}

// FindAll retrieves all products and returns them as ProductDTOs.
// Returns an empty slice if no products exist or error if the retrieval fails.
func (s *Service) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.newStore().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toDto(&item)
	}

	return productDTOs, nil
}

// Create assigns a fresh ID to the incoming product, persists it and
// returns the stored product as a ProductDto.
func (s *Service) Create(ctx context.Context, product ProductTransferDto) (*ProductDto, error) {
	newProduct := store.Product{
		ID:          uuid.New(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}

	unit := s.newStore()
	unit.Add(newProduct)
	if err := unit.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toDto(&newProduct), nil
}

// Seed inserts seed.Count fake products in one transaction, but only if the
// table is empty. Returns the number of inserted products.
func (s *Service) Seed(ctx context.Context) (int, error) {
	unit := s.newStore()

	exists, err := unit.AnyExist(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to check for existing products: %w", err)
	}
	if exists {
		return 0, perrors.ErrProductsExist
	}

	products := s.generator.Products(seed.Count)
	unit.AddMany(products)
	if err := unit.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to seed products: %w", err)
	}
	return len(products), nil
}

// toDto converts a store.Product to its full wire representation.
func toDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}
}

// toTransferDto converts a store.Product to its id-less projection.
func toTransferDto(product *store.Product) *ProductTransferDto {
	return &ProductTransferDto{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Stock:       product.Stock,
	}
}

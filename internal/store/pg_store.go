package store

import (
	"context"
	"errors"
	"fmt"

	perrors "github.com/abgdnv/minishop/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// Prices cross the driver boundary as text so decimal values round-trip
// exactly, without an intermediate binary float.
const (
	selectProduct = `SELECT id, name, description, price::text, stock FROM products`
	insertProduct = `INSERT INTO products (id, name, description, price, stock)
	                 VALUES ($1, $2, $3, $4::numeric, $5)`
)

// PgStore implements ProductStore using PostgreSQL as the data store.
// It is cheap to construct: reads go straight to the shared pool, and the
// only per-unit state is the slice of staged inserts.
type PgStore struct {
	db      *pgxpool.Pool
	pending []Product
}

var _ ProductStore = (*PgStore)(nil)

// NewPgStore creates a new unit of work over a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{db: dbp}
}

// FindByID retrieves a product by its unique identifier.
// Returns ErrProductNotFound if no product exists with the given ID.
func (p *PgStore) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := p.db.QueryRow(ctx, selectProduct+` WHERE id = $1`, id)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, nil
}

// FindAll retrieves all stored products. No ORDER BY: row order is
// unspecified and callers must not rely on it.
func (p *PgStore) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := p.db.Query(ctx, selectProduct)
	if err != nil {
		return nil, fmt.Errorf("failed to find all products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product rows: %w", err)
	}
	return products, nil
}

// AnyExist reports whether the table holds at least one product.
func (p *PgStore) AnyExist(ctx context.Context) (bool, error) {
	var exists bool
	err := p.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products)`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// Add stages a single product for insertion.
func (p *PgStore) Add(product Product) {
	p.pending = append(p.pending, product)
}

// AddMany stages a batch of products for insertion.
func (p *PgStore) AddMany(products []Product) {
	p.pending = append(p.pending, products...)
}

// Commit inserts all staged products in one transaction and clears the
// staging slice. If the context is cancelled mid-flight the transaction
// rolls back, so a commit never leaves partial rows behind.
func (p *PgStore) Commit(ctx context.Context) error {
	if len(p.pending) == 0 {
		return nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	batch := &pgx.Batch{}
	for _, product := range p.pending {
		batch.Queue(insertProduct,
			product.ID, product.Name, product.Description, product.Price.String(), product.Stock)
	}
	results := tx.SendBatch(ctx, batch)
	for range p.pending {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close batch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit products: %w", err)
	}
	p.pending = nil
	return nil
}

// scanProduct reads one product row, parsing the text-encoded price.
func scanProduct(row pgx.Row) (*Product, error) {
	var product Product
	var price string
	if err := row.Scan(&product.ID, &product.Name, &product.Description, &price, &product.Stock); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", price, err)
	}
	product.Price = parsed
	return &product, nil
}

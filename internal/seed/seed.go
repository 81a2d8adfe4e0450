// Package seed generates synthetic products for the development-only
// seeding endpoint.
package seed

import (
	"github.com/abgdnv/minishop/internal/store"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Count is the number of products a single seeding run inserts.
const Count = 10

// Generator produces fake products with realistic commerce-style fields.
// A non-zero seed makes the output deterministic, which the tests rely on.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a Generator. Pass seed 0 for random output.
func NewGenerator(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Products returns n synthetic products: commerce-style names, lorem-style
// descriptions, price in [10, 500] with two-decimal currency precision and
// stock in [1, 100]. Every product gets a freshly generated ID.
func (g *Generator) Products(n int) []store.Product {
	products := make([]store.Product, n)
	for i := range products {
		products[i] = store.Product{
			ID:          uuid.New(),
			Name:        g.faker.ProductName(),
			Description: g.faker.Sentence(10),
			Price:       decimal.NewFromFloat(g.faker.Price(10, 500)).Round(2),
			Stock:       int32(g.faker.Number(1, 100)),
		}
	}
	return products
}

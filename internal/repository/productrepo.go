package repository

import (
	"context"

	"github.com/limweiliang/stockroom/internal/model"
)

// ProductFilter restricts a product listing. Zero-valued fields are ignored.
type ProductFilter struct {
	Name     string // prefix match
	Category string // exact match
	Status   string // exact match
}

// NewProduct carries the validated fields for a product insert. Prices are
// already converted to minor units.
type NewProduct struct {
	Name       string
	Category   string
	PriceMinor int64
	Pic        []byte
	Status     string
	CreatedBy  int64
}

// ProductUpdate carries the validated fields for a product update. Pic is
// only written when non-empty.
type ProductUpdate struct {
	ID         int64
	Name       string
	Category   string
	PriceMinor int64
	Pic        []byte
	Status     string
}

// ProductRepository provides CRUD access for catalog entries.
type ProductRepository interface {
	// List returns one page of products matching f plus the total match count.
	List(ctx context.Context, f ProductFilter, page int) ([]model.Product, int, error)
	// GetByID loads a product by id.
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	// Create inserts a new product and returns the generated id.
	Create(ctx context.Context, p NewProduct) (int64, error)
	// Update rewrites a product row.
	Update(ctx context.Context, p ProductUpdate) error
	// Delete removes a product row.
	Delete(ctx context.Context, id int64) error
	// Exists reports whether a product row exists.
	Exists(ctx context.Context, id int64) (bool, error)
	// NameTaken reports whether another product already holds name.
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	// HasStock reports whether any stock lot references the product.
	HasStock(ctx context.Context, id int64) (bool, error)
}

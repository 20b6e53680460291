package repository

import (
	"context"

	"github.com/limweiliang/stockroom/internal/model"
)

// SaleFilter restricts a sale listing. Zero-valued fields are ignored.
type SaleFilter struct {
	ProductID int64  // exact match
	Category  string // product category exact match
}

// SaleRepository records sales against the stock ledger. A sale row is keyed
// by the ledger entry holding its negative quantity delta; creating or
// deleting a sale moves the lot balance and its ledger in the same
// transaction.
type SaleRepository interface {
	// List returns one page of sales matching f plus the total match count.
	List(ctx context.Context, f SaleFilter, page int) ([]model.Sale, int, error)
	// Create sells soldQuantity units from sku at the product's current
	// price: under a row lock the lot quantity is decremented, a negative
	// ledger entry appended, and a sale row referencing it inserted. Selling
	// more than the current balance yields errs.ErrInsufficientStock.
	Create(ctx context.Context, sku string, soldQuantity int, actorID int64) (int64, error)
	// Delete reverses a sale: the sale row and its ledger entry are removed
	// and the sold quantity returned to the lot balance.
	Delete(ctx context.Context, saleID int64) error
}

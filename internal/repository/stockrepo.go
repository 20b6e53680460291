package repository

import (
	"context"
	"time"

	"github.com/limweiliang/stockroom/internal/model"
)

// StockFilter restricts a stock listing. Zero-valued fields are ignored.
type StockFilter struct {
	SKU        string // exact match
	Name       string // product name prefix match
	Category   string // product category exact match
	ProductID  int64  // exact match
	ExpiryFrom time.Time
	ExpiryTo   time.Time
}

// NewStock carries the validated fields for creating a stock lot. The lot and
// its initial ledger entry (delta = Quantity, with Remark) are written in one
// transaction.
type NewStock struct {
	SKU        string
	ProductID  int64
	ExpiryDate time.Time
	Quantity   int
	Remark     string
	CreatedBy  int64
}

// StockRepository provides access to stock lots and their transaction ledger.
// Every balance mutation updates the stored quantity and appends a ledger row
// atomically, keeping quantity equal to the ledger sum for the SKU.
type StockRepository interface {
	// List returns one page of stock lots matching f plus the total match count.
	List(ctx context.Context, f StockFilter, page int) ([]model.Stock, int, error)
	// GetBySKU loads a stock lot by SKU.
	GetBySKU(ctx context.Context, sku string) (*model.Stock, error)
	// Exists reports whether a stock row exists.
	Exists(ctx context.Context, sku string) (bool, error)
	// Create inserts a lot together with its initial ledger entry.
	Create(ctx context.Context, s NewStock) error
	// Adjust applies a signed quantity delta under a row lock: the stored
	// quantity becomes current+delta and a ledger row with delta is appended.
	// A delta that would drive the balance negative yields
	// errs.ErrInsufficientStock and leaves state unchanged.
	Adjust(ctx context.Context, sku string, delta int, remark string, actorID int64) error
	// Delete removes a lot and its creation ledger entry. Lots whose ledger
	// holds more than the creation entry yield errs.ErrDepended.
	Delete(ctx context.Context, sku string) error
	// ListTrx returns one page of ledger entries for sku, newest first,
	// plus the total entry count.
	ListTrx(ctx context.Context, sku string, page int) ([]model.StockTrx, int, error)
}

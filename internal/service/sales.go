package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/status"
)

// ListSalesParams selects a page of sales. Filter fields are optional.
type ListSalesParams struct {
	SessionID string `json:"sessionId"`
	ProductID int64  `json:"productId"`
	Category  string `json:"category"`
	Page      int    `json:"page"`
}

// ListSalesResult carries one page of sales.
type ListSalesResult struct {
	Status  status.Status `json:"status"`
	Sales   []model.Sale  `json:"sales,omitempty"`
	Page    int           `json:"page,omitempty"`
	MaxPage int           `json:"maxPage,omitempty"`
}

// AddSaleParams sells a quantity out of a stock lot at the product's current
// price.
type AddSaleParams struct {
	SessionID    string `json:"sessionId"`
	SKU          string `json:"sku"`
	SoldQuantity int    `json:"soldQuantity"`
}

// AddSaleResult reports the created sale's id.
type AddSaleResult struct {
	Status    status.Status `json:"status"`
	NewSaleID int64         `json:"newSaleId,omitempty"`
}

// Sales handles sale records derived from the stock ledger. Any authenticated
// user may call every operation.
type Sales interface {
	List(ctx context.Context, p ListSalesParams) ListSalesResult
	// Add sells from a lot: the balance is decremented, a negative ledger
	// entry appended, and a sale row priced at the product's current price
	// inserted, all in one transaction.
	Add(ctx context.Context, p AddSaleParams) AddSaleResult
	// Delete reverses a sale, restoring the sold quantity to the lot.
	Delete(ctx context.Context, sessionID string, saleID int64) StatusResult
}

// SalesImpl implements Sales.
type SalesImpl struct {
	sales    repository.SaleRepository
	stock    repository.StockRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

// NewSales constructs the sale service.
func NewSales(sales repository.SaleRepository, stock repository.StockRepository, sessions repository.SessionRepository, log *zap.Logger) *SalesImpl {
	return &SalesImpl{sales: sales, stock: stock, sessions: sessions, log: log}
}

func (s *SalesImpl) List(ctx context.Context, p ListSalesParams) ListSalesResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, p.SessionID); !st.OK() {
		return ListSalesResult{Status: st}
	}

	page := normPage(p.Page)
	f := repository.SaleFilter{ProductID: p.ProductID, Category: p.Category}
	sales, total, err := s.sales.List(ctx, f, page)
	if err != nil {
		s.log.Error("list sales", zap.Error(err))
		return ListSalesResult{Status: status.ServerError}
	}
	return ListSalesResult{
		Status:  status.Success,
		Sales:   sales,
		Page:    page,
		MaxPage: repository.MaxPage(total),
	}
}

func (s *SalesImpl) Add(ctx context.Context, p AddSaleParams) AddSaleResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return AddSaleResult{Status: st}
	}

	if p.SKU == "" {
		return AddSaleResult{Status: status.MissingSKU}
	}
	lot, err := s.stock.GetBySKU(ctx, p.SKU)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return AddSaleResult{Status: status.NotFound}
		}
		s.log.Error("add sale: load lot", zap.Error(err))
		return AddSaleResult{Status: status.ServerError}
	}
	if p.SoldQuantity == 0 {
		return AddSaleResult{Status: status.MissingSoldQuantity}
	}
	if p.SoldQuantity < 0 || p.SoldQuantity > lot.Quantity {
		return AddSaleResult{Status: status.InvalidSoldQuantity}
	}

	id, err := s.sales.Create(ctx, p.SKU, p.SoldQuantity, caller.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return AddSaleResult{Status: status.NotFound}
		}
		if errors.Is(err, errs.ErrInsufficientStock) {
			return AddSaleResult{Status: status.InvalidSoldQuantity}
		}
		s.log.Error("add sale", zap.Error(err))
		return AddSaleResult{Status: status.ServerError}
	}
	return AddSaleResult{Status: status.Success, NewSaleID: id}
}

func (s *SalesImpl) Delete(ctx context.Context, sessionID string, saleID int64) StatusResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, sessionID); !st.OK() {
		return StatusResult{Status: st}
	}

	if err := s.sales.Delete(ctx, saleID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		s.log.Error("delete sale", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

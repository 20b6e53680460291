package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/crypto"
	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/status"
)

// ListStockParams selects a page of stock lots. Filter fields are optional.
type ListStockParams struct {
	SessionID  string    `json:"sessionId"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	ProductID  int64     `json:"productId"`
	ExpiryFrom time.Time `json:"expiryFrom"`
	ExpiryTo   time.Time `json:"expiryTo"`
	Page       int       `json:"page"`
}

// ListStockResult carries one page of stock lots.
type ListStockResult struct {
	Status  status.Status `json:"status"`
	Stock   []model.Stock `json:"stock,omitempty"`
	Page    int           `json:"page,omitempty"`
	MaxPage int           `json:"maxPage,omitempty"`
}

// GetStockResult carries a single stock lot.
type GetStockResult struct {
	Status status.Status `json:"status"`
	Stock  *model.Stock  `json:"stock,omitempty"`
}

// AddStockParams carries the fields for receiving a new lot.
type AddStockParams struct {
	SessionID  string    `json:"sessionId"`
	ProductID  int64     `json:"productId"`
	Quantity   int       `json:"quantity"`
	ExpiryDate time.Time `json:"expiryDate"`
	Remark     string    `json:"remark"`
}

// AddStockResult reports the generated SKU.
type AddStockResult struct {
	Status status.Status `json:"status"`
	NewSKU string        `json:"newSku,omitempty"`
}

// AdjustStockParams carries a signed quantity delta against a lot.
type AdjustStockParams struct {
	SessionID      string `json:"sessionId"`
	SKU            string `json:"sku"`
	QuantityVaried int    `json:"quantityVaried"`
	Remark         string `json:"remark"`
}

// ListStockTrxParams selects a page of a lot's ledger.
type ListStockTrxParams struct {
	SessionID string `json:"sessionId"`
	SKU       string `json:"sku"`
	Page      int    `json:"page"`
}

// ListStockTrxResult carries one page of ledger entries, newest first.
type ListStockTrxResult struct {
	Status  status.Status    `json:"status"`
	Trx     []model.StockTrx `json:"trx,omitempty"`
	Page    int              `json:"page,omitempty"`
	MaxPage int              `json:"maxPage,omitempty"`
}

// Stock handles lot management and the quantity ledger. Any authenticated
// user may call every operation.
type Stock interface {
	List(ctx context.Context, p ListStockParams) ListStockResult
	Get(ctx context.Context, sessionID, sku string) GetStockResult
	// Add receives a new lot: a fresh SKU is generated and the lot is
	// written together with its initial ledger entry.
	Add(ctx context.Context, p AddStockParams) AddStockResult
	// Adjust applies a signed quantity delta. A zero delta, or a negative
	// delta exceeding the current balance, is rejected.
	Adjust(ctx context.Context, p AdjustStockParams) StatusResult
	// Delete removes a lot unless its ledger holds more than the creation
	// entry.
	Delete(ctx context.Context, sessionID, sku string) StatusResult
	ListTrx(ctx context.Context, p ListStockTrxParams) ListStockTrxResult
}

// StockImpl implements Stock.
type StockImpl struct {
	stock    repository.StockRepository
	products repository.ProductRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

// NewStock constructs the stock service.
func NewStock(stock repository.StockRepository, products repository.ProductRepository, sessions repository.SessionRepository, log *zap.Logger) *StockImpl {
	return &StockImpl{stock: stock, products: products, sessions: sessions, log: log}
}

func (s *StockImpl) List(ctx context.Context, p ListStockParams) ListStockResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, p.SessionID); !st.OK() {
		return ListStockResult{Status: st}
	}

	page := normPage(p.Page)
	f := repository.StockFilter{
		SKU:        p.SKU,
		Name:       p.Name,
		Category:   p.Category,
		ProductID:  p.ProductID,
		ExpiryFrom: p.ExpiryFrom,
		ExpiryTo:   p.ExpiryTo,
	}
	lots, total, err := s.stock.List(ctx, f, page)
	if err != nil {
		s.log.Error("list stock", zap.Error(err))
		return ListStockResult{Status: status.ServerError}
	}
	return ListStockResult{
		Status:  status.Success,
		Stock:   lots,
		Page:    page,
		MaxPage: repository.MaxPage(total),
	}
}

func (s *StockImpl) Get(ctx context.Context, sessionID, sku string) GetStockResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, sessionID); !st.OK() {
		return GetStockResult{Status: st}
	}

	lot, err := s.stock.GetBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return GetStockResult{Status: status.NotFound}
		}
		s.log.Error("get stock", zap.Error(err))
		return GetStockResult{Status: status.ServerError}
	}
	return GetStockResult{Status: status.Success, Stock: lot}
}

func (s *StockImpl) Add(ctx context.Context, p AddStockParams) AddStockResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return AddStockResult{Status: st}
	}

	if p.ProductID == 0 {
		return AddStockResult{Status: status.MissingProductID}
	}
	exists, err := s.products.Exists(ctx, p.ProductID)
	if err != nil {
		s.log.Error("add stock: product existence", zap.Error(err))
		return AddStockResult{Status: status.ServerError}
	}
	if !exists {
		return AddStockResult{Status: status.InvalidProductID}
	}
	if p.Quantity == 0 {
		return AddStockResult{Status: status.MissingQuantity}
	}
	if p.Quantity < 0 {
		return AddStockResult{Status: status.InvalidQuantity}
	}
	if p.ExpiryDate.IsZero() {
		return AddStockResult{Status: status.MissingExpiryDate}
	}

	sku, err := crypto.NewSKU()
	if err != nil {
		s.log.Error("add stock: generate sku", zap.Error(err))
		return AddStockResult{Status: status.ServerError}
	}
	err = s.stock.Create(ctx, repository.NewStock{
		SKU:        sku,
		ProductID:  p.ProductID,
		ExpiryDate: p.ExpiryDate,
		Quantity:   p.Quantity,
		Remark:     p.Remark,
		CreatedBy:  caller.ID,
	})
	if err != nil {
		s.log.Error("add stock", zap.Error(err))
		return AddStockResult{Status: status.ServerError}
	}
	return AddStockResult{Status: status.Success, NewSKU: sku}
}

func (s *StockImpl) Adjust(ctx context.Context, p AdjustStockParams) StatusResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return StatusResult{Status: st}
	}

	lot, err := s.stock.GetBySKU(ctx, p.SKU)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		s.log.Error("adjust stock: load lot", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}

	if p.QuantityVaried == 0 || -p.QuantityVaried > lot.Quantity {
		return StatusResult{Status: status.InvalidQuantityVaried}
	}
	if p.Remark == "" {
		return StatusResult{Status: status.MissingRemark}
	}

	// The repository re-checks the balance under a row lock, so a
	// concurrent adjustment between the read above and here still cannot
	// drive the quantity negative.
	err = s.stock.Adjust(ctx, p.SKU, p.QuantityVaried, p.Remark, caller.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		if errors.Is(err, errs.ErrInsufficientStock) {
			return StatusResult{Status: status.InvalidQuantityVaried}
		}
		s.log.Error("adjust stock", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

func (s *StockImpl) Delete(ctx context.Context, sessionID, sku string) StatusResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, sessionID); !st.OK() {
		return StatusResult{Status: st}
	}

	if err := s.stock.Delete(ctx, sku); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		if errors.Is(err, errs.ErrDepended) {
			return StatusResult{Status: status.Depended}
		}
		s.log.Error("delete stock", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

func (s *StockImpl) ListTrx(ctx context.Context, p ListStockTrxParams) ListStockTrxResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, p.SessionID); !st.OK() {
		return ListStockTrxResult{Status: st}
	}

	exists, err := s.stock.Exists(ctx, p.SKU)
	if err != nil {
		s.log.Error("list stock trx: existence", zap.Error(err))
		return ListStockTrxResult{Status: status.ServerError}
	}
	if !exists {
		return ListStockTrxResult{Status: status.NotFound}
	}

	page := normPage(p.Page)
	trx, total, err := s.stock.ListTrx(ctx, p.SKU, page)
	if err != nil {
		s.log.Error("list stock trx", zap.Error(err))
		return ListStockTrxResult{Status: status.ServerError}
	}
	return ListStockTrxResult{
		Status:  status.Success,
		Trx:     trx,
		Page:    page,
		MaxPage: repository.MaxPage(total),
	}
}

package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
	"github.com/limweiliang/stockroom/internal/status"
)

// ListProductsParams selects a page of products. Filter fields are optional.
type ListProductsParams struct {
	SessionID string `json:"sessionId"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Status    string `json:"productStatus"`
	Page      int    `json:"page"`
}

// ListProductsResult carries one page of products.
type ListProductsResult struct {
	Status   status.Status   `json:"status"`
	Products []model.Product `json:"products,omitempty"`
	Page     int             `json:"page,omitempty"`
	MaxPage  int             `json:"maxPage,omitempty"`
}

// GetProductResult carries a single product.
type GetProductResult struct {
	Status  status.Status  `json:"status"`
	Product *model.Product `json:"product,omitempty"`
}

// AddProductParams carries the fields for creating a product. Price is a
// decimal value; it is stored as integer minor units.
type AddProductParams struct {
	SessionID string          `json:"sessionId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Pic       []byte          `json:"pic"`
	Status    string          `json:"productStatus"`
}

// AddProductResult reports the created product's id.
type AddProductResult struct {
	Status       status.Status `json:"status"`
	NewProductID int64         `json:"newProductId,omitempty"`
}

// SetProductParams carries the fields for updating a product. Pic is only
// applied when non-empty.
type SetProductParams struct {
	SessionID string          `json:"sessionId"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Pic       []byte          `json:"pic"`
	Status    string          `json:"productStatus"`
}

// Products handles catalog management. Any authenticated user may call every
// operation.
type Products interface {
	List(ctx context.Context, p ListProductsParams) ListProductsResult
	Get(ctx context.Context, sessionID string, productID int64) GetProductResult
	Add(ctx context.Context, p AddProductParams) AddProductResult
	Set(ctx context.Context, p SetProductParams) StatusResult
	// Delete removes a product unless stock lots reference it.
	Delete(ctx context.Context, sessionID string, productID int64) StatusResult
}

// ProductsImpl implements Products.
type ProductsImpl struct {
	products repository.ProductRepository
	sessions repository.SessionRepository
	log      *zap.Logger
}

// NewProducts constructs the product service.
func NewProducts(products repository.ProductRepository, sessions repository.SessionRepository, log *zap.Logger) *ProductsImpl {
	return &ProductsImpl{products: products, sessions: sessions, log: log}
}

func (s *ProductsImpl) List(ctx context.Context, p ListProductsParams) ListProductsResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, p.SessionID); !st.OK() {
		return ListProductsResult{Status: st}
	}

	page := normPage(p.Page)
	f := repository.ProductFilter{Name: p.Name, Category: p.Category, Status: p.Status}
	products, total, err := s.products.List(ctx, f, page)
	if err != nil {
		s.log.Error("list products", zap.Error(err))
		return ListProductsResult{Status: status.ServerError}
	}
	return ListProductsResult{
		Status:   status.Success,
		Products: products,
		Page:     page,
		MaxPage:  repository.MaxPage(total),
	}
}

func (s *ProductsImpl) Get(ctx context.Context, sessionID string, productID int64) GetProductResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, sessionID); !st.OK() {
		return GetProductResult{Status: st}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return GetProductResult{Status: status.NotFound}
		}
		s.log.Error("get product", zap.Error(err))
		return GetProductResult{Status: status.ServerError}
	}
	return GetProductResult{Status: status.Success, Product: product}
}

func (s *ProductsImpl) Add(ctx context.Context, p AddProductParams) AddProductResult {
	caller, st := resolveSession(ctx, s.sessions, s.log, p.SessionID)
	if !st.OK() {
		return AddProductResult{Status: st}
	}

	if st := s.validate(ctx, p.Name, p.Category, p.Price, p.Status, 0); !st.OK() {
		return AddProductResult{Status: st}
	}

	id, err := s.products.Create(ctx, repository.NewProduct{
		Name:       p.Name,
		Category:   p.Category,
		PriceMinor: model.MinorUnits(p.Price),
		Pic:        p.Pic,
		Status:     p.Status,
		CreatedBy:  caller.ID,
	})
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return AddProductResult{Status: status.RepeatedName}
		}
		s.log.Error("add product", zap.Error(err))
		return AddProductResult{Status: status.ServerError}
	}
	return AddProductResult{Status: status.Success, NewProductID: id}
}

func (s *ProductsImpl) Set(ctx context.Context, p SetProductParams) StatusResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, p.SessionID); !st.OK() {
		return StatusResult{Status: st}
	}

	exists, err := s.products.Exists(ctx, p.ProductID)
	if err != nil {
		s.log.Error("set product: existence", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	if !exists {
		return StatusResult{Status: status.NotFound}
	}

	if st := s.validate(ctx, p.Name, p.Category, p.Price, p.Status, p.ProductID); !st.OK() {
		return StatusResult{Status: st}
	}

	err = s.products.Update(ctx, repository.ProductUpdate{
		ID:         p.ProductID,
		Name:       p.Name,
		Category:   p.Category,
		PriceMinor: model.MinorUnits(p.Price),
		Pic:        p.Pic,
		Status:     p.Status,
	})
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		if errors.Is(err, errs.ErrAlreadyExists) {
			return StatusResult{Status: status.RepeatedName}
		}
		s.log.Error("set product", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

func (s *ProductsImpl) Delete(ctx context.Context, sessionID string, productID int64) StatusResult {
	if _, st := resolveSession(ctx, s.sessions, s.log, sessionID); !st.OK() {
		return StatusResult{Status: st}
	}

	exists, err := s.products.Exists(ctx, productID)
	if err != nil {
		s.log.Error("delete product: existence", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	if !exists {
		return StatusResult{Status: status.NotFound}
	}

	depended, err := s.products.HasStock(ctx, productID)
	if err != nil {
		s.log.Error("delete product: stock dependents", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	if depended {
		return StatusResult{Status: status.Depended}
	}

	if err := s.products.Delete(ctx, productID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return StatusResult{Status: status.NotFound}
		}
		s.log.Error("delete product", zap.Error(err))
		return StatusResult{Status: status.ServerError}
	}
	return StatusResult{Status: status.Success}
}

// validate runs the ordered field checks shared by Add and Set. Price checks
// happen in the decimal domain, before conversion to minor units.
func (s *ProductsImpl) validate(ctx context.Context, name, category string, price decimal.Decimal, productStatus string, excludeID int64) status.Status {
	if name == "" {
		return status.MissingName
	}
	taken, err := s.products.NameTaken(ctx, name, excludeID)
	if err != nil {
		s.log.Error("validate product: name uniqueness", zap.Error(err))
		return status.ServerError
	}
	if taken {
		return status.RepeatedName
	}
	if category == "" {
		return status.MissingCategory
	}
	if price.IsZero() {
		return status.MissingProductPrice
	}
	if price.Sign() < 0 {
		return status.InvalidProductPrice
	}
	if productStatus == "" {
		return status.MissingStatus
	}
	if !model.ValidProductStatus(productStatus) {
		return status.InvalidStatus
	}
	return status.Success
}

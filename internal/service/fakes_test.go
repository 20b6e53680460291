package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/limweiliang/stockroom/internal/errs"
	"github.com/limweiliang/stockroom/internal/model"
	"github.com/limweiliang/stockroom/internal/repository"
)

// In-memory repository fakes. They implement the same contracts as the
// postgres implementations, including sentinel errors, so the services can
// be exercised without a database.

type fakeSessions struct {
	byID map[string]model.SessionUser

	findErr error
}

var _ repository.SessionRepository = (*fakeSessions)(nil)

func newFakeSessions() *fakeSessions {
	return &fakeSessions{byID: map[string]model.SessionUser{}}
}

func (f *fakeSessions) add(sessionID string, userID int64, role string) {
	f.byID[sessionID] = model.SessionUser{ID: userID, Role: role}
}

func (f *fakeSessions) Create(_ context.Context, sessionID string, userID int64) error {
	f.byID[sessionID] = model.SessionUser{ID: userID, Role: model.RoleAdmin}
	return nil
}

func (f *fakeSessions) FindUser(_ context.Context, sessionID string) (*model.SessionUser, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	su, ok := f.byID[sessionID]
	if !ok {
		return nil, errs.ErrInvalidSession
	}
	c := su
	return &c, nil
}

func (f *fakeSessions) Delete(_ context.Context, sessionID string) error {
	if _, ok := f.byID[sessionID]; !ok {
		return errs.ErrInvalidSession
	}
	delete(f.byID, sessionID)
	return nil
}

type fakeUsers struct {
	byID   map[int64]*model.User
	nextID int64

	createErr error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[int64]*model.User{}, nextID: 1}
}

func (f *fakeUsers) put(u model.User) {
	if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.byID[u.ID] = &u
}

func (f *fakeUsers) sorted() []model.User {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, *f.byID[id])
	}
	return users
}

func (f *fakeUsers) List(_ context.Context, _ repository.UserFilter, page int) ([]model.User, int, error) {
	all := f.sorted()
	start := (page - 1) * repository.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + repository.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u repository.NewUser) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	f.byID[id] = &model.User{
		ID:              id,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		IDNumber:        u.IDNumber,
		IDType:          u.IDType,
		Role:            u.Role,
		PwHash:          u.PwHash,
		ProfilePic:      u.ProfilePic,
		Status:          u.Status,
		CreatedByUserID: u.CreatedBy,
		CreatedOn:       time.Now(),
	}
	return id, nil
}

func (f *fakeUsers) Update(_ context.Context, u repository.UserUpdate) error {
	row, ok := f.byID[u.ID]
	if !ok {
		return errs.ErrNotFound
	}
	row.FirstName = u.FirstName
	row.LastName = u.LastName
	row.Email = u.Email
	row.IDNumber = u.IDNumber
	row.IDType = u.IDType
	row.Role = u.Role
	row.Status = u.Status
	if u.PwHash != "" {
		row.PwHash = u.PwHash
	}
	if len(u.ProfilePic) != 0 {
		row.ProfilePic = u.ProfilePic
	}
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeUsers) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range f.byID {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) IDNumberTaken(_ context.Context, idNumber string, excludeID int64) (bool, error) {
	for _, u := range f.byID {
		if u.IDNumber == idNumber && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) HasDependents(_ context.Context, id int64) (bool, error) {
	for _, u := range f.byID {
		if u.CreatedByUserID == id && u.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	return int64(len(f.byID)), nil
}

func (f *fakeUsers) SeedAdmin(_ context.Context, pwHash string) error {
	f.put(model.User{ID: 1, FirstName: "Administrator", Email: "Administrator",
		IDType: model.IDTypeIC, Role: model.RoleAdmin, PwHash: pwHash,
		Status: model.UserStatusActive, CreatedByUserID: 1})
	return nil
}

type fakeProducts struct {
	byID   map[int64]*model.Product
	nextID int64
	stock  *fakeStock
}

var _ repository.ProductRepository = (*fakeProducts)(nil)

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[int64]*model.Product{}, nextID: 1}
}

func (f *fakeProducts) List(_ context.Context, _ repository.ProductFilter, page int) ([]model.Product, int, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	all := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		all = append(all, *f.byID[id])
	}
	start := (page - 1) * repository.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + repository.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeProducts) GetByID(_ context.Context, id int64) (*model.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProducts) Create(_ context.Context, p repository.NewProduct) (int64, error) {
	id := f.nextID
	f.nextID++
	f.byID[id] = &model.Product{
		ID:              id,
		Name:            p.Name,
		Category:        p.Category,
		Price:           model.PriceFromMinorUnits(p.PriceMinor),
		Pic:             p.Pic,
		Status:          p.Status,
		CreatedByUserID: p.CreatedBy,
		CreatedOn:       time.Now(),
	}
	return id, nil
}

func (f *fakeProducts) Update(_ context.Context, p repository.ProductUpdate) error {
	row, ok := f.byID[p.ID]
	if !ok {
		return errs.ErrNotFound
	}
	row.Name = p.Name
	row.Category = p.Category
	row.Price = model.PriceFromMinorUnits(p.PriceMinor)
	if len(p.Pic) != 0 {
		row.Pic = p.Pic
	}
	row.Status = p.Status
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeProducts) NameTaken(_ context.Context, name string, excludeID int64) (bool, error) {
	for _, p := range f.byID {
		if p.Name == name && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProducts) HasStock(_ context.Context, id int64) (bool, error) {
	if f.stock == nil {
		return false, nil
	}
	for _, lot := range f.stock.lots {
		if lot.ProductID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeStock struct {
	lots     map[string]*model.Stock
	trx      []model.StockTrx
	nextTrx  int64
	products *fakeProducts
}

var _ repository.StockRepository = (*fakeStock)(nil)

func newFakeStock(products *fakeProducts) *fakeStock {
	f := &fakeStock{lots: map[string]*model.Stock{}, nextTrx: 1, products: products}
	if products != nil {
		products.stock = f
	}
	return f
}

func (f *fakeStock) appendTrx(sku string, delta int, remark string, actorID int64) model.StockTrx {
	t := model.StockTrx{
		ID:              f.nextTrx,
		SKU:             sku,
		QuantityVaried:  delta,
		Remark:          remark,
		CreatedByUserID: actorID,
		CreatedOn:       time.Now(),
	}
	f.nextTrx++
	f.trx = append(f.trx, t)
	return t
}

func (f *fakeStock) List(_ context.Context, _ repository.StockFilter, page int) ([]model.Stock, int, error) {
	skus := make([]string, 0, len(f.lots))
	for sku := range f.lots {
		skus = append(skus, sku)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(skus)))
	all := make([]model.Stock, 0, len(skus))
	for _, sku := range skus {
		all = append(all, *f.lots[sku])
	}
	start := (page - 1) * repository.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + repository.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeStock) GetBySKU(_ context.Context, sku string) (*model.Stock, error) {
	lot, ok := f.lots[sku]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *lot
	return &c, nil
}

func (f *fakeStock) Exists(_ context.Context, sku string) (bool, error) {
	_, ok := f.lots[sku]
	return ok, nil
}

func (f *fakeStock) Create(_ context.Context, s repository.NewStock) error {
	lot := &model.Stock{
		SKU:             s.SKU,
		ProductID:       s.ProductID,
		Quantity:        s.Quantity,
		ExpiryDate:      s.ExpiryDate,
		CreatedByUserID: s.CreatedBy,
		CreatedOn:       time.Now(),
	}
	if f.products != nil {
		if p, ok := f.products.byID[s.ProductID]; ok {
			lot.ProductName = p.Name
			lot.ProductCategory = p.Category
			lot.ProductPrice = p.Price
		}
	}
	f.lots[s.SKU] = lot
	f.appendTrx(s.SKU, s.Quantity, s.Remark, s.CreatedBy)
	return nil
}

func (f *fakeStock) Adjust(_ context.Context, sku string, delta int, remark string, actorID int64) error {
	lot, ok := f.lots[sku]
	if !ok {
		return errs.ErrNotFound
	}
	if -delta > lot.Quantity {
		return errs.ErrInsufficientStock
	}
	lot.Quantity += delta
	f.appendTrx(sku, delta, remark, actorID)
	return nil
}

func (f *fakeStock) Delete(_ context.Context, sku string) error {
	if _, ok := f.lots[sku]; !ok {
		return errs.ErrNotFound
	}
	n := 0
	for _, t := range f.trx {
		if t.SKU == sku {
			n++
		}
	}
	if n > 1 {
		return errs.ErrDepended
	}
	kept := f.trx[:0]
	for _, t := range f.trx {
		if t.SKU != sku {
			kept = append(kept, t)
		}
	}
	f.trx = kept
	delete(f.lots, sku)
	return nil
}

func (f *fakeStock) ListTrx(_ context.Context, sku string, page int) ([]model.StockTrx, int, error) {
	var all []model.StockTrx
	for i := len(f.trx) - 1; i >= 0; i-- {
		if f.trx[i].SKU == sku {
			all = append(all, f.trx[i])
		}
	}
	start := (page - 1) * repository.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + repository.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

type fakeSales struct {
	byID   map[int64]*model.Sale
	nextID int64
	stock  *fakeStock
}

var _ repository.SaleRepository = (*fakeSales)(nil)

func newFakeSales(stock *fakeStock) *fakeSales {
	return &fakeSales{byID: map[int64]*model.Sale{}, nextID: 1, stock: stock}
}

func (f *fakeSales) List(_ context.Context, _ repository.SaleFilter, page int) ([]model.Sale, int, error) {
	ids := make([]int64, 0, len(f.byID))
	for id := range f.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	all := make([]model.Sale, 0, len(ids))
	for _, id := range ids {
		all = append(all, *f.byID[id])
	}
	start := (page - 1) * repository.PageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + repository.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeSales) Create(_ context.Context, sku string, soldQuantity int, actorID int64) (int64, error) {
	lot, ok := f.stock.lots[sku]
	if !ok {
		return 0, errs.ErrNotFound
	}
	if soldQuantity > lot.Quantity {
		return 0, errs.ErrInsufficientStock
	}
	lot.Quantity -= soldQuantity
	t := f.stock.appendTrx(sku, -soldQuantity, "Sold", actorID)

	id := f.nextID
	f.nextID++
	unit := lot.ProductPrice
	f.byID[id] = &model.Sale{
		ID:            id,
		StockTrxID:    t.ID,
		SKU:           sku,
		ProductID:     lot.ProductID,
		UnitPrice:     unit,
		SoldQuantity:  soldQuantity,
		SubTotalPrice: unit.Mul(decimal.NewFromInt(int64(soldQuantity))),
		SoldByUserID:  actorID,
		SoldOn:        time.Now(),
	}
	return id, nil
}

func (f *fakeSales) Delete(_ context.Context, saleID int64) error {
	sale, ok := f.byID[saleID]
	if !ok {
		return errs.ErrNotFound
	}
	if lot, ok := f.stock.lots[sale.SKU]; ok {
		lot.Quantity += sale.SoldQuantity
	}
	kept := f.stock.trx[:0]
	for _, t := range f.stock.trx {
		if t.ID != sale.StockTrxID {
			kept = append(kept, t)
		}
	}
	f.stock.trx = kept
	delete(f.byID, saleID)
	return nil
}

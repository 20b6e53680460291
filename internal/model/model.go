// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Enumerated field domains. Values match the CHECK constraints in the schema.
const (
	RoleAdmin          = "Admin"
	RoleSalesExecutive = "Sales Executive"

	IDTypeIC       = "IC"
	IDTypePassport = "Passport"

	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"

	ProductStatusAvailable = "Available"
	ProductStatusDisabled  = "Disabled"
)

// ValidRole reports whether r is a known role.
func ValidRole(r string) bool { return r == RoleAdmin || r == RoleSalesExecutive }

// ValidIDType reports whether t is a known identity document type.
func ValidIDType(t string) bool { return t == IDTypeIC || t == IDTypePassport }

// ValidUserStatus reports whether s is a known user status.
func ValidUserStatus(s string) bool { return s == UserStatusActive || s == UserStatusInactive }

// ValidProductStatus reports whether s is a known product status.
func ValidProductStatus(s string) bool {
	return s == ProductStatusAvailable || s == ProductStatusDisabled
}

// User is an account row. PwHash never leaves the server.
type User struct {
	ID                int64     `json:"userId"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	Email             string    `json:"email"` // unique
	IDNumber          string    `json:"idNumber"`
	IDType            string    `json:"idType"`
	Role              string    `json:"role"`
	PwHash            string    `json:"-"`
	ProfilePic        []byte    `json:"profilePic"`
	Status            string    `json:"status"`
	CreatedByUserID   int64     `json:"createdByUserId"`
	CreatedByUserName string    `json:"createdByUserName"`
	CreatedOn         time.Time `json:"createdOn"`
}

// SessionUser is the projection resolved from a session id for
// authentication and role gating.
type SessionUser struct {
	ID   int64
	Role string
}

// Product is a catalog entry. Price crosses the API as a decimal and is
// stored as integer minor units.
type Product struct {
	ID                int64           `json:"productId"`
	Name              string          `json:"name"` // unique
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Pic               []byte          `json:"pic"`
	Status            string          `json:"status"`
	CreatedByUserID   int64           `json:"createdByUserId"`
	CreatedByUserName string          `json:"createdByUserName"`
	CreatedOn         time.Time       `json:"createdOn"`
}

// Stock is one lot of a product. Quantity is the running total of the lot's
// ledger deltas and must never go negative.
type Stock struct {
	SKU               string          `json:"sku"`
	ProductID         int64           `json:"productId"`
	ProductName       string          `json:"productName"`
	ProductCategory   string          `json:"productCategory"`
	ProductPrice      decimal.Decimal `json:"productPrice"`
	ProductPic        []byte          `json:"productPic"`
	Quantity          int             `json:"quantity"`
	ExpiryDate        time.Time       `json:"expiryDate"`
	CreatedByUserID   int64           `json:"createdByUserId"`
	CreatedByUserName string          `json:"createdByUserName"`
	CreatedOn         time.Time       `json:"createdOn"`
}

// StockTrx is one append-only ledger entry: a signed quantity delta against a
// SKU. Positive deltas record received stock, negative deltas sold or removed
// stock.
type StockTrx struct {
	ID                int64     `json:"stockTrxId"`
	SKU               string    `json:"sku"`
	QuantityVaried    int       `json:"quantityVaried"`
	Remark            string    `json:"remark"`
	CreatedByUserID   int64     `json:"createdByUserId"`
	CreatedByUserName string    `json:"createdByUserName"`
	CreatedOn         time.Time `json:"createdOn"`
}

// Sale records a sold quantity at the unit price in effect at sale time,
// keyed by the ledger entry holding the corresponding negative delta.
type Sale struct {
	ID              int64           `json:"saleId"`
	StockTrxID      int64           `json:"stockTrxId"`
	SKU             string          `json:"sku"`
	ProductID       int64           `json:"productId"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	SoldQuantity    int             `json:"soldQuantity"`
	SubTotalPrice   decimal.Decimal `json:"subTotalPrice"`
	SoldByUserID    int64           `json:"soldByUserId"`
	SoldByUserName  string          `json:"soldByUserName"`
	SoldOn          time.Time       `json:"soldOn"`
}

// MinorUnits converts a decimal price to its integer minor-unit storage form,
// rounding to the nearest cent.
func MinorUnits(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// PriceFromMinorUnits reconstructs a decimal price from stored minor units.
func PriceFromMinorUnits(n int64) decimal.Decimal {
	return decimal.New(n, -2)
}

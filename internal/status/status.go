// Package status defines the uniform status code taxonomy carried by every
// operation result. A result's status is the first violated rule, checked in
// declared order; SUCCESS is the zero value.
package status

// Status identifies the terminal outcome of a single operation.
type Status string

const (
	Success          Status = "SUCCESS"
	InvalidSession   Status = "INVALID_SESSION"
	PermissionDenied Status = "PERMISSION_DENIED"
	NotFound         Status = "NOT_FOUND"
	Depended         Status = "DEPENDED"
	ServerError      Status = "SERVER_ERROR"

	InvalidCredential Status = "INVALID_CREDENTIAL"

	MissingFirstName Status = "MISSING_FIRST_NAME"
	MissingLastName  Status = "MISSING_LAST_NAME"
	MissingEmail     Status = "MISSING_EMAIL"
	InvalidEmail     Status = "INVALID_EMAIL"
	RepeatedEmail    Status = "REPEATED_EMAIL"
	MissingIDNumber  Status = "MISSING_ID_NUMBER"
	RepeatedIDNumber Status = "REPEATED_ID_NUMBER"
	MissingIDType    Status = "MISSING_ID_TYPE"
	InvalidIDType    Status = "INVALID_ID_TYPE"
	MissingRole      Status = "MISSING_ROLE"
	InvalidRole      Status = "INVALID_ROLE"
	MissingPassword  Status = "MISSING_PASSWORD"
	MissingStatus    Status = "MISSING_STATUS"
	InvalidStatus    Status = "INVALID_STATUS"

	MissingName         Status = "MISSING_NAME"
	RepeatedName        Status = "REPEATED_NAME"
	MissingCategory     Status = "MISSING_CATEGORY"
	MissingProductPrice Status = "MISSING_PRODUCT_PRICE"
	InvalidProductPrice Status = "INVALID_PRODUCT_PRICE"

	MissingProductID      Status = "MISSING_PRODUCT_ID"
	InvalidProductID      Status = "INVALID_PRODUCT_ID"
	MissingQuantity       Status = "MISSING_QUANTITY"
	InvalidQuantity       Status = "INVALID_QUANTITY"
	MissingExpiryDate     Status = "MISSING_EXPIRY_DATE"
	InvalidQuantityVaried Status = "INVALID_QUANTITY_VARIED"
	MissingRemark         Status = "MISSING_REMARK"

	MissingSKU          Status = "MISSING_SKU"
	MissingSoldQuantity Status = "MISSING_SOLD_QUANTITY"
	InvalidSoldQuantity Status = "INVALID_SOLD_QUANTITY"
)

// OK reports whether s is the success status.
func (s Status) OK() bool { return s == Success }

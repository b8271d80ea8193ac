package apperr

import "github.com/tuanvumaihuynh/retail-pos/pkg/zerror"

const (
	ValidationErrorCode = "VALIDATION_FAILED"

	CartEmptyCode            = "CART_EMPTY"
	CartKindMismatchCode     = "CART_KIND_MISMATCH"
	CartNotFoundCode         = "CART_NOT_FOUND"
	CommitInFlightCode       = "COMMIT_IN_FLIGHT"
	EmployeeRequiredCode     = "EMPLOYEE_REQUIRED"
	InvalidPaymentMethodCode = "INVALID_PAYMENT_METHOD"
	StoreRequiredCode        = "STORE_REQUIRED"
	SameStoreTransferCode    = "SAME_STORE_TRANSFER"
	StockLimitCode           = "STOCK_LIMIT_REACHED"
	LineItemNotFoundCode     = "LINE_ITEM_NOT_FOUND"
	InvalidQuantityCode      = "INVALID_QUANTITY"
	InvalidExchangeRateCode  = "INVALID_EXCHANGE_RATE"
	InvalidPageCode          = "INVALID_PAGE"

	ProductNotFoundCode       = "PRODUCT_NOT_FOUND"
	StoreNotFoundCode         = "STORE_NOT_FOUND"
	EmployeeNotFoundCode      = "EMPLOYEE_NOT_FOUND"
	SupplierNotFoundCode      = "SUPPLIER_NOT_FOUND"
	PurchaseOrderNotFoundCode = "PURCHASE_ORDER_NOT_FOUND"

	InsufficientStockCode    = "INSUFFICIENT_STOCK"
	BusinessRejectionCode    = "BUSINESS_RULE_REJECTED"
	InvalidStatusChangeCode  = "INVALID_STATUS_TRANSITION"
	PartialCommitCode        = "PARTIAL_COMMIT"
	DataAccessCode           = "DATA_ACCESS_FAILED"
	UsernameTakenCode        = "USERNAME_TAKEN"
	InvalidImageCode         = "INVALID_IMAGE"
	InvalidCredentialsCode   = "INVALID_CREDENTIALS"
	SessionRequiredCode      = "SESSION_REQUIRED"
	CartOwnedByOtherUserCode = "CART_NOT_OWNED"
)

var (
	ValidationErr = zerror.NewValidationFailed(ValidationErrorCode, "validation error")

	// Local validation. Raised before any write is attempted.
	ErrCartEmpty            = zerror.NewValidationFailed(CartEmptyCode, "cart is empty")
	ErrCartKindMismatch     = zerror.NewValidationFailed(CartKindMismatchCode, "cart kind does not match the operation")
	ErrEmployeeRequired     = zerror.NewValidationFailed(EmployeeRequiredCode, "an identified employee is required")
	ErrInvalidPaymentMethod = zerror.NewValidationFailed(InvalidPaymentMethodCode, "payment method must be one of cash, card, transfer")
	ErrStoreRequired        = zerror.NewValidationFailed(StoreRequiredCode, "source and destination store are required")
	ErrSameStoreTransfer    = zerror.NewValidationFailed(SameStoreTransferCode, "source and destination store must differ")
	ErrStockLimit           = zerror.NewUnprocessableEntity(StockLimitCode, "quantity cannot exceed available stock")
	ErrInvalidQuantity      = zerror.NewValidationFailed(InvalidQuantityCode, "invalid quantity")
	ErrInvalidExchangeRate  = zerror.NewValidationFailed(InvalidExchangeRateCode, "exchange rate must be greater than zero")
	ErrInvalidPage          = zerror.NewValidationFailed(InvalidPageCode, "limit must be between 1 and 100")

	ErrCartNotFound          = zerror.NewNotFound(CartNotFoundCode, "cart not found")
	ErrLineItemNotFound      = zerror.NewNotFound(LineItemNotFoundCode, "product is not in the cart")
	ErrProductNotFound       = zerror.NewNotFound(ProductNotFoundCode, "product not found")
	ErrStoreNotFound         = zerror.NewNotFound(StoreNotFoundCode, "store not found")
	ErrEmployeeNotFound      = zerror.NewNotFound(EmployeeNotFoundCode, "employee not found")
	ErrSupplierNotFound      = zerror.NewNotFound(SupplierNotFoundCode, "supplier not found")
	ErrPurchaseOrderNotFound = zerror.NewNotFound(PurchaseOrderNotFoundCode, "purchase order not found")

	ErrCommitInFlight      = zerror.NewConflict(CommitInFlightCode, "a commit for this cart is already in progress")
	ErrUsernameTaken       = zerror.NewConflict(UsernameTakenCode, "username already taken")
	ErrInvalidStatusChange = zerror.NewConflict(InvalidStatusChangeCode, "invalid purchase order status transition")
	ErrCartNotOwned        = zerror.NewForbidden(CartOwnedByOtherUserCode, "cart belongs to another session")

	// Backend refusals. Message is replaced by the backend's own when one is available.
	ErrInsufficientStock = zerror.NewConflict(InsufficientStockCode, "insufficient stock")
	ErrBusinessRejection = zerror.NewUnprocessableEntity(BusinessRejectionCode, "operation rejected by backend")

	// ErrPartialCommit means a transaction header was written but its remaining writes
	// could not be applied nor compensated. It needs manual reconciliation.
	ErrPartialCommit = zerror.NewInternalServerError(PartialCommitCode, "transaction was recorded incompletely and needs reconciliation")
	ErrDataAccess    = zerror.NewServiceUnavailable(DataAccessCode, "backend is unavailable, please retry")

	ErrInvalidImage       = zerror.NewBadRequest(InvalidImageCode, "uploaded file is not a supported image")
	ErrInvalidCredentials = zerror.NewUnauthorized(InvalidCredentialsCode, "invalid username or password")
	ErrSessionRequired    = zerror.NewUnauthorized(SessionRequiredCode, "authentication required")
)

package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Domain codes surfaced to clients as-is
	CodeInvalidLeaveType        = "INVALID_LEAVE_TYPE"
	CodeInvalidDate             = "INVALID_DATE"
	CodeInvalidIndex            = "INVALID_INDEX"
	CodeInsufficientBalance     = "INSUFFICIENT_BALANCE"
	CodeNoApproverFound         = "NO_APPROVER_FOUND"
	CodeEmptyBasket             = "EMPTY_BASKET"
	CodeLeaveNotPending         = "LEAVE_NOT_PENDING"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

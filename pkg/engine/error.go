package engine

import "errors"

var (
	ErrDuplicateOrder     = errors.New("duplicate order")
	ErrOrderNotFound      = errors.New("order not found")
	ErrGatewayIDNotFound  = errors.New("gatewayID not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidRequest     = errors.New("invalid request")
	ErrThrottled          = errors.New("rate limit exceeded")
	ErrRiskRejected       = errors.New("risk check failed")
)

const (
	rejectReasonValidation = "validation"
	rejectReasonDuplicate  = "duplicate"
	rejectReasonThrottled  = "throttled"
	rejectReasonRisk       = "risk"
	rejectReasonBook       = "book"
)

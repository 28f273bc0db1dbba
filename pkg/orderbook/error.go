package orderbook

import "errors"

var (
	ErrInvalidOrder          = errors.New("invalid order")
	ErrUnknownOrder          = errors.New("unknown order")
	ErrDuplicateOrderID      = errors.New("duplicate order id")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")
	ErrInvalidModification   = errors.New("invalid modification")
)

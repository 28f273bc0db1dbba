package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type AddOrder struct {
	GatewayID    string
	Account      string
	Symbol       string
	Type         OrderType
	Side         OrderSide
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	Quantity     decimal.Decimal
	TransactTime time.Time
}

type CancelOrder struct {
	GatewayID     string
	OrigGatewayID string
}

// ModifyOrder reduces the remaining quantity of a live order.
// NewQuantity is the new leaves quantity, not a delta.
type ModifyOrder struct {
	GatewayID     string
	OrigGatewayID string
	NewQuantity   decimal.Decimal
}

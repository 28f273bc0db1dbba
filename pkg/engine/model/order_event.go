package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderEvent is one entry of an order's execution history. Events are
// appended to the event store and shipped to the persistence worker.
type OrderEvent struct {
	ID int64

	EventID        string
	OrderID        string
	GatewayID      string
	OrigGatewayID  string
	Symbol         string
	Side           OrderSide
	Type           OrderType
	ExecType       OrderExecType
	Status         OrderStatus
	Price          decimal.Decimal
	Quantity       decimal.Decimal
	CumQuantity    decimal.Decimal
	LeavesQuantity decimal.Decimal
	LastQuantity   decimal.Decimal
	LastPrice      decimal.Decimal
	RejectReason   string
	Timestamp      time.Time
}

func NewOrderEvent(order Order, ts time.Time) *OrderEvent {
	return &OrderEvent{
		EventID:        NewEventID(order.OrderID, order.ExecID),
		OrderID:        order.OrderID,
		GatewayID:      order.GatewayID,
		OrigGatewayID:  order.OrigGatewayID,
		Symbol:         order.Symbol,
		Side:           order.Side,
		Type:           order.Type,
		ExecType:       order.ExecType,
		Status:         order.Status,
		Price:          order.Price,
		Quantity:       order.Quantity,
		CumQuantity:    order.CumQuantity,
		LeavesQuantity: order.LeavesQuantity,
		LastQuantity:   order.LastQuantity,
		LastPrice:      order.LastPrice,
		RejectReason:   order.RejectReason,
		Timestamp:      ts,
	}
}

func NewEventID(orderID, execID string) string {
	return fmt.Sprintf("%s-%s", orderID, execID)
}

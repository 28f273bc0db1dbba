package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingNew      OrderStatus = "PendingNew"
	OrderStatusNew             OrderStatus = "New"
	OrderStatusPartiallyFilled OrderStatus = "PartiallyFilled"
	OrderStatusFilled          OrderStatus = "Filled"
	OrderStatusCanceled        OrderStatus = "Canceled"
	OrderStatusRejected        OrderStatus = "Rejected"
	OrderStatusPendingTrigger  OrderStatus = "PendingTrigger"
	OrderStatusTriggered       OrderStatus = "Triggered"
)

type OrderExecType string

const (
	ExecTypeNew       OrderExecType = "New"
	ExecTypeTrade     OrderExecType = "Trade"
	ExecTypeCanceled  OrderExecType = "Canceled"
	ExecTypeReplaced  OrderExecType = "Replaced"
	ExecTypeRejected  OrderExecType = "Rejected"
	ExecTypeTriggered OrderExecType = "Triggered"
)

type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// OrderType values match the book's wire names so conversion is a cast.
type OrderType string

const (
	OrderTypeLimit      OrderType = "LIMIT"
	OrderTypeMarket     OrderType = "MARKET"
	OrderTypeIOC        OrderType = "IOC"
	OrderTypeFOK        OrderType = "FOK"
	OrderTypeStopLoss   OrderType = "STOP_LOSS"
	OrderTypeTakeProfit OrderType = "TAKE_PROFIT"
)

type Order struct {
	ID int64

	// init info
	Symbol       string
	Side         OrderSide
	Type         OrderType
	Price        decimal.Decimal
	StopPrice    decimal.Decimal
	Quantity     decimal.Decimal
	Account      string
	TransactTime time.Time

	// gateway chain
	GatewayID     string
	OrigGatewayID string

	// calculated info
	ExecID         string
	OrderID        string
	Status         OrderStatus
	ExecType       OrderExecType
	RejectReason   string
	CumQuantity    decimal.Decimal
	CumNotional    decimal.Decimal
	LeavesQuantity decimal.Decimal
	LastQuantity   decimal.Decimal
	LastPrice      decimal.Decimal
}

// IsEnd reports whether the order reached a terminal state.
func (o *Order) IsEnd() bool {
	switch o.Status {
	case OrderStatusFilled, OrderStatusCanceled, OrderStatusRejected:
		return true
	}
	return false
}

func (o *Order) CanCancel() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled, OrderStatusPendingTrigger:
		return true
	}
	return false
}

// CanModify allows quantity reduction on live booked orders only.
// Pending-trigger orders must be cancelled and resubmitted.
func (o *Order) CanModify() bool {
	switch o.Status {
	case OrderStatusNew, OrderStatusPartiallyFilled:
		return true
	}
	return false
}

func (o *Order) AvgPrice() decimal.Decimal {
	if o.CumQuantity.IsZero() {
		return decimal.Zero
	}
	return o.CumNotional.Div(o.CumQuantity)
}

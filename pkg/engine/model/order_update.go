package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (o *Order) UpdateAddOrder(addOrder *AddOrder) {
	o.OrderID = uuid.NewString()
	o.GatewayID = addOrder.GatewayID
	o.Account = addOrder.Account
	o.Symbol = addOrder.Symbol
	o.Side = addOrder.Side
	o.Type = addOrder.Type
	o.Price = addOrder.Price
	o.StopPrice = addOrder.StopPrice
	o.Quantity = addOrder.Quantity
	o.TransactTime = addOrder.TransactTime

	o.Status = OrderStatusPendingNew
	o.ExecType = ExecTypeNew
	o.LeavesQuantity = addOrder.Quantity
	o.CumQuantity = decimal.Zero
}

func (o *Order) UpdateAccepted() {
	if o.Type == OrderTypeStopLoss || o.Type == OrderTypeTakeProfit {
		o.Status = OrderStatusPendingTrigger
	} else {
		o.Status = OrderStatusNew
	}
	o.ExecType = ExecTypeNew
	o.ExecID = uuid.NewString()
}

func (o *Order) UpdateTriggered() {
	o.Status = OrderStatusTriggered
	o.ExecType = ExecTypeTriggered
	o.ExecID = uuid.NewString()
}

func (o *Order) UpdateFill(price, qty decimal.Decimal) {
	o.LastPrice = price
	o.LastQuantity = qty
	o.CumQuantity = o.CumQuantity.Add(qty)
	o.CumNotional = o.CumNotional.Add(price.Mul(qty))
	o.LeavesQuantity = o.Quantity.Sub(o.CumQuantity)
	if o.LeavesQuantity.Sign() <= 0 {
		o.LeavesQuantity = decimal.Zero
		o.Status = OrderStatusFilled
	} else {
		o.Status = OrderStatusPartiallyFilled
	}
	o.ExecType = ExecTypeTrade
	o.ExecID = uuid.NewString()
}

func (o *Order) UpdateCancelOrder(cancelOrder *CancelOrder) {
	if cancelOrder != nil {
		o.OrigGatewayID = o.GatewayID
		o.GatewayID = cancelOrder.GatewayID
	}
	o.Status = OrderStatusCanceled
	o.ExecType = ExecTypeCanceled
	o.LeavesQuantity = decimal.Zero
	o.ExecID = uuid.NewString()
}

func (o *Order) UpdateModifyOrder(modifyOrder *ModifyOrder) {
	o.OrigGatewayID = o.GatewayID
	o.GatewayID = modifyOrder.GatewayID
	o.LeavesQuantity = modifyOrder.NewQuantity
	o.Quantity = o.CumQuantity.Add(modifyOrder.NewQuantity)
	o.Status = OrderStatusNew
	if o.CumQuantity.Sign() > 0 {
		o.Status = OrderStatusPartiallyFilled
	}
	o.ExecType = ExecTypeReplaced
	o.ExecID = uuid.NewString()
}

func (o *Order) UpdateRejected(reason string) {
	o.Status = OrderStatusRejected
	o.ExecType = ExecTypeRejected
	o.RejectReason = reason
	o.LeavesQuantity = decimal.Zero
	o.ExecID = uuid.NewString()
}

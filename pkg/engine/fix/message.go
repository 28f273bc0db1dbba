package fixgateway

import (
	"sync"

	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/quickfixgo/enum"
	"github.com/quickfixgo/fix44/executionreport"
	"github.com/quickfixgo/quickfix"
)

var (
	orderStatusMapping = map[model.OrderStatus]enum.OrdStatus{
		model.OrderStatusPendingNew:      enum.OrdStatus_PENDING_NEW,
		model.OrderStatusNew:             enum.OrdStatus_NEW,
		model.OrderStatusPartiallyFilled: enum.OrdStatus_PARTIALLY_FILLED,
		model.OrderStatusFilled:          enum.OrdStatus_FILLED,
		model.OrderStatusCanceled:        enum.OrdStatus_CANCELED,
		model.OrderStatusRejected:        enum.OrdStatus_REJECTED,
		// FIX has no pending-trigger status, conditional orders report as New
		model.OrderStatusPendingTrigger: enum.OrdStatus_NEW,
		model.OrderStatusTriggered:      enum.OrdStatus_NEW,
	}

	execTypeMapping = map[model.OrderExecType]enum.ExecType{
		model.ExecTypeNew:       enum.ExecType_NEW,
		model.ExecTypeTrade:     enum.ExecType_TRADE,
		model.ExecTypeCanceled:  enum.ExecType_CANCELED,
		model.ExecTypeReplaced:  enum.ExecType_REPLACED,
		model.ExecTypeRejected:  enum.ExecType_REJECTED,
		model.ExecTypeTriggered: enum.ExecType_RESTATED,
	}

	sideMapping = map[model.OrderSide]enum.Side{
		model.OrderSideBuy:  enum.Side_BUY,
		model.OrderSideSell: enum.Side_SELL,
	}

	ordTypeMapping = map[model.OrderType]enum.OrdType{
		model.OrderTypeLimit:      enum.OrdType_LIMIT,
		model.OrderTypeMarket:     enum.OrdType_MARKET,
		model.OrderTypeIOC:        enum.OrdType_LIMIT,
		model.OrderTypeFOK:        enum.OrdType_LIMIT,
		model.OrderTypeStopLoss:   enum.OrdType_STOP,
		model.OrderTypeTakeProfit: enum.OrdType_MARKET_IF_TOUCHED,
	}
)

// MessagePool recycles quickfix messages between reports.
type MessagePool struct {
	pool sync.Pool
}

func NewMessagePool() *MessagePool {
	return &MessagePool{
		pool: sync.Pool{
			New: func() interface{} {
				m := quickfix.NewMessage()
				resetMessage(m)
				return m
			},
		},
	}
}

func (mp *MessagePool) Get() *quickfix.Message {
	m := mp.pool.Get().(*quickfix.Message)
	resetMessage(m)
	return m
}

func (mp *MessagePool) Put(m *quickfix.Message) {
	resetMessage(m)
	mp.pool.Put(m)
}

func resetMessage(m *quickfix.Message) {
	m.Header.Init()
	m.Body.Init()
	m.Trailer.Init()
	m.Header.Clear()
	m.Body.Clear()
	m.Trailer.Clear()
}

var execReportPool = NewMessagePool()

const qtyDecimals = 8

func sendExecutionReport(order model.Order, sessionID *quickfix.SessionID) error {
	msg := execReportPool.Get()
	execReportMsg := executionreport.FromMessage(msg)

	execReportMsg.SetMsgType(enum.MsgType_EXECUTION_REPORT)
	execReportMsg.SetOrderID(order.OrderID)
	execReportMsg.SetExecID(order.ExecID)
	execReportMsg.SetExecType(execTypeMapping[order.ExecType])
	execReportMsg.SetOrdStatus(orderStatusMapping[order.Status])
	execReportMsg.SetSide(sideMapping[order.Side])
	execReportMsg.SetOrdType(ordTypeMapping[order.Type])
	execReportMsg.SetSymbol(order.Symbol)
	execReportMsg.SetClOrdID(order.GatewayID)
	if order.OrigGatewayID != "" {
		execReportMsg.SetOrigClOrdID(order.OrigGatewayID)
	}
	execReportMsg.SetAccount(order.Account)
	execReportMsg.SetTransactTime(order.TransactTime)

	execReportMsg.SetOrderQty(order.Quantity, qtyDecimals)
	execReportMsg.SetLeavesQty(order.LeavesQuantity, qtyDecimals)
	execReportMsg.SetCumQty(order.CumQuantity, qtyDecimals)
	execReportMsg.SetAvgPx(order.AvgPrice(), qtyDecimals)
	if order.Price.Sign() > 0 {
		execReportMsg.SetPrice(order.Price, qtyDecimals)
	}
	if order.StopPrice.Sign() > 0 {
		execReportMsg.SetStopPx(order.StopPrice, qtyDecimals)
	}
	if order.ExecType == model.ExecTypeTrade {
		execReportMsg.SetLastQty(order.LastQuantity, qtyDecimals)
		execReportMsg.SetLastPx(order.LastPrice, qtyDecimals)
	}
	if order.RejectReason != "" {
		execReportMsg.SetText(order.RejectReason)
	}

	err := quickfix.SendToTarget(execReportMsg, *sessionID)

	execReportPool.Put(msg)

	return err
}

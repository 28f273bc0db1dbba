package fixgateway

import (
	"context"
	"log"
	"sync"

	"github.com/joripage/matching-engine/pkg/engine"
	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/quickfixgo/enum"
)

// FixGateway accepts FIX 4.4 order flow and feeds it into the engine.
// Execution reports travel back over the session that sent the request.
type FixGateway struct {
	cfg            *FixGatewayConfig
	app            *Application
	engineInstance engine.IEngine

	requestMapping sync.Map
}

type FixGatewayConfig struct {
	ConfigFilepath string
}

func NewFixGateway(cfg *FixGatewayConfig) *FixGateway {
	return &FixGateway{
		cfg:            cfg,
		requestMapping: sync.Map{},
	}
}

func (s *FixGateway) AddEngineInstance(e engine.IEngine) {
	s.engineInstance = e
}

func (s *FixGateway) Start(ctx context.Context) error {
	app, err := startApp(s.cfg.ConfigFilepath, s)
	if err != nil {
		log.Printf("start app err=%v", err)
		return err
	}
	s.app = app
	return nil
}

func (s *FixGateway) Stop() {
	if s.app != nil {
		stopApp(s.app)
	}
}

func (s *FixGateway) AddOrder(ctx context.Context, newOrderSingle *NewOrderSingle) {
	orderType := map[enum.OrdType]model.OrderType{
		enum.OrdType_LIMIT:             model.OrderTypeLimit,
		enum.OrdType_MARKET:            model.OrderTypeMarket,
		enum.OrdType_STOP:              model.OrderTypeStopLoss,
		enum.OrdType_MARKET_IF_TOUCHED: model.OrderTypeTakeProfit,
	}[newOrderSingle.OrdType]

	// IOC and FOK ride on limit orders via TimeInForce
	if orderType == model.OrderTypeLimit {
		switch newOrderSingle.TimeInForce {
		case enum.TimeInForce_IMMEDIATE_OR_CANCEL:
			orderType = model.OrderTypeIOC
		case enum.TimeInForce_FILL_OR_KILL:
			orderType = model.OrderTypeFOK
		}
	}

	side := map[enum.Side]model.OrderSide{
		enum.Side_BUY:  model.OrderSideBuy,
		enum.Side_SELL: model.OrderSideSell,
	}[newOrderSingle.Side]

	s.AddRequestToMap(newOrderSingle.ClOrdID, newOrderSingle.SessionID)

	if err := s.engineInstance.AddOrder(ctx, &model.AddOrder{
		GatewayID:    newOrderSingle.ClOrdID,
		Account:      newOrderSingle.Account,
		Symbol:       newOrderSingle.Symbol,
		Type:         orderType,
		Price:        newOrderSingle.Price,
		StopPrice:    newOrderSingle.StopPx,
		Side:         side,
		TransactTime: newOrderSingle.TransactTime,
		Quantity:     newOrderSingle.OrderQty,
	}); err != nil {
		log.Printf("add order clOrdID=%s err=%v", newOrderSingle.ClOrdID, err)
	}
}

func (s *FixGateway) ModifyOrder(ctx context.Context, req *OrderCancelReplaceRequest) {
	s.AddRequestToMap(req.ClOrdID, req.SessionID)

	if err := s.engineInstance.ModifyOrder(ctx, &model.ModifyOrder{
		GatewayID:     req.ClOrdID,
		OrigGatewayID: req.OrigClOrdID,
		NewQuantity:   req.OrderQty,
	}); err != nil {
		log.Printf("modify order clOrdID=%s err=%v", req.ClOrdID, err)
	}
}

func (s *FixGateway) CancelOrder(ctx context.Context, orderCancelRequest *OrderCancelRequest) {
	s.AddRequestToMap(orderCancelRequest.ClOrdID, orderCancelRequest.SessionID)

	if err := s.engineInstance.CancelOrder(ctx, &model.CancelOrder{
		GatewayID:     orderCancelRequest.ClOrdID,
		OrigGatewayID: orderCancelRequest.OrigClOrdID,
	}); err != nil {
		log.Printf("cancel order clOrdID=%s err=%v", orderCancelRequest.ClOrdID, err)
	}
}

func (s *FixGateway) OnOrderReport(ctx context.Context, order model.Order) {
	sessionID, err := s.GetSessionByClOrdID(order.GatewayID)
	if err != nil {
		log.Printf("report orderID=%s has no session", order.OrderID)
		return
	}
	if err := sendExecutionReport(order, sessionID); err != nil {
		log.Printf("send report orderID=%s err=%v", order.OrderID, err)
	}
}

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	eventstore "github.com/joripage/matching-engine/pkg/engine/event_store"
	"github.com/joripage/matching-engine/pkg/engine/model"
	riskrule "github.com/joripage/matching-engine/pkg/engine/risk_rule"
	"github.com/joripage/matching-engine/pkg/metrics"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/joripage/matching-engine/pkg/ratelimit"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Config struct {
	Fees  *orderbook.FeeModel
	Rules []riskrule.RiskRule

	// orders per second per symbol, 0 disables throttling
	RateLimitPerSecond float64
	RateLimitBurst     int

	Metrics *metrics.EngineMetrics

	CleanInterval time.Duration
}

// Engine validates incoming requests, routes them to the per-symbol books
// and fans execution reports, trades and market data out to the gateway,
// the event store and the publishers.
type Engine struct {
	gateway    OrderGateway
	books      *orderbook.OrderBookManager
	eventstore eventstore.EventStore
	rules      []riskrule.RiskRule
	limiter    *ratelimit.SymbolLimiter
	metrics    *metrics.EngineMetrics

	tradePublisher      TradePublisher
	orderEventPublisher OrderEventPublisher
	marketDataPublisher MarketDataPublisher

	orderIDMapping sync.Map
	// conditional book orders still waiting for their trigger,
	// OrderID -> *orderbook.Order
	pendingConditionals sync.Map

	cleanInterval time.Duration
	stopCh        chan struct{}
}

func NewEngine(orderGateway OrderGateway, cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	books := orderbook.NewOrderBookManager(&orderbook.OrderBookManagerConfig{
		Fees: cfg.Fees,
	})

	var limiter *ratelimit.SymbolLimiter
	if cfg.RateLimitPerSecond > 0 {
		limiter = ratelimit.NewSymbolLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst)
	}

	cleanInterval := cfg.CleanInterval
	if cleanInterval == 0 {
		cleanInterval = time.Minute
	}

	e := &Engine{
		gateway:       orderGateway,
		books:         books,
		eventstore:    eventstore.NewInMemoryEventStore(),
		rules:         cfg.Rules,
		limiter:       limiter,
		metrics:       cfg.Metrics,
		cleanInterval: cleanInterval,
		stopCh:        make(chan struct{}),
	}

	books.RegisterBBOCallback(e.onBBO)

	return e
}

// SetTradePublisher must be called before Start.
func (s *Engine) SetTradePublisher(p TradePublisher) { s.tradePublisher = p }

// SetOrderEventPublisher must be called before Start.
func (s *Engine) SetOrderEventPublisher(p OrderEventPublisher) { s.orderEventPublisher = p }

// SetMarketDataPublisher must be called before Start.
func (s *Engine) SetMarketDataPublisher(p MarketDataPublisher) { s.marketDataPublisher = p }

func (s *Engine) Start(ctx context.Context) error {
	go s.startCleaner(s.cleanInterval)
	if s.gateway != nil {
		return s.gateway.Start(ctx)
	}
	return nil
}

func (s *Engine) Stop() {
	close(s.stopCh)
}

func (s *Engine) AddOrder(ctx context.Context, addOrder *model.AddOrder) error {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.OrdersReceived.WithLabelValues(addOrder.Symbol, string(addOrder.Type)).Inc()
	}

	if err := validateAddOrder(addOrder); err != nil {
		s.rejectAdd(ctx, addOrder, rejectReasonValidation, err.Error())
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if s.limiter != nil && !s.limiter.Allow(addOrder.Symbol) {
		s.rejectAdd(ctx, addOrder, rejectReasonThrottled, ErrThrottled.Error())
		return ErrThrottled
	}
	if s.eventstore.GetOrderID(addOrder.GatewayID) != "" {
		s.rejectAdd(ctx, addOrder, rejectReasonDuplicate, ErrDuplicateOrder.Error())
		return ErrDuplicateOrder
	}
	for _, rule := range s.rules {
		if err := rule.Check(addOrder); err != nil {
			s.rejectAdd(ctx, addOrder, rejectReasonRisk, err.Error())
			return fmt.Errorf("%w: %v", ErrRiskRejected, err)
		}
	}

	order := &model.Order{}
	order.UpdateAddOrder(addOrder)
	s.AddOrderToMap(order)

	bkOrder := &orderbook.Order{
		ID:        order.OrderID,
		Symbol:    order.Symbol,
		Side:      orderbook.Side(order.Side),
		Type:      orderbook.OrderType(order.Type),
		Price:     order.Price.InexactFloat64(),
		StopPrice: order.StopPrice.InexactFloat64(),
		Qty:       order.Quantity.InexactFloat64(),
	}

	trades, err := s.books.SubmitOrder(bkOrder)
	if err != nil {
		order.UpdateRejected(err.Error())
		s.recordAndReport(ctx, order)
		if s.metrics != nil {
			s.metrics.OrdersRejected.WithLabelValues(rejectReasonBook).Inc()
		}
		return err
	}

	// book accepted -> pending new becomes new / pending trigger
	order.UpdateAccepted()
	s.recordAndReport(ctx, order)
	if order.Status == model.OrderStatusPendingTrigger {
		s.pendingConditionals.Store(order.OrderID, bkOrder)
	}

	s.processTrades(ctx, trades)
	s.reconcileConditionals(ctx, order.Symbol)

	// IOC and market remainders cancel inside the book
	if bkOrder.Status == orderbook.StatusCanceled && !order.IsEnd() {
		order.UpdateCancelOrder(nil)
		s.recordAndReport(ctx, order)
	}

	s.updateGauges(order.Symbol)
	if s.metrics != nil {
		s.metrics.SubmitLatency.WithLabelValues(order.Symbol).Observe(time.Since(start).Seconds())
	}

	return nil
}

func (s *Engine) CancelOrder(ctx context.Context, cancelOrder *model.CancelOrder) error {
	orderID := s.eventstore.GetOrderID(cancelOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return ErrGatewayIDNotFound
	}

	if !order.CanCancel() {
		return ErrInvalidOrderStatus
	}

	if err := s.books.CancelOrder(order.Symbol, order.OrderID); err != nil {
		return err
	}
	s.pendingConditionals.Delete(order.OrderID)

	order.UpdateCancelOrder(cancelOrder)
	s.recordAndReport(ctx, order)

	if s.metrics != nil {
		s.metrics.OrdersCanceled.WithLabelValues(order.Symbol).Inc()
	}
	s.updateGauges(order.Symbol)

	return nil
}

func (s *Engine) ModifyOrder(ctx context.Context, modifyOrder *model.ModifyOrder) error {
	orderID := s.eventstore.GetOrderID(modifyOrder.OrigGatewayID)
	order, err := s.GetOrderByOrderID(orderID)
	if err != nil {
		return ErrGatewayIDNotFound
	}

	if !order.CanModify() {
		return ErrInvalidOrderStatus
	}

	newQty := modifyOrder.NewQuantity.InexactFloat64()
	if err := s.books.ReduceOrder(order.Symbol, order.OrderID, newQty); err != nil {
		return err
	}

	order.UpdateModifyOrder(modifyOrder)
	s.recordAndReport(ctx, order)
	s.updateGauges(order.Symbol)

	return nil
}

func (s *Engine) BBO(symbol string) orderbook.BBO {
	return s.books.BBO(symbol)
}

func (s *Engine) Depth(symbol string, levels int) (bids, asks []orderbook.DepthLevel) {
	return s.books.Depth(symbol, levels)
}

func (s *Engine) RecentTrades(symbol string, n int) []*model.Trade {
	return s.eventstore.RecentTrades(symbol, n)
}

func (s *Engine) processTrades(ctx context.Context, trades []*orderbook.Trade) {
	for _, tr := range trades {
		price := decimal.NewFromFloat(tr.Price)
		qty := decimal.NewFromFloat(tr.Qty)

		mtr := &model.Trade{
			TradeID:      tr.ID,
			Symbol:       tr.Symbol,
			Price:        price,
			Quantity:     qty,
			MakerOrderID: tr.MakerOrderID,
			TakerOrderID: tr.TakerOrderID,
			TakerSide:    model.OrderSide(tr.TakerSide),
			MakerFee:     tr.MakerFee,
			TakerFee:     tr.TakerFee,
			ExecutedAt:   tr.Timestamp,
		}
		s.eventstore.AddTrade(mtr)
		if s.tradePublisher != nil {
			if err := s.tradePublisher.PublishTrade(ctx, mtr); err != nil {
				zap.S().Warnf("publish trade %s fail: %v", mtr.TradeID, err)
			}
		}
		if s.metrics != nil {
			s.metrics.TradesExecuted.WithLabelValues(tr.Symbol).Inc()
			s.metrics.TradedVolume.WithLabelValues(tr.Symbol).Add(tr.Qty)
		}

		for _, orderID := range []string{tr.TakerOrderID, tr.MakerOrderID} {
			order, err := s.GetOrderByOrderID(orderID)
			if err != nil {
				zap.S().Warnf("trade %s references unknown order %s", tr.ID, orderID)
				continue
			}
			if order.Status == model.OrderStatusPendingTrigger {
				order.UpdateTriggered()
				s.recordAndReport(ctx, order)
			}
			order.UpdateFill(price, qty)
			s.recordAndReport(ctx, order)
		}
	}
}

// reconcileConditionals reports conditional orders whose promotion ended
// without a fill. A promoted market order with no liquidity cancels inside
// the book and produces no trade, so it is only visible here.
func (s *Engine) reconcileConditionals(ctx context.Context, symbol string) {
	s.pendingConditionals.Range(func(k, v any) bool {
		bkOrder := v.(*orderbook.Order)
		if bkOrder.Symbol != symbol || bkOrder.Status == orderbook.StatusPendingTrigger {
			return true
		}
		s.pendingConditionals.Delete(k)

		if bkOrder.Status != orderbook.StatusCanceled {
			return true
		}
		order, err := s.GetOrderByOrderID(bkOrder.ID)
		if err != nil || order.IsEnd() {
			return true
		}
		if order.Status == model.OrderStatusPendingTrigger {
			order.UpdateTriggered()
			s.recordAndReport(ctx, order)
		}
		order.UpdateCancelOrder(nil)
		s.recordAndReport(ctx, order)
		return true
	})
}

func (s *Engine) recordAndReport(ctx context.Context, order *model.Order) {
	bkOrder := *order
	ev := model.NewOrderEvent(bkOrder, time.Now())
	s.eventstore.AddEvent(ev)
	if s.orderEventPublisher != nil {
		if err := s.orderEventPublisher.PublishOrderEvent(ctx, ev); err != nil {
			zap.S().Warnf("publish order event %s fail: %v", ev.EventID, err)
		}
	}
	if s.gateway != nil {
		s.gateway.OnOrderReport(ctx, bkOrder)
	}
}

func (s *Engine) rejectAdd(ctx context.Context, addOrder *model.AddOrder, reason, text string) {
	order := &model.Order{}
	order.UpdateAddOrder(addOrder)
	order.UpdateRejected(text)
	s.AddOrderToMap(order)
	s.recordAndReport(ctx, order)

	if s.metrics != nil {
		s.metrics.OrdersRejected.WithLabelValues(reason).Inc()
	}
}

func (s *Engine) onBBO(b orderbook.BBO) {
	if s.marketDataPublisher == nil {
		return
	}
	md := &model.MarketDataUpdate{
		Symbol:    b.Symbol,
		BidPrice:  b.BidPrice,
		BidQty:    b.BidQty,
		AskPrice:  b.AskPrice,
		AskQty:    b.AskQty,
		HasBid:    b.HasBid,
		HasAsk:    b.HasAsk,
		Timestamp: time.Now(),
	}
	if err := s.marketDataPublisher.PublishMarketData(context.Background(), md); err != nil {
		zap.S().Warnf("publish market data %s fail: %v", md.Symbol, err)
	}
}

func (s *Engine) updateGauges(symbol string) {
	if s.metrics == nil {
		return
	}
	s.metrics.RestingOrders.WithLabelValues(symbol).Set(float64(s.books.OrderCount(symbol)))
	s.metrics.PendingStops.WithLabelValues(symbol).Set(float64(s.books.ConditionalCount(symbol)))
}

func validateAddOrder(addOrder *model.AddOrder) error {
	if addOrder.GatewayID == "" {
		return fmt.Errorf("missing gatewayID")
	}
	if addOrder.Symbol == "" {
		return fmt.Errorf("missing symbol")
	}
	if addOrder.Side != model.OrderSideBuy && addOrder.Side != model.OrderSideSell {
		return fmt.Errorf("invalid side %q", addOrder.Side)
	}
	if addOrder.Quantity.Sign() <= 0 {
		return fmt.Errorf("quantity must be positive")
	}

	switch addOrder.Type {
	case model.OrderTypeLimit, model.OrderTypeIOC, model.OrderTypeFOK:
		if addOrder.Price.Sign() <= 0 {
			return fmt.Errorf("%s order needs a positive price", addOrder.Type)
		}
	case model.OrderTypeMarket:
	case model.OrderTypeStopLoss, model.OrderTypeTakeProfit:
		if addOrder.StopPrice.Sign() <= 0 {
			return fmt.Errorf("%s order needs a positive stop price", addOrder.Type)
		}
	default:
		return fmt.Errorf("invalid order type %q", addOrder.Type)
	}
	return nil
}

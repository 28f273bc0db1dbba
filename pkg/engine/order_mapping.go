package engine

import (
	"time"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

func (s *Engine) AddOrderToMap(order *model.Order) {
	s.orderIDMapping.Store(order.OrderID, order)
}

func (s *Engine) GetOrderByOrderID(orderID string) (*model.Order, error) {
	var order any
	var ok bool
	if order, ok = s.orderIDMapping.Load(orderID); !ok {
		return nil, ErrOrderNotFound
	}

	return order.(*model.Order), nil
}

func (s *Engine) DeleteOrderByOrderID(orderID string) {
	s.orderIDMapping.Delete(orderID)
}

func (s *Engine) startCleaner(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup drops terminal orders from the in-memory maps. Their history
// already lives in the event store and the persistence pipeline.
func (s *Engine) cleanup() {
	s.orderIDMapping.Range(func(k, v any) bool {
		order := v.(*model.Order)
		if order.IsEnd() {
			s.DeleteOrderByOrderID(order.OrderID)
			s.eventstore.DeleteChainByOrderID(order.OrderID)
			s.pendingConditionals.Delete(order.OrderID)
		}
		return true
	})
}

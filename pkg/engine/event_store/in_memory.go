package eventstore

import (
	"sync"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

// recentTradeCap bounds the per-symbol trade history kept in memory.
const recentTradeCap = 1000

type InMemoryEventStore struct {
	mu              sync.RWMutex
	orders          map[string][]*model.OrderEvent
	latestGatewayID map[string]string // OrderID -> current GatewayID
	gatewayChain    map[string]string // GatewayID -> OrigGatewayID
	gatewayToOrder  map[string]string // GatewayID -> OrderID
	trades          map[string][]*model.Trade
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		orders:          make(map[string][]*model.OrderEvent),
		latestGatewayID: make(map[string]string),
		gatewayChain:    make(map[string]string),
		gatewayToOrder:  make(map[string]string),
		trades:          make(map[string][]*model.Trade),
	}
}

func (s *InMemoryEventStore) AddEvent(ev *model.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders[ev.OrderID] = append(s.orders[ev.OrderID], ev)
	s.trackGatewayIDLocked(ev.OrderID, ev.GatewayID, ev.OrigGatewayID)
}

func (s *InMemoryEventStore) AddTrade(tr *model.Trade) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.trades[tr.Symbol], tr)
	if len(history) > recentTradeCap {
		history = history[len(history)-recentTradeCap:]
	}
	s.trades[tr.Symbol] = history
}

// TrackGatewayID updates the chain between GatewayID and OrigGatewayID.
func (s *InMemoryEventStore) TrackGatewayID(orderID, gatewayID, origGatewayID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.trackGatewayIDLocked(orderID, gatewayID, origGatewayID)
}

func (s *InMemoryEventStore) trackGatewayIDLocked(orderID, gatewayID, origGatewayID string) {
	s.latestGatewayID[orderID] = gatewayID
	// first writer wins so a rejected duplicate cannot steal the mapping
	if _, exists := s.gatewayToOrder[gatewayID]; !exists {
		s.gatewayToOrder[gatewayID] = orderID
	}
	if origGatewayID != "" {
		s.gatewayChain[gatewayID] = origGatewayID
	}
}

func (s *InMemoryEventStore) GetOrderID(gatewayID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.gatewayToOrder[gatewayID]
}

func (s *InMemoryEventStore) GetLatestGatewayID(orderID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.latestGatewayID[orderID]
}

// ReconstructChain walks backward to get the full chain of gateway IDs.
func (s *InMemoryEventStore) ReconstructChain(gatewayID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var chain []string
	curr := gatewayID
	for curr != "" {
		chain = append(chain, curr)
		curr = s.gatewayChain[curr]
	}
	return chain
}

func (s *InMemoryEventStore) Events(orderID string) []*model.OrderEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	evs := s.orders[orderID]
	out := make([]*model.OrderEvent, len(evs))
	copy(out, evs)
	return out
}

// RecentTrades returns up to n trades for the symbol, newest last.
func (s *InMemoryEventStore) RecentTrades(symbol string, n int) []*model.Trade {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.trades[symbol]
	if n <= 0 || n > len(history) {
		n = len(history)
	}
	out := make([]*model.Trade, n)
	copy(out, history[len(history)-n:])
	return out
}

func (s *InMemoryEventStore) DeleteChainByOrderID(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	curr := s.latestGatewayID[orderID]
	for curr != "" {
		next := s.gatewayChain[curr]
		delete(s.gatewayChain, curr)
		delete(s.gatewayToOrder, curr)
		curr = next
	}
	delete(s.latestGatewayID, orderID)
	delete(s.orders, orderID)
}

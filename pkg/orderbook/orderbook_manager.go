package orderbook

import "sync"

type OrderBookManagerConfig struct {
	Fees *FeeModel
}

// OrderBookManager shards books by symbol. Books are independent: commands
// for different symbols run concurrently, commands for one symbol serialize
// on that book's mutex.
type OrderBookManager struct {
	books          sync.Map
	fees           *FeeModel
	tradeCallbacks []func([]*Trade)
	bboCallbacks   []func(BBO)
	mu             sync.Mutex
}

func NewOrderBookManager(cfg *OrderBookManagerConfig) *OrderBookManager {
	fees := cfg.Fees
	if fees == nil {
		fees = NewFeeModel(DefaultFeeSchedule())
	}
	return &OrderBookManager{fees: fees}
}

// SubmitOrder routes an order to its symbol book and returns the trades it
// produced, including trades from cascaded trigger promotions.
func (s *OrderBookManager) SubmitOrder(order *Order) ([]*Trade, error) {
	return s.getOrCreateBook(order.Symbol).submitOrder(order)
}

func (s *OrderBookManager) CancelOrder(symbol, orderID string) error {
	return s.getOrCreateBook(symbol).cancelOrder(orderID)
}

// ReduceOrder lowers a resting order's remaining quantity. Reduction is the
// only supported modification; it never changes queue position.
func (s *OrderBookManager) ReduceOrder(symbol, orderID string, newQty float64) error {
	return s.getOrCreateBook(symbol).reduceOrder(orderID, newQty)
}

func (s *OrderBookManager) BBO(symbol string) BBO {
	return s.getOrCreateBook(symbol).bbo()
}

func (s *OrderBookManager) Depth(symbol string, levels int) (bids, asks []DepthLevel) {
	return s.getOrCreateBook(symbol).depth(levels)
}

func (s *OrderBookManager) OrderCount(symbol string) int {
	return s.getOrCreateBook(symbol).orderCount()
}

func (s *OrderBookManager) ConditionalCount(symbol string) int {
	return s.getOrCreateBook(symbol).conditionalCount()
}

func (s *OrderBookManager) RegisterTradeCallback(cb func([]*Trade)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tradeCallbacks = append(s.tradeCallbacks, cb)

	// apply callback to all existing books
	s.books.Range(func(_, v any) bool {
		v.(*orderBook).registerTradeCallback(cb)
		return true
	})
}

func (s *OrderBookManager) RegisterBBOCallback(cb func(BBO)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bboCallbacks = append(s.bboCallbacks, cb)

	s.books.Range(func(_, v any) bool {
		v.(*orderBook).registerBBOCallback(cb)
		return true
	})
}

func (s *OrderBookManager) getOrCreateBook(symbol string) *orderBook {
	if val, ok := s.books.Load(symbol); ok {
		return val.(*orderBook)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if val, ok := s.books.Load(symbol); ok {
		return val.(*orderBook)
	}

	book := newOrderBook(symbol, s.fees)
	for _, cb := range s.tradeCallbacks {
		book.registerTradeCallback(cb)
	}
	for _, cb := range s.bboCallbacks {
		book.registerBBOCallback(cb)
	}
	s.books.Store(symbol, book)
	return book
}

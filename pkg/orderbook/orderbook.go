package orderbook

import (
	"container/heap"
	"sort"
	"sync"
)

// orderBook owns every mutable structure for one symbol: the two ladders, the
// order registry and the conditional set. All mutations run under one mutex;
// a submission and the full trigger cascade it causes are atomic from the
// outside.
type orderBook struct {
	symbol string

	buyLevels  map[float64]*priceLevel
	sellLevels map[float64]*priceLevel

	buyHeap  *PriceHeap
	sellHeap *PriceHeap

	orders       map[string]*Order // registry: resting + pending-trigger orders
	conditionals *conditionalSet

	fees *FeeModel
	seq  uint64

	lastBBO      BBO
	bboPublished bool

	tradeCallbacks []func([]*Trade)
	bboCallbacks   []func(BBO)

	mu sync.Mutex
}

func newOrderBook(symbol string, fees *FeeModel) *orderBook {
	buyHeap := NewPriceHeap(func(i, j float64) bool { return i > j })  // Max-heap
	sellHeap := NewPriceHeap(func(i, j float64) bool { return i < j }) // Min-heap

	return &orderBook{
		symbol:       symbol,
		buyLevels:    make(map[float64]*priceLevel),
		sellLevels:   make(map[float64]*priceLevel),
		buyHeap:      buyHeap,
		sellHeap:     sellHeap,
		orders:       make(map[string]*Order),
		conditionals: newConditionalSet(),
		fees:         fees,
	}
}

func (ob *orderBook) registerTradeCallback(fn func([]*Trade)) {
	ob.tradeCallbacks = append(ob.tradeCallbacks, fn)
}

func (ob *orderBook) registerBBOCallback(fn func(BBO)) {
	ob.bboCallbacks = append(ob.bboCallbacks, fn)
}

// submitOrder validates and executes an incoming order, including any trigger
// cascade it sets off. Trades and BBO changes are delivered to callbacks
// before the call returns.
func (ob *orderBook) submitOrder(order *Order) ([]*Trade, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	if err := ob.validate(order); err != nil {
		order.Status = StatusRejected
		return nil, err
	}

	ob.seq++
	order.Seq = ob.seq
	order.LeavesQty = order.Qty
	order.Status = StatusNew

	if order.isConditional() {
		order.Status = StatusPendingTrigger
		ob.orders[order.ID] = order
		ob.conditionals.add(order)
		return nil, nil
	}

	trades, err := ob.executeWithCascade(order)
	if err != nil {
		return nil, err
	}

	if len(trades) > 0 {
		for _, cb := range ob.tradeCallbacks {
			cb(trades)
		}
	}
	ob.publishBBOIfChanged()

	return trades, nil
}

func (ob *orderBook) validate(order *Order) error {
	if order.ID == "" || order.Qty <= 0 {
		return ErrInvalidOrder
	}
	if _, exists := ob.orders[order.ID]; exists {
		return ErrDuplicateOrderID
	}
	if order.needsPrice() && order.Price <= 0 {
		return ErrInvalidOrder
	}
	if order.isConditional() && order.StopPrice <= 0 {
		return ErrInvalidOrder
	}
	return nil
}

// executeWithCascade runs the matching algorithm for the order, then drains
// the trigger work queue to a fixed point: every trade price is checked
// against the conditional set and each fired order is promoted to a market
// order in the same logical step.
func (ob *orderBook) executeWithCascade(order *Order) ([]*Trade, error) {
	trades, err := ob.execute(order)
	if err != nil {
		return nil, err
	}

	pending := ob.firedBy(trades)
	for len(pending) > 0 {
		next := pending[0]
		pending = pending[1:]

		next.Status = StatusTriggered
		delete(ob.orders, next.ID)

		// Promoted as a market order in the original side/quantity.
		more := ob.executeMarket(next)
		trades = append(trades, more...)
		pending = append(pending, ob.firedBy(more)...)
	}

	return trades, nil
}

func (ob *orderBook) firedBy(trades []*Trade) []*Order {
	var fired []*Order
	for _, t := range trades {
		fired = append(fired, ob.conditionals.collect(t.Price)...)
	}
	return fired
}

func (ob *orderBook) execute(order *Order) ([]*Trade, error) {
	switch order.Type {
	case MARKET:
		return ob.executeMarket(order), nil
	case LIMIT:
		return ob.executeLimit(order), nil
	case IOC:
		return ob.executeIOC(order), nil
	case FOK:
		return ob.executeFOK(order)
	default:
		return nil, ErrInvalidOrder
	}
}

// cancelOrder removes an order from the book or the conditional set.
// Cancelling an already-terminal order reports ErrUnknownOrder.
func (ob *orderBook) cancelOrder(orderID string) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return ErrUnknownOrder
	}

	if order.Status == StatusPendingTrigger {
		ob.conditionals.remove(order)
	} else {
		level := ob.levelOf(order)
		level.tombstone(order)
		if level.empty() {
			ob.dropLevel(order.Side, order.Price)
		}
	}

	order.Status = StatusCanceled
	delete(ob.orders, orderID)

	ob.publishBBOIfChanged()
	return nil
}

// reduceOrder shrinks a resting order's remaining quantity in place. Only a
// strict reduction is allowed; the order keeps its time priority.
func (ob *orderBook) reduceOrder(orderID string, newQty float64) error {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	order, ok := ob.orders[orderID]
	if !ok {
		return ErrUnknownOrder
	}
	if order.Status == StatusPendingTrigger {
		return ErrInvalidModification
	}
	if newQty <= 0 || newQty >= order.LeavesQty {
		return ErrInvalidModification
	}

	ob.levelOf(order).reduce(order, newQty)

	ob.publishBBOIfChanged()
	return nil
}

func (ob *orderBook) levelOf(order *Order) *priceLevel {
	if order.Side == BUY {
		return ob.buyLevels[order.Price]
	}
	return ob.sellLevels[order.Price]
}

func (ob *orderBook) dropLevel(side Side, price float64) {
	if side == BUY {
		delete(ob.buyLevels, price)
	} else {
		delete(ob.sellLevels, price)
	}
	// The heap entry is cleaned up lazily by bestLevel.
}

// bestLevel returns the best live level on a side, popping heap entries whose
// level no longer exists.
func (ob *orderBook) bestLevel(side Side) (*priceLevel, bool) {
	levels, priceHeap := ob.sideOf(side)
	for {
		price, ok := priceHeap.Peek()
		if !ok {
			return nil, false
		}
		level, exists := levels[price]
		if !exists || level.empty() {
			heap.Pop(priceHeap)
			delete(levels, price)
			continue
		}
		return level, true
	}
}

func (ob *orderBook) sideOf(side Side) (map[float64]*priceLevel, *PriceHeap) {
	if side == BUY {
		return ob.buyLevels, ob.buyHeap
	}
	return ob.sellLevels, ob.sellHeap
}

func (ob *orderBook) addToBook(order *Order) {
	levels, priceHeap := ob.sideOf(order.Side)
	level, ok := levels[order.Price]
	if !ok {
		level = newPriceLevel(order.Price)
		levels[order.Price] = level
		heap.Push(priceHeap, order.Price)
	}
	level.append(order)
	ob.orders[order.ID] = order
}

func (ob *orderBook) bbo() BBO {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.bboLocked()
}

func (ob *orderBook) bboLocked() BBO {
	b := BBO{Symbol: ob.symbol}
	if level, ok := ob.bestLevel(BUY); ok {
		b.HasBid = true
		b.BidPrice = level.price
		b.BidQty = level.totalQty
	}
	if level, ok := ob.bestLevel(SELL); ok {
		b.HasAsk = true
		b.AskPrice = level.price
		b.AskQty = level.totalQty
	}
	return b
}

// publishBBOIfChanged emits a BBO event only when the observable top of book
// actually changed since the last publication.
func (ob *orderBook) publishBBOIfChanged() {
	current := ob.bboLocked()
	if ob.bboPublished && current.equal(ob.lastBBO) {
		return
	}
	ob.lastBBO = current
	ob.bboPublished = true
	for _, cb := range ob.bboCallbacks {
		cb(current)
	}
}

// depth returns up to n aggregated levels per side, bids high to low and asks
// low to high.
func (ob *orderBook) depth(n int) (bids, asks []DepthLevel) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	collect := func(levels map[float64]*priceLevel, descending bool) []DepthLevel {
		prices := make([]float64, 0, len(levels))
		for price, level := range levels {
			if !level.empty() {
				prices = append(prices, price)
			}
		}
		if descending {
			sort.Sort(sort.Reverse(sort.Float64Slice(prices)))
		} else {
			sort.Float64s(prices)
		}
		if n > 0 && len(prices) > n {
			prices = prices[:n]
		}
		out := make([]DepthLevel, 0, len(prices))
		for _, price := range prices {
			out = append(out, DepthLevel{Price: price, Qty: levels[price].totalQty})
		}
		return out
	}

	return collect(ob.buyLevels, true), collect(ob.sellLevels, false)
}

func (ob *orderBook) orderCount() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return len(ob.orders)
}

func (ob *orderBook) conditionalCount() int {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.conditionals.size()
}

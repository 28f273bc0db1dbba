package orderbook

import "github.com/gammazero/deque"

// priceLevel is one rung of the ladder: a FIFO queue of resting orders at a
// single price plus the aggregate remaining quantity of its live members.
// Cancelled orders stay in the queue as tombstones until they surface at the
// front; totalQty and liveCount are adjusted eagerly so both are always exact.
type priceLevel struct {
	price     float64
	queue     deque.Deque[*Order]
	totalQty  float64
	liveCount int
}

func newPriceLevel(price float64) *priceLevel {
	return &priceLevel{price: price}
}

func (l *priceLevel) append(o *Order) {
	l.queue.PushBack(o)
	l.totalQty += o.LeavesQty
	l.liveCount++
}

// front returns the first live order, compacting leading tombstones.
func (l *priceLevel) front() (*Order, bool) {
	for l.queue.Len() > 0 {
		o := l.queue.Front()
		if !o.canceled {
			return o, true
		}
		l.queue.PopFront()
	}
	return nil, false
}

func (l *priceLevel) popFront() {
	o := l.queue.PopFront()
	if !o.canceled {
		l.liveCount--
	}
}

// consume reduces the front order's remaining quantity after a fill.
func (l *priceLevel) consume(o *Order, qty float64) {
	o.LeavesQty -= qty
	l.totalQty -= qty
}

// tombstone marks a resting order cancelled without touching its queue slot.
func (l *priceLevel) tombstone(o *Order) {
	o.canceled = true
	l.totalQty -= o.LeavesQty
	l.liveCount--
}

// reduce shrinks a resting order's remaining quantity in place. The order
// keeps its queue position, only the aggregate changes.
func (l *priceLevel) reduce(o *Order, newQty float64) {
	l.totalQty -= o.LeavesQty - newQty
	o.LeavesQty = newQty
}

func (l *priceLevel) empty() bool {
	return l.liveCount == 0
}

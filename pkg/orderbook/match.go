package orderbook

import (
	"time"

	"github.com/google/uuid"
)

// The matching procedures below all run with the book mutex held.

func opposite(side Side) Side {
	if side == BUY {
		return SELL
	}
	return BUY
}

func (ob *orderBook) marketableAgainst(order *Order) func(bookPrice float64) bool {
	if order.Side == BUY {
		return func(bookPrice float64) bool { return bookPrice <= order.Price }
	}
	return func(bookPrice float64) bool { return bookPrice >= order.Price }
}

func (ob *orderBook) executeLimit(order *Order) []*Trade {
	trades := ob.matchOrder(order, ob.marketableAgainst(order))

	if order.LeavesQty == 0 {
		order.Status = StatusFilled
		return trades
	}

	// Remainder rests at the tail of its level.
	if len(trades) > 0 {
		order.Status = StatusPartiallyFilled
	}
	ob.addToBook(order)
	return trades
}

func (ob *orderBook) executeMarket(order *Order) []*Trade {
	trades := ob.matchOrder(order, func(float64) bool { return true })
	ob.cancelRemainder(order)
	return trades
}

func (ob *orderBook) executeIOC(order *Order) []*Trade {
	trades := ob.matchOrder(order, ob.marketableAgainst(order))
	ob.cancelRemainder(order)
	return trades
}

// executeFOK simulates the limit consumption first and rejects the whole
// order when it cannot fill completely; no state is touched on rejection.
func (ob *orderBook) executeFOK(order *Order) ([]*Trade, error) {
	if ob.fillableQty(order) < order.Qty {
		order.Status = StatusRejected
		return nil, ErrInsufficientLiquidity
	}
	trades := ob.matchOrder(order, ob.marketableAgainst(order))
	order.Status = StatusFilled
	return trades, nil
}

// fillableQty is the dry run of the consumption loop: the quantity available
// at or better than the order's limit price, using level aggregates only.
func (ob *orderBook) fillableQty(order *Order) float64 {
	levels, _ := ob.sideOf(opposite(order.Side))
	marketable := ob.marketableAgainst(order)

	var available float64
	for price, level := range levels {
		if !marketable(price) || level.empty() {
			continue
		}
		available += level.totalQty
		if available >= order.Qty {
			break
		}
	}
	return available
}

// matchOrder consumes the opposing ladder best price first, FIFO within each
// level, until the incoming order is exhausted or no marketable liquidity
// remains. Each fill trades at the resting (maker) order's price.
func (ob *orderBook) matchOrder(order *Order, marketable func(bookPrice float64) bool) []*Trade {
	var trades []*Trade

	for order.LeavesQty > 0 {
		level, ok := ob.bestLevel(opposite(order.Side))
		if !ok || !marketable(level.price) {
			break
		}

		maker, ok := level.front()
		if !ok {
			// bestLevel guarantees a live order; reaching here is a defect.
			panic("orderbook: level with no live orders")
		}

		qty := order.LeavesQty
		if maker.LeavesQty < qty {
			qty = maker.LeavesQty
		}

		trade := &Trade{
			ID:           uuid.NewString(),
			Symbol:       ob.symbol,
			Price:        level.price,
			Qty:          qty,
			MakerOrderID: maker.ID,
			TakerOrderID: order.ID,
			TakerSide:    order.Side,
			Timestamp:    time.Now(),
		}
		ob.fees.ApplyFees(trade)
		trades = append(trades, trade)

		level.consume(maker, qty)
		order.LeavesQty -= qty

		if maker.LeavesQty == 0 {
			maker.Status = StatusFilled
			level.popFront()
			delete(ob.orders, maker.ID)
			if level.empty() {
				ob.dropLevel(opposite(order.Side), level.price)
			}
		} else {
			maker.Status = StatusPartiallyFilled
		}
	}

	if order.LeavesQty < order.Qty && order.LeavesQty > 0 {
		order.Status = StatusPartiallyFilled
	}
	return trades
}

// cancelRemainder finishes a MARKET or IOC order: any unfilled remainder is
// cancelled, never rested.
func (ob *orderBook) cancelRemainder(order *Order) {
	if order.LeavesQty == 0 {
		order.Status = StatusFilled
		return
	}
	order.Status = StatusCanceled
}

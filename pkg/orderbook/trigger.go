package orderbook

import "sort"

// conditionalSet holds stop-loss and take-profit orders outside the ladder
// until a trade price satisfies their trigger.
//
// Two collections by trigger direction:
//   - triggerDown: stop-loss sells and take-profit sells, fire when the last
//     trade price is at or below the stop price
//   - triggerUp: stop-loss buys and take-profit buys, fire when the last
//     trade price is at or above the stop price
type conditionalSet struct {
	triggerDown map[string]*Order
	triggerUp   map[string]*Order
}

func newConditionalSet() *conditionalSet {
	return &conditionalSet{
		triggerDown: make(map[string]*Order),
		triggerUp:   make(map[string]*Order),
	}
}

func (cs *conditionalSet) add(o *Order) {
	if triggersDown(o) {
		cs.triggerDown[o.ID] = o
	} else {
		cs.triggerUp[o.ID] = o
	}
}

func (cs *conditionalSet) remove(o *Order) {
	delete(cs.triggerDown, o.ID)
	delete(cs.triggerUp, o.ID)
}

func (cs *conditionalSet) size() int {
	return len(cs.triggerDown) + len(cs.triggerUp)
}

// collect removes and returns every order whose trigger is satisfied by the
// given trade price, most aggressive trigger first: highest stop first for
// downward triggers, lowest stop first for upward ones, so the promotions
// most likely to cascade run before the rest.
func (cs *conditionalSet) collect(tradePrice float64) []*Order {
	var fired []*Order
	for _, o := range cs.triggerDown {
		if tradePrice <= o.StopPrice {
			fired = append(fired, o)
			delete(cs.triggerDown, o.ID)
		}
	}
	sort.Slice(fired, func(i, j int) bool {
		if fired[i].StopPrice != fired[j].StopPrice {
			return fired[i].StopPrice > fired[j].StopPrice
		}
		return fired[i].Seq < fired[j].Seq
	})

	n := len(fired)
	for _, o := range cs.triggerUp {
		if tradePrice >= o.StopPrice {
			fired = append(fired, o)
			delete(cs.triggerUp, o.ID)
		}
	}
	up := fired[n:]
	sort.Slice(up, func(i, j int) bool {
		if up[i].StopPrice != up[j].StopPrice {
			return up[i].StopPrice < up[j].StopPrice
		}
		return up[i].Seq < up[j].Seq
	})

	return fired
}

func triggersDown(o *Order) bool {
	return (o.Type == STOP_LOSS && o.Side == SELL) ||
		(o.Type == TAKE_PROFIT && o.Side == SELL)
}

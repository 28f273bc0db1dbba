package orderbook

import "testing"

func TestStopLossSellTriggers(t *testing.T) {
	ob := newTestBook("BTC-USD")

	stop := &Order{ID: "ST1", Side: SELL, Qty: 1.0, Type: STOP_LOSS, StopPrice: 49500}
	ob.submitOrder(stop)
	if stop.Status != StatusPendingTrigger {
		t.Fatalf("expected PENDING_TRIGGER, got %s", stop.Status)
	}

	// liquidity for the promoted market sell
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49400, Qty: 2.0, Type: LIMIT})

	// a trade at 49500 fires the stop
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 49500, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B2", Side: BUY, Price: 49500, Qty: 1.0, Type: LIMIT})

	if stop.Status != StatusFilled {
		t.Fatalf("stop should be promoted and filled, got %s", stop.Status)
	}
	if ob.conditionalCount() != 0 {
		t.Errorf("conditional set should be empty after trigger")
	}
	verifyAggregates(t, ob)
}

func TestStopLossNotTriggeredAbove(t *testing.T) {
	ob := newTestBook("BTC-USD")

	stop := &Order{ID: "ST1", Side: SELL, Qty: 1.0, Type: STOP_LOSS, StopPrice: 49500}
	ob.submitOrder(stop)

	// trade above the stop price must not fire it
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 49600, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49600, Qty: 1.0, Type: LIMIT})

	if stop.Status != StatusPendingTrigger {
		t.Fatalf("stop must stay pending, got %s", stop.Status)
	}
	if ob.conditionalCount() != 1 {
		t.Errorf("conditional set should still hold the stop")
	}
}

func TestTakeProfitBuyTriggers(t *testing.T) {
	ob := newTestBook("BTC-USD")

	tp := &Order{ID: "TP1", Side: BUY, Qty: 1.0, Type: TAKE_PROFIT, StopPrice: 50500}
	ob.submitOrder(tp)

	// ask liquidity for the promoted market buy
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 50600, Qty: 2.0, Type: LIMIT})

	// a trade at the target fires the take-profit
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 50500, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 50500, Qty: 1.0, Type: IOC})

	if tp.Status != StatusFilled {
		t.Fatalf("take-profit should be promoted and filled, got %s", tp.Status)
	}
}

func TestTriggeredMarketWithNoLiquidityCancels(t *testing.T) {
	ob := newTestBook("BTC-USD")

	stop := &Order{ID: "ST1", Side: SELL, Qty: 5.0, Type: STOP_LOSS, StopPrice: 49500}
	ob.submitOrder(stop)

	// only enough bid liquidity to produce the triggering trade itself
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 49500, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49500, Qty: 1.0, Type: LIMIT})

	if stop.Status != StatusCanceled {
		t.Fatalf("promoted market sell with no liquidity must cancel its remainder, got %s", stop.Status)
	}
}

func TestTriggerCascade(t *testing.T) {
	ob := newTestBook("BTC-USD")

	// two stops stacked so the first promotion trades down through the second
	ob.submitOrder(&Order{ID: "ST1", Side: SELL, Qty: 1.0, Type: STOP_LOSS, StopPrice: 49500})
	ob.submitOrder(&Order{ID: "ST2", Side: SELL, Qty: 1.0, Type: STOP_LOSS, StopPrice: 49400})

	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49400, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B2", Side: BUY, Price: 49300, Qty: 1.0, Type: LIMIT})

	var all []*Trade
	ob.registerTradeCallback(func(trades []*Trade) {
		all = append(all, trades...)
	})

	// trade at 49500: fires ST1, whose fill at 49400 fires ST2, which fills at 49300
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 49500, Qty: 1.0, Type: LIMIT})
	trades, _ := ob.submitOrder(&Order{ID: "B3", Side: BUY, Price: 49500, Qty: 1.0, Type: LIMIT})

	if len(trades) != 3 {
		t.Fatalf("expected originating trade plus 2 cascaded fills, got %d", len(trades))
	}
	if trades[0].Price != 49500 || trades[1].Price != 49400 || trades[2].Price != 49300 {
		t.Errorf("unexpected cascade prices: %v %v %v", trades[0].Price, trades[1].Price, trades[2].Price)
	}
	if trades[1].TakerOrderID != "ST1" || trades[2].TakerOrderID != "ST2" {
		t.Errorf("cascaded trades must carry the promoted order as taker: %+v", trades)
	}

	// the whole cascade is delivered before submitOrder returns
	if len(all) != 3 {
		t.Errorf("expected all 3 trades via callback, got %d", len(all))
	}
	if ob.conditionalCount() != 0 {
		t.Errorf("conditional set should be drained")
	}
	verifyAggregates(t, ob)
}

func TestTriggerOrderingMostAggressiveFirst(t *testing.T) {
	cs := newConditionalSet()

	cs.add(&Order{ID: "A", Side: SELL, Type: STOP_LOSS, StopPrice: 49300, Seq: 1})
	cs.add(&Order{ID: "B", Side: SELL, Type: STOP_LOSS, StopPrice: 49500, Seq: 2})
	cs.add(&Order{ID: "C", Side: SELL, Type: STOP_LOSS, StopPrice: 49400, Seq: 3})

	fired := cs.collect(49300)
	if len(fired) != 3 {
		t.Fatalf("expected all 3 fired, got %d", len(fired))
	}
	if fired[0].ID != "B" || fired[1].ID != "C" || fired[2].ID != "A" {
		t.Errorf("expected highest stop first for downward triggers, got %s %s %s",
			fired[0].ID, fired[1].ID, fired[2].ID)
	}
}

func TestStopLossBuyAndTakeProfitSell(t *testing.T) {
	ob := newTestBook("BTC-USD")

	slBuy := &Order{ID: "SLB", Side: BUY, Qty: 1.0, Type: STOP_LOSS, StopPrice: 50500}
	tpSell := &Order{ID: "TPS", Side: SELL, Qty: 1.0, Type: TAKE_PROFIT, StopPrice: 49500}
	ob.submitOrder(slBuy)
	ob.submitOrder(tpSell)

	// a trade at 50000 satisfies neither side
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 50000, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 50000, Qty: 1.0, Type: LIMIT})

	if slBuy.Status != StatusPendingTrigger || tpSell.Status != StatusPendingTrigger {
		t.Fatalf("neither conditional should fire at 50000: %s / %s", slBuy.Status, tpSell.Status)
	}

	// a trade at 50500 fires the stop-loss buy only
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 50500, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B2", Side: BUY, Price: 50500, Qty: 1.0, Type: LIMIT})

	if slBuy.Status == StatusPendingTrigger {
		t.Errorf("stop-loss buy should fire at or above its stop price")
	}
	if tpSell.Status != StatusPendingTrigger {
		t.Errorf("take-profit sell must not fire above its stop price")
	}
}

package orderbook

import "testing"

func TestBBOSuppressedForNonTopMutation(t *testing.T) {
	ob := newTestBook("BTC-USD")

	var events []BBO
	ob.registerBBOCallback(func(b BBO) {
		events = append(events, b)
	})

	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT})
	n := len(events)
	if n == 0 {
		t.Fatal("expected a BBO event for the first bid")
	}

	// a deeper bid does not change the top of book
	ob.submitOrder(&Order{ID: "B2", Side: BUY, Price: 99, Qty: 10, Type: LIMIT})
	if len(events) != n {
		t.Errorf("expected no BBO event for a non-top insert, got %d extra", len(events)-n)
	}

	// cancelling the deep bid is silent too
	ob.cancelOrder("B2")
	if len(events) != n {
		t.Errorf("expected no BBO event for a non-top cancel")
	}

	// a better bid changes the top
	ob.submitOrder(&Order{ID: "B3", Side: BUY, Price: 101, Qty: 5, Type: LIMIT})
	if len(events) != n+1 {
		t.Fatalf("expected a BBO event for a new best bid")
	}
	last := events[len(events)-1]
	if last.BidPrice != 101 || last.BidQty != 5 {
		t.Errorf("unexpected BBO %+v", last)
	}
}

func TestBBOQuantityChangeAtTopPublishes(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT})

	var events []BBO
	ob.registerBBOCallback(func(b BBO) {
		events = append(events, b)
	})

	// same price, bigger aggregate: observable top changed
	ob.submitOrder(&Order{ID: "B2", Side: BUY, Price: 100, Qty: 5, Type: LIMIT})
	if len(events) != 1 {
		t.Fatalf("expected 1 BBO event, got %d", len(events))
	}
	if events[0].BidPrice != 100 || events[0].BidQty != 15 {
		t.Errorf("unexpected BBO %+v", events[0])
	}

	// reduction at the top publishes as well
	ob.reduceOrder("B1", 4)
	if len(events) != 2 || events[1].BidQty != 9 {
		t.Fatalf("expected BBO event with qty 9 after reduce, got %+v", events)
	}
}

func TestBBOAfterLevelConsumed(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 50000, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 50100, Qty: 0.5, Type: LIMIT})

	ob.submitOrder(&Order{ID: "B1", Side: BUY, Qty: 1.0, Type: MARKET})

	bbo := ob.bbo()
	if !bbo.HasAsk || bbo.AskPrice != 50100 || bbo.AskQty != 0.5 {
		t.Errorf("expected ask 0.5@50100 after sweep, got %+v", bbo)
	}
	if bbo.HasBid {
		t.Errorf("no bids should remain, got %+v", bbo)
	}
}

func TestDepthSnapshot(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 99, Qty: 1, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B2", Side: BUY, Price: 100, Qty: 2, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B3", Side: BUY, Price: 100, Qty: 3, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 101, Qty: 4, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 102, Qty: 5, Type: LIMIT})

	bids, asks := ob.depth(10)
	if len(bids) != 2 || len(asks) != 2 {
		t.Fatalf("expected 2 bid and 2 ask levels, got %d/%d", len(bids), len(asks))
	}
	if bids[0].Price != 100 || bids[0].Qty != 5 {
		t.Errorf("bids must aggregate per level, high to low: %+v", bids)
	}
	if bids[1].Price != 99 {
		t.Errorf("unexpected second bid level %+v", bids[1])
	}
	if asks[0].Price != 101 || asks[1].Price != 102 {
		t.Errorf("asks must run low to high: %+v", asks)
	}

	bids, _ = ob.depth(1)
	if len(bids) != 1 || bids[0].Price != 100 {
		t.Errorf("depth must truncate to n levels, got %+v", bids)
	}
}

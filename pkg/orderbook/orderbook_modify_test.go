package orderbook

import (
	"errors"
	"testing"
)

func TestCancelOrder(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT})

	if err := ob.cancelOrder("1"); err != nil {
		t.Fatalf("expected cancel success, got %v", err)
	}
	if _, ok := ob.orders["1"]; ok {
		t.Fatalf("order should be removed from the registry")
	}
	if bbo := ob.bbo(); bbo.HasBid {
		t.Fatalf("level should be gone after cancelling its only order, got %+v", bbo)
	}
	verifyAggregates(t, ob)
}

func TestCancelUnknownOrder(t *testing.T) {
	ob := newTestBook("BTC-USD")

	if err := ob.cancelOrder("nope"); !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
}

func TestCancelTwiceFails(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT})
	ob.cancelOrder("1")
	if err := ob.cancelOrder("1"); !errors.Is(err, ErrUnknownOrder) {
		t.Fatalf("second cancel must fail with ErrUnknownOrder, got %v", err)
	}
}

func TestCancelledOrderNeverMatches(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 100, Qty: 5, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 100, Qty: 5, Type: LIMIT})
	ob.cancelOrder("S1")

	trades, _ := ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 100, Qty: 5, Type: LIMIT})
	if len(trades) != 1 || trades[0].MakerOrderID != "S2" {
		t.Fatalf("cancelled order must be skipped, got %+v", trades)
	}
	verifyAggregates(t, ob)
}

func TestReduceQuantity(t *testing.T) {
	ob := newTestBook("BTC-USD")

	order := &Order{ID: "1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT}
	ob.submitOrder(order)

	if err := ob.reduceOrder("1", 5); err != nil {
		t.Fatalf("expected reduce success, got %v", err)
	}
	if order.LeavesQty != 5 {
		t.Fatalf("expected leaves=5, got %v", order.LeavesQty)
	}
	if bbo := ob.bbo(); bbo.BidQty != 5 {
		t.Fatalf("aggregate must follow the reduction, got %+v", bbo)
	}
	verifyAggregates(t, ob)
}

func TestReduceQuantityRejects(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT})

	for _, q := range []float64{0, -1, 10, 15} {
		if err := ob.reduceOrder("1", q); !errors.Is(err, ErrInvalidModification) {
			t.Errorf("newQty=%v: expected ErrInvalidModification, got %v", q, err)
		}
	}
	if err := ob.reduceOrder("missing", 5); !errors.Is(err, ErrUnknownOrder) {
		t.Errorf("expected ErrUnknownOrder, got %v", err)
	}
}

func TestReducePreservesTimePriority(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 100, Qty: 10, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 100, Qty: 10, Type: LIMIT})

	// shrinking S1 must not move it behind S2
	if err := ob.reduceOrder("S1", 2); err != nil {
		t.Fatal(err)
	}

	trades, _ := ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 100, Qty: 5, Type: LIMIT})
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].MakerOrderID != "S1" || trades[0].Qty != 2 {
		t.Errorf("S1 must keep queue priority, got %+v", trades[0])
	}
	if trades[1].MakerOrderID != "S2" || trades[1].Qty != 3 {
		t.Errorf("unexpected second trade %+v", trades[1])
	}
}

func TestCancelPendingTrigger(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "ST1", Side: SELL, Qty: 1, Type: STOP_LOSS, StopPrice: 49500})
	if ob.conditionalCount() != 1 {
		t.Fatalf("expected 1 pending conditional")
	}
	if err := ob.cancelOrder("ST1"); err != nil {
		t.Fatalf("expected cancel success, got %v", err)
	}
	if ob.conditionalCount() != 0 {
		t.Fatalf("conditional set should be empty after cancel")
	}
}

func TestReducePendingTriggerRejected(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "ST1", Side: SELL, Qty: 2, Type: STOP_LOSS, StopPrice: 49500})
	if err := ob.reduceOrder("ST1", 1); !errors.Is(err, ErrInvalidModification) {
		t.Fatalf("expected ErrInvalidModification for pending-trigger order, got %v", err)
	}
}

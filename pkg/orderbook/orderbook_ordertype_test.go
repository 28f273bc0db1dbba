package orderbook

import (
	"errors"
	"testing"
)

func TestMarketOrderFullMatch(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 100.0, Qty: 10, Type: LIMIT})
	buy := &Order{ID: "B1", Side: BUY, Qty: 10, Type: MARKET}
	trades, err := ob.submitOrder(buy)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 1 || trades[0].Qty != 10 {
		t.Fatalf("expected full market match, got %+v", trades)
	}
	if buy.Status != StatusFilled {
		t.Errorf("expected FILLED, got %s", buy.Status)
	}
}

func TestMarketOrderSweepsLevels(t *testing.T) {
	ob := newTestBook("BTC-USD")

	// resting sell 1.0@50000 (first), resting sell 0.5@50100, resting buy 2.0@49999
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 50000, Qty: 1.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S2", Side: SELL, Price: 50100, Qty: 0.5, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B0", Side: BUY, Price: 49999, Qty: 2.0, Type: LIMIT})

	trades, _ := ob.submitOrder(&Order{ID: "B1", Side: BUY, Qty: 1.0, Type: MARKET})
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	if trades[0].Price != 50000 || trades[0].Qty != 1.0 || trades[0].MakerOrderID != "S1" {
		t.Errorf("unexpected trade %+v", trades[0])
	}
	if _, live := ob.orders["S1"]; live {
		t.Errorf("S1 should be filled and removed from the registry")
	}
	bbo := ob.bbo()
	if bbo.AskPrice != 50100 {
		t.Errorf("best ask should move to 50100, got %v", bbo.AskPrice)
	}
	verifyAggregates(t, ob)
}

func TestMarketOrderNoLiquidity(t *testing.T) {
	ob := newTestBook("BTC-USD")

	buy := &Order{ID: "B1", Side: BUY, Qty: 10, Type: MARKET}
	trades, err := ob.submitOrder(buy)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}
	if buy.Status != StatusCanceled {
		t.Errorf("market remainder must cancel, got %s", buy.Status)
	}
	if ob.orderCount() != 0 {
		t.Errorf("market orders never rest")
	}
}

func TestIOCPartialMatch(t *testing.T) {
	ob := newTestBook("BTC-USD")

	// resting buy 2.0@49999, then a sell 2.0@50000 added after
	ob.submitOrder(&Order{ID: "B0", Side: BUY, Price: 49999, Qty: 2.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "S1", Side: SELL, Price: 50000, Qty: 2.0, Type: LIMIT})

	ioc := &Order{ID: "B1", Side: BUY, Price: 50100, Qty: 5.0, Type: IOC}
	trades, err := ob.submitOrder(ioc)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 1 || trades[0].Qty != 2.0 || trades[0].Price != 50000 {
		t.Fatalf("expected single fill 2.0@50000, got %+v", trades)
	}
	if ioc.Status != StatusCanceled || ioc.LeavesQty != 3.0 {
		t.Errorf("IOC remainder of 3.0 must cancel, got %s leaves=%v", ioc.Status, ioc.LeavesQty)
	}
	if _, live := ob.orders["B1"]; live {
		t.Errorf("IOC orders never rest")
	}
	verifyAggregates(t, ob)
}

func TestFOKRejectInsufficientLiquidity(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "B0", Side: BUY, Price: 49900, Qty: 4.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49850, Qty: 3.0, Type: LIMIT})

	before := ob.bbo()

	fok := &Order{ID: "S1", Side: SELL, Price: 49900, Qty: 10.0, Type: FOK}
	trades, err := ob.submitOrder(fok)
	if !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
	if len(trades) != 0 {
		t.Fatalf("FOK rejection must produce zero trades, got %d", len(trades))
	}
	if fok.Status != StatusRejected {
		t.Errorf("expected REJECTED, got %s", fok.Status)
	}

	// book unchanged
	after := ob.bbo()
	if !after.equal(before) {
		t.Errorf("book changed on FOK reject: before=%+v after=%+v", before, after)
	}
	if b0 := ob.orders["B0"]; b0.LeavesQty != 4.0 {
		t.Errorf("resting order touched on FOK reject: %+v", b0)
	}
	verifyAggregates(t, ob)
}

func TestFOKFullFill(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "B0", Side: BUY, Price: 49900, Qty: 6.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49950, Qty: 4.0, Type: LIMIT})

	fok := &Order{ID: "S1", Side: SELL, Price: 49900, Qty: 10.0, Type: FOK}
	trades, err := ob.submitOrder(fok)
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	// best bid first
	if trades[0].Price != 49950 || trades[0].Qty != 4.0 {
		t.Errorf("unexpected first trade %+v", trades[0])
	}
	if trades[1].Price != 49900 || trades[1].Qty != 6.0 {
		t.Errorf("unexpected second trade %+v", trades[1])
	}
	if fok.Status != StatusFilled {
		t.Errorf("expected FILLED, got %s", fok.Status)
	}
	if ob.orderCount() != 0 {
		t.Errorf("book should be empty, got %d orders", ob.orderCount())
	}
}

func TestFOKIgnoresNonMarketableLevels(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "B0", Side: BUY, Price: 49900, Qty: 5.0, Type: LIMIT})
	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 49000, Qty: 100.0, Type: LIMIT})

	// enough total quantity, but not at or better than the limit
	fok := &Order{ID: "S1", Side: SELL, Price: 49900, Qty: 10.0, Type: FOK}
	_, err := ob.submitOrder(fok)
	if !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity, got %v", err)
	}
}

func TestDuplicateOrderID(t *testing.T) {
	ob := newTestBook("BTC-USD")

	ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 100, Qty: 10, Type: LIMIT})
	_, err := ob.submitOrder(&Order{ID: "B1", Side: BUY, Price: 101, Qty: 5, Type: LIMIT})
	if !errors.Is(err, ErrDuplicateOrderID) {
		t.Fatalf("expected ErrDuplicateOrderID, got %v", err)
	}
}

func TestValidationRejects(t *testing.T) {
	ob := newTestBook("BTC-USD")

	cases := []*Order{
		{ID: "V1", Side: BUY, Qty: 10, Type: LIMIT},                      // limit without price
		{ID: "V2", Side: BUY, Price: 100, Qty: 0, Type: LIMIT},           // zero qty
		{ID: "V3", Side: SELL, Price: 100, Qty: -1, Type: IOC},           // negative qty
		{ID: "V4", Side: SELL, Qty: 1, Type: STOP_LOSS},                  // stop without stop price
		{ID: "", Side: BUY, Price: 100, Qty: 1, Type: LIMIT},             // missing id
		{ID: "V5", Side: BUY, Price: -5, Qty: 1, Type: FOK},              // negative price
		{ID: "V6", Side: BUY, Qty: 1, Type: TAKE_PROFIT, StopPrice: -10}, // negative stop
	}
	for _, o := range cases {
		if _, err := ob.submitOrder(o); !errors.Is(err, ErrInvalidOrder) {
			t.Errorf("order %q: expected ErrInvalidOrder, got %v", o.ID, err)
		}
		if o.Status != StatusRejected {
			t.Errorf("order %q: expected REJECTED, got %s", o.ID, o.Status)
		}
	}
	if ob.orderCount() != 0 {
		t.Errorf("rejected orders must not touch the book")
	}
}

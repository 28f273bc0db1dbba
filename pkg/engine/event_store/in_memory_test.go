package eventstore

import (
	"fmt"
	"testing"
	"time"

	"github.com/joripage/matching-engine/pkg/engine/model"
)

func TestGatewayIDChain(t *testing.T) {
	s := NewInMemoryEventStore()

	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C1"})
	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C2", OrigGatewayID: "C1"})
	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C3", OrigGatewayID: "C2"})

	if got := s.GetLatestGatewayID("O1"); got != "C3" {
		t.Errorf("expected latest C3, got %s", got)
	}
	if got := s.GetOrderID("C2"); got != "O1" {
		t.Errorf("expected O1 for C2, got %s", got)
	}

	chain := s.ReconstructChain("C3")
	if len(chain) != 3 || chain[0] != "C3" || chain[2] != "C1" {
		t.Errorf("unexpected chain %v", chain)
	}
}

func TestEventsCopied(t *testing.T) {
	s := NewInMemoryEventStore()

	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C1", ExecType: model.ExecTypeNew})
	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C1", ExecType: model.ExecTypeTrade})

	evs := s.Events("O1")
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[1].ExecType != model.ExecTypeTrade {
		t.Errorf("unexpected event order %v", evs)
	}
}

func TestRecentTradesCapped(t *testing.T) {
	s := NewInMemoryEventStore()

	for i := 0; i < recentTradeCap+100; i++ {
		s.AddTrade(&model.Trade{
			TradeID:    fmt.Sprintf("T%d", i),
			Symbol:     "BTC-USD",
			ExecutedAt: time.Now(),
		})
	}

	all := s.RecentTrades("BTC-USD", 0)
	if len(all) != recentTradeCap {
		t.Fatalf("expected history capped at %d, got %d", recentTradeCap, len(all))
	}
	if all[len(all)-1].TradeID != fmt.Sprintf("T%d", recentTradeCap+99) {
		t.Errorf("expected newest trade last, got %s", all[len(all)-1].TradeID)
	}

	last5 := s.RecentTrades("BTC-USD", 5)
	if len(last5) != 5 {
		t.Fatalf("expected 5 trades, got %d", len(last5))
	}
}

func TestDeleteChainByOrderID(t *testing.T) {
	s := NewInMemoryEventStore()

	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C1"})
	s.AddEvent(&model.OrderEvent{OrderID: "O1", GatewayID: "C2", OrigGatewayID: "C1"})
	s.DeleteChainByOrderID("O1")

	if got := s.GetOrderID("C1"); got != "" {
		t.Errorf("expected chain removed, got %s", got)
	}
	if evs := s.Events("O1"); len(evs) != 0 {
		t.Errorf("expected events removed, got %d", len(evs))
	}
}

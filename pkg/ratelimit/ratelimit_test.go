package ratelimit

import "testing"

func TestAllowWithinBurst(t *testing.T) {
	l := NewSymbolLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("BTC-USD") {
			t.Fatalf("request %d within burst should pass", i)
		}
	}
	if l.Allow("BTC-USD") {
		t.Error("request beyond burst should be throttled")
	}
}

func TestPerSymbolIsolation(t *testing.T) {
	l := NewSymbolLimiter(1, 1)

	if !l.Allow("BTC-USD") {
		t.Fatal("first request should pass")
	}
	if l.Allow("BTC-USD") {
		t.Error("second request on same symbol should be throttled")
	}
	if !l.Allow("ETH-USD") {
		t.Error("other symbols keep their own bucket")
	}
}

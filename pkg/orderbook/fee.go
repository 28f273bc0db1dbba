package orderbook

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Default schedule: 0.1% maker, 0.2% taker.
var (
	DefaultMakerRate = decimal.NewFromFloat(0.001)
	DefaultTakerRate = decimal.NewFromFloat(0.002)
)

// FeeSchedule holds per-role fee rates applied to trade notional.
// A negative maker rate is a rebate and produces a negative fee amount.
type FeeSchedule struct {
	MakerRate decimal.Decimal
	TakerRate decimal.Decimal
}

func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{MakerRate: DefaultMakerRate, TakerRate: DefaultTakerRate}
}

// FeeModel maps symbols to fee schedules, falling back to a default.
type FeeModel struct {
	mu        sync.RWMutex
	fallback  FeeSchedule
	schedules map[string]FeeSchedule
}

func NewFeeModel(fallback FeeSchedule) *FeeModel {
	return &FeeModel{
		fallback:  fallback,
		schedules: make(map[string]FeeSchedule),
	}
}

func (m *FeeModel) SetSchedule(symbol string, s FeeSchedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[symbol] = s
}

func (m *FeeModel) Schedule(symbol string) FeeSchedule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.schedules[symbol]; ok {
		return s
	}
	return m.fallback
}

// ApplyFees stamps maker and taker fee amounts onto a trade. Both amounts are
// recorded even when a rate is zero or negative.
func (m *FeeModel) ApplyFees(t *Trade) {
	s := m.Schedule(t.Symbol)
	notional := decimal.NewFromFloat(t.Price).Mul(decimal.NewFromFloat(t.Qty))
	t.MakerFee = notional.Mul(s.MakerRate)
	t.TakerFee = notional.Mul(s.TakerRate)
}

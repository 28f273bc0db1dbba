package riskrule

import (
	"fmt"

	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/shopspring/decimal"
)

// TickSizeRule rejects prices that are not a multiple of the symbol's tick.
// Symbols without a configured tick are unrestricted.
type TickSizeRule struct {
	ticks map[string]decimal.Decimal
}

func NewTickSizeRule() *TickSizeRule {
	return &TickSizeRule{ticks: make(map[string]decimal.Decimal)}
}

func (r *TickSizeRule) SetTick(symbol string, tick decimal.Decimal) {
	r.ticks[symbol] = tick
}

func (r *TickSizeRule) Check(addOrder *model.AddOrder) error {
	tick, ok := r.ticks[addOrder.Symbol]
	if !ok || tick.Sign() <= 0 {
		return nil
	}

	for _, price := range []decimal.Decimal{addOrder.Price, addOrder.StopPrice} {
		if price.IsZero() {
			continue
		}
		if !price.Mod(tick).IsZero() {
			return fmt.Errorf("price %s is not a multiple of tick %s", price, tick)
		}
	}
	return nil
}

package riskrule

import (
	"fmt"

	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/shopspring/decimal"
)

type priceBand struct {
	floor decimal.Decimal
	ceil  decimal.Decimal
}

// PriceBandRule rejects limit prices outside the configured per-symbol band.
// Symbols without a band are unrestricted.
type PriceBandRule struct {
	bands map[string]priceBand
}

func NewPriceBandRule() *PriceBandRule {
	return &PriceBandRule{bands: make(map[string]priceBand)}
}

func (r *PriceBandRule) SetBand(symbol string, floor, ceil decimal.Decimal) {
	r.bands[symbol] = priceBand{floor: floor, ceil: ceil}
}

func (r *PriceBandRule) Check(addOrder *model.AddOrder) error {
	band, ok := r.bands[addOrder.Symbol]
	if !ok {
		return nil
	}
	if addOrder.Type == model.OrderTypeMarket {
		return nil
	}

	price := addOrder.Price
	if addOrder.Type == model.OrderTypeStopLoss || addOrder.Type == model.OrderTypeTakeProfit {
		price = addOrder.StopPrice
	}
	if price.LessThan(band.floor) || price.GreaterThan(band.ceil) {
		return fmt.Errorf("price %s outside band [%s, %s]", price, band.floor, band.ceil)
	}
	return nil
}

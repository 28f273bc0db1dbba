package orderbook

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable fill record. The resting order is always the maker,
// the incoming order always the taker; the trade executes at the maker price.
type Trade struct {
	ID           string
	Symbol       string
	Price        float64
	Qty          float64
	MakerOrderID string
	TakerOrderID string
	TakerSide    Side
	MakerFee     decimal.Decimal
	TakerFee     decimal.Decimal
	Timestamp    time.Time
}

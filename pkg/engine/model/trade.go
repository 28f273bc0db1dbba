package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trade struct {
	ID int64

	TradeID      string
	Symbol       string
	Price        decimal.Decimal
	Quantity     decimal.Decimal
	MakerOrderID string
	TakerOrderID string
	TakerSide    OrderSide
	MakerFee     decimal.Decimal
	TakerFee     decimal.Decimal
	ExecutedAt   time.Time
}

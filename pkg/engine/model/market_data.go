package model

import "time"

// MarketDataUpdate is a best-bid-offer snapshot. Quantities are the
// aggregate live quantity at the top price level.
type MarketDataUpdate struct {
	Symbol    string    `json:"symbol"`
	BidPrice  float64   `json:"bid_price"`
	BidQty    float64   `json:"bid_qty"`
	AskPrice  float64   `json:"ask_price"`
	AskQty    float64   `json:"ask_qty"`
	HasBid    bool      `json:"has_bid"`
	HasAsk    bool      `json:"has_ask"`
	Timestamp time.Time `json:"timestamp"`
}

package orderbook

// BBO is the observable top of book: best bid and offer with aggregate
// quantity at each. HasBid/HasAsk are false when the side has no liquidity.
type BBO struct {
	Symbol   string
	BidPrice float64
	BidQty   float64
	AskPrice float64
	AskQty   float64
	HasBid   bool
	HasAsk   bool
}

func (b BBO) equal(o BBO) bool {
	return b.HasBid == o.HasBid && b.HasAsk == o.HasAsk &&
		b.BidPrice == o.BidPrice && b.BidQty == o.BidQty &&
		b.AskPrice == o.AskPrice && b.AskQty == o.AskQty
}

// DepthLevel is one aggregated rung of a depth snapshot.
type DepthLevel struct {
	Price float64
	Qty   float64
}

package orderbook

type Side string

const (
	BUY  Side = "BUY"
	SELL Side = "SELL"
)

type OrderType string

const (
	LIMIT       OrderType = "LIMIT"
	MARKET      OrderType = "MARKET"
	IOC         OrderType = "IOC"
	FOK         OrderType = "FOK"
	STOP_LOSS   OrderType = "STOP_LOSS"
	TAKE_PROFIT OrderType = "TAKE_PROFIT"
)

type OrderStatus string

const (
	StatusNew             OrderStatus = "NEW"
	StatusPartiallyFilled OrderStatus = "PARTIALLY_FILLED"
	StatusFilled          OrderStatus = "FILLED"
	StatusCanceled        OrderStatus = "CANCELED"
	StatusRejected        OrderStatus = "REJECTED"
	StatusPendingTrigger  OrderStatus = "PENDING_TRIGGER"
	StatusTriggered       OrderStatus = "TRIGGERED"
)

// Order is the book-side view of an order. Price, Side and Symbol are
// immutable after acceptance; LeavesQty only ever decreases.
type Order struct {
	ID        string
	Symbol    string
	Side      Side
	Type      OrderType
	Price     float64 // limit price, 0 for MARKET
	StopPrice float64 // trigger price for STOP_LOSS / TAKE_PROFIT
	Qty       float64
	LeavesQty float64
	Seq       uint64 // acceptance sequence, time-priority tiebreak
	Status    OrderStatus

	canceled bool // tombstone, order is skipped when it reaches its queue front
}

func (o *Order) isConditional() bool {
	return o.Type == STOP_LOSS || o.Type == TAKE_PROFIT
}

func (o *Order) needsPrice() bool {
	return o.Type == LIMIT || o.Type == IOC || o.Type == FOK
}

func (o *Order) filledQty() float64 {
	return o.Qty - o.LeavesQty
}

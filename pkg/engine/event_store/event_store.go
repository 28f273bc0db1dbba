package eventstore

import "github.com/joripage/matching-engine/pkg/engine/model"

type EventStore interface {
	AddEvent(ev *model.OrderEvent)
	AddTrade(tr *model.Trade)

	TrackGatewayID(orderID, gatewayID, origGatewayID string)
	GetOrderID(gatewayID string) string
	GetLatestGatewayID(orderID string) string
	ReconstructChain(gatewayID string) []string

	Events(orderID string) []*model.OrderEvent
	RecentTrades(symbol string, n int) []*model.Trade

	DeleteChainByOrderID(orderID string)
}

package engine

import (
	"context"

	"github.com/joripage/matching-engine/pkg/engine/model"
	kafkawrapper "github.com/joripage/matching-engine/pkg/kafka_wrapper"
)

type TradePublisher interface {
	PublishTrade(ctx context.Context, trade *model.Trade) error
}

type OrderEventPublisher interface {
	PublishOrderEvent(ctx context.Context, ev *model.OrderEvent) error
}

type MarketDataPublisher interface {
	PublishMarketData(ctx context.Context, md *model.MarketDataUpdate) error
}

type multiMarketDataPublisher []MarketDataPublisher

// MultiMarketDataPublisher fans one update out to several sinks, typically
// the Kafka topic and the redis cache. The first error wins.
func MultiMarketDataPublisher(publishers ...MarketDataPublisher) MarketDataPublisher {
	return multiMarketDataPublisher(publishers)
}

func (m multiMarketDataPublisher) PublishMarketData(ctx context.Context, md *model.MarketDataUpdate) error {
	var firstErr error
	for _, p := range m {
		if err := p.PublishMarketData(ctx, md); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type KafkaPublisherConfig struct {
	TradeTopic      string
	OrderEventTopic string
	MarketDataTopic string
}

// KafkaPublisher ships trades, order events and BBO updates to Kafka,
// keyed by symbol so per-symbol ordering survives partitioning.
type KafkaPublisher struct {
	producer *kafkawrapper.Producer
	cfg      KafkaPublisherConfig
}

func NewKafkaPublisher(producer *kafkawrapper.Producer, cfg KafkaPublisherConfig) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, cfg: cfg}
}

func (p *KafkaPublisher) PublishTrade(ctx context.Context, trade *model.Trade) error {
	return p.producer.PublishJSON(ctx, p.cfg.TradeTopic, trade.Symbol, trade, nil)
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, ev *model.OrderEvent) error {
	return p.producer.PublishJSON(ctx, p.cfg.OrderEventTopic, ev.Symbol, ev, nil)
}

func (p *KafkaPublisher) PublishMarketData(ctx context.Context, md *model.MarketDataUpdate) error {
	return p.producer.PublishJSON(ctx, p.cfg.MarketDataTopic, md.Symbol, md, nil)
}

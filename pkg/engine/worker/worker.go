package worker

import (
	"context"
	"encoding/json"

	"github.com/joripage/matching-engine/pkg/engine/model"
	"github.com/joripage/matching-engine/pkg/engine/repo"
	kafkawrapper "github.com/joripage/matching-engine/pkg/kafka_wrapper"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Worker drains the engine's Kafka topics into postgres. Batches commit
// only after the insert succeeds, so a crash replays instead of losing data.
type Worker struct {
	trade      repo.ITrade
	orderEvent repo.IOrderEvent
}

func NewWorker(repo repo.IRepo) *Worker {
	return &Worker{
		trade:      repo.Trade(),
		orderEvent: repo.OrderEvent(),
	}
}

func (w *Worker) ConsumeTrades(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		records := make([]*model.Trade, 0, len(msgs))
		for _, msg := range msgs {
			var tr model.Trade
			if err := json.Unmarshal(msg.Value, &tr); err != nil {
				zap.S().Warnf("unmarshal trade at offset %d fail: %v", msg.Offset, err)
				continue
			}
			records = append(records, &tr)
		}
		if len(records) == 0 {
			return nil
		}
		_, err := w.trade.BulkCreate(ctx, records)
		return err
	})
}

func (w *Worker) ConsumeOrderEvents(ctx context.Context, cg *kafkawrapper.ConsumerGroup) error {
	return cg.Run(ctx, func(ctx context.Context, msgs []kafkawrapper.Message) error {
		records := make([]*model.OrderEvent, 0, len(msgs))
		for _, msg := range msgs {
			var ev model.OrderEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				zap.S().Warnf("unmarshal order event at offset %d fail: %v", msg.Offset, err)
				continue
			}
			records = append(records, &ev)
		}
		if len(records) == 0 {
			return nil
		}
		_, err := w.orderEvent.BulkCreate(ctx, records)
		return err
	})
}

package kafkawrapper

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	kafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Message struct {
	Topic     string
	Partition int
	Offset    int64
	Key       []byte
	Value     []byte
	Time      time.Time
	Headers   map[string]string
}

type ConsumerConfig struct {
	Brokers     []string
	GroupID     string
	Topic       string
	WorkerCount int
	MaxRetries  int
	BackoffMin  time.Duration
	BackoffMax  time.Duration
	DLQTopic    string

	// batch options
	BatchSize    int
	BatchTimeout time.Duration
}

// ConsumerGroup fetches messages, hands them to the handler in batches and
// commits after the handler succeeds. Exhausted retries go to the DLQ topic
// when one is configured.
type ConsumerGroup struct {
	r          *kafka.Reader
	cfg        ConsumerConfig
	prodForDLQ *Producer
}

func NewConsumerGroup(cfg ConsumerConfig) (*ConsumerGroup, error) {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.BackoffMin == 0 {
		cfg.BackoffMin = 100 * time.Millisecond
	}
	if cfg.BackoffMax == 0 {
		cfg.BackoffMax = 10 * time.Second
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.BatchTimeout == 0 {
		cfg.BatchTimeout = 200 * time.Millisecond
	}

	rd := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MaxWait:     500 * time.Millisecond,
		MinBytes:    1,
		MaxBytes:    10 << 20,
	})

	var prod *Producer
	if cfg.DLQTopic != "" {
		prod = NewProducer(ProducerConfig{Brokers: cfg.Brokers})
	}

	return &ConsumerGroup{r: rd, cfg: cfg, prodForDLQ: prod}, nil
}

func (cg *ConsumerGroup) Close() error {
	if cg == nil {
		return nil
	}
	if cg.prodForDLQ != nil {
		_ = cg.prodForDLQ.Close(context.Background())
	}
	if cg.r != nil {
		return cg.r.Close()
	}
	return nil
}

// Run blocks until ctx is cancelled. The handler receives batches of up to
// BatchSize messages, flushed at the latest after BatchTimeout.
func (cg *ConsumerGroup) Run(ctx context.Context, handler func(context.Context, []Message) error) error {
	if cg == nil || cg.r == nil {
		return errors.New("consumer not initialized")
	}

	batches := make(chan []kafka.Message, cg.cfg.WorkerCount)

	go cg.fetchLoop(ctx, batches)

	var wg sync.WaitGroup
	for i := 0; i < cg.cfg.WorkerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cg.workerLoop(ctx, batches, handler)
		}()
	}

	wg.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

func (cg *ConsumerGroup) fetchLoop(ctx context.Context, batches chan<- []kafka.Message) {
	defer close(batches)

	var buf []kafka.Message
	deadline := time.Now().Add(cg.cfg.BatchTimeout)

	flush := func() {
		if len(buf) == 0 {
			return
		}
		select {
		case batches <- buf:
			buf = nil
		case <-ctx.Done():
		}
		deadline = time.Now().Add(cg.cfg.BatchTimeout)
	}

	for {
		fetchCtx, cancel := context.WithDeadline(ctx, deadline)
		m, err := cg.r.FetchMessage(fetchCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				flush()
				return
			}
			if errors.Is(err, context.DeadlineExceeded) {
				flush()
				continue
			}
			zap.S().Warnf("fetch message fail: %v", err)
			time.Sleep(200 * time.Millisecond)
			continue
		}

		buf = append(buf, m)
		if len(buf) >= cg.cfg.BatchSize || time.Now().After(deadline) {
			flush()
		}
	}
}

func (cg *ConsumerGroup) workerLoop(ctx context.Context, batches <-chan []kafka.Message, handler func(context.Context, []Message) error) {
	for ms := range batches {
		wrapped := make([]Message, len(ms))
		for i, m := range ms {
			wrapped[i] = wrapMessage(m)
		}

		var attempt int
		for {
			err := handler(ctx, wrapped)
			if err == nil {
				_ = cg.r.CommitMessages(ctx, ms...)
				break
			}

			attempt++
			if attempt > cg.cfg.MaxRetries {
				cg.sendToDLQ(ctx, ms)
				_ = cg.r.CommitMessages(ctx, ms...)
				break
			}

			select {
			case <-time.After(backoffDuration(cg.cfg.BackoffMin, cg.cfg.BackoffMax, attempt)):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (cg *ConsumerGroup) sendToDLQ(ctx context.Context, ms []kafka.Message) {
	if cg.cfg.DLQTopic == "" || cg.prodForDLQ == nil {
		return
	}
	for _, m := range ms {
		if err := cg.prodForDLQ.Publish(ctx, cg.cfg.DLQTopic, m.Key, m.Value, headersToMap(m.Headers)); err != nil {
			zap.S().Warnf("publish to DLQ fail: %v", err)
		}
	}
}

func wrapMessage(m kafka.Message) Message {
	headers := map[string]string{}
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Message{
		Topic:     m.Topic,
		Partition: m.Partition,
		Offset:    m.Offset,
		Key:       m.Key,
		Value:     m.Value,
		Time:      m.Time,
		Headers:   headers,
	}
}

func headersToMap(hs []kafka.Header) map[string]string {
	out := map[string]string{}
	for _, h := range hs {
		out[h.Key] = string(h.Value)
	}
	return out
}

// backoffDuration is exponential with full jitter.
func backoffDuration(min, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := time.Duration(float64(min) * math.Pow(2, float64(attempt-1)))
	if d > max {
		d = max
	}
	if d > 0 {
		d = time.Duration(rand.Int63n(int64(d)))
	}
	return d
}

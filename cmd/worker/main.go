package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joripage/matching-engine/config"
	"github.com/joripage/matching-engine/pkg/engine/repo"
	"github.com/joripage/matching-engine/pkg/engine/worker"
	postgres_wrapper "github.com/joripage/matching-engine/pkg/infra/postgres"
	kafkawrapper "github.com/joripage/matching-engine/pkg/kafka_wrapper"
	"github.com/joripage/matching-engine/pkg/logging"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	var configFile string
	flag.StringVar(&configFile, "config-file", "", "Specify config file path")
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		panic(err)
	}

	logger, err := logging.Init(cfg.LogLevel, cfg.ServiceName+"-worker")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	db, err := postgres_wrapper.Init(cfg.EngineDB)
	if err != nil {
		zap.S().Errorf("init db fail: %v", err)
		panic(err)
	}

	sqlRepo := repo.NewRepo(db)
	w := worker.NewWorker(sqlRepo)

	tradeConsumer, err := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
		Brokers:    cfg.Kafka.Brokers,
		GroupID:    cfg.Kafka.GroupID,
		Topic:      cfg.Kafka.TradeTopic,
		MaxRetries: 5,
		DLQTopic:   cfg.Kafka.DLQTopic,
	})
	if err != nil {
		panic(err)
	}
	defer tradeConsumer.Close() // nolint

	eventConsumer, err := kafkawrapper.NewConsumerGroup(kafkawrapper.ConsumerConfig{
		Brokers:    cfg.Kafka.Brokers,
		GroupID:    cfg.Kafka.GroupID,
		Topic:      cfg.Kafka.OrderEventTopic,
		MaxRetries: 5,
		DLQTopic:   cfg.Kafka.DLQTopic,
	})
	if err != nil {
		panic(err)
	}
	defer eventConsumer.Close() // nolint

	go func() {
		if err := w.ConsumeTrades(ctx, tradeConsumer); err != nil && err != context.Canceled {
			zap.S().Errorf("trade consumer stopped: %v", err)
		}
	}()
	go func() {
		if err := w.ConsumeOrderEvents(ctx, eventConsumer); err != nil && err != context.Canceled {
			zap.S().Errorf("order event consumer stopped: %v", err)
		}
	}()

	zap.S().Info("persistence worker started")

	<-sigs
	zap.S().Info("shutting down...")
	cancel()
}

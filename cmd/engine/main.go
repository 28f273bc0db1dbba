package main

import (
	"context"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joripage/matching-engine/config"
	"github.com/joripage/matching-engine/pkg/engine"
	fixgateway "github.com/joripage/matching-engine/pkg/engine/fix"
	riskrule "github.com/joripage/matching-engine/pkg/engine/risk_rule"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	kafkawrapper "github.com/joripage/matching-engine/pkg/kafka_wrapper"
	"github.com/joripage/matching-engine/pkg/logging"
	"github.com/joripage/matching-engine/pkg/metrics"
	"github.com/joripage/matching-engine/pkg/orderbook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
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

	logger, err := logging.Init(cfg.LogLevel, cfg.ServiceName)
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	go func() {
		http.ListenAndServe("localhost:6060", nil) // nolint
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// metrics
	registry := prometheus.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(registry)
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				zap.S().Errorf("metrics server fail: %v", err)
			}
		}()
	}

	fees, rules := symbolSetup(cfg.Symbols)

	if cfg.Fix == nil {
		zap.S().Fatal("fix config is required")
	}
	fixGateway := fixgateway.NewFixGateway(&fixgateway.FixGatewayConfig{
		ConfigFilepath: cfg.Fix.ConfigFilepath,
	})

	eng := engine.NewEngine(fixGateway, &engine.Config{
		Fees:               fees,
		Rules:              rules,
		RateLimitPerSecond: cfg.RateLimit.OrdersPerSecond,
		RateLimitBurst:     cfg.RateLimit.Burst,
		Metrics:            engineMetrics,
	})
	fixGateway.AddEngineInstance(eng)

	if cfg.Kafka != nil {
		producer := kafkawrapper.NewProducer(kafkawrapper.ProducerConfig{
			Brokers: cfg.Kafka.Brokers,
			Async:   true,
		})
		defer producer.Close(context.Background()) // nolint
		publisher := engine.NewKafkaPublisher(producer, engine.KafkaPublisherConfig{
			TradeTopic:      cfg.Kafka.TradeTopic,
			OrderEventTopic: cfg.Kafka.OrderEventTopic,
			MarketDataTopic: cfg.Kafka.MarketDataTopic,
		})
		eng.SetTradePublisher(publisher)
		eng.SetOrderEventPublisher(publisher)

		marketData := []engine.MarketDataPublisher{publisher}
		if cfg.Redis != nil {
			rdb, err := redis_wrapper.Init(cfg.Redis)
			if err != nil {
				zap.S().Errorf("init redis fail: %v", err)
				panic(err)
			}
			marketData = append(marketData, engine.NewBBOCache(rdb, time.Hour))
		}
		eng.SetMarketDataPublisher(engine.MultiMarketDataPublisher(marketData...))
	}

	if err := eng.Start(ctx); err != nil {
		zap.S().Errorf("start engine fail: %v", err)
		panic(err)
	}
	zap.S().Info("matching engine started")

	<-sigs
	zap.S().Info("shutting down...")

	eng.Stop()
	fixGateway.Stop()
	cancel()
}

func symbolSetup(symbols []config.SymbolConfig) (*orderbook.FeeModel, []riskrule.RiskRule) {
	fees := orderbook.NewFeeModel(orderbook.DefaultFeeSchedule())
	band := riskrule.NewPriceBandRule()
	tick := riskrule.NewTickSizeRule()

	for _, sc := range symbols {
		if sc.MakerFeeRate != "" || sc.TakerFeeRate != "" {
			fees.SetSchedule(sc.Symbol, orderbook.FeeSchedule{
				MakerRate: mustDecimal(sc.MakerFeeRate, orderbook.DefaultMakerRate),
				TakerRate: mustDecimal(sc.TakerFeeRate, orderbook.DefaultTakerRate),
			})
		}
		if sc.TickSize != "" {
			tick.SetTick(sc.Symbol, mustDecimal(sc.TickSize, decimal.Zero))
		}
		if sc.PriceFloor != "" && sc.PriceCeil != "" {
			band.SetBand(sc.Symbol, mustDecimal(sc.PriceFloor, decimal.Zero), mustDecimal(sc.PriceCeil, decimal.Zero))
		}
	}

	return fees, []riskrule.RiskRule{band, tick}
}

func mustDecimal(s string, fallback decimal.Decimal) decimal.Decimal {
	if s == "" {
		return fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		zap.S().Warnf("invalid decimal %q, using %s", s, fallback)
		return fallback
	}
	return d
}

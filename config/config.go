package config

import (
	"os"

	postgres_wrapper "github.com/joripage/matching-engine/pkg/infra/postgres"
	redis_wrapper "github.com/joripage/matching-engine/pkg/infra/redis"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	ServiceName string `yaml:"service_name"`
	LogLevel    string `yaml:"log_level"`
	MetricsAddr string `yaml:"metrics_addr"`

	EngineDB *postgres_wrapper.Config `yaml:"engine_db"`
	Redis    *redis_wrapper.Config    `yaml:"redis"`
	Kafka    *KafkaConfig             `yaml:"kafka"`
	Fix      *FixConfig               `yaml:"fix"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Symbols   []SymbolConfig  `yaml:"symbols"`
}

type KafkaConfig struct {
	Brokers         []string `yaml:"brokers"`
	TradeTopic      string   `yaml:"trade_topic"`
	OrderEventTopic string   `yaml:"order_event_topic"`
	MarketDataTopic string   `yaml:"market_data_topic"`
	GroupID         string   `yaml:"group_id"`
	DLQTopic        string   `yaml:"dlq_topic"`
}

type FixConfig struct {
	ConfigFilepath string `yaml:"config_filepath"`
}

type RateLimitConfig struct {
	OrdersPerSecond float64 `yaml:"orders_per_second"`
	Burst           int     `yaml:"burst"`
}

type SymbolConfig struct {
	Symbol       string `yaml:"symbol"`
	MakerFeeRate string `yaml:"maker_fee_rate"`
	TakerFeeRate string `yaml:"taker_fee_rate"`
	TickSize     string `yaml:"tick_size"`
	PriceFloor   string `yaml:"price_floor"`
	PriceCeil    string `yaml:"price_ceil"`
}

// Load reads config from file, environment variables expanded.
func Load(filePath string) (*AppConfig, error) {
	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	sugar := zap.S().With("func", "config.Load", "filePath", filePath)
	sugar.Debug("load config...")

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		sugar.Error("failed to load config file")
		return nil, err
	}
	configBytes = []byte(os.ExpandEnv(string(configBytes)))

	cfg := &AppConfig{}
	if err = yaml.Unmarshal(configBytes, cfg); err != nil {
		sugar.Error("failed to parse config file")
		return nil, err
	}

	return cfg, nil
}

package main

import (
	"flag"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joripage/matching-engine/config"
	"github.com/joripage/matching-engine/pkg/infra"
	"github.com/joripage/matching-engine/pkg/logging"
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

	logger, err := logging.Init(cfg.LogLevel, cfg.ServiceName+"-migrate")
	if err != nil {
		panic(err)
	}
	defer logger.Sync() // nolint

	if err := infra.Migrate("file://migration/sql", cfg.EngineDB.MigrationConnURL); err != nil {
		zap.S().Errorf("migration fail: %v", err)
		panic(err)
	}
}

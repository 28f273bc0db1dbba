package infra

import (
	"errors"
	"sync"

	"github.com/cenkalti/backoff"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	postgres_wrapper "github.com/joripage/matching-engine/pkg/infra/postgres"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateMu sync.Mutex

// Migrate applies pending migrations in serialize. A dirty version is
// forced back one step and retried.
func Migrate(source, connStr string) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	zap.S().Info("migrating...")

	mg, err := migrate.New(source, connStr)
	if err != nil {
		return err
	}
	defer mg.Close()

	version, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	if dirty {
		mg.Force(int(version) - 1) // nolint
	}

	if err := mg.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	zap.S().Info("migration done")
	return nil
}

// ConnectAndMigrate waits for the database then applies migrations,
// used by tests and local bootstrap.
func ConnectAndMigrate(cfg *postgres_wrapper.Config, source string) (*gorm.DB, error) {
	var db *gorm.DB
	boff := backoff.NewExponentialBackOff()
	err := backoff.Retry(func() error {
		var err error
		db, err = postgres_wrapper.Init(cfg)
		if err != nil {
			zap.S().Warnf("connect postgres fail: %v", err)
		}
		return err
	}, boff)
	if err != nil {
		return nil, err
	}

	if err := Migrate(source, cfg.MigrationConnURL); err != nil {
		return nil, err
	}
	return db, nil
}

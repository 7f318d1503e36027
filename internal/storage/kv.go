package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/cardcarnage/internal/config"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// KV is a string key-value store. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Open returns the KV backend selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (KV, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		return OpenSQLite(ctx, cfg.Storage.Path)
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.Database.DSN())
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
}

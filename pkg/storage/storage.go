package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crontask/pkg/logx"
	"crontask/pkg/task"
)

var (
	// ErrNotFound marks updates against an unknown task id.
	ErrNotFound = errors.New("storage: task not found")

	// ErrUnavailable marks a backend whose dependency cannot be reached
	// or was not built in. Surfaced by Init; never retried here.
	ErrUnavailable = errors.New("storage: backend unavailable")

	// ErrCorruptRecord marks a stored payload that no longer decodes.
	ErrCorruptRecord = errors.New("storage: corrupt task record")
)

// DefaultPrefix namespaces record keys within a shared keyspace.
const DefaultPrefix = "cron:"

// Config selects and configures a backend.
//
// Driver values: "memory" (default), "redis", "sqlite".
type Config struct {
	Driver string       `json:"driver" yaml:"driver" env:"DRIVER"`
	Prefix string       `json:"prefix" yaml:"prefix" env:"PREFIX"`
	Redis  RedisConfig  `json:"redis" yaml:"redis" envPrefix:"REDIS_"`
	SQLite SQLiteConfig `json:"sqlite" yaml:"sqlite" envPrefix:"SQLITE_"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr" env:"ADDR"`
	Password string `json:"password" yaml:"password" env:"PASSWORD"`
	DB       int    `json:"db" yaml:"db" env:"DB"`
}

type SQLiteConfig struct {
	Path        string        `json:"path" yaml:"path" env:"PATH"`
	BusyTimeout time.Duration `json:"busyTimeout" yaml:"busy_timeout" env:"BUSY_TIMEOUT"`
}

// Store is the CRUD contract every backend satisfies. Calls are
// independent: concurrent updates against the same id race at the
// backend's granularity, and GetAll/Clear are not atomic snapshots.
type Store interface {
	// Init prepares the backend (connects, migrates). It fails with an
	// error wrapping ErrUnavailable when the underlying dependency
	// cannot be reached or was not built in; there is no fallback to
	// another backend.
	Init(ctx context.Context) error

	// Add persists a new task, assigning an id and stamping lifecycle
	// fields, and returns the full stored record.
	Add(ctx context.Context, t task.Task) (task.Task, error)

	// Get returns the stored record and whether it exists. A missing id
	// is not an error.
	Get(ctx context.Context, id string) (task.Task, bool, error)

	// GetAll returns every record in this backend's key namespace, in no
	// guaranteed order.
	GetAll(ctx context.Context) ([]task.Task, error)

	// Update merges the partial into the stored record, re-stamps
	// updatedAt and returns the result. Unknown ids fail with
	// ErrNotFound.
	Update(ctx context.Context, id string, p task.Patch) (task.Task, error)

	// Remove deletes the record and reports whether one existed.
	Remove(ctx context.Context, id string) (bool, error)

	// Clear deletes every record in this backend's namespace.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Open constructs the configured backend. It does no I/O; call Init on
// the returned store before use.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	if strings.TrimSpace(cfg.Prefix) == "" {
		cfg.Prefix = DefaultPrefix
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "memory":
		return newMemory(cfg, log), nil
	case "redis":
		return newRedis(cfg, log), nil
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", cfg.Driver)
	}
}

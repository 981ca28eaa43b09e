package sql

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/syssam/dbcmd"
	"github.com/syssam/dbcmd/dialect"
)

// ErrUnknownSource is returned when a keyed data source is not registered.
var ErrUnknownSource = errors.New("dialect/sql: unknown data source")

// Source hands out executors to generated invokers. Declarations without a
// data-source key use Default; the others look their key up with Conn.
type Source interface {
	Default(ctx context.Context) (Executor, error)
	Conn(ctx context.Context, key string) (Executor, error)
}

// Registry is a Source over a fixed set of named executors.
// It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	def     Executor
	sources map[string]Executor
	closers []func() error
}

// NewRegistry returns a registry whose default executor is def (may be nil).
func NewRegistry(def Executor) *Registry {
	return &Registry{def: def, sources: make(map[string]Executor)}
}

// Register adds or replaces the executor for key.
func (r *Registry) Register(key string, ex Executor) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[key] = ex
	return r
}

// SetDefault replaces the default executor.
func (r *Registry) SetDefault(ex Executor) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.def = ex
	return r
}

// Default implements Source.
func (r *Registry) Default(ctx context.Context) (Executor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.def == nil {
		return nil, dbcmd.ErrNoSource
	}
	return r.def, nil
}

// Conn implements Source.
func (r *Registry) Conn(ctx context.Context, key string) (Executor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.sources[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, key)
	}
	return ex, nil
}

// Keys returns the registered keys in sorted order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.sources))
	for k := range r.sources {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Close closes every driver opened by Load.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// SourceConfig describes one data source.
type SourceConfig struct {
	Dialect         string        `yaml:"dialect"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns,omitempty"`
	MaxIdleConns    int           `yaml:"max_idle_conns,omitempty"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime,omitempty"`
}

// SourcesConfig describes the data sources of an application. Default names
// the entry used by declarations without a data-source key.
type SourcesConfig struct {
	Default string                  `yaml:"default"`
	Sources map[string]SourceConfig `yaml:"sources"`
}

// ReadSourcesConfig reads a SourcesConfig from a YAML file.
func ReadSourcesConfig(path string) (*SourcesConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &SourcesConfig{}
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("dialect/sql: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Load opens every configured source and returns a registry over them.
// On failure, the sources opened so far are closed.
func Load(cfg *SourcesConfig) (*Registry, error) {
	r := NewRegistry(nil)
	keys := make([]string, 0, len(cfg.Sources))
	for k := range cfg.Sources {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		drv, err := OpenSource(cfg.Sources[key])
		if err != nil {
			return nil, errors.Join(fmt.Errorf("dialect/sql: source %q: %w", key, err), r.Close())
		}
		r.Register(key, drv)
		r.closers = append(r.closers, drv.Close)
	}
	if cfg.Default != "" {
		def, ok := r.sources[cfg.Default]
		if !ok {
			return nil, errors.Join(fmt.Errorf("%w: default %q", ErrUnknownSource, cfg.Default), r.Close())
		}
		r.def = def
	}
	return r, nil
}

// OpenSource opens a driver for the source, normalizing its DSN first.
func OpenSource(c SourceConfig) (*Driver, error) {
	dsn, err := NormalizeDSN(c.Dialect, c.DSN)
	if err != nil {
		return nil, err
	}
	drv, err := Open(c.Dialect, dsn)
	if err != nil {
		return nil, err
	}
	db := drv.DB()
	if c.MaxOpenConns > 0 {
		db.SetMaxOpenConns(c.MaxOpenConns)
	}
	if c.MaxIdleConns > 0 {
		db.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(c.ConnMaxLifetime)
	}
	return drv, nil
}

// NormalizeDSN validates dsn for the dialect. MySQL DSNs are parsed and
// re-encoded with parseTime enabled, Postgres URLs are converted into
// key/value connection strings.
func NormalizeDSN(d, dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("dialect/sql: empty dsn")
	}
	switch d {
	case dialect.MySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("dialect/sql: mysql dsn: %w", err)
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case dialect.Postgres:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			conn, err := pq.ParseURL(dsn)
			if err != nil {
				return "", fmt.Errorf("dialect/sql: postgres url: %w", err)
			}
			return conn, nil
		}
		return dsn, nil
	case dialect.SQLite:
		return dsn, nil
	}
	return "", fmt.Errorf("%w: dialect %q", ErrUnsupported, d)
}

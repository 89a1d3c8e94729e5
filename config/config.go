/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads the bus configuration used to bind a subscription registry.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/storagemodels"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "BUS_"

// Store drivers.
const (
	DriverDynamoDB = "dynamodb"
	DriverSQLite   = "sqlite"
)

// Config is the bus configuration handed to the registry at startup.
type Config struct {
	// InboxWorkQueueURI is the work queue the local endpoint reads from.
	InboxWorkQueueURI string `yaml:"inboxWorkQueueUri" env:"INBOX_WORK_QUEUE_URI"`

	Store StoreConfig `yaml:"store" envPrefix:"STORE_"`
	Log   LogConfig   `yaml:"log" envPrefix:"LOG_"`
}

// StoreConfig selects and configures the subscription store.
type StoreConfig struct {
	Driver string `yaml:"driver" env:"DRIVER"`

	// DynamoDB
	TableName string `yaml:"tableName" env:"TABLE_NAME"`
	Region    string `yaml:"region" env:"REGION"`
	AccessKey string `yaml:"accessKey" env:"ACCESS_KEY"`
	SecretKey string `yaml:"secretKey" env:"SECRET_KEY"`
	Endpoint  string `yaml:"endpoint" env:"ENDPOINT"`

	// SQLite
	SQLitePath string `yaml:"sqlitePath" env:"SQLITE_PATH"`

	PageSize     int32         `yaml:"pageSize" env:"PAGE_SIZE"`
	MaxRetries   int           `yaml:"maxRetries" env:"MAX_RETRIES"`
	RetryBackoff time.Duration `yaml:"retryBackoff" env:"RETRY_BACKOFF"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	q := storagemodels.DefaultQueryOptions()
	return Config{
		Store: StoreConfig{
			Driver:       DriverSQLite,
			SQLitePath:   "subscriptions.db",
			Region:       "us-east-1",
			PageSize:     q.PageSize,
			MaxRetries:   q.MaxRetries,
			RetryBackoff: q.RetryBackoff,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load builds a Config from defaults, a .env file in the working directory,
// the YAML file at path (skipped when path is empty) and BUS_ environment
// variables, in that order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration can build a store and bind a registry.
func (c *Config) Validate() error {
	if c.InboxWorkQueueURI == "" {
		return errors.NewInvalidArgumentError("inboxWorkQueueUri", "endpoint address is required")
	}
	switch c.Store.Driver {
	case DriverDynamoDB:
		if c.Store.TableName == "" {
			return errors.NewInvalidArgumentError("store.tableName", "required for the dynamodb driver")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.NewInvalidArgumentError("store.sqlitePath", "required for the sqlite driver")
		}
	default:
		return errors.NewInvalidArgumentError("store.driver", fmt.Sprintf("unknown driver %q", c.Store.Driver))
	}
	if c.Store.PageSize < 0 || c.Store.MaxRetries < 0 || c.Store.RetryBackoff < 0 {
		return errors.NewInvalidArgumentError("store", "page size, retries and backoff must not be negative")
	}
	return nil
}

// EndpointAddress returns the local endpoint's work queue address.
func (c *Config) EndpointAddress() string {
	return c.InboxWorkQueueURI
}

// QueryOptions turns the store tuning fields into storagemodels options.
func (c *Config) QueryOptions() []storagemodels.QueryOption {
	return []storagemodels.QueryOption{
		storagemodels.WithPageSize(c.Store.PageSize),
		storagemodels.WithMaxRetries(c.Store.MaxRetries),
		storagemodels.WithRetryBackoff(c.Store.RetryBackoff),
	}
}

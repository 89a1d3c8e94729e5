/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/busregistry/errors"
	"github.com/suparena/busregistry/storagemodels"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BUS_INBOX_WORK_QUEUE_URI", "queue://inbox/A")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "queue://inbox/A", cfg.EndpointAddress())
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "subscriptions.db", cfg.Store.SQLitePath)
	assert.Equal(t, int32(100), cfg.Store.PageSize)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadYAMLThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "bus.yaml", `
inboxWorkQueueUri: queue://inbox/yaml
store:
  driver: dynamodb
  tableName: subscriptions
  region: eu-west-1
  pageSize: 25
  retryBackoff: 1s
log:
  level: debug
`)
	t.Setenv("BUS_STORE_TABLE_NAME", "subscriptions-prod")
	t.Setenv("BUS_STORE_MAX_RETRIES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "queue://inbox/yaml", cfg.InboxWorkQueueURI)
	assert.Equal(t, DriverDynamoDB, cfg.Store.Driver)
	assert.Equal(t, "subscriptions-prod", cfg.Store.TableName)
	assert.Equal(t, "eu-west-1", cfg.Store.Region)
	assert.Equal(t, int32(25), cfg.Store.PageSize)
	assert.Equal(t, 7, cfg.Store.MaxRetries)
	assert.Equal(t, time.Second, cfg.Store.RetryBackoff)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".env", "BUS_INBOX_WORK_QUEUE_URI=queue://inbox/dotenv\n")
	t.Cleanup(func() { os.Unsetenv("BUS_INBOX_WORK_QUEUE_URI") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "queue://inbox/dotenv", cfg.EndpointAddress())
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := writeFile(t, dir, "bad.yaml", "store: [not, a, map")
	_, err = Load(bad)
	assert.Error(t, err)

	// no endpoint address anywhere
	_, err = Load("")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ValidSQLite", func(c *Config) {}, false},
		{"MissingAddress", func(c *Config) { c.InboxWorkQueueURI = "" }, true},
		{"UnknownDriver", func(c *Config) { c.Store.Driver = "postgres" }, true},
		{"DynamoWithoutTable", func(c *Config) { c.Store.Driver = DriverDynamoDB }, true},
		{"DynamoWithTable", func(c *Config) {
			c.Store.Driver = DriverDynamoDB
			c.Store.TableName = "subs"
		}, false},
		{"SQLiteWithoutPath", func(c *Config) { c.Store.SQLitePath = "" }, true},
		{"NegativeRetries", func(c *Config) { c.Store.MaxRetries = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.InboxWorkQueueURI = "queue://a"
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.True(t, errors.IsInvalidArgument(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQueryOptions(t *testing.T) {
	cfg := Default()
	cfg.Store.PageSize = 10
	cfg.Store.MaxRetries = 0
	cfg.Store.RetryBackoff = 0

	opts := storagemodels.ApplyQueryOptions(cfg.QueryOptions()...)
	assert.Equal(t, int32(10), opts.PageSize)
	assert.Equal(t, 0, opts.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, opts.RetryBackoff)
}

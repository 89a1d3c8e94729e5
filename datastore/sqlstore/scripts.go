/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package sqlstore

import (
	"fmt"
	"maps"
	"regexp"

	"github.com/suparena/busregistry/datastore"
	"github.com/suparena/busregistry/errors"
)

// DefaultTableName is the table used when none is configured.
const DefaultTableName = "subscriber_message_type"

// ScriptProvider resolves a named query to the SQL text that implements it.
// Parameters are referenced as :MessageType, :EndpointAddress and :SubscribedAt.
type ScriptProvider interface {
	Script(name datastore.QueryName) (string, error)
}

// Scripts is a ScriptProvider backed by a map.
type Scripts map[datastore.QueryName]string

// Script implements ScriptProvider.
func (s Scripts) Script(name datastore.QueryName) (string, error) {
	script, ok := s[name]
	if !ok || script == "" {
		return "", fmt.Errorf("sqlstore: %w: %s", errors.ErrUnknownQuery, name)
	}
	return script, nil
}

// With returns a copy of s with overrides applied.
func (s Scripts) With(overrides Scripts) Scripts {
	merged := maps.Clone(s)
	maps.Copy(merged, overrides)
	return merged
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DefaultScripts returns the SQLite scripts for a subscription table.
// The composite primary key makes Subscribe an idempotent insert.
func DefaultScripts(table string) (Scripts, error) {
	if !identifierPattern.MatchString(table) {
		return nil, errors.NewInvalidArgumentError("table", fmt.Sprintf("%q is not a valid SQL identifier", table))
	}

	return Scripts{
		datastore.QueryCreate: `CREATE TABLE IF NOT EXISTS ` + table + ` (
	MessageType     TEXT NOT NULL,
	EndpointAddress TEXT NOT NULL,
	SubscribedAt    TEXT NOT NULL,
	PRIMARY KEY (MessageType, EndpointAddress)
)`,
		datastore.QueryExists: `SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = '` + table + `'`,
		datastore.QuerySubscribe: `INSERT OR IGNORE INTO ` + table + ` (MessageType, EndpointAddress, SubscribedAt)
VALUES (:MessageType, :EndpointAddress, :SubscribedAt)`,
		datastore.QueryAddressesByType: `SELECT MessageType, EndpointAddress, SubscribedAt FROM ` + table + `
WHERE MessageType = :MessageType
ORDER BY rowid`,
	}, nil
}

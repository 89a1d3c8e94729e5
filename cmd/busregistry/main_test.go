/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), err
}

func useSQLite(t *testing.T, address string) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BUS_INBOX_WORK_QUEUE_URI", address)
	t.Setenv("BUS_STORE_DRIVER", "sqlite")
	t.Setenv("BUS_STORE_SQLITE_PATH", filepath.Join(dir, "subs.db"))
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "busregistry version")
	assert.Contains(t, out, "Go version: go")
}

func TestProvisionRegisterLookup(t *testing.T) {
	useSQLite(t, "queue://inbox/A")

	out, err := run(t, "provision")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite store provisioned")

	out, err = run(t, "register", "Order.Created", "Order.Shipped")
	require.NoError(t, err)
	assert.Contains(t, out, "registered Order.Created -> queue://inbox/A")

	t.Setenv("BUS_INBOX_WORK_QUEUE_URI", "queue://inbox/B")
	_, err = run(t, "register", "Order.Created")
	require.NoError(t, err)

	out, err = run(t, "lookup", "Order.Created")
	require.NoError(t, err)
	assert.Equal(t, []string{"queue://inbox/A", "queue://inbox/B"}, strings.Fields(out))

	out, err = run(t, "lookup", "Nobody.Cares")
	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(out))
}

func TestRegisterSmoke(t *testing.T) {
	useSQLite(t, "queue://inbox/A")
	_, err := run(t, "provision")
	require.NoError(t, err)

	out, err := run(t, "register", "--smoke")
	require.NoError(t, err)
	assert.Contains(t, out, "smoke lookup ok")
}

func TestRegisterWithoutProvisionFails(t *testing.T) {
	useSQLite(t, "queue://inbox/A")

	_, err := run(t, "register", "Order.Created")
	assert.Error(t, err)

	_, err = run(t, "register")
	assert.Error(t, err)
}

func TestLogLevelInstallsGlobalLogger(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })
	useSQLite(t, "queue://inbox/A")

	_, err := run(t, "--log-level", "debug", "provision")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, log.Logger.GetLevel())

	_, err = run(t, "--log-level", "warn", "lookup", "Order.Created")
	require.NoError(t, err)
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
}

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("chatty"))
}

func TestNewWritesAppField(t *testing.T) {
	var buf bytes.Buffer
	logger := New("busregistry", &buf, "info")

	logger.Debug().Msg("hidden")
	logger.Info().Str("endpoint", "queue://a").Msg("registry bound")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "registry bound")
	assert.Contains(t, out, "app=busregistry")
	assert.Contains(t, out, "endpoint=queue://a")
}

func TestInitInstallsGlobal(t *testing.T) {
	previous := log.Logger
	t.Cleanup(func() { log.Logger = previous })

	var buf bytes.Buffer
	Init("busregistry", &buf, "error")

	assert.Equal(t, zerolog.ErrorLevel, log.Logger.GetLevel())
	log.Error().Msg("store down")
	assert.Contains(t, buf.String(), "store down")
}

package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/sitetrack-api/pkg/logger"
)

func TestNew_JSONOutputAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf})

	l.Info().Msg("no debe salir")
	l.Warn().Str("task_id", "t1").Msg("transición rechazada")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "t1", entry["task_id"])
}

func TestNew_ServiceField(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(logger.Config{Env: "production", Service: "sitetrack-api", Out: &buf})
	l.Info().Msg("arranque")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "sitetrack-api", entry["service"])
}

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal(line, &entry))
		out = append(out, entry)
	}
	return out
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(WarnLevel, &buf)

	logger.WithModule("test").Info().Msg("hidden")
	logger.WithModule("test").Warn().Msg("shown")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
	assert.Equal(t, "warn", lines[0]["level"])
}

func TestNewLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevel("loud"), &buf)

	logger.WithModule("test").Debug().Msg("hidden")
	logger.WithModule("test").Info().Msg("shown")

	assert.Len(t, decodeLines(t, &buf), 1)
}

func TestLogger_WithFieldAndModule(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(DebugLevel, &buf).WithField("session_id", "abc")

	logger.WithModule("database").Info().Int("rows", 6).Msg("seeded")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "database", lines[0]["module"])
	assert.Equal(t, "abc", lines[0]["session_id"])
	assert.EqualValues(t, 6, lines[0]["rows"])
}

func TestLogger_LogOperation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(InfoLevel, &buf)

	logger.LogOperation(context.Background(), "add", 15*time.Millisecond, nil)
	logger.LogOperation(context.Background(), "delete", time.Millisecond, errors.New("boom"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "add", lines[0]["operation"])
	assert.Equal(t, "info", lines[0]["level"])
	assert.EqualValues(t, 15, lines[0]["duration_ms"])
	assert.Equal(t, "warn", lines[1]["level"])
	assert.Equal(t, "boom", lines[1]["error"])
}

func TestInitGlobalLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(InfoLevel, "json", &buf)
	t.Cleanup(func() { SetGlobalLogger(nil) })

	SetGlobalLogger(GetGlobalLogger().WithField("session_id", "abc"))
	GetGlobalLogger().WithModule("main").Info().Msg("started")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "started", lines[0]["message"])
	assert.Equal(t, "abc", lines[0]["session_id"])
}

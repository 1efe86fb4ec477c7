package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: WarnLevel, Stderr: &buf})

	logger.Debug("ignored")
	logger.Info("ignored")
	logger.Warn("kept")
	logger.Error("kept too")

	out := buf.String()
	assert.NotContains(t, out, "ignored")
	assert.Contains(t, out, "WARN: kept")
	assert.Contains(t, out, "ERROR: kept too")
}

func TestKeyValueFormatting(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Stderr: &buf})

	logger.Info("parsed", "path", "lib.rs", "functions", 3)

	assert.Contains(t, buf.String(), "parsed path=lib.rs functions=3")
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, JSONOutput: true, Stderr: &buf})

	logger.Info("cfg stage done", "processed", 7)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "cfg stage done processed=7", entry["message"])
	assert.NotEmpty(t, entry["timestamp"])
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Stderr: &buf})

	logger.Debug("before")
	logger.SetLevel(DebugLevel)
	logger.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}

func TestNoColorsForNonTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: InfoLevel, Stderr: &buf})

	logger.Info("plain")

	assert.NotContains(t, buf.String(), "\033[")
}

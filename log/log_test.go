package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(NewPlugin(zapcore.AddSync(&buf), zapcore.InfoLevel))

	logger.Debug("hidden")
	logger.Info("crawl finished", zap.String("task", "ptt_tr"))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "crawl finished", entry["msg"])
	assert.Equal(t, "ptt_tr", entry["task"])
	assert.Contains(t, entry, "caller")
}

func TestFilePlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crawler.log")
	plugin, closer := NewFilePlugin(path, zapcore.InfoLevel)
	logger := NewLogger(plugin)

	logger.Info("log init end")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "log init end")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level)

	_, err = ParseLevel("verbose")
	assert.Error(t, err)
}

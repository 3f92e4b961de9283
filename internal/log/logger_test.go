package log

import (
	"os"
	"path/filepath"
	"testing"

	"profile/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	dir := t.TempDir()
	conf := &config.Configuration{}
	conf.App.Name = "profile-test"
	conf.Log.Level = "debug"
	conf.Log.Dir = dir

	logger, err := NewLogger(conf)
	require.NoError(t, err)
	logger.Debug("hello")
	_ = logger.Sync()

	matches, err := filepath.Glob(filepath.Join(dir, "profile-test-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `"message":"hello"`)
}

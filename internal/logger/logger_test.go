package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInitialize_ValidLevels(t *testing.T) {
	// Save original Log and restore after test
	originalLog := Log
	defer func() { Log = originalLog }()

	levels := []string{"debug", "info", "warn", "error"}

	for _, lvl := range levels {
		for _, format := range []string{"json", "console", ""} {
			t.Run(lvl+"/"+format, func(t *testing.T) {
				err := Initialize(lvl, format)
				assert.NoError(t, err, "expected no error for level %s", lvl)
				assert.IsType(t, &zap.SugaredLogger{}, Log, "Log should be a SugaredLogger")

				assert.NotPanics(t, func() {
					Log.Infow("test log", "level", lvl, "format", format)
				})
			})
		}
	}
}

func TestInitialize_InvalidLevel(t *testing.T) {
	originalLog := Log
	defer func() { Log = originalLog }()

	err := Initialize("not-a-level", "json")
	assert.Error(t, err, "expected error for invalid log level")
	assert.Equal(t, originalLog, Log, "Log must stay untouched on error")
}

func TestInitialize_InvalidFormat(t *testing.T) {
	originalLog := Log
	defer func() { Log = originalLog }()

	err := Initialize("info", "xml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
}

func TestLog_NopBeforeInitialize(t *testing.T) {
	assert.NotNil(t, Log)
	assert.IsType(t, &zap.SugaredLogger{}, Log)

	// Should not panic even if called
	assert.NotPanics(t, func() {
		Log.Infow("nop logger test")
	})
}

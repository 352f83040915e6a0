package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		json    bool
		verbose bool
		want    zapcore.Level
	}{
		{"info console", "info", false, false, zapcore.InfoLevel},
		{"warn json", "warn", true, false, zapcore.WarnLevel},
		{"verbose overrides", "error", false, true, zapcore.DebugLevel},
		{"empty is info", "", false, false, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.json, tt.verbose)
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", false, false)
	assert.ErrorContains(t, err, "invalid log level")
}

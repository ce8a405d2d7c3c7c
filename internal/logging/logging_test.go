package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level, format string
		want          zapcore.Level
	}{
		{"debug", "json", zapcore.DebugLevel},
		{"INFO", "console", zapcore.InfoLevel},
		{"warn", "", zapcore.WarnLevel},
		{"error", "json", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		logger, err := New(tt.level, tt.format)
		require.NoError(t, err, tt.level)
		assert.True(t, logger.Core().Enabled(tt.want))
		assert.False(t, logger.Core().Enabled(tt.want-1))
	}
}

func TestNew_Invalid(t *testing.T) {
	_, err := New("loud", "json")
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}

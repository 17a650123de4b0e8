package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
		{"verbose", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStdLoggerFormatsAndFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLoggerTo(&buf, LevelInfo)
	ctx := context.Background()

	l.Debug(ctx, "hidden")
	l.Info(ctx, "summary ready", map[string]interface{}{"trades": 12, "dataset": "btc"})
	l.Error(ctx, errors.New("boom"), "save failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[INFO] summary ready | dataset=btc trades=12")
	assert.Contains(t, out, "[ERROR] save failed | error: boom")
}

func TestZapLoggerWritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))
	ctx := context.Background()

	l.Info(ctx, "monte carlo complete", map[string]interface{}{"trials": 100}, map[string]interface{}{"successRate": 0.7})
	l.Error(ctx, errors.New("disk full"), "persist failed")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "monte carlo complete", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, 100, fields["trials"])
	assert.Equal(t, 0.7, fields["successRate"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
}

func TestZapLevelMapping(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, zapLevel(LevelDebug))
	assert.Equal(t, zapcore.ErrorLevel, zapLevel(LevelError))
	assert.Equal(t, zapcore.InfoLevel, zapLevel(LogLevel(42)))
}

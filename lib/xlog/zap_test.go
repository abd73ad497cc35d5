package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbt/lib/infra"
)

func newTestLogger(t *testing.T, lvl LogLevel) (XLogger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(JSON),
		WithXLoggerLevel(lvl),
	)
	return logger, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	res := make([]map[string]any, 0, len(lines))
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		m := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		res = append(res, m)
	}
	return res
}

func TestXLogger_Levels(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelInfo)
	logger.Debug("hidden")
	logger.Info("visible", zap.Int("size", 7))
	logger.Warn("warned")
	logger.Error(errors.New("boom"), "failed")
	require.NoError(t, logger.Sync())

	entries := decodeLines(t, buf)
	require.Len(t, entries, 3)
	require.Equal(t, "visible", entries[0]["msg"])
	require.Equal(t, "INFO", entries[0]["lvl"])
	require.Equal(t, float64(7), entries[0]["size"])
	require.Equal(t, "WARN", entries[1]["lvl"])
	require.Equal(t, "boom", entries[2]["error"])
}

func TestXLogger_IncreaseLogLevel(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelDebug)
	logger.Debug("first")
	logger.IncreaseLogLevel(zapcore.ErrorLevel)
	logger.Warn("dropped")
	logger.Logf(zapcore.ErrorLevel, "size %d", 5)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	require.Equal(t, "first", entries[0]["msg"])
	require.Equal(t, "size 5", entries[1]["msg"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelDebug)
	logger.ErrorStack(infra.WrapErrorStackWithMessage(errors.New("red violation"), "validate"), "rbtree broken")
	logger.ErrorStack(errors.New("plain"), "no stack")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	require.Equal(t, "validate: red violation", entries[0]["error"])
	require.NotEmpty(t, entries[0]["errorStack"])
	require.Equal(t, "plain", entries[1]["error"])
	require.Nil(t, entries[1]["errorStack"])
}

func TestXLogger_Options(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(_writerMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriteSyncer(nil))
	})

	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriteSyncer(zapcore.AddSync(buf)),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
		WithXLoggerLevel(LogLevelDebug),
	)
	logger.Info("plain text")
	require.Contains(t, buf.String(), "plain text")
}

func TestGetLogLevelOrDefault(t *testing.T) {
	testcases := []struct {
		in       string
		expected zapcore.Level
	}{
		{"", zapcore.DebugLevel},
		{"  ", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.DebugLevel},
	}
	for _, tc := range testcases {
		require.Equal(t, tc.expected, getLogLevelOrDefault(tc.in))
	}
}

func TestNewXLogger_EnvLevel(t *testing.T) {
	t.Setenv(envLogLevel, "ERROR")
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriteSyncer(zapcore.AddSync(buf)))
	logger.Warn("dropped")
	logger.Error(nil, "kept")
	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0]["msg"])
}

func TestNopXLogger(t *testing.T) {
	logger := NewNopXLogger()
	logger.Info("nothing")
	logger.ErrorStack(infra.NewErrorStack("nothing"), "nothing")
	require.NoError(t, logger.Sync())
}

func TestFxXLogger(t *testing.T) {
	logger, buf := newTestLogger(t, LogLevelDebug)
	fxLogger := NewFxXLogger(logger)

	events := []fxevent.Event{
		&fxevent.OnStartExecuting{FunctionName: "start", CallerName: "caller"},
		&fxevent.OnStartExecuted{FunctionName: "start", Err: errors.New("fx error 1")},
		&fxevent.OnStopExecuting{FunctionName: "stop"},
		&fxevent.OnStopExecuted{FunctionName: "stop"},
		&fxevent.Supplied{TypeName: "config"},
		&fxevent.Provided{OutputTypeNames: []string{"xlog.XLogger"}, ConstructorName: "newLogger"},
		&fxevent.Invoking{FunctionName: "run"},
		&fxevent.Invoked{FunctionName: "run", Err: errors.New("fx error 2")},
		&fxevent.Stopping{Signal: os.Interrupt},
		&fxevent.RollingBack{StartErr: errors.New("fx error 3")},
		&fxevent.Started{},
		&fxevent.LoggerInitialized{ConstructorName: "newFxLogger"},
	}
	for _, e := range events {
		fxLogger.LogEvent(e)
	}

	entries := decodeLines(t, buf)
	require.Len(t, entries, len(events))
	for _, e := range entries {
		require.Equal(t, "Fx", e["component"])
	}
	require.Equal(t, "fx error 2", entries[7]["error"])

	var nilLogger *FxXLogger
	require.NotPanics(t, func() {
		nilLogger.LogEvent(&fxevent.Started{})
	})
}

package infra

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{initPC, "%s", "err_stack_test.go"},
		{initPC, "%n", "init"},
		{initPC, "%d", "14"},
		{initPC, "%v", "err_stack_test.go:14"},
		{Frame(0), "%s", "unknownFile"},
		{Frame(0), "%d", "0"},
	}

	for _, tc := range testcases {
		require.Equal(t, tc.want, fmt.Sprintf(tc.format, tc.Frame))
	}

	full := fmt.Sprintf("%+v", initPC)
	require.True(t, strings.HasPrefix(full, "github.com/benz9527/xrbt/lib/infra.init\n\t"))
	require.True(t, strings.HasSuffix(full, "err_stack_test.go:14"))
}

func TestFrameMarshalText(t *testing.T) {
	text, err := initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "github.com/benz9527/xrbt/lib/infra.init "))
	require.True(t, strings.HasSuffix(string(text), "err_stack_test.go:14"))

	text, err = Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))
}

func TestErrorStack(t *testing.T) {
	err := NewErrorStack("broken")
	require.Equal(t, "broken", err.Error())

	var es ErrorStack
	require.True(t, errors.As(err, &es))
	require.NotEmpty(t, es.Frames())
	require.Equal(t, "TestErrorStack", fmt.Sprintf("%n", es.Frames()[0]))
	require.Nil(t, es.Unwrap())
}

func TestWrapErrorStackWithMessage(t *testing.T) {
	require.NoError(t, WrapErrorStackWithMessage(nil, "nothing"))

	sentinel := errors.New("sentinel")
	wrapped := WrapErrorStackWithMessage(sentinel, "outer")
	require.ErrorIs(t, wrapped, sentinel)
	require.Equal(t, "outer: sentinel", wrapped.Error())

	inner := NewErrorStack("inner")
	rewrapped := WrapErrorStackWithMessage(inner, "outer")
	require.ErrorIs(t, rewrapped, inner)
	require.Equal(t, inner.(ErrorStack).Frames(), rewrapped.(ErrorStack).Frames())
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	err := WrapErrorStackWithMessage(errors.New("cause"), "wrapped")
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, err.(ErrorStack).MarshalLogObject(enc))
	require.Equal(t, "wrapped: cause", enc.Fields["error"])
	stack, ok := enc.Fields["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, stack)
}

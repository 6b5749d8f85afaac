package hostfuncs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPanicRecoveryMiddleware(t *testing.T) {
	reg, err := NewRegistry(
		WithByteHandler("boom", func(context.Context, []byte) ([]byte, error) {
			panic("hostile payload")
		}),
		WithMiddleware(PanicRecoveryMiddleware()),
	)
	require.NoError(t, err)

	resp, err := reg.Invoke(context.Background(), "boom", []byte("{}"))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), `capability boom panicked`)
	assert.Contains(t, err.Error(), "hostile payload")
}

func TestPanicRecoveryMiddleware_PassThrough(t *testing.T) {
	reg, err := NewRegistry(
		WithByteHandler("ok", echoHandler),
		WithMiddleware(PanicRecoveryMiddleware()),
	)
	require.NoError(t, err)

	resp, err := reg.Invoke(context.Background(), "ok", []byte("fine"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fine"), resp)
}

func TestLoggingMiddleware_PassThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reg, err := NewRegistry(
		WithByteHandler("ok", echoHandler),
		WithMiddleware(LoggingMiddleware(logger)),
	)
	require.NoError(t, err)

	resp, err := reg.Invoke(context.Background(), "ok", []byte("fine"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fine"), resp)
}

func TestCapabilityNameFrom_Unset(t *testing.T) {
	assert.Equal(t, "unknown", CapabilityNameFrom(context.Background()))
}

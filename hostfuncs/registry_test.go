package hostfuncs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoHandler(_ context.Context, payload []byte) ([]byte, error) {
	return payload, nil
}

func TestNewRegistry(t *testing.T) {
	reg, err := NewRegistry(
		WithByteHandler("b", echoHandler),
		WithByteHandler("a", echoHandler),
	)
	require.NoError(t, err)

	assert.True(t, reg.Has("a"))
	assert.True(t, reg.Has("b"))
	assert.False(t, reg.Has("c"))
	assert.Equal(t, []string{"a", "b"}, reg.Names())
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(
		WithByteHandler("dup", echoHandler),
		WithByteHandler("dup", echoHandler),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate capability name")
}

func TestNewRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry(WithByteHandler("", echoHandler))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")
}

func TestNewRegistry_NilHandler(t *testing.T) {
	_, err := NewRegistry(WithByteHandler("nil", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil handler")
}

func TestRegistry_Invoke(t *testing.T) {
	reg, err := NewRegistry(WithByteHandler("echo", echoHandler))
	require.NoError(t, err)

	resp, err := reg.Invoke(context.Background(), "echo", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), resp)
}

func TestRegistry_InvokeUnknown(t *testing.T) {
	reg, err := NewRegistry()
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown capability")
}

func TestRegistry_InvokeCarriesCapabilityName(t *testing.T) {
	var seen string
	reg, err := NewRegistry(WithByteHandler("named", func(ctx context.Context, _ []byte) ([]byte, error) {
		seen = CapabilityNameFrom(ctx)
		return nil, nil
	}))
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), "named", nil)
	require.NoError(t, err)
	assert.Equal(t, "named", seen)
}

func TestRegistry_MiddlewareFIFOOrder(t *testing.T) {
	var order []string
	tag := func(label string) Middleware {
		return func(next ByteHandler) ByteHandler {
			return func(ctx context.Context, payload []byte) ([]byte, error) {
				order = append(order, label+":before")
				resp, err := next(ctx, payload)
				order = append(order, label+":after")
				return resp, err
			}
		}
	}

	reg, err := NewRegistry(
		WithByteHandler("h", func(context.Context, []byte) ([]byte, error) {
			order = append(order, "handler")
			return nil, nil
		}),
		WithMiddleware(tag("first"), tag("second")),
	)
	require.NoError(t, err)

	_, err = reg.Invoke(context.Background(), "h", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"first:before", "second:before", "handler", "second:after", "first:after",
	}, order)
}

package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teilomillet/lmbridge/config"
)

func newMock(t *testing.T) *MockProvider {
	t.Helper()
	p, err := NewMockProvider(config.NewConfig())
	require.NoError(t, err)
	return p.(*MockProvider)
}

func TestMockProvider(t *testing.T) {
	mock := newMock(t)
	assert.Equal(t, "mock", mock.Name())

	resp, err := mock.Generate(context.Background(), "first", nil)
	require.NoError(t, err)
	assert.Equal(t, "This is a mock response", resp.String())

	mock.SetMockResponse("custom mock response")
	resp, err = mock.Generate(context.Background(), "second", nil)
	require.NoError(t, err)
	assert.Equal(t, "custom mock response", resp.String())

	mockErr := errors.New("mock error")
	mock.SetMockError(mockErr)
	_, err = mock.Generate(context.Background(), "third", nil)
	assert.ErrorIs(t, err, mockErr)

	assert.Equal(t, []string{"first", "second", "third"}, mock.Prompts())
}

func TestMockProviderResponses(t *testing.T) {
	mock := newMock(t)
	mock.SetResponses([]string{"First response", "Second response"}, false)

	for _, expected := range []string{"First response", "Second response"} {
		resp, err := mock.Generate(context.Background(), "x", nil)
		require.NoError(t, err)
		assert.Equal(t, expected, resp.String())
	}

	_, err := mock.Generate(context.Background(), "x", nil)
	assert.True(t, IsTransportError(err))

	mock.SetResponses([]string{"a", "b"}, true)
	var got []string
	for i := 0; i < 3; i++ {
		resp, err := mock.Generate(context.Background(), "x", nil)
		require.NoError(t, err)
		got = append(got, resp.String())
	}
	assert.Equal(t, []string{"a", "b", "a"}, got)
}

func TestMockProviderStructured(t *testing.T) {
	mock := newMock(t)
	mock.SetResponses([]string{`{"a": 1}`, "not json"}, false)

	resp, err := mock.Generate(context.Background(), "x", AnySchema())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, resp.Value())

	_, err = mock.Generate(context.Background(), "x", AnySchema())
	assert.True(t, IsDecodingError(err))
}

func TestMockProviderCanceledContext(t *testing.T) {
	mock := newMock(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, "x", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, mock.Prompts())
}

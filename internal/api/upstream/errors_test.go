package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyTransportError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, ClassifyTransportError("llm", nil))
	})

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		err := ClassifyTransportError("llm", fmt.Errorf("post: %w", context.DeadlineExceeded))
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Contains(t, err.Error(), "llm")
	})

	t.Run("net timeout is a timeout", func(t *testing.T) {
		err := ClassifyTransportError("geocoder", timeoutErr{})
		assert.ErrorIs(t, err, ErrTimeout)
	})

	t.Run("connection refused is unavailable", func(t *testing.T) {
		err := ClassifyTransportError("llm", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"))
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.NotErrorIs(t, err, ErrTimeout)
	})

	t.Run("caller cancellation passes through", func(t *testing.T) {
		err := ClassifyTransportError("llm", context.Canceled)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})
}

func TestStatusError(t *testing.T) {
	err := NewStatusError("openrouter", 502, []byte(strings.Repeat("x", 500)))

	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, 502, err.StatusCode)
	assert.Len(t, err.Body, maxBodyExcerpt)
	assert.True(t, strings.HasPrefix(err.Error(), "openrouter returned status 502"))

	var statusErr *StatusError
	wrapped := fmt.Errorf("route prompt: %w", err)
	assert.True(t, errors.As(wrapped, &statusErr))
	assert.Equal(t, "openrouter", statusErr.Service)
}

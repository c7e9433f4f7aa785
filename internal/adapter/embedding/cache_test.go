package embedding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aria/internal/domain"
	"aria/internal/port"
)

type countingEmbedder struct {
	port.Embedder
	calls int
}

func (e *countingEmbedder) Embed(ctx context.Context, text string) (domain.Vector, error) {
	e.calls++
	return e.Embedder.Embed(ctx, text)
}

func TestCachedEmbedder_Hit(t *testing.T) {
	inner := &countingEmbedder{Embedder: NewMockEmbedder(8)}
	c := NewCachedEmbedder(inner, 10, time.Minute)

	v1, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	v2, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, 1, c.Size())
}

func TestCachedEmbedder_Eviction(t *testing.T) {
	inner := &countingEmbedder{Embedder: NewMockEmbedder(8)}
	c := NewCachedEmbedder(inner, 2, time.Minute)

	_, err := c.Embed(context.Background(), "a")
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "b")
	require.NoError(t, err)
	_, err = c.Embed(context.Background(), "c")
	require.NoError(t, err)

	assert.Equal(t, 2, c.Size())

	// "a" was evicted, so embedding it again goes back to the API.
	_, err = c.Embed(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 4, inner.calls)
}

func TestCachedEmbedder_TTLExpiry(t *testing.T) {
	inner := &countingEmbedder{Embedder: NewMockEmbedder(8)}
	c := NewCachedEmbedder(inner, 10, time.Millisecond)

	_, err := c.Embed(context.Background(), "hello")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = c.Embed(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Expiry(t *testing.T) {
	m := NewMemoryStore()
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	clock = clock.Add(2 * time.Minute)
	_, err = m.Get(ctx, "k")
	assert.True(t, errors.Is(err, ErrMiss))
}

func TestFlushPrefix(t *testing.T) {
	Use(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, Set(ctx, "catalog:home", 1, 0))
	require.NoError(t, Set(ctx, "catalog:categories", 2, 0))
	require.NoError(t, Set(ctx, "session:abc", 3, 0))

	require.NoError(t, Flush(ctx, "catalog:"))

	var n int
	assert.False(t, Get(ctx, "catalog:home", &n))
	assert.False(t, Get(ctx, "catalog:categories", &n))
	assert.True(t, Get(ctx, "session:abc", &n))
	assert.Equal(t, 3, n)
	assert.Equal(t, "memory", Driver())
}

func TestRemember(t *testing.T) {
	Use(NewMemoryStore())
	ctx := context.Background()
	calls := 0
	fn := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := Remember(ctx, "k", time.Minute, fn)
	require.NoError(t, err)
	second, err := Remember(ctx, "k", time.Minute, fn)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
}

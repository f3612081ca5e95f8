package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	got, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, m.Set(ctx, "leads:all", []byte(`[]`), time.Minute))
	got, err = m.Get(ctx, "leads:all")
	require.NoError(t, err)
	assert.Equal(t, []byte(`[]`), got)

	require.NoError(t, m.Delete(ctx, "leads:all", "missing"))
	got, err = m.Get(ctx, "leads:all")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryTTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 5*time.Millisecond))
	time.Sleep(20 * time.Millisecond)

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rently/internal/app/middleware"
)

func TestIdempotencyStoreExpiresRecords(t *testing.T) {
	store := NewIdempotencyStore(time.Hour)
	require.NoError(t, store.Save(context.Background(), middleware.IdempotencyRecord{
		Key:        "stale",
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC().Add(-2 * time.Hour),
	}))
	require.NoError(t, store.Save(context.Background(), middleware.IdempotencyRecord{
		Key:        "fresh",
		Payload:    []byte(`{}`),
		OccurredAt: time.Now().UTC(),
	}))

	_, found, err := store.Get(context.Background(), "stale")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.Get(context.Background(), "fresh")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestIdempotencyStoreZeroTTLKeepsRecords(t *testing.T) {
	store := NewIdempotencyStore(0)
	require.NoError(t, store.Save(context.Background(), middleware.IdempotencyRecord{
		Key:        "old",
		OccurredAt: time.Now().UTC().Add(-24 * time.Hour),
	}))

	rec, found, err := store.Get(context.Background(), "old")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "old", rec.Key)
}

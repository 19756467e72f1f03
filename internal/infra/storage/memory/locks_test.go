package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyLocksSerializeSameProperty(t *testing.T) {
	locks := NewPropertyLocks()

	release, err := locks.Acquire(context.Background(), "prop-1")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = locks.Acquire(ctx, "prop-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release2, err := locks.Acquire(context.Background(), "prop-1")
	require.NoError(t, err)
	release2()
}

func TestPropertyLocksIndependentPerProperty(t *testing.T) {
	locks := NewPropertyLocks()

	release1, err := locks.Acquire(context.Background(), "prop-1")
	require.NoError(t, err)
	defer release1()

	release2, err := locks.Acquire(context.Background(), "prop-2")
	require.NoError(t, err)
	release2()
}

func TestPropertyLocksReleaseIsIdempotent(t *testing.T) {
	locks := NewPropertyLocks()

	release, err := locks.Acquire(context.Background(), "prop-1")
	require.NoError(t, err)
	release()
	release()

	again, err := locks.Acquire(context.Background(), "prop-1")
	require.NoError(t, err)
	again()
}

func TestPropertyLocksMutualExclusionUnderContention(t *testing.T) {
	locks := NewPropertyLocks()

	const workers = 32
	var inside int
	var peak int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locks.Acquire(context.Background(), "prop-1")
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			inside++
			if inside > peak {
				peak = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, peak)
}

package memory

import (
	"context"
	"sync"

	"rently/internal/app/reservation"
	domainproperty "rently/internal/domain/property"
)

// PropertyLocks is an in-process serialization scope keyed by property id.
// Each property gets a one-slot semaphore, so attempts for the same property
// queue while different properties proceed in parallel. Valid only while the
// engine is the sole writer of bookings in this process.
type PropertyLocks struct {
	mu    sync.Mutex
	slots map[domainproperty.PropertyID]chan struct{}
}

func NewPropertyLocks() *PropertyLocks {
	return &PropertyLocks{slots: make(map[domainproperty.PropertyID]chan struct{})}
}

func (l *PropertyLocks) Acquire(ctx context.Context, id domainproperty.PropertyID) (reservation.ReleaseFunc, error) {
	l.mu.Lock()
	slot, ok := l.slots[id]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[id] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var once sync.Once
	release := func() {
		once.Do(func() { <-slot })
	}
	return release, nil
}

var _ reservation.PropertyLocker = (*PropertyLocks)(nil)

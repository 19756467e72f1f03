package reservation

import (
	"context"

	"rently/internal/domain/property"
)

// ReleaseFunc releases an acquired property scope. Safe to call once.
type ReleaseFunc func()

// PropertyLocker serializes reservation attempts per property. Acquire blocks
// until the property's scope is free or ctx is done; attempts for different
// properties never contend. The scope must be held across the whole
// load-check-persist sequence so that concurrent attempts observe each
// other's committed bookings.
type PropertyLocker interface {
	Acquire(ctx context.Context, id property.PropertyID) (ReleaseFunc, error)
}

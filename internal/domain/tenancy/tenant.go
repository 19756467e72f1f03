package tenancy

import (
	"context"
	"time"

	"rently/internal/domain/shared/daterange"
)

type TenantID string

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Tenant is an occupancy record: a lease held by a user on a property.
// A nil LeaseEnd means the lease is ongoing.
type Tenant struct {
	ID         TenantID
	PropertyID string
	UserID     string
	LeaseStart time.Time
	LeaseEnd   *time.Time
	Status     Status
}

// ActiveOn reports whether the lease counts toward occupancy on the given
// date: status Active and lease end absent or not yet passed.
func (t Tenant) ActiveOn(asOf time.Time) bool {
	if t.Status != StatusActive {
		return false
	}
	if t.LeaseEnd == nil {
		return true
	}
	return !daterange.DateOnly(*t.LeaseEnd).Before(daterange.DateOnly(asOf))
}

type Repository interface {
	ActiveByProperty(ctx context.Context, propertyID string, asOf time.Time) ([]Tenant, error)
}

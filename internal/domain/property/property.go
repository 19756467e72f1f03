package property

import (
	"context"
	"errors"
	"time"

	"rently/internal/domain/shared/daterange"
	"rently/internal/domain/shared/events"
	"rently/internal/domain/tenancy"
)

var (
	ErrNotFound       = errors.New("property: not found")
	ErrUnknownStatus  = errors.New("property: unknown status")
	ErrOccupiedLocked = errors.New("property: occupied status ends through lease termination, not a status edit")
	// ErrMaintenanceBlockedByOccupancy rejects maintenance while a tenant lives in.
	ErrMaintenanceBlockedByOccupancy = errors.New("property: cannot enter maintenance with an active tenant")
)

type PropertyID string

type Status string

const (
	StatusAvailable        Status = "AVAILABLE"
	StatusOccupied         Status = "OCCUPIED"
	StatusUnderMaintenance Status = "UNDER_MAINTENANCE"
	StatusUnavailable      Status = "UNAVAILABLE"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusOccupied, StatusUnderMaintenance, StatusUnavailable:
		return true
	}
	return false
}

type Property struct {
	ID                 PropertyID
	LandlordID         string
	Status             Status
	IsUnderMaintenance bool
	// UnavailableFrom/UnavailableTo is the landlord's manual block window,
	// closed-closed as entered. A nil UnavailableTo leaves the window open.
	UnavailableFrom  *time.Time
	UnavailableTo    *time.Time
	MinimumStayDays  int
	RequiresApproval bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Version          int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id PropertyID) (*Property, error)
	Save(ctx context.Context, p *Property) error
}

// UnavailableWindow returns the manual block window normalized to the
// engine's half-open convention.
func (p *Property) UnavailableWindow() (daterange.DateRange, bool) {
	if p.UnavailableFrom == nil {
		return daterange.DateRange{}, false
	}
	var to time.Time
	if p.UnavailableTo != nil {
		to = *p.UnavailableTo
	}
	return daterange.FromClosed(*p.UnavailableFrom, to), true
}

// ComputeStatus derives the effective status for a date. Precedence, first
// match wins: occupancy, maintenance, manual unavailable window, available.
func ComputeStatus(p *Property, tenants []tenancy.Tenant, asOf time.Time) Status {
	for _, t := range tenants {
		if t.ActiveOn(asOf) {
			return StatusOccupied
		}
	}
	if p.IsUnderMaintenance {
		return StatusUnderMaintenance
	}
	if window, ok := p.UnavailableWindow(); ok && window.ContainsDate(asOf) {
		return StatusUnavailable
	}
	return StatusAvailable
}

// CanTransition checks whether a manual status edit is allowed given the
// property's active tenants as of the given date.
func CanTransition(p *Property, newStatus Status, tenants []tenancy.Tenant, asOf time.Time) error {
	if !newStatus.Valid() {
		return ErrUnknownStatus
	}
	hasActive := false
	for _, t := range tenants {
		if t.ActiveOn(asOf) {
			hasActive = true
			break
		}
	}
	if hasActive && newStatus == StatusUnderMaintenance {
		return ErrMaintenanceBlockedByOccupancy
	}
	if hasActive && newStatus != StatusOccupied {
		return ErrOccupiedLocked
	}
	return nil
}

// Transition applies a manual status edit after CanTransition accepts it.
func (p *Property) Transition(newStatus Status, tenants []tenancy.Tenant, now time.Time) error {
	if err := CanTransition(p, newStatus, tenants, now); err != nil {
		return err
	}
	previous := p.Status
	p.Status = newStatus
	p.IsUnderMaintenance = newStatus == StatusUnderMaintenance
	p.UpdatedAt = now.UTC()
	p.Record(StatusChanged{PropertyID: p.ID, From: previous, To: newStatus, At: p.UpdatedAt})
	return nil
}

package booking

import (
	"context"
	"errors"
	"time"

	"rently/internal/domain/property"
	"rently/internal/domain/shared/daterange"
	"rently/internal/domain/shared/events"
)

var (
	ErrBookingNotFound = errors.New("booking: not found")
	ErrInvalidState    = errors.New("booking: invalid state transition")
	ErrUserRequired    = errors.New("booking: user id required")
)

type BookingID string

type Status string

const (
	StatusUpcoming  Status = "UPCOMING"
	StatusApproved  Status = "APPROVED"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// Blocking reports whether a booking in this status counts toward conflict
// detection. Completed and cancelled bookings are inert.
func (s Status) Blocking() bool {
	return s == StatusUpcoming || s == StatusApproved
}

type Booking struct {
	ID         BookingID
	PropertyID property.PropertyID
	UserID     string
	// Range is half-open [start, end); an open-ended range has no end date.
	Range     daterange.DateRange
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	// ByProperty returns every booking for the property regardless of
	// status; filtering to blocking statuses is the conflict checker's job.
	ByProperty(ctx context.Context, propertyID property.PropertyID) ([]*Booking, error)
	Save(ctx context.Context, b *Booking) error
}

type CreateParams struct {
	ID         BookingID
	PropertyID property.PropertyID
	UserID     string
	Range      daterange.DateRange
	Status     Status
	CreatedAt  time.Time
}

// NewReservation builds a freshly accepted booking. The initial status is
// Upcoming when the property requires landlord approval, Approved otherwise.
func NewReservation(params CreateParams) (*Booking, error) {
	if params.UserID == "" {
		return nil, ErrUserRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if params.Status != StatusUpcoming && params.Status != StatusApproved {
		return nil, ErrInvalidState
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		UserID:     params.UserID,
		Range:      params.Range,
		Status:     params.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(ReservationAccepted{BookingID: b.ID, PropertyID: b.PropertyID, UserID: b.UserID, Range: b.Range, Status: b.Status, At: now})
	return b, nil
}

func (b *Booking) Approve(now time.Time) error {
	if b.Status != StatusUpcoming {
		return ErrInvalidState
	}
	b.Status = StatusApproved
	b.UpdatedAt = now.UTC()
	b.Record(ReservationApproved{BookingID: b.ID, PropertyID: b.PropertyID, At: b.UpdatedAt})
	return nil
}

func (b *Booking) Activate(now time.Time) error {
	if b.Status != StatusApproved {
		return ErrInvalidState
	}
	b.Status = StatusActive
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Booking) Complete(now time.Time) error {
	if b.Status != StatusActive {
		return ErrInvalidState
	}
	b.Status = StatusCompleted
	b.UpdatedAt = now.UTC()
	return nil
}

// Cancel releases the booking's dates; a cancelled booking no longer blocks.
func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusUpcoming, StatusApproved, StatusActive:
	default:
		return ErrInvalidState
	}
	b.Status = StatusCancelled
	b.UpdatedAt = now.UTC()
	b.Record(ReservationCancelled{BookingID: b.ID, PropertyID: b.PropertyID, Reason: reason, At: b.UpdatedAt})
	return nil
}

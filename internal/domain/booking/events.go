package booking

import (
	"time"

	"rently/internal/domain/property"
	"rently/internal/domain/shared/daterange"
)

type ReservationAccepted struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	UserID     string
	Range      daterange.DateRange
	Status     Status
	At         time.Time
}

func (e ReservationAccepted) EventName() string     { return "reservation.accepted" }
func (e ReservationAccepted) AggregateID() string   { return string(e.BookingID) }
func (e ReservationAccepted) OccurredAt() time.Time { return e.At }

type ReservationApproved struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	At         time.Time
}

func (e ReservationApproved) EventName() string     { return "reservation.approved" }
func (e ReservationApproved) AggregateID() string   { return string(e.BookingID) }
func (e ReservationApproved) OccurredAt() time.Time { return e.At }

type ReservationCancelled struct {
	BookingID  BookingID
	PropertyID property.PropertyID
	Reason     string
	At         time.Time
}

func (e ReservationCancelled) EventName() string     { return "reservation.cancelled" }
func (e ReservationCancelled) AggregateID() string   { return string(e.BookingID) }
func (e ReservationCancelled) OccurredAt() time.Time { return e.At }

// OverbookingPrevented is emitted when a conflicting attempt is rejected, so
// operators can watch contention on a property.
type OverbookingPrevented struct {
	PropertyID property.PropertyID
	Range      daterange.DateRange
	At         time.Time
}

func (e OverbookingPrevented) EventName() string     { return "reservation.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return string(e.PropertyID) }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }

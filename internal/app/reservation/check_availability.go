package reservation

import (
	"context"
	"errors"
	"time"

	"rently/internal/app/queries"
	"rently/internal/app/uow"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domainrange "rently/internal/domain/shared/daterange"
)

const checkAvailabilityKey = "reservation.check_availability"

// CheckAvailabilityQuery is a read-only dry run of the accept decision over a
// point-in-time snapshot. ExcludeBookingID lets a caller re-evaluate its own
// booking's dates without self-conflict.
type CheckAvailabilityQuery struct {
	PropertyID       string
	Start            time.Time
	End              time.Time
	ExcludeBookingID string
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type Decision struct {
	Available             bool
	Reason                error
	ConflictingBookingIDs []domainbooking.BookingID
	AdjacentBookingIDs    []domainbooking.BookingID
}

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (Decision, error) {
	var r domainrange.DateRange
	var err error
	if q.End.IsZero() {
		r = domainrange.NewOpenEnded(q.Start)
		err = r.Validate()
	} else {
		r, err = domainrange.New(q.Start, q.End)
	}
	if err != nil {
		return Decision{}, err
	}

	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return Decision{}, uow.ErrUnitOfWorkMissing
		}
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return Decision{}, infraUnavailable(err)
		}
		ctx = uow.BindContext(ctx, unit)
		defer unit.Rollback(ctx)
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return Decision{}, err
		}
		return Decision{}, infraUnavailable(err)
	}
	blocks, err := unit.Blocks().ByProperty(ctx, prop.ID)
	if err != nil {
		return Decision{}, infraUnavailable(err)
	}
	existing, err := unit.Bookings().ByProperty(ctx, prop.ID)
	if err != nil {
		return Decision{}, infraUnavailable(err)
	}

	exclude := domainbooking.BookingID(q.ExcludeBookingID)
	decision := Decision{
		// Conflicting ids are reported regardless of the verdict so UIs can
		// show what a landlord-declared block shadows. Adjacent ids flag
		// same-day turnover with a neighboring stay.
		ConflictingBookingIDs: domainbooking.ConflictingBookingIDs(existing, r, exclude),
		AdjacentBookingIDs:    domainbooking.AdjacentBookingIDs(existing, r, exclude),
	}
	if reason := domainbooking.WouldAcceptBooking(prop, blocks, existing, r, exclude); reason != nil {
		decision.Reason = reason
		return decision, nil
	}
	decision.Available = true
	return decision, nil
}

var _ queries.Handler[CheckAvailabilityQuery, Decision] = (*CheckAvailabilityHandler)(nil)

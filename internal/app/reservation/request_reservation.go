package reservation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rently/internal/app/commands"
	"rently/internal/app/middleware"
	"rently/internal/app/outbox"
	"rently/internal/app/uow"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domainrange "rently/internal/domain/shared/daterange"
	"rently/internal/domain/shared/events"
)

const requestReservationKey = "reservation.request"

// RequestReservationCommand asks for the property's dates. A zero End makes
// the request open-ended.
type RequestReservationCommand struct {
	CommandID       string
	PropertyID      string
	UserID          string
	Start           time.Time
	End             time.Time
	IdempotencyKeyV string
}

func (c RequestReservationCommand) Key() string { return requestReservationKey }

func (c RequestReservationCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestReservationCommand) ResultPrototype() any { return &RequestReservationResult{} }

type RequestReservationResult struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

// RequestReservationHandler is the engine's write path: it serializes
// attempts per property, evaluates the candidate range against a snapshot of
// the property's bookings and blocks, and persists the winner inside the
// same scope.
type RequestReservationHandler struct {
	UoWFactory uow.UoWFactory
	Locks      PropertyLocker
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	// LockWait bounds the time an attempt may wait for the property scope.
	LockWait time.Duration
}

func (h *RequestReservationHandler) Handle(ctx context.Context, cmd RequestReservationCommand) (*RequestReservationResult, error) {
	r, err := h.buildRange(cmd)
	if err != nil {
		return nil, err
	}

	lockCtx := ctx
	if h.LockWait > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, h.LockWait)
		defer cancel()
	}
	release, err := h.Locks.Acquire(lockCtx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, infraTimeout(err)
	}
	defer release()

	// The unit of work is opened inside the scope on purpose: the commit has
	// to land before the scope is released, or a concurrent attempt could
	// evaluate against a snapshot that misses this booking.
	unit, err := h.UoWFactory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, infraUnavailable(err)
	}
	ctx = uow.BindContext(ctx, unit)
	committed := false
	defer func() {
		if !committed {
			_ = unit.Rollback(ctx)
		}
	}()

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, err
		}
		return nil, infraUnavailable(err)
	}

	if prop.MinimumStayDays > 0 && r.Bounded() && r.Nights() < prop.MinimumStayDays {
		return nil, MinStayError{MinimumDays: prop.MinimumStayDays, Nights: r.Nights()}
	}

	blocks, err := unit.Blocks().ByProperty(ctx, prop.ID)
	if err != nil {
		return nil, infraUnavailable(err)
	}
	existing, err := unit.Bookings().ByProperty(ctx, prop.ID)
	if err != nil {
		return nil, infraUnavailable(err)
	}

	now := time.Now().UTC()
	if err := domainbooking.WouldAcceptBooking(prop, blocks, existing, r, ""); err != nil {
		var overlap domainbooking.OverlapError
		if errors.As(err, &overlap) {
			prevented := domainbooking.OverbookingPrevented{PropertyID: prop.ID, Range: r, At: now}
			_ = outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{prevented})
		}
		return nil, err
	}

	status := domainbooking.StatusApproved
	if prop.RequiresApproval {
		status = domainbooking.StatusUpcoming
	}
	bk, err := domainbooking.NewReservation(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(h.bookingID(cmd)),
		PropertyID: prop.ID,
		UserID:     cmd.UserID,
		Range:      r,
		Status:     status,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, infraUnavailable(err)
	}

	pending := bk.PendingEvents()
	bk.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	if err := unit.Commit(ctx); err != nil {
		return nil, infraUnavailable(err)
	}
	committed = true

	return &RequestReservationResult{BookingID: string(bk.ID), Status: string(bk.Status)}, nil
}

func (h *RequestReservationHandler) buildRange(cmd RequestReservationCommand) (domainrange.DateRange, error) {
	if cmd.End.IsZero() {
		r := domainrange.NewOpenEnded(cmd.Start)
		return r, r.Validate()
	}
	return domainrange.New(cmd.Start, cmd.End)
}

func (h *RequestReservationHandler) bookingID(cmd RequestReservationCommand) string {
	if cmd.CommandID != "" {
		return cmd.CommandID
	}
	return uuid.NewString()
}

func (h *RequestReservationHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[RequestReservationCommand, *RequestReservationResult] = (*RequestReservationHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestReservationCommand)(nil)

package blocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rently/internal/app/commands"
	"rently/internal/app/outbox"
	"rently/internal/app/uow"
	domainavailability "rently/internal/domain/availability"
	domainproperty "rently/internal/domain/property"
	domainrange "rently/internal/domain/shared/daterange"
	"rently/internal/domain/shared/events"
)

const addBlockKey = "blocks.add"

// AddBlockCommand declares a manual unavailable period. EndDate is inclusive;
// zero leaves the block open-ended. Overlap with existing bookings is not
// checked: a landlord may declare maintenance over booked dates, and the
// conflict checker surfaces that to new bookings only.
type AddBlockCommand struct {
	CommandID  string
	PropertyID string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string
}

func (c AddBlockCommand) Key() string { return addBlockKey }

type AddBlockResult struct {
	BlockID string `json:"block_id"`
}

type AddBlockHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *AddBlockHandler) Handle(ctx context.Context, cmd AddBlockCommand) (*AddBlockResult, error) {
	if cmd.StartDate.IsZero() {
		return nil, domainrange.ErrInvalidRange
	}
	if !cmd.EndDate.IsZero() && domainrange.DateOnly(cmd.EndDate).Before(domainrange.DateOnly(cmd.StartDate)) {
		return nil, domainrange.ErrInvalidRange
	}

	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		ctx = uow.BindContext(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	prop, err := unit.Properties().ByID(ctx, domainproperty.PropertyID(cmd.PropertyID))
	if err != nil {
		return nil, err
	}

	id := cmd.CommandID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	block := &domainavailability.Block{
		ID:         domainavailability.BlockID(id),
		PropertyID: prop.ID,
		StartDate:  domainrange.DateOnly(cmd.StartDate),
		Reason:     cmd.Reason,
		CreatedAt:  now,
	}
	if !cmd.EndDate.IsZero() {
		block.EndDate = domainrange.DateOnly(cmd.EndDate)
	}
	if err := unit.Blocks().Save(ctx, block); err != nil {
		return nil, err
	}

	added := domainavailability.BlockAdded{
		BlockID:    block.ID,
		PropertyID: block.PropertyID,
		StartDate:  block.StartDate,
		EndDate:    block.EndDate,
		Reason:     block.Reason,
		At:         now,
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), []events.DomainEvent{added}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &AddBlockResult{BlockID: string(block.ID)}, nil
}

func (h *AddBlockHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[AddBlockCommand, *AddBlockResult] = (*AddBlockHandler)(nil)

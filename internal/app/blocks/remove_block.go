package blocks

import (
	"context"
	"time"

	"rently/internal/app/commands"
	"rently/internal/app/outbox"
	"rently/internal/app/uow"
	domainavailability "rently/internal/domain/availability"
	"rently/internal/domain/shared/events"
)

const removeBlockKey = "blocks.remove"

type RemoveBlockCommand struct {
	BlockID string
}

func (c RemoveBlockCommand) Key() string { return removeBlockKey }

type RemoveBlockResult struct {
	Removed bool `json:"removed"`
}

type RemoveBlockHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *RemoveBlockHandler) Handle(ctx context.Context, cmd RemoveBlockCommand) (*RemoveBlockResult, error) {
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

	id := domainavailability.BlockID(cmd.BlockID)
	block, err := unit.Blocks().ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := unit.Blocks().Delete(ctx, id); err != nil {
		return nil, err
	}

	removed := domainavailability.BlockRemoved{BlockID: block.ID, PropertyID: block.PropertyID, At: time.Now().UTC()}
	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoder, []events.DomainEvent{removed}); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}
	return &RemoveBlockResult{Removed: true}, nil
}

var _ commands.Handler[RemoveBlockCommand, *RemoveBlockResult] = (*RemoveBlockHandler)(nil)

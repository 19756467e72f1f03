package reservation

import (
	"context"
	"errors"
	"time"

	"rently/internal/app/commands"
	"rently/internal/app/outbox"
	"rently/internal/app/queries"
	"rently/internal/app/uow"
	domainproperty "rently/internal/domain/property"
	domaintenancy "rently/internal/domain/tenancy"
)

const (
	propertyStatusKey   = "property.status"
	transitionStatusKey = "property.transition_status"
	canTransitionKey    = "property.can_transition"
)

// PropertyStatusQuery computes the effective status for a date. A zero AsOf
// defaults to today.
type PropertyStatusQuery struct {
	PropertyID string
	AsOf       time.Time
}

func (q PropertyStatusQuery) Key() string { return propertyStatusKey }

type PropertyStatusResult struct {
	Status domainproperty.Status `json:"status"`
}

type PropertyStatusHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *PropertyStatusHandler) Handle(ctx context.Context, q PropertyStatusQuery) (PropertyStatusResult, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return PropertyStatusResult{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return PropertyStatusResult{}, infraUnavailable(err)
		}
		ctx = uow.BindContext(ctx, unit)
		defer unit.Rollback(ctx)
	}

	asOf := q.AsOf
	if asOf.IsZero() {
		asOf = time.Now().UTC()
	}
	prop, tenants, err := loadPropertyWithTenants(ctx, unit, domainproperty.PropertyID(q.PropertyID), asOf)
	if err != nil {
		return PropertyStatusResult{}, err
	}
	return PropertyStatusResult{Status: domainproperty.ComputeStatus(prop, tenants, asOf)}, nil
}

// CanTransitionQuery is a dry run of a manual status edit: it reports whether
// the occupancy guards would accept it without applying anything.
type CanTransitionQuery struct {
	PropertyID string
	NewStatus  domainproperty.Status
}

func (q CanTransitionQuery) Key() string { return canTransitionKey }

type TransitionCheck struct {
	Allowed bool
	Reason  error
}

type CanTransitionHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CanTransitionHandler) Handle(ctx context.Context, q CanTransitionQuery) (TransitionCheck, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return TransitionCheck{}, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return TransitionCheck{}, infraUnavailable(err)
		}
		ctx = uow.BindContext(ctx, unit)
		defer unit.Rollback(ctx)
	}

	now := time.Now().UTC()
	prop, tenants, err := loadPropertyWithTenants(ctx, unit, domainproperty.PropertyID(q.PropertyID), now)
	if err != nil {
		return TransitionCheck{}, err
	}
	if reason := domainproperty.CanTransition(prop, q.NewStatus, tenants, now); reason != nil {
		return TransitionCheck{Reason: reason}, nil
	}
	return TransitionCheck{Allowed: true}, nil
}

// TransitionStatusCommand applies a manual status edit after the occupancy
// guards accept it.
type TransitionStatusCommand struct {
	PropertyID string
	NewStatus  domainproperty.Status
}

func (c TransitionStatusCommand) Key() string { return transitionStatusKey }

type TransitionStatusResult struct {
	Status domainproperty.Status `json:"status"`
}

type TransitionStatusHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
}

func (h *TransitionStatusHandler) Handle(ctx context.Context, cmd TransitionStatusCommand) (*TransitionStatusResult, error) {
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
			return nil, infraUnavailable(err)
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

	now := time.Now().UTC()
	prop, tenants, err := loadPropertyWithTenants(ctx, unit, domainproperty.PropertyID(cmd.PropertyID), now)
	if err != nil {
		return nil, err
	}

	if err := prop.Transition(cmd.NewStatus, tenants, now); err != nil {
		return nil, err
	}
	if err := unit.Properties().Save(ctx, prop); err != nil {
		return nil, infraUnavailable(err)
	}

	pending := prop.PendingEvents()
	prop.ClearEvents()
	encoder := h.Encoder
	if encoder == nil {
		encoder = outbox.JSONEventEncoder{}
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, encoder, pending); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, infraUnavailable(err)
		}
		committed = true
	}
	return &TransitionStatusResult{Status: prop.Status}, nil
}

func loadPropertyWithTenants(ctx context.Context, unit uow.UnitOfWork, id domainproperty.PropertyID, asOf time.Time) (*domainproperty.Property, []domaintenancy.Tenant, error) {
	prop, err := unit.Properties().ByID(ctx, id)
	if err != nil {
		if errors.Is(err, domainproperty.ErrNotFound) {
			return nil, nil, err
		}
		return nil, nil, infraUnavailable(err)
	}
	tenants, err := unit.Tenancies().ActiveByProperty(ctx, string(id), asOf)
	if err != nil {
		return nil, nil, infraUnavailable(err)
	}
	return prop, tenants, nil
}

var _ queries.Handler[PropertyStatusQuery, PropertyStatusResult] = (*PropertyStatusHandler)(nil)
var _ queries.Handler[CanTransitionQuery, TransitionCheck] = (*CanTransitionHandler)(nil)
var _ commands.Handler[TransitionStatusCommand, *TransitionStatusResult] = (*TransitionStatusHandler)(nil)

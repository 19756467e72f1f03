package uow

import (
	"context"
	"errors"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork stores the provided unit of work in context.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext retrieves a unit of work from context if present.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	val := ctx.Value(ctxKey{})
	if val == nil {
		return nil, false
	}
	unit, ok := val.(UnitOfWork)
	return unit, ok
}

// ContextInjector is implemented by units that thread transaction state, such
// as a database session, through the request context.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

// BindContext attaches the unit to the context, letting the unit inject its
// transaction state first so repository calls join the transaction.
func BindContext(ctx context.Context, unit UnitOfWork) context.Context {
	if inj, ok := unit.(ContextInjector); ok {
		ctx = inj.InjectContext(ctx)
	}
	return ContextWithUnitOfWork(ctx, unit)
}

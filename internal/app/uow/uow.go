package uow

import (
	"context"

	domainavailability "rently/internal/domain/availability"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domaintenancy "rently/internal/domain/tenancy"
)

// UnitOfWork coordinates the engine's stores inside a transaction boundary.
type UnitOfWork interface {
	Properties() domainproperty.Repository
	Bookings() domainbooking.Repository
	Blocks() domainavailability.Repository
	Tenancies() domaintenancy.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}

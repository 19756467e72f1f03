package memory

import (
	"context"
	"errors"

	"rently/internal/app/uow"
	domainavailability "rently/internal/domain/availability"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domaintenancy "rently/internal/domain/tenancy"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	PropertyRepo *PropertyRepository
	BookingRepo  *BookingRepository
	BlockRepo    *BlockRepository
	TenancyRepo  *TenancyRepository
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. Writes land immediately;
// isolation comes from the per-property scope held by the caller.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.PropertyRepo == nil || f.BookingRepo == nil || f.BlockRepo == nil || f.TenancyRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		properties: f.PropertyRepo,
		bookings:   f.BookingRepo,
		blocks:     f.BlockRepo,
		tenancies:  f.TenancyRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	properties domainproperty.Repository
	bookings   domainbooking.Repository
	blocks     domainavailability.Repository
	tenancies  domaintenancy.Repository
}

func (u *Unit) Properties() domainproperty.Repository {
	return u.properties
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Blocks() domainavailability.Repository {
	return u.blocks
}

func (u *Unit) Tenancies() domaintenancy.Repository {
	return u.tenancies
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

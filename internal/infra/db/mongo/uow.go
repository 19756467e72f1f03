package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rently/internal/app/uow"
	domainavailability "rently/internal/domain/availability"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domaintenancy "rently/internal/domain/tenancy"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	PropertyRepo domainproperty.Repository
	BookingRepo  domainbooking.Repository
	BlockRepo    domainavailability.Repository
	TenancyRepo  domaintenancy.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		session:    session,
		properties: f.PropertyRepo,
		bookings:   f.BookingRepo,
		blocks:     f.BlockRepo,
		tenancies:  f.TenancyRepo,
	}, nil
}

type Unit struct {
	session mongo.Session

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
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures the Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

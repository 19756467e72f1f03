package availability

import (
	"context"
	"errors"
	"time"

	"rently/internal/domain/property"
	"rently/internal/domain/shared/daterange"
)

var ErrBlockNotFound = errors.New("availability: block not found")

type BlockID string

const (
	ReasonMaintenance = "MAINTENANCE"
	ReasonOwnerUse    = "OWNER_USE"
	ReasonExternal    = "EXTERNAL"
)

// Block is a landlord- or system-declared unavailable period not tied to a
// booking. Start and end dates are closed-closed as entered; Period converts
// to the engine's half-open convention.
type Block struct {
	ID         BlockID
	PropertyID property.PropertyID
	StartDate  time.Time
	// EndDate is inclusive. Zero leaves the block open-ended.
	EndDate     time.Time
	IsAvailable bool
	Reason      string
	CreatedAt   time.Time
}

// Period returns the blocked range as half-open [start, endInclusive+1d).
func (b Block) Period() daterange.DateRange {
	return daterange.FromClosed(b.StartDate, b.EndDate)
}

// Blocking reports whether the block counts toward conflict detection.
func (b Block) Blocking() bool {
	return !b.IsAvailable
}

type Repository interface {
	ByID(ctx context.Context, id BlockID) (*Block, error)
	ByProperty(ctx context.Context, propertyID property.PropertyID) ([]Block, error)
	Save(ctx context.Context, block *Block) error
	Delete(ctx context.Context, id BlockID) error
}

package blocks

import (
	"context"
	"sort"
	"time"

	"rently/internal/app/queries"
	"rently/internal/app/uow"
	domainavailability "rently/internal/domain/availability"
	domainproperty "rently/internal/domain/property"
	domainrange "rently/internal/domain/shared/daterange"
)

const listBlocksKey = "blocks.list"

// ListBlocksQuery returns a property's manual blocks sorted by start date,
// optionally narrowed to blocks intersecting [Start, End).
type ListBlocksQuery struct {
	PropertyID string
	Start      time.Time
	End        time.Time
}

func (q ListBlocksQuery) Key() string { return listBlocksKey }

type ListBlocksHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBlocksHandler) Handle(ctx context.Context, q ListBlocksQuery) ([]domainavailability.Block, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return nil, uow.ErrUnitOfWorkMissing
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return nil, err
		}
		ctx = uow.BindContext(ctx, unit)
		defer unit.Rollback(ctx)
	}

	all, err := unit.Blocks().ByProperty(ctx, domainproperty.PropertyID(q.PropertyID))
	if err != nil {
		return nil, err
	}

	out := all
	if !q.Start.IsZero() {
		var window domainrange.DateRange
		if q.End.IsZero() {
			window = domainrange.NewOpenEnded(q.Start)
		} else {
			window, err = domainrange.New(q.Start, q.End)
			if err != nil {
				return nil, err
			}
		}
		out = out[:0:0]
		for _, b := range all {
			if b.Period().Overlaps(window) {
				out = append(out, b)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out, nil
}

var _ queries.Handler[ListBlocksQuery, []domainavailability.Block] = (*ListBlocksHandler)(nil)

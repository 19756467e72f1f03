package blocks_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rently/internal/app/blocks"
	"rently/internal/app/uow"
	domainavailability "rently/internal/domain/availability"
	domainproperty "rently/internal/domain/property"
	domainrange "rently/internal/domain/shared/daterange"
	"rently/internal/infra/storage/memory"
)

type fixture struct {
	properties *memory.PropertyRepository
	blocks     *memory.BlockRepository
	outbox     *memory.Outbox
	factory    uow.UoWFactory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		properties: memory.NewPropertyRepository(),
		blocks:     memory.NewBlockRepository(),
		outbox:     memory.NewOutbox(),
	}
	f.factory = memory.Factory{
		PropertyRepo: f.properties,
		BookingRepo:  memory.NewBookingRepository(),
		BlockRepo:    f.blocks,
		TenancyRepo:  memory.NewTenancyRepository(),
	}
	require.NoError(t, f.properties.Save(context.Background(), &domainproperty.Property{ID: "prop-1"}))
	return f
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) add(t *testing.T, cmd blocks.AddBlockCommand) string {
	t.Helper()
	handler := &blocks.AddBlockHandler{UoWFactory: f.factory, Outbox: f.outbox}
	result, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	return result.BlockID
}

func TestAddBlockPersistsAndEmitsEvent(t *testing.T) {
	f := newFixture(t)

	id := f.add(t, blocks.AddBlockCommand{
		CommandID:  "blk-1",
		PropertyID: "prop-1",
		StartDate:  date(2026, 4, 1),
		EndDate:    date(2026, 4, 10),
		Reason:     domainavailability.ReasonMaintenance,
	})
	assert.Equal(t, "blk-1", id)

	stored, err := f.blocks.ByID(context.Background(), "blk-1")
	require.NoError(t, err)
	assert.Equal(t, date(2026, 4, 1), stored.StartDate)
	assert.Equal(t, date(2026, 4, 10), stored.EndDate)
	assert.True(t, stored.Blocking())

	records := f.outbox.Pending()
	require.Len(t, records, 1)
	assert.Equal(t, "availability.block_added", records[0].Name)
}

func TestAddBlockDoesNotCheckBookingOverlap(t *testing.T) {
	f := newFixture(t)

	// Two blocks over the same dates both land; overlap enforcement is the
	// conflict checker's concern, not the block manager's.
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-1", PropertyID: "prop-1", StartDate: date(2026, 4, 1), EndDate: date(2026, 4, 10)})
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-2", PropertyID: "prop-1", StartDate: date(2026, 4, 5), EndDate: date(2026, 4, 15)})

	stored, err := f.blocks.ByProperty(context.Background(), "prop-1")
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestAddBlockValidation(t *testing.T) {
	f := newFixture(t)
	handler := &blocks.AddBlockHandler{UoWFactory: f.factory, Outbox: f.outbox}

	_, err := handler.Handle(context.Background(), blocks.AddBlockCommand{PropertyID: "prop-1"})
	assert.ErrorIs(t, err, domainrange.ErrInvalidRange)

	_, err = handler.Handle(context.Background(), blocks.AddBlockCommand{
		PropertyID: "prop-1",
		StartDate:  date(2026, 4, 10),
		EndDate:    date(2026, 4, 1),
	})
	assert.ErrorIs(t, err, domainrange.ErrInvalidRange)

	// Single-day block: inclusive end equals start.
	_, err = handler.Handle(context.Background(), blocks.AddBlockCommand{
		CommandID:  "blk-day",
		PropertyID: "prop-1",
		StartDate:  date(2026, 4, 1),
		EndDate:    date(2026, 4, 1),
	})
	assert.NoError(t, err)

	_, err = handler.Handle(context.Background(), blocks.AddBlockCommand{
		CommandID:  "blk-x",
		PropertyID: "ghost",
		StartDate:  date(2026, 4, 1),
	})
	assert.ErrorIs(t, err, domainproperty.ErrNotFound)
}

func TestRemoveBlock(t *testing.T) {
	f := newFixture(t)
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-1", PropertyID: "prop-1", StartDate: date(2026, 4, 1), EndDate: date(2026, 4, 10)})

	handler := &blocks.RemoveBlockHandler{UoWFactory: f.factory, Outbox: f.outbox}
	result, err := handler.Handle(context.Background(), blocks.RemoveBlockCommand{BlockID: "blk-1"})
	require.NoError(t, err)
	assert.True(t, result.Removed)

	_, err = f.blocks.ByID(context.Background(), "blk-1")
	assert.ErrorIs(t, err, domainavailability.ErrBlockNotFound)

	_, err = handler.Handle(context.Background(), blocks.RemoveBlockCommand{BlockID: "blk-1"})
	assert.ErrorIs(t, err, domainavailability.ErrBlockNotFound)
}

func TestListBlocksSortedByStartDate(t *testing.T) {
	f := newFixture(t)
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-late", PropertyID: "prop-1", StartDate: date(2026, 6, 1), EndDate: date(2026, 6, 10)})
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-early", PropertyID: "prop-1", StartDate: date(2026, 4, 1), EndDate: date(2026, 4, 10)})
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-mid", PropertyID: "prop-1", StartDate: date(2026, 5, 1), EndDate: date(2026, 5, 10)})

	handler := &blocks.ListBlocksHandler{UoWFactory: f.factory}
	result, err := handler.Handle(context.Background(), blocks.ListBlocksQuery{PropertyID: "prop-1"})
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, domainavailability.BlockID("blk-early"), result[0].ID)
	assert.Equal(t, domainavailability.BlockID("blk-mid"), result[1].ID)
	assert.Equal(t, domainavailability.BlockID("blk-late"), result[2].ID)
}

func TestListBlocksWindowFilter(t *testing.T) {
	f := newFixture(t)
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-1", PropertyID: "prop-1", StartDate: date(2026, 4, 1), EndDate: date(2026, 4, 10)})
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-2", PropertyID: "prop-1", StartDate: date(2026, 6, 1), EndDate: date(2026, 6, 10)})
	f.add(t, blocks.AddBlockCommand{CommandID: "blk-open", PropertyID: "prop-1", StartDate: date(2026, 8, 1)})

	handler := &blocks.ListBlocksHandler{UoWFactory: f.factory}

	result, err := handler.Handle(context.Background(), blocks.ListBlocksQuery{
		PropertyID: "prop-1",
		Start:      date(2026, 5, 1),
		End:        date(2026, 7, 1),
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, domainavailability.BlockID("blk-2"), result[0].ID)

	// An open-ended window catches the open-ended block too.
	result, err = handler.Handle(context.Background(), blocks.ListBlocksQuery{
		PropertyID: "prop-1",
		Start:      date(2026, 5, 1),
	})
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestListBlocksEmptyProperty(t *testing.T) {
	f := newFixture(t)
	handler := &blocks.ListBlocksHandler{UoWFactory: f.factory}
	result, err := handler.Handle(context.Background(), blocks.ListBlocksQuery{PropertyID: "prop-1"})
	require.NoError(t, err)
	assert.Empty(t, result)
}

package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rently/internal/domain/shared/daterange"
)

func TestNewReservationValidation(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, date(2026, 3, 1), date(2026, 3, 5))

	_, err := NewReservation(CreateParams{ID: "bk-1", PropertyID: "prop-1", Range: r, Status: StatusApproved, CreatedAt: now})
	assert.ErrorIs(t, err, ErrUserRequired)

	_, err = NewReservation(CreateParams{ID: "bk-1", PropertyID: "prop-1", UserID: "u-1", Status: StatusApproved, CreatedAt: now})
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)

	_, err = NewReservation(CreateParams{ID: "bk-1", PropertyID: "prop-1", UserID: "u-1", Range: r, Status: StatusActive, CreatedAt: now})
	assert.ErrorIs(t, err, ErrInvalidState)

	b, err := NewReservation(CreateParams{ID: "bk-1", PropertyID: "prop-1", UserID: "u-1", Range: r, Status: StatusApproved, CreatedAt: now})
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, b.Status)

	events := b.PendingEvents()
	require.Len(t, events, 1)
	accepted, ok := events[0].(ReservationAccepted)
	require.True(t, ok)
	assert.Equal(t, BookingID("bk-1"), accepted.BookingID)
}

func TestBookingLifecycle(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, date(2026, 3, 1), date(2026, 3, 5))
	b, err := NewReservation(CreateParams{ID: "bk-1", PropertyID: "prop-1", UserID: "u-1", Range: r, Status: StatusUpcoming, CreatedAt: now})
	require.NoError(t, err)

	assert.ErrorIs(t, b.Activate(now), ErrInvalidState)
	require.NoError(t, b.Approve(now))
	assert.ErrorIs(t, b.Approve(now), ErrInvalidState)
	require.NoError(t, b.Activate(now))
	require.NoError(t, b.Complete(now))
	assert.ErrorIs(t, b.Cancel("too late", now), ErrInvalidState)
	assert.False(t, b.Status.Blocking())
}

func TestCancelledBookingStopsBlocking(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	r := mustRange(t, date(2026, 3, 1), date(2026, 3, 5))
	b, err := NewReservation(CreateParams{ID: "bk-1", PropertyID: "prop-1", UserID: "u-1", Range: r, Status: StatusApproved, CreatedAt: now})
	require.NoError(t, err)
	assert.True(t, b.Status.Blocking())

	require.NoError(t, b.Cancel("change of plans", now))
	assert.Equal(t, StatusCancelled, b.Status)
	assert.False(t, b.Status.Blocking())

	assert.Empty(t, ConflictingBookingIDs([]*Booking{b}, r, ""))
}

package property

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rently/internal/domain/tenancy"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activeTenant(propertyID string) tenancy.Tenant {
	return tenancy.Tenant{
		ID:         "ten-1",
		PropertyID: propertyID,
		UserID:     "user-1",
		LeaseStart: date(2026, 1, 1),
		Status:     tenancy.StatusActive,
	}
}

func TestComputeStatusPrecedence(t *testing.T) {
	asOf := date(2026, 5, 10)
	from := date(2026, 5, 1)
	to := date(2026, 5, 20)

	t.Run("occupancy wins over maintenance and unavailable window", func(t *testing.T) {
		p := &Property{
			ID:                 "prop-1",
			IsUnderMaintenance: true,
			UnavailableFrom:    &from,
			UnavailableTo:      &to,
		}
		got := ComputeStatus(p, []tenancy.Tenant{activeTenant("prop-1")}, asOf)
		assert.Equal(t, StatusOccupied, got)
	})

	t.Run("maintenance wins over unavailable window", func(t *testing.T) {
		p := &Property{
			ID:                 "prop-1",
			IsUnderMaintenance: true,
			UnavailableFrom:    &from,
			UnavailableTo:      &to,
		}
		got := ComputeStatus(p, nil, asOf)
		assert.Equal(t, StatusUnderMaintenance, got)
	})

	t.Run("unavailable window applies on its dates only", func(t *testing.T) {
		p := &Property{ID: "prop-1", UnavailableFrom: &from, UnavailableTo: &to}
		assert.Equal(t, StatusUnavailable, ComputeStatus(p, nil, asOf))
		assert.Equal(t, StatusUnavailable, ComputeStatus(p, nil, to), "inclusive end day")
		assert.Equal(t, StatusAvailable, ComputeStatus(p, nil, date(2026, 5, 21)))
	})

	t.Run("no signals means available", func(t *testing.T) {
		p := &Property{ID: "prop-1"}
		assert.Equal(t, StatusAvailable, ComputeStatus(p, nil, asOf))
	})

	t.Run("expired lease does not occupy", func(t *testing.T) {
		end := date(2026, 4, 30)
		ten := activeTenant("prop-1")
		ten.LeaseEnd = &end
		p := &Property{ID: "prop-1"}
		assert.Equal(t, StatusAvailable, ComputeStatus(p, []tenancy.Tenant{ten}, asOf))
	})
}

func TestTransitionGuards(t *testing.T) {
	now := date(2026, 5, 10)
	tenants := []tenancy.Tenant{activeTenant("prop-1")}

	t.Run("maintenance rejected while occupied", func(t *testing.T) {
		p := &Property{ID: "prop-1", Status: StatusOccupied}
		err := p.Transition(StatusUnderMaintenance, tenants, now)
		assert.ErrorIs(t, err, ErrMaintenanceBlockedByOccupancy)
	})

	t.Run("any other edit rejected while occupied", func(t *testing.T) {
		p := &Property{ID: "prop-1", Status: StatusOccupied}
		err := p.Transition(StatusAvailable, tenants, now)
		assert.ErrorIs(t, err, ErrOccupiedLocked)
		err = p.Transition(StatusUnavailable, tenants, now)
		assert.ErrorIs(t, err, ErrOccupiedLocked)
	})

	t.Run("occupied to occupied is a no-op edit", func(t *testing.T) {
		p := &Property{ID: "prop-1", Status: StatusOccupied}
		require.NoError(t, p.Transition(StatusOccupied, tenants, now))
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		p := &Property{ID: "prop-1", Status: StatusAvailable}
		err := p.Transition(Status("HAUNTED"), nil, now)
		assert.ErrorIs(t, err, ErrUnknownStatus)
	})

	t.Run("maintenance allowed without tenants and records an event", func(t *testing.T) {
		p := &Property{ID: "prop-1", Status: StatusAvailable}
		require.NoError(t, p.Transition(StatusUnderMaintenance, nil, now))
		assert.True(t, p.IsUnderMaintenance)
		assert.Equal(t, StatusUnderMaintenance, p.Status)

		events := p.PendingEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(StatusChanged)
		require.True(t, ok)
		assert.Equal(t, StatusAvailable, changed.From)
		assert.Equal(t, StatusUnderMaintenance, changed.To)
	})

	t.Run("leaving maintenance clears the flag", func(t *testing.T) {
		p := &Property{ID: "prop-1", Status: StatusUnderMaintenance, IsUnderMaintenance: true}
		require.NoError(t, p.Transition(StatusAvailable, nil, now))
		assert.False(t, p.IsUnderMaintenance)
	})
}

func TestUnavailableWindow(t *testing.T) {
	from := date(2026, 8, 1)

	p := &Property{ID: "prop-1"}
	_, ok := p.UnavailableWindow()
	assert.False(t, ok)

	p.UnavailableFrom = &from
	window, ok := p.UnavailableWindow()
	require.True(t, ok)
	assert.False(t, window.Bounded(), "nil UnavailableTo keeps the window open")

	to := date(2026, 8, 10)
	p.UnavailableTo = &to
	window, ok = p.UnavailableWindow()
	require.True(t, ok)
	assert.Equal(t, date(2026, 8, 11), window.End, "inclusive end plus one day")
}

package booking

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"rently/internal/domain/availability"
	"rently/internal/domain/property"
	"rently/internal/domain/shared/daterange"
)

// ErrMaintenanceActive rejects any range while the maintenance flag is set.
var ErrMaintenanceActive = errors.New("booking: property is under maintenance")

// ManualBlockError reports an intersection with a landlord-declared block or
// with the property's own unavailable window. From/To are the block's bounds
// as entered (closed-closed); a zero To means the block is open-ended.
type ManualBlockError struct {
	From    time.Time
	To      time.Time
	BlockID availability.BlockID
	Reason  string
}

func (e ManualBlockError) Error() string {
	if e.To.IsZero() {
		return fmt.Sprintf("booking: range intersects a manual block from %s", e.From.Format("2006-01-02"))
	}
	return fmt.Sprintf("booking: range intersects a manual block %s to %s", e.From.Format("2006-01-02"), e.To.Format("2006-01-02"))
}

// OverlapError lists every blocking booking the candidate range intersects,
// not just the first, so callers can surface all conflicts at once.
type OverlapError struct {
	IDs []BookingID
}

func (e OverlapError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = string(id)
	}
	return "booking: range overlaps bookings " + strings.Join(ids, ", ")
}

// IsAvailableFor checks the property-level blocks against a candidate range:
// the maintenance flag, the property's unavailable window, and the manual
// availability blocks. Existing bookings are not consulted here.
func IsAvailableFor(p *property.Property, blocks []availability.Block, r daterange.DateRange) error {
	if p.IsUnderMaintenance {
		return ErrMaintenanceActive
	}
	if window, ok := p.UnavailableWindow(); ok && window.Overlaps(r) {
		e := ManualBlockError{From: *p.UnavailableFrom}
		if p.UnavailableTo != nil {
			e.To = *p.UnavailableTo
		}
		return e
	}
	for _, block := range blocks {
		if !block.Blocking() {
			continue
		}
		if block.Period().Overlaps(r) {
			return ManualBlockError{From: block.StartDate, To: block.EndDate, BlockID: block.ID, Reason: block.Reason}
		}
	}
	return nil
}

// WouldAcceptBooking is the full accept/reject decision for a candidate
// range over a point-in-time snapshot of the property's state. excludeID
// skips one booking so a caller can re-evaluate its own booking's dates.
func WouldAcceptBooking(p *property.Property, blocks []availability.Block, existing []*Booking, r daterange.DateRange, excludeID BookingID) error {
	if err := IsAvailableFor(p, blocks, r); err != nil {
		return err
	}
	if ids := ConflictingBookingIDs(existing, r, excludeID); len(ids) > 0 {
		return OverlapError{IDs: ids}
	}
	return nil
}

// ConflictingBookingIDs returns the ids of every blocking booking whose range
// overlaps the candidate, for diagnostics independent of the accept decision.
func ConflictingBookingIDs(existing []*Booking, r daterange.DateRange, excludeID BookingID) []BookingID {
	var ids []BookingID
	for _, b := range existing {
		if b == nil || !b.Status.Blocking() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Range.Overlaps(r) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// AdjacentBookingIDs returns the ids of blocking bookings that share only a
// boundary date with the candidate. Back-to-back stays are accepted, so these
// are turnover-day diagnostics rather than conflicts.
func AdjacentBookingIDs(existing []*Booking, r daterange.DateRange, excludeID BookingID) []BookingID {
	var ids []BookingID
	for _, b := range existing {
		if b == nil || !b.Status.Blocking() {
			continue
		}
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if b.Range.Adjacent(r) {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

package daterange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("daterange: end must be after start")
)

// MaxDate is the sentinel an open-ended range resolves its end to.
var MaxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// DateRange represents a half-open interval [Start, End). A zero End marks an
// open-ended range whose end resolves to MaxDate for comparisons.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// New builds a bounded range. Both bounds are truncated to date precision.
func New(start, end time.Time) (DateRange, error) {
	dr := DateRange{Start: DateOnly(start), End: DateOnly(end)}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// NewOpenEnded builds a range with no end date.
func NewOpenEnded(start time.Time) DateRange {
	return DateRange{Start: DateOnly(start)}
}

// FromClosed converts a closed-closed range, the convention manual blocks and
// unavailable windows are entered in, to the engine's half-open convention:
// the exclusive end is the inclusive end plus one day. A zero endInclusive
// keeps the range open-ended.
func FromClosed(start, endInclusive time.Time) DateRange {
	if endInclusive.IsZero() {
		return NewOpenEnded(start)
	}
	return DateRange{Start: DateOnly(start), End: DateOnly(endInclusive).AddDate(0, 0, 1)}
}

// DateOnly truncates a timestamp to midnight UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() {
		return ErrInvalidRange
	}
	if dr.End.IsZero() {
		return nil
	}
	if !dr.End.After(dr.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Bounded reports whether the range has an explicit end.
func (dr DateRange) Bounded() bool {
	return !dr.End.IsZero()
}

// ResolvedEnd returns the exclusive end, mapping an absent end to MaxDate.
func (dr DateRange) ResolvedEnd() time.Time {
	if dr.End.IsZero() {
		return MaxDate
	}
	return dr.End
}

// Nights is the number of nights a bounded range covers.
func (dr DateRange) Nights() int {
	if !dr.Bounded() {
		return 0
	}
	return int(dr.End.Sub(dr.Start).Hours() / 24)
}

// Overlaps tests half-open intersection. Ranges sharing only a boundary date
// do not overlap, so back-to-back turnover is allowed.
func (dr DateRange) Overlaps(other DateRange) bool {
	return dr.Start.Before(other.ResolvedEnd()) && other.Start.Before(dr.ResolvedEnd())
}

func (dr DateRange) ContainsDate(t time.Time) bool {
	t = DateOnly(t)
	return !t.Before(dr.Start) && t.Before(dr.ResolvedEnd())
}

func (dr DateRange) Adjacent(other DateRange) bool {
	if !dr.Bounded() && !other.Bounded() {
		return false
	}
	return dr.ResolvedEnd().Equal(other.Start) || other.ResolvedEnd().Equal(dr.Start)
}

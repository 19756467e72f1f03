package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	reservationapp "rently/internal/app/reservation"
	domainavailability "rently/internal/domain/availability"
	domainbooking "rently/internal/domain/booking"
	domainproperty "rently/internal/domain/property"
	domainrange "rently/internal/domain/shared/daterange"
)

const dateLayout = "2006-01-02"

// respondError maps domain outcomes onto HTTP. Conflicts carry a machine
// readable reason code so clients can distinguish a manual block from an
// overlapping booking without parsing messages.
func respondError(c *gin.Context, err error) {
	var (
		manual  domainbooking.ManualBlockError
		overlap domainbooking.OverlapError
		minStay reservationapp.MinStayError
		infra   *reservationapp.InfraError
	)
	switch {
	case errors.Is(err, domainrange.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "reason": "INVALID_RANGE"})
	case errors.Is(err, domainproperty.ErrNotFound),
		errors.Is(err, domainavailability.ErrBlockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrMaintenanceActive):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "MAINTENANCE_ACTIVE"})
	case errors.As(err, &manual):
		body := gin.H{"error": err.Error(), "reason": "MANUAL_BLOCK", "from": manual.From.Format(dateLayout)}
		if !manual.To.IsZero() {
			body["to"] = manual.To.Format(dateLayout)
		}
		c.JSON(http.StatusConflict, body)
	case errors.As(err, &overlap):
		ids := make([]string, len(overlap.IDs))
		for i, id := range overlap.IDs {
			ids[i] = string(id)
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "OVERLAPPING_BOOKINGS", "booking_ids": ids})
	case errors.Is(err, domainproperty.ErrOccupiedLocked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "OCCUPIED_LOCKED"})
	case errors.Is(err, domainproperty.ErrMaintenanceBlockedByOccupancy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "MAINTENANCE_BLOCKED_BY_OCCUPANCY"})
	case errors.As(err, &minStay):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "reason": "MIN_STAY", "minimum_days": minStay.MinimumDays})
	case errors.As(err, &infra):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

// parseDate accepts a date-only value; the engine works at day granularity.
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}

package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rently/internal/app/commands"
	"rently/internal/app/queries"
	reservationapp "rently/internal/app/reservation"
)

type ReservationHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type createReservationRequest struct {
	UserID string `json:"user_id"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.Start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(req.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationapp.RequestReservationCommand{
		CommandID:       generateCommandID(),
		PropertyID:      c.Param("id"),
		UserID:          req.UserID,
		Start:           start,
		End:             end,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[reservationapp.RequestReservationCommand, *reservationapp.RequestReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h ReservationHandler) CheckAvailability(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	start, err := parseDate(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query := reservationapp.CheckAvailabilityQuery{
		PropertyID:       c.Param("id"),
		Start:            start,
		End:              end,
		ExcludeBookingID: c.Query("exclude_booking_id"),
	}
	decision, err := queries.Ask[reservationapp.CheckAvailabilityQuery, reservationapp.Decision](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{"available": decision.Available}
	if len(decision.ConflictingBookingIDs) > 0 {
		ids := make([]string, len(decision.ConflictingBookingIDs))
		for i, id := range decision.ConflictingBookingIDs {
			ids[i] = string(id)
		}
		body["conflicting_booking_ids"] = ids
	}
	if len(decision.AdjacentBookingIDs) > 0 {
		ids := make([]string, len(decision.AdjacentBookingIDs))
		for i, id := range decision.AdjacentBookingIDs {
			ids[i] = string(id)
		}
		body["adjacent_booking_ids"] = ids
	}
	if decision.Reason != nil {
		body["reason"] = decision.Reason.Error()
	}
	c.JSON(http.StatusOK, body)
}

func generateCommandID() string {
	return uuid.NewString()
}

var _ ReservationHTTP = ReservationHandler{}

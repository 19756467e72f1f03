package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"rently/internal/app/commands"
	"rently/internal/app/queries"
	reservationapp "rently/internal/app/reservation"
	domainproperty "rently/internal/domain/property"
)

type PropertyHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

func (h PropertyHandler) Status(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	var asOf time.Time
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		asOf = parsed
	}
	query := reservationapp.PropertyStatusQuery{PropertyID: c.Param("id"), AsOf: asOf}
	result, err := queries.Ask[reservationapp.PropertyStatusQuery, reservationapp.PropertyStatusResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type transitionStatusRequest struct {
	Status string `json:"status"`
}

func (h PropertyHandler) Transition(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req transitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := reservationapp.TransitionStatusCommand{
		PropertyID: c.Param("id"),
		NewStatus:  domainproperty.Status(req.Status),
	}
	result, err := commands.Dispatch[reservationapp.TransitionStatusCommand, *reservationapp.TransitionStatusResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CheckTransition previews a status edit without applying it.
func (h PropertyHandler) CheckTransition(c *gin.Context) {
	if h.Queries == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "queries unavailable"})
		return
	}
	to := c.Query("to")
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter 'to' is required"})
		return
	}
	query := reservationapp.CanTransitionQuery{
		PropertyID: c.Param("id"),
		NewStatus:  domainproperty.Status(to),
	}
	check, err := queries.Ask[reservationapp.CanTransitionQuery, reservationapp.TransitionCheck](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	body := gin.H{"allowed": check.Allowed}
	if check.Reason != nil {
		body["reason"] = check.Reason.Error()
	}
	c.JSON(http.StatusOK, body)
}

var _ PropertyHTTP = PropertyHandler{}

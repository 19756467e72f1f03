package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	blocksapp "rently/internal/app/blocks"
	"rently/internal/app/commands"
	"rently/internal/app/queries"
	domainavailability "rently/internal/domain/availability"
)

type BlockHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
}

type addBlockRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (h BlockHandler) Add(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	var req addBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := blocksapp.AddBlockCommand{
		CommandID:  generateCommandID(),
		PropertyID: c.Param("id"),
		StartDate:  start,
		EndDate:    end,
		Reason:     req.Reason,
	}
	result, err := commands.Dispatch[blocksapp.AddBlockCommand, *blocksapp.AddBlockResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BlockHandler) List(c *gin.Context) {
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
	query := blocksapp.ListBlocksQuery{PropertyID: c.Param("id"), Start: start, End: end}
	result, err := queries.Ask[blocksapp.ListBlocksQuery, []domainavailability.Block](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]gin.H, 0, len(result))
	for _, b := range result {
		item := gin.H{
			"block_id":    string(b.ID),
			"property_id": string(b.PropertyID),
			"start_date":  b.StartDate.Format(dateLayout),
			"reason":      b.Reason,
		}
		if !b.EndDate.IsZero() {
			item["end_date"] = b.EndDate.Format(dateLayout)
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"blocks": out})
}

func (h BlockHandler) Remove(c *gin.Context) {
	if h.Commands == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "commands unavailable"})
		return
	}
	cmd := blocksapp.RemoveBlockCommand{BlockID: c.Param("id")}
	result, err := commands.Dispatch[blocksapp.RemoveBlockCommand, *blocksapp.RemoveBlockResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BlockHTTP = BlockHandler{}

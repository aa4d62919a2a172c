package handlers

import (
	"net/http"
	"strings"

	"safareasy/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

type autoReallocateRequest struct {
	Reason string `json:"reason"`
}

// POST /api/reallocations/auto/:tripId
func AutoReallocate(c *gin.Context) {
	tripID, ok := paramID(c, "tripId")
	if !ok {
		return
	}
	var req autoReallocateRequest
	if c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}

	outcomes, err := newReallocationService(c).AutoReallocate(tripID, strings.TrimSpace(req.Reason))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

type manualReallocateRequest struct {
	TicketID  int64 `json:"ticket_id"`
	NewTripID int64 `json:"new_trip_id"`
}

// POST /api/reallocations/manual
func ManualReallocate(c *gin.Context) {
	var req manualReallocateRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	operator := middleware.GetOperatorID(c)
	rec, err := newReallocationService(c).ManualReallocate(req.TicketID, req.NewTripID, operator)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reallocation": rec})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type enqueueRequest struct {
	TripID int64 `json:"trip_id"`
}

// POST /api/queues
func EnqueueTrip(c *gin.Context) {
	var req enqueueRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	entry, err := newQueueService(c).Enqueue(req.TripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// DELETE /api/queues/:id
func DequeueEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := newQueueService(c).Dequeue(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "entry removed"})
}

// GET /api/queues/route/:routeId
func ListQueueByRoute(c *gin.Context) {
	routeID, ok := paramID(c, "routeId")
	if !ok {
		return
	}
	entries, err := newQueueService(c).ListByRoute(routeID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

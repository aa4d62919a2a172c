package handlers

import (
	"net/http"
	"strings"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type createTripRequest struct {
	VehicleID    int64  `json:"vehicle_id"`
	RouteID      int64  `json:"route_id"`
	DriverID     int64  `json:"driver_id"`
	OwnerID      int64  `json:"owner_id"`
	SaccoID      int64  `json:"sacco_id"`
	Class        string `json:"class"`
	SeatCapacity int    `json:"seat_capacity"`
}

// POST /api/trips
func CreateTrip(c *gin.Context) {
	var req createTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	trip, err := newTripService(c).Register(models.Trip{
		VehicleID:    req.VehicleID,
		RouteID:      req.RouteID,
		DriverID:     req.DriverID,
		OwnerID:      req.OwnerID,
		SaccoID:      req.SaccoID,
		Class:        domain.TripClass(strings.ToLower(strings.TrimSpace(req.Class))),
		SeatCapacity: req.SeatCapacity,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

// GET /api/trips/:id
func GetTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := newTripService(c).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

// PUT /api/trips/:id/depart
func DepartTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	trip, err := newTripService(c).Depart(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

type cancelTripRequest struct {
	Reason string `json:"reason"`
}

// PUT /api/trips/:id/cancel
func CancelTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req cancelTripRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	trip, outcomes, err := newTripService(c).Cancel(id, strings.TrimSpace(req.Reason))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"trip":          trip,
		"reallocations": outcomes,
	})
}

// PUT /api/trips/:id/complete
func CompleteTrip(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	trip, payroll, err := newTripService(c).Complete(id)
	if err != nil && trip.ID == 0 {
		RespondDomainError(c, err)
		return
	}

	resp := gin.H{"trip": trip}
	if payroll.ID != 0 {
		resp["payroll"] = payroll
	}
	if err != nil {
		// Completion stuck; settlement did not. The trip stays completed and
		// payroll can be retried via POST /api/payrolls.
		resp["settlement_error"] = err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

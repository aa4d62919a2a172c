package handlers

import (
	"net/http"
	"strings"

	"safareasy/internal/domain"

	"github.com/gin-gonic/gin"
)

type createTicketRequest struct {
	PassengerID int64 `json:"passenger_id"`
	TripID      int64 `json:"trip_id"`
}

// POST /api/tickets
func CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	ticket, err := newTicketService(c).Register(req.PassengerID, req.TripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket": ticket})
}

// GET /api/tickets/:id
func GetTicket(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ticket, err := newTicketService(c).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

type ticketStatusRequest struct {
	Status string `json:"status"`
}

// PUT /api/tickets/:id/status
func UpdateTicketStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ticketStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	to := domain.TicketStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	ticket, err := newTicketService(c).UpdateStatus(id, to)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GET /api/tickets/scan/:qrCode
func ScanTicket(c *gin.Context) {
	ticket, err := newTicketService(c).Scan(c.Param("qrCode"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}

// GET /api/tickets/:id/eticket
func GetTicketETicketPDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	pdfBytes, filename, err := newDocsService(c).GenerateETicket(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// GET /api/tickets/:id/reallocations
func ListTicketReallocations(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	history, err := newReallocationService(c).History(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reallocations": history})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createPaymentRequest struct {
	TicketID       int64  `json:"ticket_id"`
	AmountCents    int64  `json:"amount_cents"`
	Method         string `json:"method"`
	TransactionRef string `json:"transaction_ref"`
}

// POST /api/payments
func CreatePayment(c *gin.Context) {
	var req createPaymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	payment, err := newTicketService(c).RecordPayment(req.TicketID, req.AmountCents, req.Method, req.TransactionRef)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment})
}

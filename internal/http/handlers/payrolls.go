package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type processPayrollRequest struct {
	TripID int64 `json:"trip_id"`
}

// POST /api/payrolls
func ProcessPayroll(c *gin.Context) {
	var req processPayrollRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	payroll, err := newPayrollService(c).Process(req.TripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payroll": payroll})
}

// GET /api/payrolls/:id
func GetPayroll(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payroll, err := newPayrollService(c).GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": payroll})
}

// GET /api/payrolls/trip/:tripId
func GetPayrollByTrip(c *gin.Context) {
	tripID, ok := paramID(c, "tripId")
	if !ok {
		return
	}
	payroll, err := newPayrollService(c).GetByTrip(tripID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": payroll})
}

// PUT /api/payrolls/:id/dispute
func DisputePayroll(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payroll, err := newPayrollService(c).RaiseDispute(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": payroll})
}

type resolvePayrollRequest struct {
	ResolutionDetails string `json:"resolution_details"`
}

// PUT /api/payrolls/:id/resolve
func ResolvePayroll(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req resolvePayrollRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	payroll, err := newPayrollService(c).ResolveDispute(id, strings.TrimSpace(req.ResolutionDetails))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payroll": payroll})
}

// GET /api/payrolls/owner/:ownerId
func ListPayrollsByOwner(c *gin.Context) {
	ownerID, ok := paramID(c, "ownerId")
	if !ok {
		return
	}
	payrolls, err := newPayrollService(c).ListByOwner(ownerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payrolls": payrolls})
}

// GET /api/payrolls/driver/:driverId
func ListPayrollsByDriver(c *gin.Context) {
	driverID, ok := paramID(c, "driverId")
	if !ok {
		return
	}
	payrolls, err := newPayrollService(c).ListByDriver(driverID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payrolls": payrolls})
}

// GET /api/payrolls/:id/statement
func GetPayrollStatementPDF(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	pdfBytes, filename, err := newDocsService(c).GeneratePayrollStatement(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

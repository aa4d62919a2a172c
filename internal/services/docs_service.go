package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"safareasy/internal/domain/models"
	"safareasy/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders passenger e-tickets and per-trip payroll statements as
// PDFs.
type DocsService struct {
	TicketRepo  TicketStore
	TripRepo    TripStore
	PayrollRepo PayrollStore
	RequestID   string

	// Loader hooks let tests bypass the stores.
	TicketLoader  func(int64) (ticketDocData, error)
	PayrollLoader func(int64) (models.Payroll, error)
}

type ticketDocData struct {
	Ticket models.Ticket
	Trip   models.Trip
}

func (s DocsService) GenerateETicket(ticketID int64) ([]byte, string, error) {
	data, err := s.loadTicketDocData(ticketID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildETicketPDF(data)
}

func (s DocsService) GeneratePayrollStatement(payrollID int64) ([]byte, string, error) {
	payroll, err := s.loadPayroll(payrollID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_statement", fmt.Sprintf("payroll_id=%d", payrollID))
	return buildPayrollStatementPDF(payroll)
}

func (s DocsService) loadTicketDocData(ticketID int64) (ticketDocData, error) {
	if s.TicketLoader != nil {
		return s.TicketLoader(ticketID)
	}
	var out ticketDocData
	ticket, err := s.TicketRepo.GetByID(ticketID)
	if err != nil {
		return out, err
	}
	trip, err := s.TripRepo.GetByID(ticket.TripID)
	if err != nil {
		return out, err
	}
	out.Ticket = ticket
	out.Trip = trip
	return out, nil
}

func (s DocsService) loadPayroll(payrollID int64) (models.Payroll, error) {
	if s.PayrollLoader != nil {
		return s.PayrollLoader(payrollID)
	}
	return s.PayrollRepo.GetByID(payrollID)
}

func buildETicketPDF(d ticketDocData) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "SAFAREASY E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket code   : %s", d.Ticket.ShortCode),
		fmt.Sprintf("Passenger     : #%d", d.Ticket.PassengerID),
		fmt.Sprintf("Trip          : #%d", d.Trip.ID),
		fmt.Sprintf("Route         : #%d", d.Trip.RouteID),
		fmt.Sprintf("Class         : %s", d.Ticket.Class),
		fmt.Sprintf("Status        : %s", d.Ticket.Status),
		fmt.Sprintf("Registered at : %s", utils.FormatDateTime(d.Ticket.RegisteredAt)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Present this ticket or quote the code above when boarding. Valid for one passenger on the trip shown.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(d.Ticket.ShortCode))
	return buf.Bytes(), filename, nil
}

func buildPayrollStatementPDF(p models.Payroll) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Payroll Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "PAYROLL STATEMENT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Statement no : PAYROLL-%d", p.ID))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Generated    : "+time.Now().UTC().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Trip settlement")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	rows := []struct {
		label string
		cents int64
	}{
		{"Total revenue", p.TotalRevenueCents},
		{"Platform fee", p.SystemFeeCents},
		{"SACCO fee", p.SaccoFeeCents},
		{"Driver cut", p.DriverCutCents},
		{"Owner cut", p.OwnerCutCents},
	}
	for _, row := range rows {
		pdf.Cell(80, 6, row.label)
		pdf.Cell(0, 6, utils.FormatKES(row.cents))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Trip #%d  Owner #%d  Driver #%d  SACCO #%d", p.TripID, p.OwnerID, p.DriverID, p.SaccoID))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Status: "+string(p.Status))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Fee components are fixed at settlement time. Disputes are handled through the payroll dispute process.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("PAYROLL_%d_TRIP_%d.pdf", p.ID, p.TripID)
	return buf.Bytes(), filename, nil
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-")
	return replacer.Replace(s)
}

package services

import (
	"fmt"
	"strings"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
	"safareasy/internal/utils"
)

// TicketService registers bookings and advances ticket state. Reallocation is
// the only thing allowed to change a ticket's trip binding, so it lives in
// ReallocationService, not here.
type TicketService struct {
	TripRepo    TripStore
	TicketRepo  TicketStore
	PaymentRepo PaymentStore
	Notifier    notify.Notifier
	RequestID   string
}

// Register books a seat on a trip. The QR and short codes are generated once
// here and never change for the lifetime of the ticket.
func (s TicketService) Register(passengerID, tripID int64) (models.Ticket, error) {
	if passengerID <= 0 {
		return models.Ticket{}, domain.ValidationError{Field: "passenger_id", Msg: "must be positive"}
	}

	load, err := s.TripRepo.GetLoad(tripID)
	if err != nil {
		return models.Ticket{}, err
	}
	if load.Status.Terminal() {
		return models.Ticket{}, domain.TerminalTripError{TripID: load.ID, Status: load.Status}
	}
	if !load.HasSpareSeats() {
		return models.Ticket{}, domain.ConflictError{Resource: "trip", Msg: "no seats left"}
	}

	ticket := models.Ticket{
		PassengerID: passengerID,
		TripID:      load.ID,
		RouteID:     load.RouteID,
		Class:       load.Class,
		Status:      domain.TicketRegistered,
		QRCode:      utils.NewTicketQRCode(),
		ShortCode:   utils.NewTicketShortCode(),
	}

	ticket, err = s.TicketRepo.Create(ticket)
	if err != nil {
		return models.Ticket{}, err
	}

	utils.LogEvent(s.RequestID, "ticket", "register",
		fmt.Sprintf("ticket_id=%d trip_id=%d short_code=%s", ticket.ID, ticket.TripID, ticket.ShortCode))
	s.emit(notify.EventTicketRegistered, map[string]any{
		"ticket_id": ticket.ID,
		"trip_id":   ticket.TripID,
	})
	return ticket, nil
}

func (s TicketService) GetByID(id int64) (models.Ticket, error) {
	return s.TicketRepo.GetByID(id)
}

// Scan looks up a ticket by the code embedded in its QR image.
func (s TicketService) Scan(qrCode string) (models.Ticket, error) {
	qrCode = strings.TrimSpace(qrCode)
	if qrCode == "" {
		return models.Ticket{}, domain.ValidationError{Field: "qr_code", Msg: "required"}
	}
	return s.TicketRepo.GetByQRCode(qrCode)
}

// UpdateStatus advances the ticket along registered -> paid -> boarded, or to
// canceled from any live state.
func (s TicketService) UpdateStatus(id int64, to domain.TicketStatus) (models.Ticket, error) {
	if !to.Valid() {
		return models.Ticket{}, domain.ValidationError{Field: "status", Msg: "unknown status"}
	}

	ticket, err := s.TicketRepo.GetByID(id)
	if err != nil {
		return models.Ticket{}, err
	}
	if !ticket.Status.CanTransition(to) {
		return models.Ticket{}, domain.ValidationError{
			Field: "status",
			Msg:   fmt.Sprintf("cannot move %s ticket to %s", ticket.Status, to),
		}
	}

	if err := s.TicketRepo.UpdateStatus(id, ticket.Status, to); err != nil {
		return models.Ticket{}, err
	}
	return s.TicketRepo.GetByID(id)
}

// RecordPayment stores a settled payment against the ticket and marks it paid.
func (s TicketService) RecordPayment(ticketID, amountCents int64, method, transactionRef string) (models.Payment, error) {
	if amountCents <= 0 {
		return models.Payment{}, domain.ValidationError{Field: "amount_cents", Msg: "must be positive"}
	}
	method = strings.ToLower(strings.TrimSpace(method))
	if method != "mpesa" && method != "card" {
		return models.Payment{}, domain.ValidationError{Field: "method", Msg: "must be mpesa or card"}
	}

	ticket, err := s.TicketRepo.GetByID(ticketID)
	if err != nil {
		return models.Payment{}, err
	}
	if ticket.Status != domain.TicketRegistered {
		return models.Payment{}, domain.ConflictError{Resource: "ticket", Msg: "ticket is " + string(ticket.Status)}
	}

	payment, err := s.PaymentRepo.Create(models.Payment{
		TicketID:       ticket.ID,
		TripID:         ticket.TripID,
		PassengerID:    ticket.PassengerID,
		AmountCents:    amountCents,
		Method:         method,
		Status:         domain.PaymentCompleted,
		TransactionRef: transactionRef,
	})
	if err != nil {
		return models.Payment{}, err
	}

	if err := s.TicketRepo.SetPaymentID(ticket.ID, payment.ID); err != nil {
		utils.LogEvent(s.RequestID, "ticket", "payment",
			fmt.Sprintf("ticket_id=%d payment link failed: %v", ticket.ID, err))
	}
	if err := s.TicketRepo.UpdateStatus(ticket.ID, domain.TicketRegistered, domain.TicketPaid); err != nil {
		utils.LogEvent(s.RequestID, "ticket", "payment",
			fmt.Sprintf("ticket_id=%d paid transition failed: %v", ticket.ID, err))
	}

	utils.LogEvent(s.RequestID, "ticket", "payment",
		fmt.Sprintf("ticket_id=%d amount=%s method=%s", ticket.ID, utils.FormatKES(amountCents), method))
	return payment, nil
}

func (s TicketService) emit(event string, payload any) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Emit(event, payload)
}

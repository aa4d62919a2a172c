package services

import (
	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/repositories"
)

// Narrow store interfaces consumed by the services. The repositories package
// provides the MySQL implementations; tests substitute in-memory fakes.

type TripStore interface {
	Create(t models.Trip) (models.Trip, error)
	GetByID(id int64) (models.Trip, error)
	GetLoad(id int64) (models.TripLoad, error)
	UpdateStatus(id int64, from, to domain.TripStatus) error
	SubstituteCandidates(routeID int64, class domain.TripClass) ([]repositories.SubstituteCandidate, error)
}

type QueueStore interface {
	Enqueue(tripID, routeID int64, class domain.TripClass) (models.QueueEntry, error)
	Dequeue(entryID int64) (models.QueueEntry, error)
	DequeueByTripID(tripID int64) (models.QueueEntry, bool, error)
	ListByRoute(routeID int64) ([]models.QueueEntry, error)
}

type TicketStore interface {
	Create(t models.Ticket) (models.Ticket, error)
	GetByID(id int64) (models.Ticket, error)
	GetByQRCode(qr string) (models.Ticket, error)
	ListReallocatable(tripID int64) ([]models.Ticket, error)
	Rebind(ticketID, fromTripID int64, audit models.Reallocation) (models.Reallocation, error)
	MarkNeedsAttention(ticketID int64) error
	UpdateStatus(id int64, from, to domain.TicketStatus) error
	SetPaymentID(ticketID, paymentID int64) error
}

type PayrollStore interface {
	Create(p models.Payroll) (models.Payroll, error)
	GetByID(id int64) (models.Payroll, error)
	GetByTripID(tripID int64) (models.Payroll, error)
	MarkDisputed(id int64) error
	ResolveDispute(id int64, details string) error
	ListByOwner(ownerID int64) ([]models.Payroll, error)
	ListByDriver(driverID int64) ([]models.Payroll, error)
}

type PaymentStore interface {
	Create(p models.Payment) (models.Payment, error)
	SumCompletedByTrip(tripID int64) (int64, error)
}

type ReallocationStore interface {
	ListByTicket(ticketID int64) ([]models.Reallocation, error)
}

type RouteStore interface {
	GetByID(id int64) (models.Route, error)
}

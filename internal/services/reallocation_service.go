package services

import (
	"fmt"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
	"safareasy/internal/utils"
)

const manualReallocationReason = "manual reallocation by support staff"

// ReallocationOutcome reports the result for one ticket of a bulk
// reallocation. Resolved carries the new trip; unresolved carries the reason
// the ticket could not be moved.
type ReallocationOutcome struct {
	TicketID  int64  `json:"ticket_id"`
	Resolved  bool   `json:"resolved"`
	NewTripID int64  `json:"new_trip_id,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

// ReallocationService moves tickets between trips, automatically when a trip
// is canceled and manually on operator request.
type ReallocationService struct {
	TripRepo    TripStore
	TicketRepo  TicketStore
	ReallocRepo ReallocationStore
	Notifier    notify.Notifier
	RequestID   string
}

// AutoReallocate moves every live ticket off the canceled trip onto substitute
// trips drawn from the same (route, class) queue partition, lowest position
// first. The per-ticket rebind+audit pair is atomic, but the bulk operation is
// deliberately not: one ticket failing must not strand the rest, so results
// come back as an outcome list.
func (s ReallocationService) AutoReallocate(tripID int64, reason string) ([]ReallocationOutcome, error) {
	if reason == "" {
		reason = "trip canceled"
	}

	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripCanceled {
		return nil, domain.ValidationError{
			Field: "trip_id",
			Msg:   "trip is " + string(trip.Status) + ", auto reallocation requires a canceled trip",
		}
	}

	tickets, err := s.TicketRepo.ListReallocatable(tripID)
	if err != nil {
		return nil, err
	}
	if len(tickets) == 0 {
		return []ReallocationOutcome{}, nil
	}

	candidates, err := s.TripRepo.SubstituteCandidates(trip.RouteID, trip.Class)
	if err != nil {
		return nil, err
	}

	// Remaining seats per candidate, consumed as tickets are placed. The
	// canceled trip is excluded in case its queue slot is still draining.
	spare := make([]int, len(candidates))
	for i, c := range candidates {
		if c.ID == tripID {
			spare[i] = 0
			continue
		}
		spare[i] = c.SeatCapacity - c.ActiveTickets
	}

	outcomes := make([]ReallocationOutcome, 0, len(tickets))
	resolved := 0

	for _, ticket := range tickets {
		target := -1
		for i := range candidates {
			if spare[i] > 0 {
				target = i
				break
			}
		}

		if target < 0 {
			// Degraded but safe: the ticket stays on the canceled trip,
			// flagged for support staff.
			if err := s.TicketRepo.MarkNeedsAttention(ticket.ID); err != nil {
				utils.LogEvent(s.RequestID, "realloc", "flag",
					fmt.Sprintf("ticket_id=%d flag failed: %v", ticket.ID, err))
			}
			outcomes = append(outcomes, ReallocationOutcome{
				TicketID: ticket.ID,
				Reason:   "no substitute trip available - manual intervention required",
			})
			continue
		}

		newTripID := candidates[target].ID
		audit := models.Reallocation{
			TicketID:       ticket.ID,
			OriginalTripID: tripID,
			NewTripID:      newTripID,
			Reason:         reason,
			ReallocatedBy:  domain.SystemActor,
		}

		rec, err := s.TicketRepo.Rebind(ticket.ID, tripID, audit)
		if err != nil {
			outcomes = append(outcomes, ReallocationOutcome{
				TicketID: ticket.ID,
				Reason:   err.Error(),
			})
			continue
		}

		spare[target]--
		resolved++
		outcomes = append(outcomes, ReallocationOutcome{
			TicketID:  ticket.ID,
			Resolved:  true,
			NewTripID: newTripID,
		})
		s.emit(notify.EventTicketReallocated, map[string]any{
			"ticket_id":        rec.TicketID,
			"original_trip_id": rec.OriginalTripID,
			"new_trip_id":      rec.NewTripID,
			"reallocated_by":   rec.ReallocatedBy,
		})
	}

	utils.LogEvent(s.RequestID, "realloc", "auto",
		fmt.Sprintf("trip_id=%d tickets=%d resolved=%d", tripID, len(tickets), resolved))
	s.emit(notify.EventTicketsReallocated, map[string]any{
		"trip_id":  tripID,
		"reason":   reason,
		"total":    len(tickets),
		"resolved": resolved,
	})
	return outcomes, nil
}

// ManualReallocate moves one ticket to an operator-chosen trip. The target
// must be alive and of the ticket's class.
func (s ReallocationService) ManualReallocate(ticketID, newTripID int64, operatorID string) (models.Reallocation, error) {
	if operatorID == "" {
		return models.Reallocation{}, domain.ValidationError{Field: "operator_id", Msg: "required"}
	}

	ticket, err := s.TicketRepo.GetByID(ticketID)
	if err != nil {
		return models.Reallocation{}, err
	}
	if ticket.TripID == newTripID {
		return models.Reallocation{}, domain.ValidationError{Field: "new_trip_id", Msg: "ticket already on this trip"}
	}

	newTrip, err := s.TripRepo.GetByID(newTripID)
	if err != nil {
		return models.Reallocation{}, err
	}
	if newTrip.Status.Terminal() {
		return models.Reallocation{}, domain.TerminalTripError{TripID: newTrip.ID, Status: newTrip.Status}
	}
	if newTrip.Class != ticket.Class {
		return models.Reallocation{}, domain.ClassMismatchError{TicketClass: ticket.Class, TripClass: newTrip.Class}
	}

	audit := models.Reallocation{
		TicketID:       ticket.ID,
		OriginalTripID: ticket.TripID,
		NewTripID:      newTripID,
		Reason:         manualReallocationReason,
		ReallocatedBy:  operatorID,
	}

	rec, err := s.TicketRepo.Rebind(ticket.ID, ticket.TripID, audit)
	if err != nil {
		return models.Reallocation{}, err
	}

	utils.LogEvent(s.RequestID, "realloc", "manual",
		fmt.Sprintf("ticket_id=%d trip_id=%d->%d by=%s", ticket.ID, ticket.TripID, newTripID, operatorID))
	s.emit(notify.EventTicketReallocated, map[string]any{
		"ticket_id":        rec.TicketID,
		"original_trip_id": rec.OriginalTripID,
		"new_trip_id":      rec.NewTripID,
		"reallocated_by":   rec.ReallocatedBy,
	})
	return rec, nil
}

// History returns the audit trail for one ticket.
func (s ReallocationService) History(ticketID int64) ([]models.Reallocation, error) {
	if _, err := s.TicketRepo.GetByID(ticketID); err != nil {
		return nil, err
	}
	return s.ReallocRepo.ListByTicket(ticketID)
}

func (s ReallocationService) emit(event string, payload any) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Emit(event, payload)
}

package services

import (
	"fmt"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
	"safareasy/internal/utils"
)

// TripService drives the trip lifecycle. Cancellation and completion are the
// two triggers that fan out into the queue, reallocation and settlement
// engines.
type TripService struct {
	TripRepo   TripStore
	QueueRepo  QueueStore
	RouteRepo  RouteStore
	ReallocSvc ReallocationService
	PayrollSvc PayrollService
	Notifier   notify.Notifier
	RequestID  string
}

// Register creates a pending trip.
func (s TripService) Register(t models.Trip) (models.Trip, error) {
	if !t.Class.Valid() {
		return models.Trip{}, domain.ValidationError{Field: "class", Msg: "must be economy, business or first_class"}
	}
	if t.SeatCapacity <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "seat_capacity", Msg: "must be positive"}
	}
	if t.VehicleID <= 0 || t.DriverID <= 0 || t.OwnerID <= 0 {
		return models.Trip{}, domain.ValidationError{Field: "trip", Msg: "vehicle, driver and owner are required"}
	}

	route, err := s.RouteRepo.GetByID(t.RouteID)
	if err != nil {
		return models.Trip{}, err
	}
	if t.SaccoID == 0 {
		t.SaccoID = route.SaccoID
	}

	trip, err := s.TripRepo.Create(t)
	if err != nil {
		return models.Trip{}, err
	}

	utils.LogEvent(s.RequestID, "trip", "register",
		fmt.Sprintf("trip_id=%d route_id=%d class=%s", trip.ID, trip.RouteID, trip.Class))
	s.emit(notify.EventTripRegistered, map[string]any{
		"trip_id":  trip.ID,
		"route_id": trip.RouteID,
		"class":    trip.Class,
	})
	return trip, nil
}

func (s TripService) GetByID(id int64) (models.Trip, error) {
	return s.TripRepo.GetByID(id)
}

// Depart marks a pending trip active and retracts its queue slot: the vehicle
// has left the stage.
func (s TripService) Depart(tripID int64) (models.Trip, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.Trip{}, err
	}
	if err := s.transition(trip, domain.TripActive); err != nil {
		return models.Trip{}, err
	}
	s.retractQueueSlot(tripID)
	return s.TripRepo.GetByID(tripID)
}

// Cancel terminates the trip and automatically reallocates every live ticket
// bound to it. The outcome list reports per-ticket success.
func (s TripService) Cancel(tripID int64, reason string) (models.Trip, []ReallocationOutcome, error) {
	if reason == "" {
		return models.Trip{}, nil, domain.ValidationError{Field: "reason", Msg: "required"}
	}

	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.Trip{}, nil, err
	}
	if err := s.transition(trip, domain.TripCanceled); err != nil {
		return models.Trip{}, nil, err
	}

	// Retract the queue slot first so the canceled trip can never be chosen
	// as its own substitute.
	s.retractQueueSlot(tripID)

	realloc := s.ReallocSvc
	realloc.RequestID = s.RequestID
	outcomes, err := realloc.AutoReallocate(tripID, reason)
	if err != nil {
		// The cancellation itself stands; reallocation can be retried.
		utils.LogEvent(s.RequestID, "trip", "cancel",
			fmt.Sprintf("trip_id=%d auto reallocation failed: %v", tripID, err))
		outcomes = []ReallocationOutcome{}
	}

	s.emit(notify.EventTripCanceled, map[string]any{
		"trip_id": tripID,
		"reason":  reason,
	})

	trip, err = s.TripRepo.GetByID(tripID)
	return trip, outcomes, err
}

// Complete terminates the trip and settles its revenue.
func (s TripService) Complete(tripID int64) (models.Trip, models.Payroll, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.Trip{}, models.Payroll{}, err
	}
	if err := s.transition(trip, domain.TripCompleted); err != nil {
		return models.Trip{}, models.Payroll{}, err
	}

	s.retractQueueSlot(tripID)

	payrollSvc := s.PayrollSvc
	payrollSvc.RequestID = s.RequestID
	payroll, err := payrollSvc.Process(tripID)
	if err != nil {
		// Completion stands; settlement is retried through the payroll
		// endpoint once the cause is fixed.
		utils.LogEvent(s.RequestID, "trip", "complete",
			fmt.Sprintf("trip_id=%d settlement failed: %v", tripID, err))
	}

	s.emit(notify.EventTripCompleted, map[string]any{"trip_id": tripID})

	updated, getErr := s.TripRepo.GetByID(tripID)
	if getErr != nil {
		return models.Trip{}, models.Payroll{}, getErr
	}
	return updated, payroll, err
}

func (s TripService) transition(trip models.Trip, to domain.TripStatus) error {
	if trip.Status.Terminal() {
		return domain.TerminalTripError{TripID: trip.ID, Status: trip.Status}
	}
	if !trip.Status.CanTransition(to) {
		return domain.ValidationError{
			Field: "status",
			Msg:   fmt.Sprintf("cannot move %s trip to %s", trip.Status, to),
		}
	}
	return s.TripRepo.UpdateStatus(trip.ID, trip.Status, to)
}

func (s TripService) retractQueueSlot(tripID int64) {
	entry, removed, err := s.QueueRepo.DequeueByTripID(tripID)
	if err != nil {
		utils.LogEvent(s.RequestID, "trip", "dequeue",
			fmt.Sprintf("trip_id=%d queue retract failed: %v", tripID, err))
		return
	}
	if removed {
		s.emit(notify.EventQueueUpdated, map[string]any{"route_id": entry.RouteID})
	}
}

func (s TripService) emit(event string, payload any) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Emit(event, payload)
}

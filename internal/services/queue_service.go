package services

import (
	"fmt"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
	"safareasy/internal/utils"
)

// QueueService maintains the ordered dispatch queue per (route, class).
type QueueService struct {
	TripRepo  TripStore
	QueueRepo QueueStore
	Notifier  notify.Notifier
	RequestID string
}

// Enqueue pushes a trip into service at the tail of its partition.
func (s QueueService) Enqueue(tripID int64) (models.QueueEntry, error) {
	if tripID <= 0 {
		return models.QueueEntry{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}

	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.QueueEntry{}, err
	}
	if trip.Status.Terminal() {
		return models.QueueEntry{}, domain.TerminalTripError{TripID: trip.ID, Status: trip.Status}
	}

	entry, err := s.QueueRepo.Enqueue(trip.ID, trip.RouteID, trip.Class)
	if err != nil {
		return models.QueueEntry{}, err
	}

	utils.LogEvent(s.RequestID, "queue", "enqueue",
		fmt.Sprintf("trip_id=%d route_id=%d class=%s position=%d", trip.ID, trip.RouteID, trip.Class, entry.Position))
	s.emitQueueUpdated(trip.RouteID)
	return entry, nil
}

// Dequeue retracts the slot and compacts the partition.
func (s QueueService) Dequeue(entryID int64) error {
	if entryID <= 0 {
		return domain.ValidationError{Field: "id", Msg: "must be positive"}
	}

	entry, err := s.QueueRepo.Dequeue(entryID)
	if err != nil {
		return err
	}

	utils.LogEvent(s.RequestID, "queue", "dequeue",
		fmt.Sprintf("entry_id=%d trip_id=%d route_id=%d", entry.ID, entry.TripID, entry.RouteID))
	s.emitQueueUpdated(entry.RouteID)
	return nil
}

// ListByRoute is a pure read, ordered by class then position.
func (s QueueService) ListByRoute(routeID int64) ([]models.QueueEntry, error) {
	if routeID <= 0 {
		return nil, domain.ValidationError{Field: "route_id", Msg: "must be positive"}
	}
	return s.QueueRepo.ListByRoute(routeID)
}

func (s QueueService) emitQueueUpdated(routeID int64) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Emit(notify.EventQueueUpdated, map[string]any{"route_id": routeID})
}

package services

import (
	"testing"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
)

func pendingTrip(id, routeID int64, class domain.TripClass, capacity int) models.Trip {
	return models.Trip{
		ID:           id,
		VehicleID:    id * 10,
		RouteID:      routeID,
		DriverID:     id * 100,
		OwnerID:      id * 1000,
		SaccoID:      7,
		Class:        class,
		SeatCapacity: capacity,
		Status:       domain.TripPending,
	}
}

func TestQueueServiceEnqueueAssignsTailPositions(t *testing.T) {
	trips := newFakeTripStore()
	queue := newFakeQueueStore()
	notifier := &recordingNotifier{}
	svc := QueueService{TripRepo: trips, QueueRepo: queue, Notifier: notifier}

	for i := int64(1); i <= 3; i++ {
		trips.add(pendingTrip(i, 5, domain.ClassEconomy, 14))
	}

	for i := int64(1); i <= 3; i++ {
		entry, err := svc.Enqueue(i)
		if err != nil {
			t.Fatalf("enqueue trip %d: %v", i, err)
		}
		if entry.Position != int(i) {
			t.Fatalf("trip %d: got position %d, want %d", i, entry.Position, i)
		}
	}

	if !notifier.has(notify.EventQueueUpdated) {
		t.Fatal("expected queueUpdated event")
	}
}

func TestQueueServiceEnqueueRejectsDuplicateTrip(t *testing.T) {
	trips := newFakeTripStore()
	queue := newFakeQueueStore()
	svc := QueueService{TripRepo: trips, QueueRepo: queue}

	trips.add(pendingTrip(1, 5, domain.ClassEconomy, 14))

	if _, err := svc.Enqueue(1); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	_, err := svc.Enqueue(1)
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestQueueServiceEnqueueRejectsTerminalTrip(t *testing.T) {
	trips := newFakeTripStore()
	svc := QueueService{TripRepo: trips, QueueRepo: newFakeQueueStore()}

	trip := pendingTrip(1, 5, domain.ClassEconomy, 14)
	trip.Status = domain.TripCanceled
	trips.add(trip)

	_, err := svc.Enqueue(1)
	if !domain.IsTerminalTrip(err) {
		t.Fatalf("got %v, want terminal trip error", err)
	}
}

func TestQueueServiceEnqueueUnknownTrip(t *testing.T) {
	svc := QueueService{TripRepo: newFakeTripStore(), QueueRepo: newFakeQueueStore()}
	if _, err := svc.Enqueue(99); !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestQueueServiceDequeueCompactsPartition(t *testing.T) {
	trips := newFakeTripStore()
	queue := newFakeQueueStore()
	svc := QueueService{TripRepo: trips, QueueRepo: queue}

	var entries []models.QueueEntry
	for i := int64(1); i <= 3; i++ {
		trips.add(pendingTrip(i, 5, domain.ClassEconomy, 14))
		entry, err := svc.Enqueue(i)
		if err != nil {
			t.Fatalf("enqueue trip %d: %v", i, err)
		}
		entries = append(entries, entry)
	}

	if err := svc.Dequeue(entries[1].ID); err != nil {
		t.Fatalf("dequeue: %v", err)
	}

	listed, err := svc.ListByRoute(5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("got %d entries, want 2", len(listed))
	}
	for i, e := range listed {
		if e.Position != i+1 {
			t.Fatalf("entry %d: got position %d, want %d", i, e.Position, i+1)
		}
	}
	if listed[0].TripID != 1 || listed[1].TripID != 3 {
		t.Fatalf("got trip order %d,%d, want 1,3", listed[0].TripID, listed[1].TripID)
	}
}

func TestQueueServicePartitionsAreIndependent(t *testing.T) {
	trips := newFakeTripStore()
	queue := newFakeQueueStore()
	svc := QueueService{TripRepo: trips, QueueRepo: queue}

	trips.add(pendingTrip(1, 5, domain.ClassEconomy, 14))
	trips.add(pendingTrip(2, 5, domain.ClassBusiness, 10))

	e1, err := svc.Enqueue(1)
	if err != nil {
		t.Fatalf("enqueue economy: %v", err)
	}
	e2, err := svc.Enqueue(2)
	if err != nil {
		t.Fatalf("enqueue business: %v", err)
	}
	if e1.Position != 1 || e2.Position != 1 {
		t.Fatalf("got positions %d,%d, want both 1", e1.Position, e2.Position)
	}
}

func TestQueueServiceValidation(t *testing.T) {
	svc := QueueService{TripRepo: newFakeTripStore(), QueueRepo: newFakeQueueStore()}

	if _, err := svc.Enqueue(0); !domain.IsValidation(err) {
		t.Fatalf("enqueue: got %v, want validation", err)
	}
	if err := svc.Dequeue(0); !domain.IsValidation(err) {
		t.Fatalf("dequeue: got %v, want validation", err)
	}
	if _, err := svc.ListByRoute(0); !domain.IsValidation(err) {
		t.Fatalf("list: got %v, want validation", err)
	}
}

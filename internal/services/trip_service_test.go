package services

import (
	"testing"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
	"safareasy/internal/repositories"
)

func newTripServiceHarness() (TripService, *fakeTripStore, *fakeQueueStore, *fakeTicketStore, *fakePayrollStore, *fakePaymentStore, *recordingNotifier) {
	trips := newFakeTripStore()
	queue := newFakeQueueStore()
	tickets := newFakeTicketStore()
	payrolls := newFakePayrollStore()
	payments := newFakePaymentStore()
	notifier := &recordingNotifier{}

	svc := TripService{
		TripRepo:  trips,
		QueueRepo: queue,
		RouteRepo: fakeRouteStore{routes: map[int64]models.Route{
			5: {ID: 5, Name: "CBD-Rongai", SaccoID: 7},
		}},
		ReallocSvc: ReallocationService{
			TripRepo:    trips,
			TicketRepo:  tickets,
			ReallocRepo: fakeReallocationStore{tickets: tickets},
			Notifier:    notifier,
		},
		PayrollSvc: PayrollService{
			TripRepo:    trips,
			PayrollRepo: payrolls,
			PaymentRepo: payments,
			Policy:      stubFeePolicy{sys: 100, sacco: 900, driver: 4000, owner: 5000},
			Notifier:    notifier,
		},
		Notifier: notifier,
	}
	return svc, trips, queue, tickets, payrolls, payments, notifier
}

func TestTripRegisterDefaultsSaccoFromRoute(t *testing.T) {
	svc, _, _, _, _, _, notifier := newTripServiceHarness()

	trip, err := svc.Register(models.Trip{
		VehicleID:    10,
		RouteID:      5,
		DriverID:     30,
		OwnerID:      40,
		Class:        domain.ClassEconomy,
		SeatCapacity: 14,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if trip.SaccoID != 7 {
		t.Fatalf("sacco_id = %d, want route default 7", trip.SaccoID)
	}
	if trip.Status != domain.TripPending {
		t.Fatalf("status = %s", trip.Status)
	}
	if !notifier.has(notify.EventTripRegistered) {
		t.Fatal("expected tripRegistered event")
	}
}

func TestTripRegisterValidation(t *testing.T) {
	svc, _, _, _, _, _, _ := newTripServiceHarness()

	cases := []models.Trip{
		{VehicleID: 10, RouteID: 5, DriverID: 30, OwnerID: 40, Class: "luxury", SeatCapacity: 14},
		{VehicleID: 10, RouteID: 5, DriverID: 30, OwnerID: 40, Class: domain.ClassEconomy, SeatCapacity: 0},
		{VehicleID: 0, RouteID: 5, DriverID: 30, OwnerID: 40, Class: domain.ClassEconomy, SeatCapacity: 14},
	}
	for i, in := range cases {
		if _, err := svc.Register(in); !domain.IsValidation(err) {
			t.Fatalf("case %d: got %v, want validation", i, err)
		}
	}

	unknownRoute := models.Trip{VehicleID: 10, RouteID: 99, DriverID: 30, OwnerID: 40, Class: domain.ClassEconomy, SeatCapacity: 14}
	if _, err := svc.Register(unknownRoute); !domain.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestTripDepartRetractsQueueSlot(t *testing.T) {
	svc, trips, queue, _, _, _, _ := newTripServiceHarness()

	trips.add(pendingTrip(1, 5, domain.ClassEconomy, 14))
	if _, err := queue.Enqueue(1, 5, domain.ClassEconomy); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	trip, err := svc.Depart(1)
	if err != nil {
		t.Fatalf("depart: %v", err)
	}
	if trip.Status != domain.TripActive {
		t.Fatalf("status = %s", trip.Status)
	}
	if len(queue.entries) != 0 {
		t.Fatal("queue slot should be retracted on departure")
	}
}

func TestTripCancelReallocatesAndRetracts(t *testing.T) {
	svc, trips, queue, tickets, _, _, notifier := newTripServiceHarness()

	trips.add(pendingTrip(1, 5, domain.ClassEconomy, 14))
	substitute := pendingTrip(2, 5, domain.ClassEconomy, 14)
	trips.add(substitute)
	trips.candidates = []repositories.SubstituteCandidate{candidate(substitute, 0, 1)}

	if _, err := queue.Enqueue(1, 5, domain.ClassEconomy); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	tickets.add(liveTicket(1, 1, domain.ClassEconomy, domain.TicketPaid))

	trip, outcomes, err := svc.Cancel(1, "vehicle breakdown")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if trip.Status != domain.TripCanceled {
		t.Fatalf("status = %s", trip.Status)
	}
	if len(outcomes) != 1 || !outcomes[0].Resolved || outcomes[0].NewTripID != 2 {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if len(queue.entries) != 0 {
		t.Fatal("canceled trip must lose its queue slot")
	}
	if !notifier.has(notify.EventTripCanceled) {
		t.Fatal("expected tripCanceled event")
	}
}

func TestTripCancelRequiresReason(t *testing.T) {
	svc, trips, _, _, _, _, _ := newTripServiceHarness()
	trips.add(pendingTrip(1, 5, domain.ClassEconomy, 14))

	if _, _, err := svc.Cancel(1, ""); !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation", err)
	}
}

func TestTripCancelTerminalTripRejected(t *testing.T) {
	svc, trips, _, _, _, _, _ := newTripServiceHarness()
	trip := pendingTrip(1, 5, domain.ClassEconomy, 14)
	trip.Status = domain.TripCompleted
	trips.add(trip)

	if _, _, err := svc.Cancel(1, "too late"); !domain.IsTerminalTrip(err) {
		t.Fatalf("got %v, want terminal trip", err)
	}
}

func TestTripCompleteSettlesPayroll(t *testing.T) {
	svc, trips, queue, _, payrolls, payments, notifier := newTripServiceHarness()

	trip := pendingTrip(1, 5, domain.ClassEconomy, 14)
	trip.OwnerID = 40
	trip.DriverID = 30
	trip.Status = domain.TripActive
	trips.add(trip)
	if _, err := queue.Enqueue(1, 5, domain.ClassEconomy); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	payments.sums[1] = 10_000

	updated, payroll, err := svc.Complete(1)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if updated.Status != domain.TripCompleted {
		t.Fatalf("status = %s", updated.Status)
	}
	if payroll.ID == 0 || payroll.TotalRevenueCents != 10_000 {
		t.Fatalf("payroll = %+v", payroll)
	}
	if len(payrolls.payrolls) != 1 {
		t.Fatal("payroll not persisted")
	}
	if len(queue.entries) != 0 {
		t.Fatal("completed trip must lose its queue slot")
	}
	if !notifier.has(notify.EventTripCompleted) {
		t.Fatal("expected tripCompleted event")
	}
}

func TestTripCompleteFromPendingRejected(t *testing.T) {
	svc, trips, _, _, _, _, _ := newTripServiceHarness()
	trips.add(pendingTrip(1, 5, domain.ClassEconomy, 14))

	if _, _, err := svc.Complete(1); !domain.IsValidation(err) {
		t.Fatalf("got %v, want validation (pending cannot complete)", err)
	}
}

func TestTripCompleteStandsWhenSettlementFails(t *testing.T) {
	svc, trips, _, _, payrolls, payments, _ := newTripServiceHarness()

	trip := pendingTrip(1, 5, domain.ClassEconomy, 14)
	trip.Status = domain.TripActive
	trips.add(trip)
	payments.sums[1] = 10_000

	// Pre-existing payroll for this trip forces a conflict during settlement.
	if _, err := payrolls.Create(models.Payroll{TripID: 1, Status: domain.PayrollCompleted}); err != nil {
		t.Fatalf("seed payroll: %v", err)
	}

	updated, _, err := svc.Complete(1)
	if !domain.IsConflict(err) {
		t.Fatalf("got %v, want conflict surfaced", err)
	}
	if updated.Status != domain.TripCompleted {
		t.Fatal("trip completion must stand even when settlement fails")
	}
}

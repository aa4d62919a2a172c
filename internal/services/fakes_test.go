package services

import (
	"sort"
	"time"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/repositories"
)

// In-memory fakes for the store interfaces. They mimic the repository
// contracts closely enough for the engine tests: guarded status updates,
// conflict on duplicate rows, contiguous queue positions.

type fakeTripStore struct {
	trips      map[int64]models.Trip
	loads      map[int64]int
	candidates []repositories.SubstituteCandidate
	nextID     int64
}

func newFakeTripStore() *fakeTripStore {
	return &fakeTripStore{trips: map[int64]models.Trip{}, loads: map[int64]int{}}
}

func (f *fakeTripStore) add(t models.Trip) models.Trip {
	if t.ID == 0 {
		f.nextID++
		t.ID = f.nextID
	} else if t.ID > f.nextID {
		f.nextID = t.ID
	}
	if t.RegisteredAt.IsZero() {
		t.RegisteredAt = time.Now().UTC()
	}
	f.trips[t.ID] = t
	return t
}

func (f *fakeTripStore) Create(t models.Trip) (models.Trip, error) {
	t.Status = domain.TripPending
	return f.add(t), nil
}

func (f *fakeTripStore) GetByID(id int64) (models.Trip, error) {
	t, ok := f.trips[id]
	if !ok {
		return models.Trip{}, domain.NotFoundError{Resource: "trip"}
	}
	return t, nil
}

func (f *fakeTripStore) GetLoad(id int64) (models.TripLoad, error) {
	t, err := f.GetByID(id)
	if err != nil {
		return models.TripLoad{}, err
	}
	return models.TripLoad{Trip: t, ActiveTickets: f.loads[id]}, nil
}

func (f *fakeTripStore) UpdateStatus(id int64, from, to domain.TripStatus) error {
	t, ok := f.trips[id]
	if !ok {
		return domain.NotFoundError{Resource: "trip"}
	}
	if t.Status != from {
		return domain.ConflictError{Resource: "trip", Msg: "status changed concurrently"}
	}
	t.Status = to
	f.trips[id] = t
	return nil
}

func (f *fakeTripStore) SubstituteCandidates(routeID int64, class domain.TripClass) ([]repositories.SubstituteCandidate, error) {
	out := []repositories.SubstituteCandidate{}
	for _, c := range f.candidates {
		if c.RouteID == routeID && c.Class == class {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeQueueStore struct {
	entries map[int64]models.QueueEntry
	nextID  int64
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{entries: map[int64]models.QueueEntry{}}
}

func (f *fakeQueueStore) Enqueue(tripID, routeID int64, class domain.TripClass) (models.QueueEntry, error) {
	for _, e := range f.entries {
		if e.TripID == tripID {
			return models.QueueEntry{}, domain.ConflictError{Resource: "queue entry", Msg: "trip already queued"}
		}
	}
	max := 0
	for _, e := range f.entries {
		if e.RouteID == routeID && e.Class == class && e.Position > max {
			max = e.Position
		}
	}
	f.nextID++
	entry := models.QueueEntry{
		ID:         f.nextID,
		TripID:     tripID,
		RouteID:    routeID,
		Class:      class,
		Position:   max + 1,
		InsertedAt: time.Now().UTC(),
	}
	f.entries[entry.ID] = entry
	return entry, nil
}

func (f *fakeQueueStore) Dequeue(entryID int64) (models.QueueEntry, error) {
	entry, ok := f.entries[entryID]
	if !ok {
		return models.QueueEntry{}, domain.NotFoundError{Resource: "queue entry"}
	}
	delete(f.entries, entryID)
	for id, e := range f.entries {
		if e.RouteID == entry.RouteID && e.Class == entry.Class && e.Position > entry.Position {
			e.Position--
			f.entries[id] = e
		}
	}
	return entry, nil
}

func (f *fakeQueueStore) DequeueByTripID(tripID int64) (models.QueueEntry, bool, error) {
	for id, e := range f.entries {
		if e.TripID == tripID {
			entry, err := f.Dequeue(id)
			return entry, err == nil, err
		}
	}
	return models.QueueEntry{}, false, nil
}

func (f *fakeQueueStore) ListByRoute(routeID int64) ([]models.QueueEntry, error) {
	out := []models.QueueEntry{}
	for _, e := range f.entries {
		if e.RouteID == routeID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

type fakeTicketStore struct {
	tickets   map[int64]models.Ticket
	audits    []models.Reallocation
	rebindErr map[int64]error
	nextID    int64
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{tickets: map[int64]models.Ticket{}, rebindErr: map[int64]error{}}
}

func (f *fakeTicketStore) add(t models.Ticket) models.Ticket {
	if t.ID == 0 {
		f.nextID++
		t.ID = f.nextID
	} else if t.ID > f.nextID {
		f.nextID = t.ID
	}
	if t.RegisteredAt.IsZero() {
		t.RegisteredAt = time.Now().UTC()
	}
	f.tickets[t.ID] = t
	return t
}

func (f *fakeTicketStore) Create(t models.Ticket) (models.Ticket, error) {
	return f.add(t), nil
}

func (f *fakeTicketStore) GetByID(id int64) (models.Ticket, error) {
	t, ok := f.tickets[id]
	if !ok {
		return models.Ticket{}, domain.NotFoundError{Resource: "ticket"}
	}
	return t, nil
}

func (f *fakeTicketStore) GetByQRCode(qr string) (models.Ticket, error) {
	for _, t := range f.tickets {
		if t.QRCode == qr {
			return t, nil
		}
	}
	return models.Ticket{}, domain.NotFoundError{Resource: "ticket"}
}

func (f *fakeTicketStore) ListReallocatable(tripID int64) ([]models.Ticket, error) {
	out := []models.Ticket{}
	for _, t := range f.tickets {
		if t.TripID == tripID && t.Status.Reallocatable() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTicketStore) Rebind(ticketID, fromTripID int64, audit models.Reallocation) (models.Reallocation, error) {
	if err := f.rebindErr[ticketID]; err != nil {
		return models.Reallocation{}, err
	}
	t, ok := f.tickets[ticketID]
	if !ok {
		return models.Reallocation{}, domain.NotFoundError{Resource: "ticket"}
	}
	if t.TripID != fromTripID {
		return models.Reallocation{}, domain.ConflictError{Resource: "ticket", Msg: "ticket moved concurrently"}
	}
	t.TripID = audit.NewTripID
	f.tickets[ticketID] = t
	audit.ID = int64(len(f.audits) + 1)
	audit.CreatedAt = time.Now().UTC()
	f.audits = append(f.audits, audit)
	return audit, nil
}

func (f *fakeTicketStore) MarkNeedsAttention(ticketID int64) error {
	t, ok := f.tickets[ticketID]
	if !ok {
		return domain.NotFoundError{Resource: "ticket"}
	}
	t.NeedsAttention = true
	f.tickets[ticketID] = t
	return nil
}

func (f *fakeTicketStore) UpdateStatus(id int64, from, to domain.TicketStatus) error {
	t, ok := f.tickets[id]
	if !ok {
		return domain.NotFoundError{Resource: "ticket"}
	}
	if t.Status != from {
		return domain.ConflictError{Resource: "ticket", Msg: "status changed concurrently"}
	}
	t.Status = to
	f.tickets[id] = t
	return nil
}

func (f *fakeTicketStore) SetPaymentID(ticketID, paymentID int64) error {
	t, ok := f.tickets[ticketID]
	if !ok {
		return domain.NotFoundError{Resource: "ticket"}
	}
	t.PaymentID = &paymentID
	f.tickets[ticketID] = t
	return nil
}

type fakeReallocationStore struct {
	tickets *fakeTicketStore
}

func (f fakeReallocationStore) ListByTicket(ticketID int64) ([]models.Reallocation, error) {
	out := []models.Reallocation{}
	for _, a := range f.tickets.audits {
		if a.TicketID == ticketID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakePayrollStore struct {
	payrolls map[int64]models.Payroll
	byTrip   map[int64]int64
	nextID   int64
}

func newFakePayrollStore() *fakePayrollStore {
	return &fakePayrollStore{payrolls: map[int64]models.Payroll{}, byTrip: map[int64]int64{}}
}

func (f *fakePayrollStore) Create(p models.Payroll) (models.Payroll, error) {
	if _, ok := f.byTrip[p.TripID]; ok {
		return models.Payroll{}, domain.ConflictError{Resource: "payroll", Msg: "already processed for this trip"}
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	f.payrolls[p.ID] = p
	f.byTrip[p.TripID] = p.ID
	return p, nil
}

func (f *fakePayrollStore) GetByID(id int64) (models.Payroll, error) {
	p, ok := f.payrolls[id]
	if !ok {
		return models.Payroll{}, domain.NotFoundError{Resource: "payroll"}
	}
	return p, nil
}

func (f *fakePayrollStore) GetByTripID(tripID int64) (models.Payroll, error) {
	id, ok := f.byTrip[tripID]
	if !ok {
		return models.Payroll{}, domain.NotFoundError{Resource: "payroll"}
	}
	return f.payrolls[id], nil
}

func (f *fakePayrollStore) MarkDisputed(id int64) error {
	p, ok := f.payrolls[id]
	if !ok {
		return domain.NotFoundError{Resource: "payroll"}
	}
	if p.Status != domain.PayrollCompleted {
		return domain.ConflictError{Resource: "payroll", Msg: "payroll is " + string(p.Status)}
	}
	p.Status = domain.PayrollDisputed
	f.payrolls[id] = p
	return nil
}

func (f *fakePayrollStore) ResolveDispute(id int64, details string) error {
	p, ok := f.payrolls[id]
	if !ok {
		return domain.NotFoundError{Resource: "payroll"}
	}
	if p.Status != domain.PayrollDisputed {
		return domain.ConflictError{Resource: "payroll", Msg: "payroll is " + string(p.Status)}
	}
	p.Status = domain.PayrollCompleted
	p.ResolutionDetails = details
	f.payrolls[id] = p
	return nil
}

func (f *fakePayrollStore) ListByOwner(ownerID int64) ([]models.Payroll, error) {
	out := []models.Payroll{}
	for _, p := range f.payrolls {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePayrollStore) ListByDriver(driverID int64) ([]models.Payroll, error) {
	out := []models.Payroll{}
	for _, p := range f.payrolls {
		if p.DriverID == driverID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePaymentStore struct {
	payments []models.Payment
	sums     map[int64]int64
	nextID   int64
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{sums: map[int64]int64{}}
}

func (f *fakePaymentStore) Create(p models.Payment) (models.Payment, error) {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now().UTC()
	f.payments = append(f.payments, p)
	if p.Status == domain.PaymentCompleted {
		f.sums[p.TripID] += p.AmountCents
	}
	return p, nil
}

func (f *fakePaymentStore) SumCompletedByTrip(tripID int64) (int64, error) {
	return f.sums[tripID], nil
}

type fakeRouteStore struct {
	routes map[int64]models.Route
}

func (f fakeRouteStore) GetByID(id int64) (models.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return models.Route{}, domain.NotFoundError{Resource: "route"}
	}
	return r, nil
}

// stubFeePolicy returns fixed components regardless of the total.
type stubFeePolicy struct {
	sys, sacco, driver, owner int64
}

func (p stubFeePolicy) Split(int64) (int64, int64, int64, int64) {
	return p.sys, p.sacco, p.driver, p.owner
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Emit(event string, payload any) {
	n.events = append(n.events, event)
}

func (n *recordingNotifier) has(event string) bool {
	for _, e := range n.events {
		if e == event {
			return true
		}
	}
	return false
}

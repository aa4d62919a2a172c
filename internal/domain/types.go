package domain

// TripClass is the service class of a scheduled run.
type TripClass string

const (
	ClassEconomy    TripClass = "economy"
	ClassBusiness   TripClass = "business"
	ClassFirstClass TripClass = "first_class"
)

func (c TripClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassBusiness, ClassFirstClass:
		return true
	}
	return false
}

type TripStatus string

const (
	TripPending   TripStatus = "pending"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCanceled  TripStatus = "canceled"
)

func (s TripStatus) Terminal() bool {
	return s == TripCompleted || s == TripCanceled
}

// CanTransition enforces the monotonic trip lifecycle:
// pending -> active -> completed, with cancellation allowed from any
// non-terminal state. Terminal states are final.
func (s TripStatus) CanTransition(to TripStatus) bool {
	if s.Terminal() {
		return false
	}
	switch to {
	case TripActive:
		return s == TripPending
	case TripCompleted:
		return s == TripActive
	case TripCanceled:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketRegistered TicketStatus = "registered"
	TicketPaid       TicketStatus = "paid"
	TicketBoarded    TicketStatus = "boarded"
	TicketCanceled   TicketStatus = "canceled"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketRegistered, TicketPaid, TicketBoarded, TicketCanceled:
		return true
	}
	return false
}

func (s TicketStatus) CanTransition(to TicketStatus) bool {
	switch s {
	case TicketRegistered:
		return to == TicketPaid || to == TicketCanceled
	case TicketPaid:
		return to == TicketBoarded || to == TicketCanceled
	}
	return false
}

// Reallocatable reports whether a ticket still represents a live seat claim
// that must be moved off a canceled trip.
func (s TicketStatus) Reallocatable() bool {
	return s == TicketRegistered || s == TicketPaid
}

type PayrollStatus string

const (
	PayrollPending   PayrollStatus = "pending"
	PayrollCompleted PayrollStatus = "completed"
	PayrollDisputed  PayrollStatus = "disputed"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// SystemActor is recorded as reallocated_by when the engine moves tickets
// without an operator.
const SystemActor = "system"

// SettlementEpsilonCents bounds the conservation check. Amounts are integer
// cents, so anything above a single cent of drift is corruption.
const SettlementEpsilonCents int64 = 1

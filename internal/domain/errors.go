package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ConflictError covers idempotency guards: a trip already holding a queue
// slot, or a payroll already processed for a trip.
type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// ClassMismatchError rejects moving a ticket onto a trip of another class.
type ClassMismatchError struct {
	TicketClass TripClass
	TripClass   TripClass
}

func (e ClassMismatchError) Error() string {
	return fmt.Sprintf("ticket class %s does not match trip class %s", e.TicketClass, e.TripClass)
}

// TerminalTripError rejects binding tickets to a completed or canceled trip.
type TerminalTripError struct {
	TripID int64
	Status TripStatus
}

func (e TerminalTripError) Error() string {
	return fmt.Sprintf("trip %d is %s", e.TripID, e.Status)
}

// ImbalanceError means the settlement split does not add up to total revenue.
// It is a data-integrity failure, never retried or auto-corrected.
type ImbalanceError struct {
	TripID        int64
	TotalRevenue  int64
	ComponentsSum int64
}

func (e ImbalanceError) Error() string {
	return fmt.Sprintf("settlement imbalance for trip %d: components sum %d, revenue %d",
		e.TripID, e.ComponentsSum, e.TotalRevenue)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsClassMismatch(err error) bool {
	var target ClassMismatchError
	return errors.As(err, &target)
}

func IsTerminalTrip(err error) bool {
	var target TerminalTripError
	return errors.As(err, &target)
}

func IsImbalance(err error) bool {
	var target ImbalanceError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}

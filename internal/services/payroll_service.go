package services

import (
	"fmt"

	"safareasy/internal/domain"
	"safareasy/internal/domain/models"
	"safareasy/internal/notify"
	"safareasy/internal/utils"
)

// PayrollService settles a completed trip's revenue into the platform fee,
// SACCO fee, driver cut and owner cut.
type PayrollService struct {
	TripRepo    TripStore
	PayrollRepo PayrollStore
	PaymentRepo PaymentStore
	Policy      FeePolicy
	Notifier    notify.Notifier
	RequestID   string
}

// Process aggregates completed payments for the trip, applies the fee policy,
// verifies conservation, and persists the payroll. Processing the same trip
// twice is rejected; an imbalanced split aborts without persisting anything.
func (s PayrollService) Process(tripID int64) (models.Payroll, error) {
	trip, err := s.TripRepo.GetByID(tripID)
	if err != nil {
		return models.Payroll{}, err
	}
	if trip.Status != domain.TripCompleted {
		return models.Payroll{}, domain.ValidationError{
			Field: "trip_id",
			Msg:   "trip is " + string(trip.Status) + ", payroll requires a completed trip",
		}
	}

	total, err := s.PaymentRepo.SumCompletedByTrip(tripID)
	if err != nil {
		return models.Payroll{}, err
	}

	systemFee, saccoFee, driverCut, ownerCut := s.Policy.Split(total)

	payroll := models.Payroll{
		TripID:            trip.ID,
		OwnerID:           trip.OwnerID,
		DriverID:          trip.DriverID,
		SaccoID:           trip.SaccoID,
		TotalRevenueCents: total,
		SystemFeeCents:    systemFee,
		SaccoFeeCents:     saccoFee,
		DriverCutCents:    driverCut,
		OwnerCutCents:     ownerCut,
		Status:            domain.PayrollCompleted,
	}

	if !payroll.Balanced() {
		sum := systemFee + saccoFee + driverCut + ownerCut
		utils.LogCritical(s.RequestID, "payroll", "process",
			fmt.Sprintf("imbalance trip_id=%d revenue=%d components=%d", tripID, total, sum))
		return models.Payroll{}, domain.ImbalanceError{
			TripID:        tripID,
			TotalRevenue:  total,
			ComponentsSum: sum,
		}
	}

	payroll, err = s.PayrollRepo.Create(payroll)
	if err != nil {
		return models.Payroll{}, err
	}

	utils.LogEvent(s.RequestID, "payroll", "process",
		fmt.Sprintf("trip_id=%d revenue=%s", tripID, utils.FormatKES(total)))
	s.emit(notify.EventPayrollProcessed, map[string]any{
		"payroll_id":          payroll.ID,
		"trip_id":             payroll.TripID,
		"owner_id":            payroll.OwnerID,
		"driver_id":           payroll.DriverID,
		"sacco_id":            payroll.SaccoID,
		"total_revenue_cents": payroll.TotalRevenueCents,
	})
	return payroll, nil
}

func (s PayrollService) GetByID(id int64) (models.Payroll, error) {
	return s.PayrollRepo.GetByID(id)
}

func (s PayrollService) GetByTrip(tripID int64) (models.Payroll, error) {
	if tripID <= 0 {
		return models.Payroll{}, domain.ValidationError{Field: "trip_id", Msg: "must be positive"}
	}
	return s.PayrollRepo.GetByTripID(tripID)
}

// RaiseDispute moves a completed payroll into dispute; resolution is the only
// way back out.
func (s PayrollService) RaiseDispute(id int64) (models.Payroll, error) {
	if err := s.PayrollRepo.MarkDisputed(id); err != nil {
		return models.Payroll{}, err
	}
	utils.LogEvent(s.RequestID, "payroll", "dispute", fmt.Sprintf("payroll_id=%d", id))
	return s.PayrollRepo.GetByID(id)
}

// ResolveDispute closes a disputed payroll. Fee fields stay frozen; a true
// correction means voiding and reprocessing, not editing amounts here.
func (s PayrollService) ResolveDispute(id int64, resolutionDetails string) (models.Payroll, error) {
	if resolutionDetails == "" {
		return models.Payroll{}, domain.ValidationError{Field: "resolution_details", Msg: "required"}
	}

	if err := s.PayrollRepo.ResolveDispute(id, resolutionDetails); err != nil {
		return models.Payroll{}, err
	}

	payroll, err := s.PayrollRepo.GetByID(id)
	if err != nil {
		return models.Payroll{}, err
	}

	utils.LogEvent(s.RequestID, "payroll", "resolve", fmt.Sprintf("payroll_id=%d", id))
	s.emit(notify.EventPayrollDisputeResolved, map[string]any{
		"payroll_id": payroll.ID,
		"trip_id":    payroll.TripID,
	})
	return payroll, nil
}

func (s PayrollService) ListByOwner(ownerID int64) ([]models.Payroll, error) {
	if ownerID <= 0 {
		return nil, domain.ValidationError{Field: "owner_id", Msg: "must be positive"}
	}
	return s.PayrollRepo.ListByOwner(ownerID)
}

func (s PayrollService) ListByDriver(driverID int64) ([]models.Payroll, error) {
	if driverID <= 0 {
		return nil, domain.ValidationError{Field: "driver_id", Msg: "must be positive"}
	}
	return s.PayrollRepo.ListByDriver(driverID)
}

func (s PayrollService) emit(event string, payload any) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Emit(event, payload)
}

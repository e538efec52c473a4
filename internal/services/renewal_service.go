package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// renewalWindowDays is the length of the window before expiration during
// which a renewal request may be submitted
const renewalWindowDays = 90

// Eligibility is the renewal window state of a lease at a point in time
type Eligibility struct {
	Eligible          bool
	DaysRemaining     int
	DaysUntilEligible int
}

// RenewalResult identifies the rows a renewal request created
type RenewalResult struct {
	Lease     *models.Lease
	PaymentID uuid.UUID
	Breakdown *Breakdown
}

// RenewalService evaluates renewal eligibility and creates renewal-request
// leases. A renewal carries the rent, landlord and property of the original
// lease, waives the security deposit, and starts where the original ends.
type RenewalService struct {
	calculator *PlanCalculator
	leases     LeaseStore
	payments   PaymentStore
	events     EventPublisher
	logger     *logrus.Entry
	now        func() time.Time
}

// NewRenewalService creates a new renewal service
func NewRenewalService(calculator *PlanCalculator, leases LeaseStore, payments PaymentStore, events EventPublisher, logger *logrus.Logger) *RenewalService {
	return &RenewalService{
		calculator: calculator,
		leases:     leases,
		payments:   payments,
		events:     events,
		logger:     logger.WithField("component", "renewal"),
		now:        time.Now,
	}
}

// EvaluateEligibility computes the renewal window state for a lease at the
// given time. Pure: no reads, no writes.
func EvaluateEligibility(lease *models.Lease, now time.Time) Eligibility {
	daysRemaining := lease.DaysRemaining(now)
	untilEligible := daysRemaining - renewalWindowDays
	if untilEligible < 0 {
		untilEligible = 0
	}

	return Eligibility{
		Eligible:          lease.Status == models.LeaseActive && daysRemaining > 0 && daysRemaining <= renewalWindowDays,
		DaysRemaining:     daysRemaining,
		DaysUntilEligible: untilEligible,
	}
}

// IsEligible reports whether the lease may request a renewal now
func (s *RenewalService) IsEligible(ctx context.Context, leaseID uuid.UUID) (bool, error) {
	eligibility, _, err := s.Eligibility(ctx, leaseID)
	if err != nil {
		return false, err
	}
	return eligibility.Eligible, nil
}

// DaysUntilEligible returns how many days remain until the renewal window
// opens, zero once it is open or past
func (s *RenewalService) DaysUntilEligible(ctx context.Context, leaseID uuid.UUID) (int, error) {
	eligibility, _, err := s.Eligibility(ctx, leaseID)
	if err != nil {
		return 0, err
	}
	return eligibility.DaysUntilEligible, nil
}

// Eligibility loads the lease and evaluates its renewal window
func (s *RenewalService) Eligibility(ctx context.Context, leaseID uuid.UUID) (Eligibility, *models.Lease, error) {
	lease, err := s.loadLease(ctx, leaseID)
	if err != nil {
		return Eligibility{}, nil, err
	}
	return EvaluateEligibility(lease, s.now()), lease, nil
}

// CreateRenewalRequest creates the renewal_pending lease and its
// deposit-waived first payment. The new term starts the day the original
// expires. The same two-step unit as checkout applies: if the payment insert
// fails the renewal lease is deleted again.
func (s *RenewalService) CreateRenewalRequest(ctx context.Context, leaseID uuid.UUID, durationMonths int, notes string) (*RenewalResult, error) {
	lease, err := s.loadLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	eligibility := EvaluateEligibility(lease, s.now())
	if !eligibility.Eligible {
		return nil, NewValidationError("lease", "not within the renewal window")
	}

	breakdown, err := s.calculator.ComputeRenewal(PlanFull, lease.MonthlyRent, durationMonths)
	if err != nil {
		return nil, err
	}

	startDate := lease.RentExpirationDate
	renewal := &models.Lease{
		ID:                  uuid.New(),
		PropertyID:          lease.PropertyID,
		TenantID:            lease.TenantID,
		LandlordID:          lease.LandlordID,
		MonthlyRent:         lease.MonthlyRent,
		LeaseDurationMonths: durationMonths,
		LeaseStartDate:      startDate,
		RentExpirationDate:  startDate.AddDate(0, durationMonths, 0),
		Status:              models.LeaseRenewalPending,
		Notes:               notes,
	}

	if err := s.leases.Create(ctx, renewal); err != nil {
		return nil, NewPersistenceError("create renewal lease", false, err)
	}

	installment := 1
	payment := &models.Payment{
		ID:                 uuid.New(),
		LeaseID:            &renewal.ID,
		PropertyID:         &renewal.PropertyID,
		TenantID:           renewal.TenantID,
		LandlordID:         renewal.LandlordID,
		Amount:             breakdown.Total,
		DueDate:            startDate,
		Status:             models.PaymentPending,
		VerificationStatus: models.VerificationPendingReview,
		IsFirstPayment:     true,
		InstallmentNumber:  &installment,
		PaymentType:        models.PaymentTypeRental,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		if delErr := s.leases.Delete(ctx, renewal.ID); delErr != nil {
			s.logger.WithError(delErr).WithField("lease_id", renewal.ID).
				Error("Compensating renewal lease delete failed")
			return nil, NewPersistenceError("create renewal payment", true, err)
		}
		return nil, NewPersistenceError("create renewal payment", false, err)
	}

	if s.events != nil {
		if err := s.events.PublishRenewalRequested(ctx, renewal, payment.ID); err != nil {
			s.logger.WithError(err).Warn("Event publish failed")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"lease_id":   renewal.ID,
		"original":   lease.ID,
		"payment_id": payment.ID,
		"start_date": startDate,
		"total":      breakdown.Total,
	}).Info("Renewal request created")

	return &RenewalResult{Lease: renewal, PaymentID: payment.ID, Breakdown: breakdown}, nil
}

func (s *RenewalService) loadLease(ctx context.Context, leaseID uuid.UUID) (*models.Lease, error) {
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("lease", leaseID.String())
		}
		return nil, NewPersistenceError("load lease", false, err)
	}
	return lease, nil
}

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

// CheckoutResult identifies the rows a checkout created together with the
// breakdown that priced them
type CheckoutResult struct {
	LeaseID   *uuid.UUID
	PaymentID uuid.UUID
	Breakdown *Breakdown
}

// CheckoutService creates the paired lease/payment records for a rental
// checkout, and the standalone payment for sale and service checkouts.
//
// The lease and payment inserts have no multi-row transaction available, so
// they run as a two-step unit with a compensating lease delete: a pending
// lease with no payment is an invalid state and must never survive a failed
// checkout.
type CheckoutService struct {
	calculator *PlanCalculator
	leases     LeaseStore
	payments   PaymentStore
	properties PropertyStore
	logger     *logrus.Entry
	now        func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(calculator *PlanCalculator, leases LeaseStore, payments PaymentStore, properties PropertyStore, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		calculator: calculator,
		leases:     leases,
		payments:   payments,
		properties: properties,
		logger:     logger.WithField("component", "checkout"),
		now:        time.Now,
	}
}

// CreateRentalCheckout computes the plan breakdown, inserts the pending
// lease and then its first payment. The payment carries the full checkout
// total and enters review immediately.
func (s *CheckoutService) CreateRentalCheckout(ctx context.Context, req *models.RentalCheckoutRequest) (*CheckoutResult, error) {
	breakdown, err := s.calculator.Compute(req.Plan, req.MonthlyRent, req.DurationMonths)
	if err != nil {
		return nil, err
	}

	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("property", req.PropertyID.String())
		}
		return nil, NewPersistenceError("load property", false, err)
	}

	// A rented property has exactly one active lease. Refusing the checkout
	// here keeps a second pending lease from ever reaching approval.
	occupied, err := s.leases.HasActiveLeaseForProperty(ctx, property.ID)
	if err != nil {
		return nil, NewPersistenceError("check property occupancy", false, err)
	}
	if occupied {
		return nil, NewValidationError("property_id", "property already has an active lease")
	}

	startDate := s.today()
	lease := &models.Lease{
		ID:                  uuid.New(),
		PropertyID:          property.ID,
		TenantID:            req.TenantID,
		LandlordID:          property.OwnerID,
		MonthlyRent:         req.MonthlyRent,
		LeaseDurationMonths: req.DurationMonths,
		LeaseStartDate:      startDate,
		RentExpirationDate:  startDate.AddDate(0, req.DurationMonths, 0),
		Status:              models.LeasePending,
	}

	if err := s.leases.Create(ctx, lease); err != nil {
		return nil, NewPersistenceError("create lease", false, err)
	}

	installment := 1
	payment := &models.Payment{
		ID:                 uuid.New(),
		LeaseID:            &lease.ID,
		PropertyID:         &property.ID,
		TenantID:           req.TenantID,
		LandlordID:         property.OwnerID,
		Amount:             breakdown.Total,
		DueDate:            startDate,
		Status:             models.PaymentPending,
		VerificationStatus: models.VerificationPendingReview,
		IsFirstPayment:     true,
		InstallmentNumber:  &installment,
		PaymentType:        models.PaymentTypeRental,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, s.compensateLease(ctx, lease.ID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"lease_id":   lease.ID,
		"payment_id": payment.ID,
		"plan":       req.Plan,
		"total":      breakdown.Total,
	}).Info("Rental checkout created")

	return &CheckoutResult{LeaseID: &lease.ID, PaymentID: payment.ID, Breakdown: breakdown}, nil
}

// CreateSaleCheckout inserts a standalone sale payment. No lease is involved.
func (s *CheckoutService) CreateSaleCheckout(ctx context.Context, req *models.SaleCheckoutRequest) (*CheckoutResult, error) {
	breakdown, err := s.calculator.ComputeSale(req.Price)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:                 uuid.New(),
		PropertyID:         req.PropertyID,
		TenantID:           req.TenantID,
		LandlordID:         req.LandlordID,
		Amount:             breakdown.Total,
		DueDate:            s.today(),
		Status:             models.PaymentPending,
		VerificationStatus: models.VerificationPendingReview,
		PaymentType:        models.PaymentTypeSale,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, NewPersistenceError("create sale payment", false, err)
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"total":      breakdown.Total,
	}).Info("Sale checkout created")

	return &CheckoutResult{PaymentID: payment.ID, Breakdown: breakdown}, nil
}

// CreateServiceCheckout inserts a standalone service payment
func (s *CheckoutService) CreateServiceCheckout(ctx context.Context, req *models.ServiceCheckoutRequest) (*CheckoutResult, error) {
	breakdown, err := s.calculator.ComputeService(req.HourlyRate, req.Hours)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:                 uuid.New(),
		TenantID:           req.TenantID,
		LandlordID:         req.ProviderID,
		Amount:             breakdown.Total,
		DueDate:            s.today(),
		Status:             models.PaymentPending,
		VerificationStatus: models.VerificationPendingReview,
		PaymentType:        models.PaymentTypeService,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, NewPersistenceError("create service payment", false, err)
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"total":      breakdown.Total,
	}).Info("Service checkout created")

	return &CheckoutResult{PaymentID: payment.ID, Breakdown: breakdown}, nil
}

// AttachPaymentProof records the payment method and transaction reference the
// tenant submitted. Submitting proof is the explicit re-review request: any
// payment that is not already verified re-enters the review queue, which is
// how a rejected payment comes back for a second decision.
func (s *CheckoutService) AttachPaymentProof(ctx context.Context, paymentID uuid.UUID, method, reference string) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment", paymentID.String())
		}
		return nil, NewPersistenceError("load payment", false, err)
	}

	now := s.now()
	fields := map[string]interface{}{
		"payment_method":        method,
		"transaction_reference": reference,
		"payment_date":          now,
	}
	if !payment.IsVerified() {
		fields["verification_status"] = models.VerificationPendingReview
	}

	if _, err := s.payments.UpdateFields(ctx, paymentID, fields); err != nil {
		return nil, NewPersistenceError("attach payment proof", false, err)
	}

	payment.PaymentMethod = method
	payment.TransactionReference = reference
	payment.PaymentDate = &now
	if !payment.IsVerified() {
		payment.VerificationStatus = models.VerificationPendingReview
	}

	s.logger.WithField("payment_id", paymentID).Info("Payment proof attached")
	return payment, nil
}

// compensateLease deletes the lease created by the first step of a failed
// checkout and reports how the failure resolved
func (s *CheckoutService) compensateLease(ctx context.Context, leaseID uuid.UUID, cause error) error {
	if delErr := s.leases.Delete(ctx, leaseID); delErr != nil {
		s.logger.WithError(delErr).WithField("lease_id", leaseID).
			Error("Compensating lease delete failed, orphan pending lease remains")
		return NewPersistenceError("create payment", true, cause)
	}

	s.logger.WithField("lease_id", leaseID).Warn("Payment insert failed, lease rolled back")
	return NewPersistenceError("create payment", false, cause)
}

// today returns the current date at midnight UTC
func (s *CheckoutService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

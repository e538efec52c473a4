package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// InstallmentService materializes the remaining monthly installments of an
// activated lease: one pending payment per month after the first, numbered
// sequentially from 2. Generation is idempotent; installments that already
// exist are never duplicated.
type InstallmentService struct {
	leases   LeaseStore
	payments PaymentStore
	logger   *logrus.Entry
}

// NewInstallmentService creates a new installment service
func NewInstallmentService(leases LeaseStore, payments PaymentStore, logger *logrus.Logger) *InstallmentService {
	return &InstallmentService{
		leases:   leases,
		payments: payments,
		logger:   logger.WithField("component", "installments"),
	}
}

// Generate inserts the missing installment rows for a lease and returns how
// many it created
func (s *InstallmentService) Generate(ctx context.Context, leaseID uuid.UUID) (int, error) {
	lease, err := s.leases.GetByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, NewNotFoundError("lease", leaseID.String())
		}
		return 0, NewPersistenceError("load lease", false, err)
	}

	// The schedule hangs off the first payment: it is installment 1 and its
	// due date anchors the monthly cadence.
	first, err := s.payments.GetFirstPaymentByLease(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, NewNotFoundError("first payment for lease", leaseID.String())
		}
		return 0, NewPersistenceError("load first payment", false, err)
	}

	existing, err := s.payments.CountInstallments(ctx, leaseID)
	if err != nil {
		return 0, NewPersistenceError("count installments", false, err)
	}

	firstMissing := int(existing) + 2
	if firstMissing > lease.LeaseDurationMonths {
		return 0, nil
	}

	payments := make([]*models.Payment, 0, lease.LeaseDurationMonths-firstMissing+1)
	for n := firstMissing; n <= lease.LeaseDurationMonths; n++ {
		installment := n
		payments = append(payments, &models.Payment{
			ID:                 uuid.New(),
			LeaseID:            &lease.ID,
			PropertyID:         &lease.PropertyID,
			TenantID:           lease.TenantID,
			LandlordID:         lease.LandlordID,
			Amount:             lease.MonthlyRent,
			DueDate:            first.DueDate.AddDate(0, installment-1, 0),
			Status:             models.PaymentPending,
			VerificationStatus: models.VerificationUnverified,
			InstallmentNumber:  &installment,
			PaymentType:        models.PaymentTypeRental,
		})
	}

	if err := s.payments.CreateBatch(ctx, payments); err != nil {
		return 0, NewPersistenceError("create installments", false, err)
	}

	s.logger.WithFields(logrus.Fields{
		"lease_id": leaseID,
		"created":  len(payments),
	}).Info("Installments generated")

	return len(payments), nil
}

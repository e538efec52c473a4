package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// PaymentStore is the persistence surface the engine needs for payments.
// Implemented by repository.PaymentRepository.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	CreateBatch(ctx context.Context, payments []*models.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetFirstPaymentByLease(ctx context.Context, leaseID uuid.UUID) (*models.Payment, error)
	ListByLease(ctx context.Context, leaseID uuid.UUID) ([]models.Payment, error)
	CountInstallments(ctx context.Context, leaseID uuid.UUID) (int64, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	TransitionVerification(ctx context.Context, id uuid.UUID, fromStatuses []string, updates map[string]interface{}, appendNote string) (int64, error)
}

// LeaseStore is the persistence surface the engine needs for leases.
// Implemented by repository.LeaseRepository.
type LeaseStore interface {
	Create(ctx context.Context, lease *models.Lease) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ActivateIfPending(ctx context.Context, id uuid.UUID) (int64, error)
	HasActiveLeaseForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error)
	MarkExpired(ctx context.Context, now time.Time) (int64, error)
}

// PropertyStore is the persistence surface the engine needs for properties.
// Implemented by repository.PropertyRepository.
type PropertyStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatuses []string, to string) (int64, error)
}

// EventPublisher publishes lease/payment lifecycle events. Publishing is
// best-effort: callers log failures instead of failing the operation.
type EventPublisher interface {
	PublishLeaseActivated(ctx context.Context, lease *models.Lease, paymentID uuid.UUID) error
	PublishPaymentVerified(ctx context.Context, payment *models.Payment) error
	PublishPaymentRejected(ctx context.Context, payment *models.Payment) error
	PublishRenewalRequested(ctx context.Context, lease *models.Lease, paymentID uuid.UUID) error
}

// InstallmentGenerator materializes the remaining monthly installments once
// a lease becomes active. Implemented by InstallmentService.
type InstallmentGenerator interface {
	Generate(ctx context.Context, leaseID uuid.UUID) (int, error)
}

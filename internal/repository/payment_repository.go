package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// PaymentRepository handles database operations for payments
type PaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create creates a new payment
func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// CreateBatch creates multiple payments in a single insert
func (r *PaymentRepository) CreateBatch(ctx context.Context, payments []*models.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(payments).Error
}

// GetByID retrieves a payment by ID
func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetFirstPaymentByLease retrieves the first payment of a lease
func (r *PaymentRepository) GetFirstPaymentByLease(ctx context.Context, leaseID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("lease_id = ? AND is_first_payment = ?", leaseID, true).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ListByLease retrieves all payments of a lease ordered by installment
func (r *PaymentRepository) ListByLease(ctx context.Context, leaseID uuid.UUID) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("lease_id = ?", leaseID).
		Order("installment_number ASC").
		Find(&payments).Error
	return payments, err
}

// CountInstallments counts non-first installment rows for a lease
func (r *PaymentRepository) CountInstallments(ctx context.Context, leaseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("lease_id = ? AND is_first_payment = ?", leaseID, false).
		Count(&count).Error
	return count, err
}

// UpdateFields applies a partial update to a payment row
func (r *PaymentRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(fields)
	return result.RowsAffected, result.Error
}

// TransitionVerification conditionally updates a payment, proceeding only if
// its verification status is still one of fromStatuses. The returned row
// count is the compare-and-swap outcome: zero means another reviewer got
// there first. appendNote, when non-empty, is concatenated onto the stored
// notes inside the same statement so a concurrent notes edit is never
// overwritten with a stale value.
func (r *PaymentRepository) TransitionVerification(ctx context.Context, id uuid.UUID, fromStatuses []string, updates map[string]interface{}, appendNote string) (int64, error) {
	if appendNote != "" {
		updates["notes"] = gorm.Expr(
			"CASE WHEN COALESCE(notes, '') = '' THEN ?::text ELSE notes || chr(10) || ? END",
			appendNote, appendNote)
	}

	result := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND verification_status IN ?", id, fromStatuses).
		Updates(updates)
	return result.RowsAffected, result.Error
}

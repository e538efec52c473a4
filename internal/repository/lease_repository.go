package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// LeaseRepository handles database operations for leases
type LeaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *gorm.DB) *LeaseRepository {
	return &LeaseRepository{db: db}
}

// Create creates a new lease
func (r *LeaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

// GetByID retrieves a lease by ID
func (r *LeaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).First(&lease, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// Delete removes a lease. Used only as the compensating action when the
// paired payment insert fails mid-checkout.
func (r *LeaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Lease{}, "id = ?", id).Error
}

// ActivateIfPending conditionally promotes a lease to active. Only leases
// still in pending or renewal_pending are touched, which keeps a repeated
// first-payment approval from re-applying the cascade.
func (r *LeaseRepository) ActivateIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Lease{}).
		Where("id = ? AND status IN ?", id, []string{models.LeasePending, models.LeaseRenewalPending}).
		Update("status", models.LeaseActive)
	return result.RowsAffected, result.Error
}

// HasActiveLeaseForProperty reports whether the property already has an
// active lease
func (r *LeaseRepository) HasActiveLeaseForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lease{}).
		Where("property_id = ? AND status = ?", propertyID, models.LeaseActive).
		Count(&count).Error
	return count > 0, err
}

// MarkExpired transitions every active lease past its expiration date to
// expired and returns how many rows changed
func (r *LeaseRepository) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Lease{}).
		Where("status = ? AND rent_expiration_date < ?", models.LeaseActive, now).
		Update("status", models.LeaseExpired)
	return result.RowsAffected, result.Error
}

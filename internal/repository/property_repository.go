package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// PropertyRepository handles database operations for properties
type PropertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// GetByID retrieves a property by ID
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).First(&property, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &property, nil
}

// UpdateStatusIf conditionally transitions the property status and returns
// how many rows changed
func (r *PropertyRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatuses []string, to string) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Property{}).
		Where("id = ? AND status IN ?", id, fromStatuses).
		Update("status", to)
	return result.RowsAffected, result.Error
}

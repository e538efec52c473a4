package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

func sweeperLease(status string, expiresAt time.Time) *models.Lease {
	return &models.Lease{
		ID:                 uuid.New(),
		PropertyID:         uuid.New(),
		TenantID:           uuid.New(),
		LandlordID:         uuid.New(),
		MonthlyRent:        dec("500"),
		RentExpirationDate: expiresAt,
		Status:             status,
	}
}

func TestSweepExpired(t *testing.T) {
	leases := newFakeLeaseStore()
	service := NewSweeperService(leases, testLogger())
	service.now = func() time.Time { return testTime }

	overdue := sweeperLease(models.LeaseActive, testTime.Add(-24*time.Hour))
	current := sweeperLease(models.LeaseActive, testTime.Add(30*24*time.Hour))
	pending := sweeperLease(models.LeasePending, testTime.Add(-24*time.Hour))
	leases.add(overdue)
	leases.add(current)
	leases.add(pending)

	swept, err := service.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), swept)

	got, _ := leases.GetByID(context.Background(), overdue.ID)
	assert.Equal(t, models.LeaseExpired, got.Status)

	// active-but-current and non-active leases are untouched
	got, _ = leases.GetByID(context.Background(), current.ID)
	assert.Equal(t, models.LeaseActive, got.Status)
	got, _ = leases.GetByID(context.Background(), pending.ID)
	assert.Equal(t, models.LeasePending, got.Status)
}

func TestSweepExpiredNothingToDo(t *testing.T) {
	leases := newFakeLeaseStore()
	service := NewSweeperService(leases, testLogger())
	service.now = func() time.Time { return testTime }

	leases.add(sweeperLease(models.LeaseActive, testTime.Add(24*time.Hour)))

	swept, err := service.SweepExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), swept)
}

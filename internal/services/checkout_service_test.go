package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

var testTime = time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type checkoutFixture struct {
	service    *CheckoutService
	properties *fakePropertyStore
	leases     *fakeLeaseStore
	payments   *fakePaymentStore
	property   *models.Property
}

func newCheckoutFixture() *checkoutFixture {
	properties := newFakePropertyStore()
	leases := newFakeLeaseStore()
	payments := newFakePaymentStore()

	property := &models.Property{
		ID:      uuid.New(),
		OwnerID: uuid.New(),
		Status:  models.PropertyAvailable,
	}
	properties.add(property)

	service := NewCheckoutService(NewPlanCalculator(), leases, payments, properties, testLogger())
	service.now = func() time.Time { return testTime }

	return &checkoutFixture{
		service:    service,
		properties: properties,
		leases:     leases,
		payments:   payments,
		property:   property,
	}
}

func TestCreateRentalCheckout(t *testing.T) {
	f := newCheckoutFixture()

	result, err := f.service.CreateRentalCheckout(context.Background(), &models.RentalCheckoutRequest{
		PropertyID:     f.property.ID,
		TenantID:       uuid.New(),
		MonthlyRent:    dec("1000"),
		DurationMonths: 12,
		Plan:           PlanFlexi50,
	})
	require.NoError(t, err)
	require.NotNil(t, result.LeaseID)
	assert.True(t, result.Breakdown.Total.Equal(dec("8440")))

	lease, err := f.leases.GetByID(context.Background(), *result.LeaseID)
	require.NoError(t, err)
	assert.Equal(t, models.LeasePending, lease.Status)
	assert.Equal(t, f.property.OwnerID, lease.LandlordID)
	assert.Equal(t, 12, lease.LeaseDurationMonths)

	wantStart := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, lease.LeaseStartDate)
	assert.Equal(t, wantStart.AddDate(0, 12, 0), lease.RentExpirationDate)

	payment, err := f.payments.GetByID(context.Background(), result.PaymentID)
	require.NoError(t, err)
	assert.True(t, payment.Amount.Equal(dec("8440")))
	assert.Equal(t, models.PaymentPending, payment.Status)
	assert.Equal(t, models.VerificationPendingReview, payment.VerificationStatus)
	assert.True(t, payment.IsFirstPayment)
	require.NotNil(t, payment.InstallmentNumber)
	assert.Equal(t, 1, *payment.InstallmentNumber)
	assert.Equal(t, models.PaymentTypeRental, payment.PaymentType)
	require.NotNil(t, payment.LeaseID)
	assert.Equal(t, lease.ID, *payment.LeaseID)
}

func TestCreateRentalCheckoutPropertyNotFound(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.service.CreateRentalCheckout(context.Background(), &models.RentalCheckoutRequest{
		PropertyID:     uuid.New(),
		TenantID:       uuid.New(),
		MonthlyRent:    dec("1000"),
		DurationMonths: 12,
		Plan:           PlanFull,
	})
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.Empty(t, f.leases.leases)
}

func TestCreateRentalCheckoutRejectsOccupiedProperty(t *testing.T) {
	f := newCheckoutFixture()
	f.leases.add(&models.Lease{
		ID:         uuid.New(),
		PropertyID: f.property.ID,
		TenantID:   uuid.New(),
		LandlordID: f.property.OwnerID,
		Status:     models.LeaseActive,
	})

	_, err := f.service.CreateRentalCheckout(context.Background(), &models.RentalCheckoutRequest{
		PropertyID:     f.property.ID,
		TenantID:       uuid.New(),
		MonthlyRent:    dec("1000"),
		DurationMonths: 12,
		Plan:           PlanFull,
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)

	// only the pre-existing lease remains
	assert.Len(t, f.leases.leases, 1)
	assert.Empty(t, f.payments.payments)
}

func TestCreateRentalCheckoutRejectsBadPlan(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.service.CreateRentalCheckout(context.Background(), &models.RentalCheckoutRequest{
		PropertyID:     f.property.ID,
		TenantID:       uuid.New(),
		MonthlyRent:    dec("1000"),
		DurationMonths: 12,
		Plan:           "weekly",
	})
	require.Error(t, err)
	_, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Empty(t, f.leases.leases)
	assert.Empty(t, f.payments.payments)
}

func TestCreateRentalCheckoutCompensatesOnPaymentFailure(t *testing.T) {
	f := newCheckoutFixture()
	f.payments.failCreate = errors.New("connection reset")

	_, err := f.service.CreateRentalCheckout(context.Background(), &models.RentalCheckoutRequest{
		PropertyID:     f.property.ID,
		TenantID:       uuid.New(),
		MonthlyRent:    dec("1000"),
		DurationMonths: 12,
		Plan:           PlanFull,
	})
	require.Error(t, err)

	persistenceErr, ok := IsPersistenceError(err)
	require.True(t, ok)
	assert.False(t, persistenceErr.Partial)

	// the pending lease must not survive the failed checkout
	assert.Empty(t, f.leases.leases)
	assert.Equal(t, 1, f.leases.deletes)
}

func TestCreateSaleCheckout(t *testing.T) {
	f := newCheckoutFixture()

	result, err := f.service.CreateSaleCheckout(context.Background(), &models.SaleCheckoutRequest{
		PropertyID: &f.property.ID,
		TenantID:   uuid.New(),
		LandlordID: f.property.OwnerID,
		Price:      dec("50000"),
	})
	require.NoError(t, err)
	assert.Nil(t, result.LeaseID)
	assert.True(t, result.Breakdown.Total.Equal(dec("52500")))

	payment, err := f.payments.GetByID(context.Background(), result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentTypeSale, payment.PaymentType)
	assert.False(t, payment.IsFirstPayment)
	assert.Nil(t, payment.InstallmentNumber)
	assert.Nil(t, payment.LeaseID)
}

func TestCreateServiceCheckout(t *testing.T) {
	f := newCheckoutFixture()

	result, err := f.service.CreateServiceCheckout(context.Background(), &models.ServiceCheckoutRequest{
		TenantID:   uuid.New(),
		ProviderID: uuid.New(),
		HourlyRate: dec("150"),
		Hours:      10,
	})
	require.NoError(t, err)
	assert.True(t, result.Breakdown.Total.Equal(dec("1650")))

	payment, err := f.payments.GetByID(context.Background(), result.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentTypeService, payment.PaymentType)
	assert.Nil(t, payment.LeaseID)
}

func TestAttachPaymentProof(t *testing.T) {
	f := newCheckoutFixture()
	payment := &models.Payment{
		ID:                 uuid.New(),
		TenantID:           uuid.New(),
		LandlordID:         uuid.New(),
		Amount:             dec("8440"),
		Status:             models.PaymentPending,
		VerificationStatus: models.VerificationRejected,
		PaymentType:        models.PaymentTypeRental,
	}
	f.payments.add(payment)

	updated, err := f.service.AttachPaymentProof(context.Background(), payment.ID, "bank_transfer", "TX-1042")
	require.NoError(t, err)
	assert.Equal(t, "bank_transfer", updated.PaymentMethod)
	assert.Equal(t, "TX-1042", updated.TransactionReference)
	require.NotNil(t, updated.PaymentDate)

	// resubmitting proof puts a rejected payment back in the review queue
	assert.Equal(t, models.VerificationPendingReview, updated.VerificationStatus)

	stored, err := f.payments.GetByID(context.Background(), payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationPendingReview, stored.VerificationStatus)
}

func TestAttachPaymentProofLeavesVerifiedAlone(t *testing.T) {
	f := newCheckoutFixture()
	payment := &models.Payment{
		ID:                 uuid.New(),
		TenantID:           uuid.New(),
		LandlordID:         uuid.New(),
		Amount:             dec("8440"),
		Status:             models.PaymentCompleted,
		VerificationStatus: models.VerificationVerified,
		PaymentType:        models.PaymentTypeRental,
	}
	f.payments.add(payment)

	updated, err := f.service.AttachPaymentProof(context.Background(), payment.ID, "card", "TX-7")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, updated.VerificationStatus)
}

func TestAttachPaymentProofNotFound(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.service.AttachPaymentProof(context.Background(), uuid.New(), "card", "TX-7")
	require.Error(t, err)
	_, ok := IsNotFoundError(err)
	assert.True(t, ok)
}

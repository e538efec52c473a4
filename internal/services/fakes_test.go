package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// In-memory stores backing the service tests. They mirror the conditional
// update semantics of the gorm repositories, including zero-row outcomes on
// a lost compare-and-swap.

type fakePropertyStore struct {
	mu            sync.Mutex
	properties    map[uuid.UUID]*models.Property
	statusUpdates int
}

func newFakePropertyStore() *fakePropertyStore {
	return &fakePropertyStore{properties: map[uuid.UUID]*models.Property{}}
}

func (f *fakePropertyStore) add(p *models.Property) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.properties[p.ID] = p
}

func (f *fakePropertyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.properties[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePropertyStore) UpdateStatusIf(ctx context.Context, id uuid.UUID, fromStatuses []string, to string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.properties[id]
	if !ok || !contains(fromStatuses, p.Status) {
		return 0, nil
	}
	p.Status = to
	f.statusUpdates++
	return 1, nil
}

type fakeLeaseStore struct {
	mu          sync.Mutex
	leases      map[uuid.UUID]*models.Lease
	deletes     int
	activations int
	failCreate  error
}

func newFakeLeaseStore() *fakeLeaseStore {
	return &fakeLeaseStore{leases: map[uuid.UUID]*models.Lease{}}
}

func (f *fakeLeaseStore) add(l *models.Lease) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leases[l.ID] = l
}

func (f *fakeLeaseStore) Create(ctx context.Context, lease *models.Lease) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *lease
	f.leases[lease.ID] = &clone
	return nil
}

func (f *fakeLeaseStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leases[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *l
	return &clone, nil
}

func (f *fakeLeaseStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.leases, id)
	f.deletes++
	return nil
}

func (f *fakeLeaseStore) ActivateIfPending(ctx context.Context, id uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.leases[id]
	if !ok {
		return 0, nil
	}
	if l.Status != models.LeasePending && l.Status != models.LeaseRenewalPending {
		return 0, nil
	}
	l.Status = models.LeaseActive
	f.activations++
	return 1, nil
}

func (f *fakeLeaseStore) HasActiveLeaseForProperty(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.leases {
		if l.PropertyID == propertyID && l.Status == models.LeaseActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaseStore) MarkExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, l := range f.leases {
		if l.Status == models.LeaseActive && l.RentExpirationDate.Before(now) {
			l.Status = models.LeaseExpired
			n++
		}
	}
	return n, nil
}

type fakePaymentStore struct {
	mu               sync.Mutex
	payments         map[uuid.UUID]*models.Payment
	failCreate       error
	beforeTransition func()
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{payments: map[uuid.UUID]*models.Payment{}}
}

func (f *fakePaymentStore) add(p *models.Payment) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments[p.ID] = p
}

func (f *fakePaymentStore) Create(ctx context.Context, payment *models.Payment) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *payment
	f.payments[payment.ID] = &clone
	return nil
}

func (f *fakePaymentStore) CreateBatch(ctx context.Context, payments []*models.Payment) error {
	if f.failCreate != nil {
		return f.failCreate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range payments {
		clone := *p
		f.payments[p.ID] = &clone
	}
	return nil
}

func (f *fakePaymentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *p
	return &clone, nil
}

func (f *fakePaymentStore) GetFirstPaymentByLease(ctx context.Context, leaseID uuid.UUID) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.LeaseID != nil && *p.LeaseID == leaseID && p.IsFirstPayment {
			clone := *p
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentStore) ListByLease(ctx context.Context, leaseID uuid.UUID) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Payment
	for _, p := range f.payments {
		if p.LeaseID != nil && *p.LeaseID == leaseID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePaymentStore) CountInstallments(ctx context.Context, leaseID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.payments {
		if p.LeaseID != nil && *p.LeaseID == leaseID && !p.IsFirstPayment {
			n++
		}
	}
	return n, nil
}

func (f *fakePaymentStore) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return 0, nil
	}
	applyPaymentFields(p, fields)
	return 1, nil
}

func (f *fakePaymentStore) TransitionVerification(ctx context.Context, id uuid.UUID, fromStatuses []string, updates map[string]interface{}, appendNote string) (int64, error) {
	if f.beforeTransition != nil {
		f.beforeTransition()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok || !contains(fromStatuses, p.VerificationStatus) {
		return 0, nil
	}
	applyPaymentFields(p, updates)
	if appendNote != "" {
		p.Notes = appendNotes(p.Notes, appendNote)
	}
	return 1, nil
}

func applyPaymentFields(p *models.Payment, fields map[string]interface{}) {
	for key, value := range fields {
		switch key {
		case "status":
			p.Status = value.(string)
		case "verification_status":
			p.VerificationStatus = value.(string)
		case "amount":
			p.Amount = value.(decimal.Decimal)
		case "payment_date":
			t := value.(time.Time)
			p.PaymentDate = &t
		case "payment_method":
			p.PaymentMethod = value.(string)
		case "transaction_reference":
			p.TransactionReference = value.(string)
		case "notes":
			p.Notes = value.(string)
		}
	}
}

type fakePublisher struct {
	mu        sync.Mutex
	activated int
	verified  int
	rejected  int
	renewals  int
}

func (f *fakePublisher) PublishLeaseActivated(ctx context.Context, lease *models.Lease, paymentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activated++
	return nil
}

func (f *fakePublisher) PublishPaymentVerified(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified++
	return nil
}

func (f *fakePublisher) PublishPaymentRejected(ctx context.Context, payment *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejected++
	return nil
}

func (f *fakePublisher) PublishRenewalRequested(ctx context.Context, lease *models.Lease, paymentID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.renewals++
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

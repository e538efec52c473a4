package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// reviewableStatuses are the verification states a decision may act on.
// Verified and rejected are terminal for a payment row.
var reviewableStatuses = []string{
	models.VerificationUnverified,
	models.VerificationPendingReview,
}

// ReviewService applies reviewer decisions to payments and cascades a
// first-payment approval into lease and property state.
//
// The writes of an approval run in the fixed order payment -> lease ->
// property. The payment write is a compare-and-swap on the pre-transition
// verification status, so two concurrent approvals resolve to a single
// cascade: the loser re-reads, sees its intent already applied, and returns
// success without touching the lease or property again. A failure after the
// payment write surfaces as a partial PersistenceError for manual
// reconciliation rather than a silent retry.
type ReviewService struct {
	payments     PaymentStore
	leases       LeaseStore
	properties   PropertyStore
	installments InstallmentGenerator
	events       EventPublisher
	logger       *logrus.Entry
	now          func() time.Time
}

// NewReviewService creates a new review service
func NewReviewService(payments PaymentStore, leases LeaseStore, properties PropertyStore, installments InstallmentGenerator, events EventPublisher, logger *logrus.Logger) *ReviewService {
	return &ReviewService{
		payments:     payments,
		leases:       leases,
		properties:   properties,
		installments: installments,
		events:       events,
		logger:       logger.WithField("component", "review"),
		now:          time.Now,
	}
}

// Approve marks a payment verified and completed. For a first rental payment
// it also activates the lease, marks the property rented and schedules the
// remaining installments. Approving an already-verified payment is a no-op.
// The returned bool reports whether this call activated the lease; no-op and
// lost-race approvals report false.
func (s *ReviewService) Approve(ctx context.Context, paymentID uuid.UUID, notes string) (*models.Payment, bool, error) {
	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, false, err
	}

	switch payment.VerificationStatus {
	case models.VerificationVerified:
		s.logger.WithField("payment_id", paymentID).Info("Payment already verified, approve is a no-op")
		return payment, false, nil
	case models.VerificationRejected:
		return nil, false, NewInvalidTransitionError(models.VerificationRejected, "approve")
	}

	// Two checkouts created while the property was still free can both sit
	// pending review. Only one may activate: the second approval is refused
	// once the property carries an active lease. Renewal leases are exempt,
	// they activate alongside the term they extend.
	if payment.ActivatesLease() && payment.PaymentType == models.PaymentTypeRental {
		lease, err := s.leases.GetByID(ctx, *payment.LeaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, false, NewNotFoundError("lease", payment.LeaseID.String())
			}
			return nil, false, NewPersistenceError("load lease", false, err)
		}
		if lease.Status == models.LeasePending {
			occupied, err := s.leases.HasActiveLeaseForProperty(ctx, lease.PropertyID)
			if err != nil {
				return nil, false, NewPersistenceError("check property occupancy", false, err)
			}
			if occupied {
				return nil, false, NewValidationError("payment_id", "property already has an active lease")
			}
		}
	}

	now := s.now()
	updates := map[string]interface{}{
		"status":              models.PaymentCompleted,
		"verification_status": models.VerificationVerified,
	}
	if payment.PaymentDate == nil {
		updates["payment_date"] = now
	}

	rows, err := s.payments.TransitionVerification(ctx, paymentID, reviewableStatuses, updates, notes)
	if err != nil {
		return nil, false, NewPersistenceError("approve payment", false, err)
	}
	if rows == 0 {
		resolved, err := s.resolveRace(ctx, paymentID, models.VerificationVerified)
		return resolved, false, err
	}

	payment.Status = models.PaymentCompleted
	payment.VerificationStatus = models.VerificationVerified
	if payment.PaymentDate == nil {
		payment.PaymentDate = &now
	}
	if notes != "" {
		payment.Notes = appendNotes(payment.Notes, notes)
	}

	activated := false
	if payment.ActivatesLease() {
		activated, err = s.cascadeActivation(ctx, payment)
		if err != nil {
			return nil, false, err
		}
	}

	s.publish(ctx, func(p EventPublisher) error { return p.PublishPaymentVerified(ctx, payment) })
	return payment, activated, nil
}

// Reject marks a payment rejected and returns its settlement status to
// pending so the tenant can resubmit proof. Rejecting an already-rejected
// payment is a no-op; rejecting a verified payment is an invalid transition
// because it would have to unwind lease and property state.
func (s *ReviewService) Reject(ctx context.Context, paymentID uuid.UUID, notes string) (*models.Payment, error) {
	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	switch payment.VerificationStatus {
	case models.VerificationRejected:
		s.logger.WithField("payment_id", paymentID).Info("Payment already rejected, reject is a no-op")
		return payment, nil
	case models.VerificationVerified:
		return nil, NewInvalidTransitionError(models.VerificationVerified, "reject")
	}

	updates := map[string]interface{}{
		"status":              models.PaymentPending,
		"verification_status": models.VerificationRejected,
	}

	rows, err := s.payments.TransitionVerification(ctx, paymentID, reviewableStatuses, updates, notes)
	if err != nil {
		return nil, NewPersistenceError("reject payment", false, err)
	}
	if rows == 0 {
		return s.resolveRace(ctx, paymentID, models.VerificationRejected)
	}

	payment.Status = models.PaymentPending
	payment.VerificationStatus = models.VerificationRejected
	if notes != "" {
		payment.Notes = appendNotes(payment.Notes, notes)
	}

	s.publish(ctx, func(p EventPublisher) error { return p.PublishPaymentRejected(ctx, payment) })
	return payment, nil
}

// Edit applies an administrative correction to a payment row. It never
// transitions the verification status.
func (s *ReviewService) Edit(ctx context.Context, paymentID uuid.UUID, req *models.PaymentEditRequest) (*models.Payment, error) {
	if _, err := s.loadPayment(ctx, paymentID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return nil, NewValidationError("amount", "must be positive")
		}
		fields["amount"] = *req.Amount
	}
	if req.PaymentDate != nil {
		parsed, err := time.Parse(time.RFC3339, *req.PaymentDate)
		if err != nil {
			return nil, NewValidationError("payment_date", "must be RFC3339")
		}
		fields["payment_date"] = parsed
	}
	if req.PaymentMethod != nil {
		fields["payment_method"] = *req.PaymentMethod
	}
	if req.TransactionReference != nil {
		fields["transaction_reference"] = *req.TransactionReference
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) == 0 {
		return nil, NewValidationError("fields", "no editable fields provided")
	}

	if _, err := s.payments.UpdateFields(ctx, paymentID, fields); err != nil {
		return nil, NewPersistenceError("edit payment", false, err)
	}

	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("payment_id", paymentID).Info("Payment edited")
	return payment, nil
}

// cascadeActivation promotes the lease and property after a first-payment
// approval. The conditional lease update decides whether this caller owns
// the cascade; a zero row count means another approval already did it. The
// returned bool reports whether this call performed the activation.
func (s *ReviewService) cascadeActivation(ctx context.Context, payment *models.Payment) (bool, error) {
	leaseRows, err := s.leases.ActivateIfPending(ctx, *payment.LeaseID)
	if err != nil {
		return false, NewPersistenceError("activate lease", true, err)
	}
	if leaseRows == 0 {
		s.logger.WithField("lease_id", payment.LeaseID).Info("Lease already active, cascade skipped")
		return false, nil
	}

	// Property flips to rented on the rental path only. Sale payments do
	// not cascade property state.
	if payment.PaymentType == models.PaymentTypeRental && payment.PropertyID != nil {
		from := []string{models.PropertyAvailable, models.PropertyPending}
		if _, err := s.properties.UpdateStatusIf(ctx, *payment.PropertyID, from, models.PropertyRented); err != nil {
			return true, NewPersistenceError("mark property rented", true, err)
		}
	}

	if s.installments != nil {
		created, err := s.installments.Generate(ctx, *payment.LeaseID)
		if err != nil {
			// The lease is active and the payment verified either way;
			// the schedule can be regenerated out of band.
			s.logger.WithError(err).WithField("lease_id", payment.LeaseID).
				Error("Installment generation failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"lease_id":     payment.LeaseID,
				"installments": created,
			}).Info("Installment schedule generated")
		}
	}

	lease, err := s.leases.GetByID(ctx, *payment.LeaseID)
	if err == nil {
		s.publish(ctx, func(p EventPublisher) error { return p.PublishLeaseActivated(ctx, lease, payment.ID) })
	}

	s.logger.WithFields(logrus.Fields{
		"payment_id": payment.ID,
		"lease_id":   payment.LeaseID,
	}).Info("Lease activated by first-payment approval")
	return true, nil
}

// resolveRace re-reads a payment after a lost compare-and-swap. If the row
// already carries the caller's intended status the race is harmless and the
// current row is returned; otherwise the conflict is surfaced.
func (s *ReviewService) resolveRace(ctx context.Context, paymentID uuid.UUID, intended string) (*models.Payment, error) {
	payment, err := s.loadPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	if payment.VerificationStatus == intended {
		s.logger.WithFields(logrus.Fields{
			"payment_id": paymentID,
			"status":     intended,
		}).Info("Concurrent reviewer applied the same decision")
		return payment, nil
	}

	return nil, NewConcurrencyConflictError("payment", paymentID.String(), payment.VerificationStatus)
}

func (s *ReviewService) loadPayment(ctx context.Context, paymentID uuid.UUID) (*models.Payment, error) {
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("payment", paymentID.String())
		}
		return nil, NewPersistenceError("load payment", false, err)
	}
	return payment, nil
}

func (s *ReviewService) publish(ctx context.Context, fn func(EventPublisher) error) {
	if s.events == nil {
		return
	}
	if err := fn(s.events); err != nil {
		s.logger.WithError(err).Warn("Event publish failed")
	}
}

func appendNotes(existing, addition string) string {
	if existing == "" {
		return addition
	}
	return strings.TrimRight(existing, "\n") + "\n" + addition
}

package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Favoursimeon/flexirents-sub000/internal/models"
)

// Event subjects
const (
	SubjectLeaseActivated  = "lease.activated"
	SubjectLeaseRenewal    = "lease.renewal_requested"
	SubjectPaymentVerified = "payment.verified"
	SubjectPaymentRejected = "payment.rejected"
)

const streamName = "LEASE_EVENTS"

// LeaseEvent is published on lease lifecycle transitions
type LeaseEvent struct {
	EventType      string    `json:"event_type"`
	LeaseID        string    `json:"lease_id"`
	PropertyID     string    `json:"property_id"`
	TenantID       string    `json:"tenant_id"`
	LandlordID     string    `json:"landlord_id"`
	PaymentID      string    `json:"payment_id"`
	Status         string    `json:"status"`
	ExpirationDate time.Time `json:"expiration_date"`
	Timestamp      time.Time `json:"timestamp"`
}

// PaymentEvent is published on reviewer decisions
type PaymentEvent struct {
	EventType          string          `json:"event_type"`
	PaymentID          string          `json:"payment_id"`
	LeaseID            string          `json:"lease_id,omitempty"`
	TenantID           string          `json:"tenant_id"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentType        string          `json:"payment_type"`
	VerificationStatus string          `json:"verification_status"`
	Timestamp          time.Time       `json:"timestamp"`
}

// Publisher publishes lease and payment lifecycle events over NATS
// JetStream. Consumers (notification fan-out, analytics) attach their own
// durable subscriptions to the stream.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the lease events stream exists
func NewPublisher(url string, logger *logrus.Logger) (*Publisher, error) {
	opts := []nats.Option{
		nats.Name("lease-engine"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:      streamName,
		Subjects:  []string{"lease.>", "payment.>"},
		Storage:   nats.FileStorage,
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Discard:   nats.DiscardOld,
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		logger.WithError(err).Warn("Could not create lease events stream")
	}

	return &Publisher{
		conn:   conn,
		js:     js,
		logger: logger.WithField("component", "events"),
	}, nil
}

// PublishLeaseActivated publishes a lease activation event
func (p *Publisher) PublishLeaseActivated(ctx context.Context, lease *models.Lease, paymentID uuid.UUID) error {
	return p.publish(SubjectLeaseActivated, &LeaseEvent{
		EventType:      SubjectLeaseActivated,
		LeaseID:        lease.ID.String(),
		PropertyID:     lease.PropertyID.String(),
		TenantID:       lease.TenantID.String(),
		LandlordID:     lease.LandlordID.String(),
		PaymentID:      paymentID.String(),
		Status:         lease.Status,
		ExpirationDate: lease.RentExpirationDate,
		Timestamp:      time.Now().UTC(),
	})
}

// PublishRenewalRequested publishes a renewal request event
func (p *Publisher) PublishRenewalRequested(ctx context.Context, lease *models.Lease, paymentID uuid.UUID) error {
	return p.publish(SubjectLeaseRenewal, &LeaseEvent{
		EventType:      SubjectLeaseRenewal,
		LeaseID:        lease.ID.String(),
		PropertyID:     lease.PropertyID.String(),
		TenantID:       lease.TenantID.String(),
		LandlordID:     lease.LandlordID.String(),
		PaymentID:      paymentID.String(),
		Status:         lease.Status,
		ExpirationDate: lease.RentExpirationDate,
		Timestamp:      time.Now().UTC(),
	})
}

// PublishPaymentVerified publishes a payment verified event
func (p *Publisher) PublishPaymentVerified(ctx context.Context, payment *models.Payment) error {
	return p.publish(SubjectPaymentVerified, paymentEvent(SubjectPaymentVerified, payment))
}

// PublishPaymentRejected publishes a payment rejected event
func (p *Publisher) PublishPaymentRejected(ctx context.Context, payment *models.Payment) error {
	return p.publish(SubjectPaymentRejected, paymentEvent(SubjectPaymentRejected, payment))
}

func paymentEvent(eventType string, payment *models.Payment) *PaymentEvent {
	event := &PaymentEvent{
		EventType:          eventType,
		PaymentID:          payment.ID.String(),
		TenantID:           payment.TenantID.String(),
		Amount:             payment.Amount,
		PaymentType:        payment.PaymentType,
		VerificationStatus: payment.VerificationStatus,
		Timestamp:          time.Now().UTC(),
	}
	if payment.LeaseID != nil {
		event.LeaseID = payment.LeaseID.String()
	}
	return event
}

func (p *Publisher) publish(subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.logger.WithField("subject", subject).Debug("Event published")
	return nil
}

// IsConnected reports whether the NATS connection is up
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

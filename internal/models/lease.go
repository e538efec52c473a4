package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Property status values
const (
	PropertyAvailable = "available"
	PropertyPending   = "pending"
	PropertyRented    = "rented"
	PropertySold      = "sold"
)

// Lease status values
const (
	LeasePending        = "pending"
	LeaseActive         = "active"
	LeaseRenewalPending = "renewal_pending"
	LeaseExpired        = "expired"
	LeaseTerminated     = "terminated"
)

// Payment settlement status values
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentOverdue   = "overdue"
	PaymentCancelled = "cancelled"
)

// Payment verification status values
const (
	VerificationUnverified    = "unverified"
	VerificationPendingReview = "pending_review"
	VerificationVerified      = "verified"
	VerificationRejected      = "rejected"
)

// Payment type values
const (
	PaymentTypeRental  = "rental"
	PaymentTypeSale    = "sale"
	PaymentTypeService = "service"
)

// Property represents a listed property. The engine only ever flips its
// status as part of a first-payment approval; listing management lives
// elsewhere.
type Property struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Status    string         `gorm:"type:varchar(20);not null;default:'available';index" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Property) TableName() string {
	return "properties"
}

// IsAvailable reports whether the property can accept a new lease
func (p *Property) IsAvailable() bool {
	return p.Status == PropertyAvailable
}

// Lease represents a rental agreement between a tenant and a landlord.
// RentExpirationDate is derived from the start date and duration at creation
// time and is never edited independently afterwards.
type Lease struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PropertyID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"property_id"`
	TenantID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	LandlordID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	MonthlyRent         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"monthly_rent"`
	LeaseDurationMonths int             `gorm:"not null" json:"lease_duration_months"`
	LeaseStartDate      time.Time       `gorm:"not null" json:"lease_start_date"`
	RentExpirationDate  time.Time       `gorm:"not null;index" json:"rent_expiration_date"`
	Status              string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes               string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt           time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Lease) TableName() string {
	return "leases"
}

// BeforeCreate hook to generate UUID
func (l *Lease) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// IsActive reports whether the lease is currently active
func (l *Lease) IsActive() bool {
	return l.Status == LeaseActive
}

// DaysRemaining returns the number of whole days until the lease expires,
// negative once the expiration date has passed.
func (l *Lease) DaysRemaining(now time.Time) int {
	return int(l.RentExpirationDate.Sub(now).Hours() / 24)
}

// IsExpired reports whether the lease is past its expiration date
func (l *Lease) IsExpired(now time.Time) bool {
	return l.RentExpirationDate.Before(now)
}

// Payment represents a single payment row. Rental payments reference their
// lease; sale and service payments stand alone. Rows are never deleted:
// rejection is a verification status, not removal.
type Payment struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	LeaseID              *uuid.UUID      `gorm:"type:uuid;index" json:"lease_id,omitempty"`
	PropertyID           *uuid.UUID      `gorm:"type:uuid;index" json:"property_id,omitempty"`
	TenantID             uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	LandlordID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"landlord_id"`
	Amount               decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	DueDate              time.Time       `gorm:"not null;index" json:"due_date"`
	PaymentDate          *time.Time      `json:"payment_date,omitempty"`
	Status               string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	VerificationStatus   string          `gorm:"type:varchar(20);not null;default:'unverified';index" json:"verification_status"`
	IsFirstPayment       bool            `gorm:"default:false" json:"is_first_payment"`
	InstallmentNumber    *int            `json:"installment_number,omitempty"`
	PaymentType          string          `gorm:"type:varchar(20);not null;default:'rental'" json:"payment_type"`
	PaymentMethod        string          `gorm:"type:varchar(50)" json:"payment_method,omitempty"`
	TransactionReference string          `gorm:"type:varchar(255)" json:"transaction_reference,omitempty"`
	Notes                string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt            time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// BeforeCreate hook to generate UUID
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// IsVerified reports whether the payment has been verified by a reviewer
func (p *Payment) IsVerified() bool {
	return p.VerificationStatus == VerificationVerified
}

// IsReviewable reports whether a reviewer decision can still be applied.
// Verified and rejected are terminal for a row.
func (p *Payment) IsReviewable() bool {
	return p.VerificationStatus == VerificationUnverified ||
		p.VerificationStatus == VerificationPendingReview
}

// ActivatesLease reports whether verifying this payment should cascade into
// lease and property state.
func (p *Payment) ActivatesLease() bool {
	return p.IsFirstPayment && p.LeaseID != nil
}

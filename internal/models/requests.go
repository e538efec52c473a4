package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RentalCheckoutRequest starts a rental checkout
type RentalCheckoutRequest struct {
	PropertyID     uuid.UUID       `json:"property_id" binding:"required"`
	TenantID       uuid.UUID       `json:"tenant_id" binding:"required"`
	MonthlyRent    decimal.Decimal `json:"monthly_rent" binding:"required"`
	DurationMonths int             `json:"duration_months" binding:"required"`
	Plan           string          `json:"plan" binding:"required"`
}

// SaleCheckoutRequest starts a sale checkout
type SaleCheckoutRequest struct {
	PropertyID *uuid.UUID      `json:"property_id,omitempty"`
	TenantID   uuid.UUID       `json:"tenant_id" binding:"required"`
	LandlordID uuid.UUID       `json:"landlord_id" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
}

// ServiceCheckoutRequest starts a service checkout
type ServiceCheckoutRequest struct {
	TenantID   uuid.UUID       `json:"tenant_id" binding:"required"`
	ProviderID uuid.UUID       `json:"provider_id" binding:"required"`
	HourlyRate decimal.Decimal `json:"hourly_rate" binding:"required"`
	Hours      int             `json:"hours" binding:"required"`
}

// PaymentProofRequest attaches a payment method and transaction reference
// submitted by the tenant
type PaymentProofRequest struct {
	PaymentMethod        string `json:"payment_method" binding:"required"`
	TransactionReference string `json:"transaction_reference" binding:"required"`
}

// ReviewDecisionRequest carries optional reviewer notes for approve/reject
type ReviewDecisionRequest struct {
	Notes string `json:"notes"`
}

// PaymentEditRequest is an administrative correction of a payment row.
// Pointer fields distinguish "unset" from "set to zero value".
type PaymentEditRequest struct {
	Amount               *decimal.Decimal `json:"amount,omitempty"`
	PaymentDate          *string          `json:"payment_date,omitempty"` // RFC3339
	PaymentMethod        *string          `json:"payment_method,omitempty"`
	TransactionReference *string          `json:"transaction_reference,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
}

// RenewalRequest asks for a renewal lease off an active lease
type RenewalRequest struct {
	DurationMonths int    `json:"duration_months" binding:"required"`
	Notes          string `json:"notes"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// APIResponse is the standard API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents an error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// CheckoutResponse is returned after a checkout has been created
type CheckoutResponse struct {
	LeaseID   *uuid.UUID         `json:"lease_id,omitempty"`
	PaymentID uuid.UUID          `json:"payment_id"`
	Breakdown *BreakdownResponse `json:"breakdown,omitempty"`
}

// BreakdownResponse mirrors a computed payment breakdown
type BreakdownResponse struct {
	FullAmount decimal.Decimal `json:"full_amount"`
	Upfront    decimal.Decimal `json:"upfront"`
	Deposit    decimal.Decimal `json:"deposit"`
	Commission decimal.Decimal `json:"commission"`
	Total      decimal.Decimal `json:"total"`
}

// EligibilityResponse reports the renewal window state for a lease
type EligibilityResponse struct {
	LeaseID           uuid.UUID `json:"lease_id"`
	Eligible          bool      `json:"eligible"`
	DaysRemaining     int       `json:"days_remaining"`
	DaysUntilEligible int       `json:"days_until_eligible"`
	ExpirationDate    time.Time `json:"expiration_date"`
}

// RenewalResponse is returned after a renewal request has been created
type RenewalResponse struct {
	LeaseID   uuid.UUID          `json:"lease_id"`
	PaymentID uuid.UUID          `json:"payment_id"`
	StartDate time.Time          `json:"start_date"`
	EndDate   time.Time          `json:"end_date"`
	Breakdown *BreakdownResponse `json:"breakdown,omitempty"`
}

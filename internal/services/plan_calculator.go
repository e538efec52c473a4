package services

import (
	"github.com/shopspring/decimal"
)

// Payment plan tiers
const (
	PlanFull    = "full"
	PlanFlexi75 = "flexi75"
	PlanFlexi50 = "flexi50"
)

// planTerms holds the upfront fraction and commission rate for a plan tier
type planTerms struct {
	upfrontFraction decimal.Decimal
	commissionRate  decimal.Decimal
}

var planTable = map[string]planTerms{
	PlanFull:    {upfrontFraction: decimal.NewFromInt(1), commissionRate: decimal.NewFromFloat(0.08)},
	PlanFlexi75: {upfrontFraction: decimal.NewFromFloat(0.75), commissionRate: decimal.NewFromFloat(0.10)},
	PlanFlexi50: {upfrontFraction: decimal.NewFromFloat(0.50), commissionRate: decimal.NewFromFloat(0.12)},
}

// Sale and service commission rates. No plan tier applies to either.
var (
	saleCommissionRate    = decimal.NewFromFloat(0.05)
	serviceCommissionRate = decimal.NewFromFloat(0.10)
)

// Breakdown is the monetary breakdown for a checkout
type Breakdown struct {
	FullAmount decimal.Decimal `json:"full_amount"`
	Upfront    decimal.Decimal `json:"upfront"`
	Deposit    decimal.Decimal `json:"deposit"`
	Commission decimal.Decimal `json:"commission"`
	Total      decimal.Decimal `json:"total"`
}

// PlanCalculator computes monetary breakdowns for the supported payment
// plans. It is pure: no state, no side effects.
type PlanCalculator struct{}

// NewPlanCalculator creates a new plan calculator
func NewPlanCalculator() *PlanCalculator {
	return &PlanCalculator{}
}

// Compute returns the breakdown for a rental under the given plan. The
// security deposit is one month's rent.
func (c *PlanCalculator) Compute(plan string, monthlyRent decimal.Decimal, durationMonths int) (*Breakdown, error) {
	return c.compute(plan, monthlyRent, durationMonths, false)
}

// ComputeRenewal returns the breakdown for a renewal checkout. Identical to
// Compute except the security deposit is waived.
func (c *PlanCalculator) ComputeRenewal(plan string, monthlyRent decimal.Decimal, durationMonths int) (*Breakdown, error) {
	return c.compute(plan, monthlyRent, durationMonths, true)
}

func (c *PlanCalculator) compute(plan string, monthlyRent decimal.Decimal, durationMonths int, waiveDeposit bool) (*Breakdown, error) {
	terms, ok := planTable[plan]
	if !ok {
		return nil, NewValidationError("plan", "unknown payment plan: "+plan)
	}
	if !monthlyRent.IsPositive() {
		return nil, NewValidationError("monthly_rent", "must be positive")
	}
	if durationMonths < 1 {
		return nil, NewValidationError("duration_months", "must be at least 1")
	}

	fullAmount := monthlyRent.Mul(decimal.NewFromInt(int64(durationMonths)))
	upfront := fullAmount.Mul(terms.upfrontFraction)
	deposit := monthlyRent
	if waiveDeposit {
		deposit = decimal.Zero
	}
	commission := fullAmount.Mul(terms.commissionRate)

	return &Breakdown{
		FullAmount: fullAmount,
		Upfront:    upfront,
		Deposit:    deposit,
		Commission: commission,
		Total:      upfront.Add(deposit).Add(commission),
	}, nil
}

// ComputeSale returns the breakdown for a property sale. FullAmount and
// Upfront both carry the sale price so callers see a uniform shape.
func (c *PlanCalculator) ComputeSale(price decimal.Decimal) (*Breakdown, error) {
	if !price.IsPositive() {
		return nil, NewValidationError("price", "must be positive")
	}

	commission := price.Mul(saleCommissionRate)
	return &Breakdown{
		FullAmount: price,
		Upfront:    price,
		Deposit:    decimal.Zero,
		Commission: commission,
		Total:      price.Add(commission),
	}, nil
}

// ComputeService returns the breakdown for a service booking
func (c *PlanCalculator) ComputeService(hourlyRate decimal.Decimal, hours int) (*Breakdown, error) {
	if !hourlyRate.IsPositive() {
		return nil, NewValidationError("hourly_rate", "must be positive")
	}
	if hours < 1 {
		return nil, NewValidationError("hours", "must be at least 1")
	}

	base := hourlyRate.Mul(decimal.NewFromInt(int64(hours)))
	commission := base.Mul(serviceCommissionRate)
	return &Breakdown{
		FullAmount: base,
		Upfront:    base,
		Deposit:    decimal.Zero,
		Commission: commission,
		Total:      base.Add(commission),
	}, nil
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Favoursimeon/flexirents-sub000/internal/metrics"
	"github.com/Favoursimeon/flexirents-sub000/internal/models"
	"github.com/Favoursimeon/flexirents-sub000/internal/services"
)

// RenewalHandler handles renewal HTTP requests
type RenewalHandler struct {
	renewalService *services.RenewalService
	metrics        *metrics.Metrics
}

// NewRenewalHandler creates a new renewal handler
func NewRenewalHandler(renewalService *services.RenewalService, m *metrics.Metrics) *RenewalHandler {
	return &RenewalHandler{
		renewalService: renewalService,
		metrics:        m,
	}
}

// GetEligibility reports the renewal window state for a lease
func (h *RenewalHandler) GetEligibility(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid lease id", err)
		return
	}

	eligibility, lease, err := h.renewalService.Eligibility(c.Request.Context(), leaseID)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Renewal eligibility evaluated", &models.EligibilityResponse{
		LeaseID:           lease.ID,
		Eligible:          eligibility.Eligible,
		DaysRemaining:     eligibility.DaysRemaining,
		DaysUntilEligible: eligibility.DaysUntilEligible,
		ExpirationDate:    lease.RentExpirationDate,
	})
}

// CreateRenewal creates a renewal request for a lease
func (h *RenewalHandler) CreateRenewal(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid lease id", err)
		return
	}

	var req models.RenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	result, err := h.renewalService.CreateRenewalRequest(c.Request.Context(), leaseID, req.DurationMonths, req.Notes)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RenewalRequestsTotal.Inc()
	}
	SuccessResponse(c, http.StatusCreated, "Renewal request created", &models.RenewalResponse{
		LeaseID:   result.Lease.ID,
		PaymentID: result.PaymentID,
		StartDate: result.Lease.LeaseStartDate,
		EndDate:   result.Lease.RentExpirationDate,
		Breakdown: &models.BreakdownResponse{
			FullAmount: result.Breakdown.FullAmount,
			Upfront:    result.Breakdown.Upfront,
			Deposit:    result.Breakdown.Deposit,
			Commission: result.Breakdown.Commission,
			Total:      result.Breakdown.Total,
		},
	})
}

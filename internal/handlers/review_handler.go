package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Favoursimeon/flexirents-sub000/internal/metrics"
	"github.com/Favoursimeon/flexirents-sub000/internal/models"
	"github.com/Favoursimeon/flexirents-sub000/internal/services"
)

// ReviewHandler handles reviewer decision HTTP requests
type ReviewHandler struct {
	reviewService *services.ReviewService
	metrics       *metrics.Metrics
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewService *services.ReviewService, m *metrics.Metrics) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		metrics:       m,
	}
}

// Approve verifies a payment and cascades a first-payment approval
func (h *ReviewHandler) Approve(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid payment id", err)
		return
	}

	var req models.ReviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	payment, activated, err := h.reviewService.Approve(c.Request.Context(), paymentID, req.Notes)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ReviewDecisionsTotal.WithLabelValues("approve").Inc()
		if activated {
			h.metrics.LeasesActivatedTotal.Inc()
		}
	}
	SuccessResponse(c, http.StatusOK, "Payment approved", payment)
}

// Reject rejects a payment so the tenant can resubmit proof
func (h *ReviewHandler) Reject(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid payment id", err)
		return
	}

	var req models.ReviewDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	payment, err := h.reviewService.Reject(c.Request.Context(), paymentID, req.Notes)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ReviewDecisionsTotal.WithLabelValues("reject").Inc()
	}
	SuccessResponse(c, http.StatusOK, "Payment rejected", payment)
}

// Edit applies an administrative correction to a payment
func (h *ReviewHandler) Edit(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid payment id", err)
		return
	}

	var req models.PaymentEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	payment, err := h.reviewService.Edit(c.Request.Context(), paymentID, &req)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment updated", payment)
}

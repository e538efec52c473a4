package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Favoursimeon/flexirents-sub000/internal/metrics"
	"github.com/Favoursimeon/flexirents-sub000/internal/models"
	"github.com/Favoursimeon/flexirents-sub000/internal/services"
)

// CheckoutHandler handles checkout and payment-proof HTTP requests
type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	metrics         *metrics.Metrics
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *services.CheckoutService, m *metrics.Metrics) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		metrics:         m,
	}
}

// CreateRentalCheckout creates a pending lease and its first payment
func (h *CheckoutHandler) CreateRentalCheckout(c *gin.Context) {
	var req models.RentalCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	result, err := h.checkoutService.CreateRentalCheckout(c.Request.Context(), &req)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutsTotal.WithLabelValues(models.PaymentTypeRental).Inc()
	}
	SuccessResponse(c, http.StatusCreated, "Rental checkout created", checkoutResponse(result))
}

// CreateSaleCheckout creates a standalone sale payment
func (h *CheckoutHandler) CreateSaleCheckout(c *gin.Context) {
	var req models.SaleCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	result, err := h.checkoutService.CreateSaleCheckout(c.Request.Context(), &req)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutsTotal.WithLabelValues(models.PaymentTypeSale).Inc()
	}
	SuccessResponse(c, http.StatusCreated, "Sale checkout created", checkoutResponse(result))
}

// CreateServiceCheckout creates a standalone service payment
func (h *CheckoutHandler) CreateServiceCheckout(c *gin.Context) {
	var req models.ServiceCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	result, err := h.checkoutService.CreateServiceCheckout(c.Request.Context(), &req)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CheckoutsTotal.WithLabelValues(models.PaymentTypeService).Inc()
	}
	SuccessResponse(c, http.StatusCreated, "Service checkout created", checkoutResponse(result))
}

// AttachPaymentProof records the tenant's payment method and reference
func (h *CheckoutHandler) AttachPaymentProof(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid payment id", err)
		return
	}

	var req models.PaymentProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", "Invalid request payload", err)
		return
	}

	payment, err := h.checkoutService.AttachPaymentProof(c.Request.Context(), paymentID, req.PaymentMethod, req.TransactionReference)
	if err != nil {
		EngineErrorResponse(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "Payment proof attached", payment)
}

func checkoutResponse(result *services.CheckoutResult) *models.CheckoutResponse {
	resp := &models.CheckoutResponse{
		LeaseID:   result.LeaseID,
		PaymentID: result.PaymentID,
	}
	if result.Breakdown != nil {
		resp.Breakdown = &models.BreakdownResponse{
			FullAmount: result.Breakdown.FullAmount,
			Upfront:    result.Breakdown.Upfront,
			Deposit:    result.Breakdown.Deposit,
			Commission: result.Breakdown.Commission,
			Total:      result.Breakdown.Total,
		}
	}
	return resp
}

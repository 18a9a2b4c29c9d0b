package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/middleware"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvcFacade
}

func newPaymentHandler(paymentService portssvc.PaymentSvcFacade) *paymentHandler {
	return &paymentHandler{paymentService: paymentService}
}

func registerPaymentRoutes(rg *gin.RouterGroup, paymentService portssvc.PaymentSvcFacade) {
	h := newPaymentHandler(paymentService)

	payments := rg.Group("/payments")
	{
		payments.POST("", h.recordPayment)
		payments.POST("/:id/refund", h.refundPayment)
	}
}

// recordPayment godoc
// @Summary Record a payment against a credit sale
// @Tags payments
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid request or amount exceeds the outstanding balance"
// @Failure 409 {object} map[string]string "Sale is not a completed credit sale"
// @Router /payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordPaymentRequest
	if !bindJSON(c, logger, &req, "RecordPayment") {
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), req, middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to record payment")
		return
	}

	logger.Info("Payment recorded", slog.String("payment_id", payment.PaymentID), slog.String("source_id", payment.SourceID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(payment))
}

// refundPayment godoc
// @Summary Refund a recorded payment
// @Tags payments
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   id path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Payment cannot be refunded"
// @Router /payments/{id}/refund [post]
func (h *paymentHandler) refundPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), c.Param("id"), middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to refund payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentResponse(payment))
}

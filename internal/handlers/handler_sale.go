package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/settlement_app/internal/core/domain"
	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/middleware"
)

// saleHandler serves draft management and the settlement transitions.
type saleHandler struct {
	saleService       portssvc.SaleSvcFacade
	settlementService portssvc.SettlementSvc
}

func newSaleHandler(saleService portssvc.SaleSvcFacade, settlementService portssvc.SettlementSvc) *saleHandler {
	return &saleHandler{saleService: saleService, settlementService: settlementService}
}

func registerSaleRoutes(rg *gin.RouterGroup, saleService portssvc.SaleSvcFacade, settlementService portssvc.SettlementSvc) {
	h := newSaleHandler(saleService, settlementService)

	sales := rg.Group("/sales")
	{
		sales.POST("", h.createSale)
		sales.GET("/:id", h.getSale)
		sales.DELETE("/:id", h.deleteSale)
		sales.POST("/:id/complete", h.completeSale)
		sales.POST("/:id/refund", h.refundSale)
		sales.POST("/:id/cancel", h.cancelSale)
	}
}

// createSale godoc
// @Summary Create a draft sale
// @Tags sales
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   sale body dto.CreateSaleRequest true "Sale with items"
// @Success 201 {object} dto.SaleResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Sale number already exists"
// @Router /sales [post]
func (h *saleHandler) createSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateSaleRequest
	if !bindJSON(c, logger, &req, "CreateSale") {
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), req, middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to create sale")
		return
	}

	logger.Info("Sale created", slog.String("sale_id", sale.SaleID), slog.String("sale_number", sale.SaleNumber))
	c.JSON(http.StatusCreated, dto.ToSaleResponse(sale))
}

// getSale godoc
// @Summary Get a sale with its items
// @Tags sales
// @Produce  json
// @Param   id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} map[string]string "Sale not found"
// @Router /sales/{id} [get]
func (h *saleHandler) getSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sale, err := h.saleService.GetSaleByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve sale")
		return
	}
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

// deleteSale godoc
// @Summary Delete a draft sale
// @Tags sales
// @Param   X-Actor-ID header string false "Acting user"
// @Param   id path string true "Sale ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 409 {object} map[string]string "Sale is not a draft"
// @Router /sales/{id} [delete]
func (h *saleHandler) deleteSale(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.saleService.DeleteDraftSale(c.Request.Context(), c.Param("id"), middleware.GetActorIDFromContext(c)); err != nil {
		respondError(c, logger, err, "Failed to delete sale")
		return
	}
	c.Status(http.StatusNoContent)
}

// completeSale godoc
// @Summary Complete a draft sale
// @Description Issues stock and posts revenue, tax and cost of goods sold in one transaction
// @Tags sales
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 409 {object} map[string]string "Sale is not a draft"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /sales/{id}/complete [post]
func (h *saleHandler) completeSale(c *gin.Context) {
	h.settle(c, "Sale completed", "Failed to complete sale", h.settlementService.CompleteSale)
}

// refundSale godoc
// @Summary Refund a completed sale
// @Description Returns stock at the frozen cost and reverses the settlement journals
// @Tags sales
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 404 {object} map[string]string "Sale not found"
// @Failure 409 {object} map[string]string "Sale is not completed"
// @Router /sales/{id}/refund [post]
func (h *saleHandler) refundSale(c *gin.Context) {
	h.settle(c, "Sale refunded", "Failed to refund sale", h.settlementService.RefundSale)
}

// cancelSale godoc
// @Summary Cancel a draft sale
// @Tags sales
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   id path string true "Sale ID"
// @Success 200 {object} dto.SaleResponse
// @Failure 409 {object} map[string]string "Sale is not a draft"
// @Router /sales/{id}/cancel [post]
func (h *saleHandler) cancelSale(c *gin.Context) {
	h.settle(c, "Sale cancelled", "Failed to cancel sale", h.settlementService.CancelSale)
}

func (h *saleHandler) settle(c *gin.Context, success, failure string, op func(ctx context.Context, saleID string, userID string) (*domain.Sale, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	saleID := c.Param("id")

	sale, err := op(c.Request.Context(), saleID, middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger.With(slog.String("sale_id", saleID)), err, failure)
		return
	}

	logger.Info(success, slog.String("sale_id", saleID), slog.String("status", string(sale.Status)))
	c.JSON(http.StatusOK, dto.ToSaleResponse(sale))
}

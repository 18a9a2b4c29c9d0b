package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/middleware"
)

type stockHandler struct {
	stockService portssvc.StockSvcFacade
}

func newStockHandler(stockService portssvc.StockSvcFacade) *stockHandler {
	return &stockHandler{stockService: stockService}
}

func registerStockRoutes(rg *gin.RouterGroup, stockService portssvc.StockSvcFacade) {
	h := newStockHandler(stockService)

	stock := rg.Group("/stock")
	{
		stock.POST("/movements", h.recordMovement)
		stock.GET("/levels/:productID/:warehouseID", h.getStockLevel)
		stock.POST("/levels/:productID/:warehouseID/rebuild", h.rebuildStockLevel)
	}
}

// recordMovement godoc
// @Summary Record a stock movement
// @Description Appends a ledger entry and updates the on-hand projection
// @Tags stock
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   movement body dto.RecordMovementRequest true "Movement"
// @Success 201 {object} dto.StockEntryResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} map[string]string "Insufficient stock"
// @Router /stock/movements [post]
func (h *stockHandler) recordMovement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RecordMovementRequest
	if !bindJSON(c, logger, &req, "RecordMovement") {
		return
	}

	entry, err := h.stockService.RecordMovement(c.Request.Context(), req, middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to record stock movement")
		return
	}
	c.JSON(http.StatusCreated, dto.ToStockEntryResponse(entry))
}

// getStockLevel godoc
// @Summary Get on-hand stock
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   warehouseID path string true "Warehouse ID"
// @Success 200 {object} dto.StockLevelResponse
// @Router /stock/levels/{productID}/{warehouseID} [get]
func (h *stockHandler) getStockLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	level, err := h.stockService.CurrentStockLevel(c.Request.Context(), c.Param("productID"), c.Param("warehouseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve stock level")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockLevelResponse(level))
}

// rebuildStockLevel godoc
// @Summary Rebuild a stock projection
// @Description Replays the stock ledger for the pair and overwrites the projection
// @Tags stock
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   warehouseID path string true "Warehouse ID"
// @Success 200 {object} dto.StockLevelResponse
// @Router /stock/levels/{productID}/{warehouseID}/rebuild [post]
func (h *stockHandler) rebuildStockLevel(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	level, err := h.stockService.RebuildStockLevel(c.Request.Context(), c.Param("productID"), c.Param("warehouseID"))
	if err != nil {
		respondError(c, logger, err, "Failed to rebuild stock level")
		return
	}
	c.JSON(http.StatusOK, dto.ToStockLevelResponse(level))
}

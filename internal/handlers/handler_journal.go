package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/settlement_app/internal/core/ports/services"
	"github.com/SscSPs/settlement_app/internal/dto"
	"github.com/SscSPs/settlement_app/internal/middleware"
)

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: journalService}
}

func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.postJournal)
		journals.GET("/:id", h.getJournal)
		journals.POST("/:id/reverse", h.reverseJournal)
	}
}

// postJournal godoc
// @Summary Post a journal entry
// @Description Validates a balanced entry and applies it to account balances
// @Tags journals
// @Accept  json
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   journal body dto.PostJournalRequest true "Journal with lines"
// @Success 201 {object} dto.JournalResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 422 {object} map[string]string "Entry is not balanced"
// @Failure 500 {object} map[string]string "Failed to post journal"
// @Router /journals [post]
func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostJournalRequest
	if !bindJSON(c, logger, &req, "PostJournal") {
		return
	}

	journal, err := h.journalService.Post(c.Request.Context(), req, middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to post journal")
		return
	}

	logger.Info("Journal posted successfully", slog.String("journal_id", journal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

// getJournal godoc
// @Summary Get a journal entry and its lines
// @Tags journals
// @Produce  json
// @Param   id path string true "Journal ID"
// @Success 200 {object} dto.JournalResponse
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 500 {object} map[string]string "Failed to retrieve journal"
// @Router /journals/{id} [get]
func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve journal")
		return
	}

	logger.Debug("Journal retrieved successfully", slog.String("journal_id", journalID))
	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

// reverseJournal godoc
// @Summary Reverse a posted journal
// @Description Posts a mirror entry and marks the original REVERSED
// @Tags journals
// @Produce  json
// @Param   X-Actor-ID header string false "Acting user"
// @Param   id path string true "Journal ID"
// @Success 201 {object} dto.JournalResponse "The reversing journal"
// @Failure 404 {object} map[string]string "Journal not found"
// @Failure 409 {object} map[string]string "Journal is not posted"
// @Router /journals/{id}/reverse [post]
func (h *journalHandler) reverseJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("id")

	reversal, err := h.journalService.Reverse(c.Request.Context(), journalID, middleware.GetActorIDFromContext(c))
	if err != nil {
		respondError(c, logger, err, "Failed to reverse journal")
		return
	}

	logger.Info("Journal reversed", slog.String("journal_id", journalID), slog.String("reversing_journal_id", reversal.JournalID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(reversal))
}

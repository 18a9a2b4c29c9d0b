package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/settlement_app/internal/apperrors"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnbalancedEntry),
		errors.Is(err, apperrors.ErrInsufficientStock):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrAccountInUse),
		errors.Is(err, apperrors.ErrNotPosted),
		errors.Is(err, apperrors.ErrSaleNotDraft),
		errors.Is(err, apperrors.ErrSaleNotCompleted),
		errors.Is(err, apperrors.ErrConcurrentModification):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the mapped status. Internal errors are logged and hidden from the client.
func respondError(c *gin.Context, logger *slog.Logger, err error, failure string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(failure, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failure})
		return
	}

	logger.Warn(failure, slog.String("error", err.Error()), slog.Int("status", status))
	body := gin.H{"error": err.Error()}
	var stockErr *apperrors.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["productID"] = stockErr.ProductID
		body["warehouseID"] = stockErr.WarehouseID
		body["available"] = stockErr.Available
		body["requested"] = stockErr.Requested
	}
	c.JSON(status, body)
}

func bindJSON(c *gin.Context, logger *slog.Logger, dst any, op string) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	logger.Warn("Failed to bind JSON for "+op, slog.String("error", err.Error()))
	body := gin.H{"error": "Invalid request format: " + err.Error()}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, fe := range validationErrors {
			fields[fe.Field()] = fe.Tag()
		}
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
	return false
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/basket-service/basket_service/internal/domain/catalog"
	"github.com/basket-service/basket_service/internal/domain/entities"
	"github.com/basket-service/basket_service/internal/domain/services/graph"
	"github.com/basket-service/basket_service/internal/domain/services/projection"
	apperrors "github.com/basket-service/basket_service/pkg/errors"
	"github.com/basket-service/basket_service/pkg/tracing"
)

// getRequestID extracts request ID from context
func getRequestID(c *gin.Context) string {
	if reqID, exists := c.Get("request_id"); exists {
		if id, ok := reqID.(string); ok {
			return id
		}
	}
	return ""
}

// toAppError maps domain errors onto API error categories
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, catalog.ErrUnknownBasket):
		return apperrors.WrapNotFound(err, "BASKET_NOT_FOUND", "Basket not found")
	case errors.Is(err, entities.ErrInvalidHorizon):
		return apperrors.WrapValidation(err, "INVALID_HORIZON", "Horizon must be 3, 5 or 10 years")
	case errors.Is(err, projection.ErrInvalidAmount):
		return apperrors.WrapValidation(err, "INVALID_AMOUNT", "Amount must be a non-negative number")
	case errors.Is(err, graph.ErrInvalidMode):
		return apperrors.WrapValidation(err, "INVALID_MODE", "Mode must be absolute or rolling")
	case errors.Is(err, projection.ErrInvalidPlan):
		return apperrors.WrapValidation(err, "INVALID_PLAN", "Invalid calculator input")
	}

	errType := apperrors.ClassifyError(err)
	switch errType {
	case apperrors.ErrorTypeTimeout:
		return apperrors.WrapWithType(err, errType, "TIMEOUT", "Request timed out")
	case apperrors.ErrorTypeExternal, apperrors.ErrorTypeTransient:
		return apperrors.WrapWithType(err, errType, "UPSTREAM_UNAVAILABLE", "Upstream service unavailable")
	default:
		return apperrors.WrapInternal(err, "An internal error occurred")
	}
}

// respondError sends a standardized error response for err
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	appErr := toAppError(err)
	status := apperrors.GetStatusCode(appErr)

	if status >= http.StatusInternalServerError {
		tracing.RecordError(c, err)
		logger.Error("Request failed",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	details := map[string]interface{}{}
	if reqID := getRequestID(c); reqID != "" {
		details["request_id"] = reqID
	}
	if appErr.Type == apperrors.ErrorTypeValidation && appErr.Err != nil {
		details["error"] = appErr.Err.Error()
	}
	for k, v := range appErr.Details {
		details[k] = v
	}
	if len(details) == 0 {
		details = nil
	}

	c.JSON(status, entities.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: details,
	})
}

// respondBadRequest sends a bad request error
func respondBadRequest(c *gin.Context, message string, details map[string]interface{}) {
	c.JSON(http.StatusBadRequest, entities.ErrorResponse{
		Code:    "INVALID_REQUEST",
		Message: message,
		Details: details,
	})
}

// parseHorizon reads the years query parameter. Absent means zero so the
// service can apply its default.
func parseHorizon(c *gin.Context) (entities.Horizon, error) {
	raw := strings.TrimSpace(c.Query("years"))
	if raw == "" {
		return 0, nil
	}
	return entities.ParseHorizon(strings.TrimSuffix(strings.ToUpper(raw), "Y"))
}

// parseAmount reads a numeric query parameter, falling back to def
func parseAmount(c *gin.Context, param string, def float64) (float64, error) {
	raw := strings.TrimSpace(c.Query(param))
	if raw == "" {
		return def, nil
	}
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.WrapValidation(err, "INVALID_AMOUNT", param+" must be a number")
	}
	return amount, nil
}

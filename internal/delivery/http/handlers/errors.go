package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	forecastResponse "github.com/LavaJover/shvark-payout-forecast/internal/delivery/http/dto/forecast/response"
	"github.com/LavaJover/shvark-payout-forecast/internal/domain"
	"github.com/gin-gonic/gin"
)

// writeError maps domain errors to HTTP statuses. Anything unrecognised is a 500.
func writeError(c *gin.Context, err error) {
	var (
		malformed    *domain.MalformedEventError
		insufficient *domain.InsufficientDataError
		invalid      *domain.InvalidConfigError
		conflict     *domain.RegenerationConflictError
	)
	status, resp := http.StatusInternalServerError, forecastResponse.ErrorResponse{Error: "internal error", Code: "internal"}
	switch {
	case errors.As(err, &invalid):
		status, resp = http.StatusBadRequest, forecastResponse.ErrorResponse{Error: err.Error(), Code: "invalid_config", Field: invalid.Field}
	case errors.As(err, &insufficient):
		status, resp = http.StatusUnprocessableEntity, forecastResponse.ErrorResponse{Error: err.Error(), Code: "insufficient_data"}
	case errors.As(err, &malformed):
		status, resp = http.StatusUnprocessableEntity, forecastResponse.ErrorResponse{Error: err.Error(), Code: "malformed_event", Field: malformed.Field}
	case errors.As(err, &conflict):
		c.Header("Retry-After", "5")
		status, resp = http.StatusConflict, forecastResponse.ErrorResponse{Error: err.Error(), Code: "regeneration_in_progress"}
	case errors.Is(err, domain.ErrStatusRegression):
		status, resp = http.StatusConflict, forecastResponse.ErrorResponse{Error: err.Error(), Code: "status_regression"}
	case errors.Is(err, domain.ErrNotFound):
		status, resp = http.StatusNotFound, forecastResponse.ErrorResponse{Error: err.Error(), Code: "not_found"}
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, forecastResponse.ErrorResponse{Error: msg, Code: "invalid_request", Field: field})
}

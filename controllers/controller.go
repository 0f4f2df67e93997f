package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"thrift-market/models"
	"thrift-market/services"
)

// respondError maps domain errors onto HTTP statuses. Store-level failures
// never reach the client in detail; they log and collapse to a 500.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Server error"

	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrUserNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrItemsUnavailable),
		errors.Is(err, services.ErrProductUnavailable),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrEmailOrUsernameTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrInvalidOTP):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, services.ErrOTPRateLimited):
		status = http.StatusTooManyRequests
		message = err.Error()
	case errors.Is(err, services.ErrTransientFailure):
		status = http.StatusServiceUnavailable
		message = err.Error()
	default:
		slog.Error("request failed", "error", err, "path", c.FullPath(), "request_id", c.GetString("request_id"))
	}

	c.JSON(status, models.ErrorResponse{Success: false, Message: message})
}

func getPaginationParams(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

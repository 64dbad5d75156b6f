package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrNameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Domain errors surface their own
// text; anything unexpected is logged and reported with the fallback message.
func respondError(c *gin.Context, err error, message string) {
	_ = c.Error(err)

	status := statusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error(message,
			zap.Error(err),
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(middleware.ContextRequestID)),
		)
		c.JSON(status, models.ErrorResponse{
			Success: false,
			Message: message,
		})
		return
	}

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Message: err.Error(),
	})
}

func respondBadRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Message: message,
		Error:   err.Error(),
	})
}

func paramID(c *gin.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, errors.New(name + " must be positive")
	}
	return id, nil
}

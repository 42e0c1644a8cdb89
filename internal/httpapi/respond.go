package httpapi

import (
	"errors"
	"net/http"

	"takeaway-be/internal/logger"
	"takeaway-be/internal/menu"
	"takeaway-be/internal/order"
	"takeaway-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondErr maps domain sentinel errors onto the HTTP contract. Every
// error surfaces as {"error": message}; unknown errors are logged and
// hidden behind a generic 500.
func respondErr(c *gin.Context, err error) {
	var code int

	switch {
	case errors.Is(err, user.ErrMissingFields),
		errors.Is(err, menu.ErrInvalidInput),
		errors.Is(err, order.ErrInvalidInput),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrInvalidTransition):
		code = http.StatusBadRequest

	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, order.ErrUnauthorized):
		code = http.StatusUnauthorized

	case errors.Is(err, menu.ErrForbidden),
		errors.Is(err, order.ErrForbidden):
		code = http.StatusForbidden

	case errors.Is(err, menu.ErrItemNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound):
		code = http.StatusNotFound

	case errors.Is(err, user.ErrEmailExists):
		code = http.StatusConflict

	default:
		logger.FromCtx(c.Request.Context()).Error("unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(code, gin.H{"error": err.Error()})
}

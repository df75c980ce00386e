package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domain"
)

// respondError maps the error taxonomy onto HTTP statuses. Anything not in
// the taxonomy is a 500 with a generic message; the detail stays in the log.
func (h *handlers) respondError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusConflict, gin.H{"error": validation.Reason})
		return
	}

	var declined *domain.DeclinedError
	if errors.As(err, &declined) {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": declined.Reason})
		return
	}

	var external *domain.ExternalError
	if errors.As(err, &external) {
		h.logger.Printf("external service failure: %v", external)
		c.JSON(http.StatusBadGateway, gin.H{"error": "external service unavailable"})
		return
	}

	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	h.logger.Printf("internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

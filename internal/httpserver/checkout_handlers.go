package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domain"
	"storefront-checkout/internal/payment"
)

func (h *handlers) listCatalog(c *gin.Context) {
	items, err := h.deps.CatalogSvc.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// checkoutView renders the data the checkout page needs: the catalog, the
// session's cart, and where the flow currently stands.
func (h *handlers) checkoutView(c *gin.Context) {
	ctx := c.Request.Context()
	items, err := h.deps.CatalogSvc.List(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if items == nil {
		items = []domain.CatalogItem{}
	}

	cart, err := h.deps.CartSvc.Get(ctx, sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	sess := h.deps.Checkout.Session(sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"catalog":  items,
		"cart":     toCartView(cart),
		"checkout": toCheckoutView(sess),
	})
}

type payRequest struct {
	Card    payment.Card           `json:"card" binding:"required"`
	Billing payment.BillingDetails `json:"billing"`
}

func (h *handlers) submitPayment(c *gin.Context) {
	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card details required"})
		return
	}
	if req.Billing.Name == "" {
		req.Billing.Name = "Customer Name"
	}

	ctx := c.Request.Context()
	outcome, err := h.deps.Checkout.SubmitPayment(ctx, sessionID(c), req.Card, req.Billing)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if outcome.Session.Status == domain.StatusSucceeded {
		// The order is done; the cart does not survive into the success view.
		if err := h.deps.CartSvc.Clear(ctx, sessionID(c)); err != nil {
			h.logger.Printf("clear cart after payment: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{
			"checkout": toCheckoutView(outcome.Session),
			"redirect": outcome.Redirect,
		})
		return
	}

	// A failed attempt keeps the cart intact so the user can retry.
	c.JSON(http.StatusPaymentRequired, gin.H{
		"checkout": toCheckoutView(outcome.Session),
		"error":    outcome.Session.FailReason,
	})
}

func (h *handlers) retryCheckout(c *gin.Context) {
	ctx := c.Request.Context()
	cart, err := h.deps.CartSvc.Get(ctx, sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	sess, err := h.deps.Checkout.Retry(ctx, cart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": toCartView(cart), "checkout": toCheckoutView(sess)})
}

func (h *handlers) successView(c *gin.Context) {
	sess := h.deps.Checkout.Session(sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"status":  sess.Status,
		"message": "Payment successful! Thank you for your purchase.",
	})
}

// cancelView discards the in-flight checkout state. The cart survives; only
// the payment attempt is abandoned.
func (h *handlers) cancelView(c *gin.Context) {
	h.deps.Checkout.Discard(sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"status":  "cancelled",
		"message": "Payment cancelled. Your cart has been kept.",
	})
}

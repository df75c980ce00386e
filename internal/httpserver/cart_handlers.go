package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/domain"
)

type cartView struct {
	SessionID  string            `json:"sessionId"`
	Currency   string            `json:"currency"`
	Lines      []domain.CartLine `json:"lines"`
	TotalCents int64             `json:"totalCents"`
	Total      float64           `json:"total"`
	IsEmpty    bool              `json:"isEmpty"`
}

type checkoutView struct {
	Status      domain.CheckoutStatus `json:"status"`
	AmountCents int64                 `json:"amountCents"`
	FailReason  string                `json:"failReason,omitempty"`
	ReadyToPay  bool                  `json:"readyToPay"`
}

func toCartView(cart *domain.Cart) cartView {
	lines := cart.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return cartView{
		SessionID:  cart.SessionID,
		Currency:   cart.Currency,
		Lines:      lines,
		TotalCents: cart.TotalCents(),
		Total:      cart.TotalAmount(),
		IsEmpty:    cart.IsEmpty(),
	}
}

func toCheckoutView(sess domain.CheckoutSession) checkoutView {
	return checkoutView{
		Status:      sess.Status,
		AmountCents: sess.AmountCents,
		FailReason:  sess.FailReason,
		ReadyToPay:  sess.Status == domain.StatusReadyToPay,
	}
}

func (h *handlers) getCart(c *gin.Context) {
	cart, err := h.deps.CartSvc.Get(c.Request.Context(), sessionID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartView(cart))
}

type addItemRequest struct {
	ItemID string `json:"itemId" binding:"required"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId required"})
		return
	}

	ctx := c.Request.Context()
	cart, err := h.deps.CartSvc.AddItem(ctx, sessionID(c), req.ItemID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sess, err := h.deps.Checkout.CartChanged(ctx, cart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": toCartView(cart), "checkout": toCheckoutView(sess)})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *handlers) setCartItemQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity required"})
		return
	}

	ctx := c.Request.Context()
	cart, err := h.deps.CartSvc.SetQuantity(ctx, sessionID(c), c.Param("itemID"), req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}

	sess, err := h.deps.Checkout.CartChanged(ctx, cart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": toCartView(cart), "checkout": toCheckoutView(sess)})
}

func (h *handlers) removeCartItem(c *gin.Context) {
	ctx := c.Request.Context()
	cart, err := h.deps.CartSvc.RemoveItem(ctx, sessionID(c), c.Param("itemID"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	sess, err := h.deps.Checkout.CartChanged(ctx, cart)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": toCartView(cart), "checkout": toCheckoutView(sess)})
}

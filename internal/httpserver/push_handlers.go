package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-checkout/internal/push"
)

type pushRequest struct {
	DeviceID string `json:"deviceId"`
}

// deviceID defaults to the session id so a plain browser client needs no
// extra identity.
func (r pushRequest) deviceID(c *gin.Context) string {
	if r.DeviceID != "" {
		return r.DeviceID
	}
	return sessionID(c)
}

func (h *handlers) pushPermission(c *gin.Context) {
	if h.deps.PushTokens == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "push provider not configured"})
		return
	}

	var req pushRequest
	_ = c.ShouldBindJSON(&req)

	permission, err := h.deps.PushTokens.RequestPermission(c.Request.Context(), req.deviceID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"permission": permission})
}

func (h *handlers) pushToken(c *gin.Context) {
	if h.deps.PushTokens == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "push provider not configured"})
		return
	}

	var req pushRequest
	_ = c.ShouldBindJSON(&req)

	token, err := h.deps.PushTokens.RegisterAndGetToken(c.Request.Context(), req.deviceID(c))
	if err != nil {
		if errors.Is(err, push.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

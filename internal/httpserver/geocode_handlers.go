package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Demo coordinates (Chicago), used when the caller supplies none.
const (
	defaultLat = 41.8781
	defaultLon = -87.6298
)

func (h *handlers) reverseGeocode(c *gin.Context) {
	if h.deps.Geocoder == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "geocoder not configured"})
		return
	}

	lat, lon := defaultLat, defaultLon
	if v := c.Query("lat"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < -90 || parsed > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lat"})
			return
		}
		lat = parsed
	}
	if v := c.Query("lon"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed < -180 || parsed > 180 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid lon"})
			return
		}
		lon = parsed
	}

	result, err := h.deps.Geocoder.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"displayName": result.DisplayName,
		"city":        result.Address.Locality(),
		"state":       result.Address.State,
		"country":     result.Address.Country,
	})
}

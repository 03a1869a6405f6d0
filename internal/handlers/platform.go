package handlers

import (
	"net/http"

	"marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

// GetPlatform - GET /api/platform
func (h *Handlers) GetPlatform(c *gin.Context) {
	platform, err := h.service.GetPlatform(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get platform")
		return
	}

	c.JSON(http.StatusOK, models.PlatformResponse{
		Admin:          platform.Admin,
		FeeBasisPoints: platform.FeeBasisPoints,
		Revenue:        platform.Revenue,
		RevenueDisplay: models.FormatAmount(platform.Revenue, h.decimals),
		Organizers:     len(platform.Organizers),
	})
}

// SetFee - PATCH /api/platform/fee
func (h *Handlers) SetFee(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	var req models.UpdateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SetFee(c.Request.Context(), caller, req.FeeBasisPoints); err != nil {
		respondError(c, err, "Failed to update fee")
		return
	}

	c.Status(http.StatusOK)
}

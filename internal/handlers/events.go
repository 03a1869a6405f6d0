package handlers

import (
	"net/http"
	"strconv"

	"marketplace/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterOrganizer - POST /api/organizers
func (h *Handlers) RegisterOrganizer(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	var req models.RegisterOrganizerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.service.RegisterOrganizer(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Failed to register organizer")
		return
	}

	c.JSON(http.StatusCreated, profile)
}

// CreateEvent - POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.service.CreateEvent(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, models.CreateEventResponse{ID: event.ID})
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, models.NewEventResponse(event, h.decimals))
}

// CancelEvent - PATCH /api/events/:id/cancel
func (h *Handlers) CancelEvent(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	if err := h.service.CancelEvent(c.Request.Context(), caller, c.Param("id")); err != nil {
		respondError(c, err, "Failed to cancel event")
		return
	}

	c.Status(http.StatusOK)
}

// AddPromoCode - POST /api/events/:id/promo-codes
func (h *Handlers) AddPromoCode(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	var req models.PromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.AddPromoCode(c.Request.Context(), caller, c.Param("id"), req); err != nil {
		respondError(c, err, "Failed to add promo code")
		return
	}

	c.Status(http.StatusCreated)
}

// SearchEvents - GET /api/events/search
func (h *Handlers) SearchEvents(c *gin.Context) {
	query := c.Query("q")
	onlyAvailable := c.DefaultQuery("available", "true") == "true"

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}

	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	docs, err := h.service.SearchEvents(c.Request.Context(), query, onlyAvailable, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to search events")
		return
	}

	c.JSON(http.StatusOK, docs)
}

package handlers

import (
	"net/http"

	"marketplace/internal/models"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

// QuotePrice - GET /api/events/:id/quote
func (h *Handlers) QuotePrice(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	ticketType := c.Query("ticket_type")
	section := c.Query("section")
	if ticketType == "" || section == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticket_type and section are required"})
		return
	}

	quote, fee, err := h.service.QuotePrice(c.Request.Context(), c.Param("id"), ticketType, section, c.Query("promo_code"), caller)
	if err != nil {
		respondError(c, err, "Failed to quote price")
		return
	}

	c.JSON(http.StatusOK, models.QuoteResponse{
		BasePrice:          quote.BasePrice,
		SectionPrice:       quote.SectionPrice,
		FinalPrice:         quote.FinalPrice,
		FinalPriceDisplay:  models.FormatAmount(quote.FinalPrice, h.decimals),
		PlatformFee:        fee,
		PromoApplied:       quote.PromoApplied,
		NFTDiscountApplied: quote.NFTApplied,
	})
}

// PurchaseTicket - POST /api/events/:id/purchase
func (h *Handlers) PurchaseTicket(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	var req models.PurchaseTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := service.PurchaseInput{
		EventID:    c.Param("id"),
		TicketType: req.TicketType,
		Section:    req.Section,
		Payment:    req.Payment,
		Buyer:      caller,
	}
	if req.PromoCode != nil {
		in.PromoCode = *req.PromoCode
	}

	result, err := h.service.PurchaseTicket(c.Request.Context(), in)
	if err != nil {
		respondError(c, err, "Failed to purchase ticket")
		return
	}

	c.JSON(http.StatusCreated, models.PurchaseTicketResponse{
		Ticket:             models.NewTicketResponse(result.Ticket, caller),
		FinalPrice:         result.Settlement.Price,
		FinalPriceDisplay:  models.FormatAmount(result.Settlement.Price, h.decimals),
		PlatformFee:        result.Settlement.PlatformFee,
		Proceeds:           result.Settlement.Proceeds,
		Refund:             result.Settlement.Refund,
		PromoApplied:       result.Quote.PromoApplied,
		NFTDiscountApplied: result.Quote.NFTApplied,
	})
}

// ListTickets - GET /api/tickets
func (h *Handlers) ListTickets(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	tickets, err := h.service.ListTickets(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err, "Failed to list tickets")
		return
	}

	response := make([]models.TicketResponse, len(tickets))
	for i := range tickets {
		response[i] = models.NewTicketResponse(&tickets[i], caller)
	}

	c.JSON(http.StatusOK, response)
}

// GetTicket - GET /api/tickets/:id
func (h *Handlers) GetTicket(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	ticket, err := h.service.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get ticket")
		return
	}

	c.JSON(http.StatusOK, models.NewTicketResponse(ticket, caller))
}

// UseTicket - PATCH /api/tickets/:id/use
func (h *Handlers) UseTicket(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	ticket, err := h.service.UseTicket(c.Request.Context(), c.Param("id"), caller)
	if err != nil {
		respondError(c, err, "Failed to use ticket")
		return
	}

	ticket.Used = true
	c.JSON(http.StatusOK, models.NewTicketResponse(ticket, caller))
}

// VerifyTicket - GET /api/events/:id/tickets/:ticketId/verify
// Rule violations answer 200 with valid=false and the reason.
func (h *Handlers) VerifyTicket(c *gin.Context) {
	caller, ok := account(c)
	if !ok {
		return
	}

	ticketID := c.Param("ticketId")
	err := h.service.VerifyTicket(c.Request.Context(), c.Param("id"), ticketID, caller)
	if err != nil {
		if status := statusFor(err); status == http.StatusNotFound || status == http.StatusInternalServerError {
			respondError(c, err, "Failed to verify ticket")
			return
		}
		c.JSON(http.StatusOK, models.VerifyTicketResponse{TicketID: ticketID, Valid: false, Reason: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.VerifyTicketResponse{TicketID: ticketID, Valid: true})
}

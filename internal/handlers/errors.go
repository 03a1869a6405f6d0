package handlers

import (
	"errors"
	"net/http"

	apperr "marketplace/internal/errors"
	"marketplace/internal/logger"

	"github.com/gin-gonic/gin"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{apperr.ErrUnauthorized, http.StatusUnauthorized},
	{apperr.ErrForbidden, http.StatusForbidden},
	{apperr.ErrNotOwner, http.StatusForbidden},
	{apperr.ErrNotOrganizer, http.StatusForbidden},
	{apperr.ErrOrganizerNotRegistered, http.StatusForbidden},

	{apperr.ErrEventNotFound, http.StatusNotFound},
	{apperr.ErrTicketNotFound, http.StatusNotFound},
	{apperr.ErrTicketTypeNotFound, http.StatusNotFound},
	{apperr.ErrSectionNotFound, http.StatusNotFound},
	{apperr.ErrPlatformNotFound, http.StatusNotFound},

	{apperr.ErrEventCancelled, http.StatusConflict},
	{apperr.ErrEventNotStarted, http.StatusConflict},
	{apperr.ErrEventEnded, http.StatusConflict},
	{apperr.ErrCapacityExceeded, http.StatusConflict},
	{apperr.ErrTicketTypeSoldOut, http.StatusConflict},
	{apperr.ErrSectionSoldOut, http.StatusConflict},
	{apperr.ErrTicketAlreadyUsed, http.StatusConflict},
	{apperr.ErrTicketEventMismatch, http.StatusConflict},
	{apperr.ErrTicketNotYetValid, http.StatusConflict},
	{apperr.ErrTicketExpired, http.StatusConflict},
	{apperr.ErrOrganizerExists, http.StatusConflict},
	{apperr.ErrPromoCodeExists, http.StatusConflict},
	{apperr.ErrConcurrentUpdate, http.StatusConflict},

	{apperr.ErrInsufficientFunds, http.StatusPaymentRequired},

	{apperr.ErrInvalidEvent, http.StatusBadRequest},
	{apperr.ErrInvalidDiscount, http.StatusBadRequest},
	{apperr.ErrInvalidFee, http.StatusBadRequest},

	{apperr.ErrSearchUnavailable, http.StatusServiceUnavailable},
}

// statusFor maps a service error to its HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err as JSON. Internal errors are logged and hidden from the client.
func respondError(c *gin.Context, err error, msg string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error(msg, "error", err)
		c.Error(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

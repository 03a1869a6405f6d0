package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperr "marketplace/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.ErrEventNotFound, http.StatusNotFound},
		{apperr.ErrTicketNotFound, http.StatusNotFound},
		{apperr.ErrNotOwner, http.StatusForbidden},
		{apperr.ErrNotOrganizer, http.StatusForbidden},
		{apperr.ErrForbidden, http.StatusForbidden},
		{apperr.ErrSectionSoldOut, http.StatusConflict},
		{apperr.ErrTicketAlreadyUsed, http.StatusConflict},
		{apperr.ErrEventCancelled, http.StatusConflict},
		{apperr.ErrInsufficientFunds, http.StatusPaymentRequired},
		{fmt.Errorf("%w: bad window", apperr.ErrInvalidEvent), http.StatusBadRequest},
		{apperr.ErrSearchUnavailable, http.StatusServiceUnavailable},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

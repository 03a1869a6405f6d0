package marketplace

import (
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/models"

	"github.com/google/uuid"
)

func issueTicket(event *models.Event, r *Reservation, owner string, price int64, now time.Time) *models.Ticket {
	return &models.Ticket{
		ID:            uuid.New().String(),
		EventID:       event.ID,
		TicketType:    r.TicketType.Name,
		Section:       r.Section.Name,
		Owner:         owner,
		PurchasePrice: price,
		PurchasedAt:   now,
		AccessToken:   uuid.New().String(),
	}
}

// UseTicket marks the ticket as used. Once used it stays used.
func UseTicket(ticket *models.Ticket, caller string) error {
	if ticket.Owner != caller {
		return apperr.ErrNotOwner
	}
	if ticket.Used {
		return apperr.ErrTicketAlreadyUsed
	}
	ticket.Used = true
	return nil
}

// VerifyTicket is the entrance check. It never mutates anything.
func VerifyTicket(event *models.Event, ticket *models.Ticket, caller string, now time.Time) error {
	if ticket.EventID != event.ID {
		return apperr.ErrTicketEventMismatch
	}
	if event.Cancelled {
		return apperr.ErrEventCancelled
	}
	if ticket.Used {
		return apperr.ErrTicketAlreadyUsed
	}
	if ticket.Owner != caller {
		return apperr.ErrNotOwner
	}

	tt := event.FindTicketType(ticket.TicketType)
	if tt == nil {
		return apperr.ErrTicketTypeNotFound
	}
	if now.Before(tt.ValidFrom) {
		return apperr.ErrTicketNotYetValid
	}
	if tt.ValidUntil != nil && now.After(*tt.ValidUntil) {
		return apperr.ErrTicketExpired
	}
	return nil
}

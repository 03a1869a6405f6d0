// Package marketplace holds the ticket-sale transaction: inventory reservation, pricing,
// promo redemption, settlement and ticket issuance. Everything here operates on values the
// caller owns; serializing access to an event is the caller's job.
package marketplace

import (
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/models"
)

// Reservation is one unit held against an event, a ticket type and a section.
type Reservation struct {
	Event      *models.Event
	TicketType *models.TicketType
	Section    *models.Section
	released   bool
}

// Reserve checks the sale preconditions and takes one unit of each counter.
// Event-level checks run before ticket type and section lookups, and nothing is written until
// every check has passed.
func Reserve(event *models.Event, ticketType, section string, now time.Time) (*Reservation, error) {
	if event.Cancelled {
		return nil, apperr.ErrEventCancelled
	}
	if now.Before(event.StartTime) {
		return nil, apperr.ErrEventNotStarted
	}
	if !now.Before(event.EndTime) {
		return nil, apperr.ErrEventEnded
	}
	if event.CurrentSales >= event.MaxCapacity {
		return nil, apperr.ErrCapacityExceeded
	}

	tt := event.FindTicketType(ticketType)
	if tt == nil {
		return nil, apperr.ErrTicketTypeNotFound
	}
	if tt.Sold >= tt.Quantity {
		return nil, apperr.ErrTicketTypeSoldOut
	}

	sec := event.FindSection(section)
	if sec == nil {
		return nil, apperr.ErrSectionNotFound
	}
	if sec.Remaining <= 0 {
		return nil, apperr.ErrSectionSoldOut
	}

	sec.Remaining--
	tt.Sold++
	event.CurrentSales++

	return &Reservation{Event: event, TicketType: tt, Section: sec}, nil
}

// Release puts the reserved unit back. Calling it more than once is a no-op.
func (r *Reservation) Release() {
	if r == nil || r.released {
		return
	}
	r.Section.Remaining++
	r.TicketType.Sold--
	r.Event.CurrentSales--
	r.released = true
}

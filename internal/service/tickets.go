package service

import (
	"context"
	"fmt"

	apperr "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/marketplace"
	"marketplace/internal/metrics"
	"marketplace/internal/models"
)

// GetTicket reads through the cache. Missing tickets yield ErrTicketNotFound.
// The result may lag a recent use by up to the cache TTL; entrance checks go to the store.
func (s *MarketplaceService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	if s.cache != nil {
		ticket, err := s.cache.Get(ctx, id)
		if err != nil {
			logger.WithContext(ctx).Warn("Ticket cache lookup failed", "ticket_id", id, "error", err)
		} else if ticket != nil {
			return ticket, nil
		}
	}

	ticket, err := s.loadTicket(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ticket); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache ticket", "ticket_id", id, "error", err)
		}
	}
	return ticket, nil
}

func (s *MarketplaceService) loadTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket, err := s.store.GetTicket(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil {
		return nil, apperr.ErrTicketNotFound
	}
	return ticket, nil
}

func (s *MarketplaceService) ListTickets(ctx context.Context, owner string) ([]models.Ticket, error) {
	tickets, err := s.store.ListTicketsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// UseTicket redeems the caller's ticket. A ticket can be used once.
func (s *MarketplaceService) UseTicket(ctx context.Context, ticketID, caller string) (*models.Ticket, error) {
	ticket, err := s.useTicket(ctx, ticketID, caller)
	switch {
	case err == nil:
		metrics.TrackTicketUse(metrics.ResultSuccess)
	case isRejection(err):
		metrics.TrackTicketUse(metrics.ResultRejected)
	default:
		metrics.TrackTicketUse(metrics.ResultError)
	}
	return ticket, err
}

func (s *MarketplaceService) useTicket(ctx context.Context, ticketID, caller string) (*models.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := marketplace.UseTicket(ticket, caller); err != nil {
		return nil, err
	}
	// Conditional write: a concurrent use of the same ticket loses here.
	if err := s.store.MarkTicketUsed(ctx, ticketID); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, ticket); err != nil {
			logger.WithContext(ctx).Warn("Failed to cache used ticket", "ticket_id", ticketID, "error", err)
			if err := s.cache.Delete(ctx, ticketID); err != nil {
				logger.WithContext(ctx).Warn("Failed to evict ticket from cache", "ticket_id", ticketID, "error", err)
			}
		}
	}

	s.publish(ctx, models.EventTicketUsed, models.TicketUsedEvent{
		TicketID:   ticket.ID,
		EventID:    ticket.EventID,
		Owner:      ticket.Owner,
		TicketType: ticket.TicketType,
		Timestamp:  s.clock.Now(),
	})

	logger.WithContext(ctx).Info("Ticket used", "ticket_id", ticket.ID, "event_id", ticket.EventID)
	return ticket, nil
}

// VerifyTicket is the entrance check: nil means caller may enter with ticketID for eventID.
func (s *MarketplaceService) VerifyTicket(ctx context.Context, eventID, ticketID, caller string) error {
	lock := s.locks.get(eventID)
	lock.RLock()
	defer lock.RUnlock()

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return err
	}

	return marketplace.VerifyTicket(event, ticket, caller, s.clock.Now())
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/marketplace"
	"marketplace/internal/metrics"
	"marketplace/internal/models"
)

// commitAttempts bounds retries when another instance wins the versioned event write.
const commitAttempts = 3

type PurchaseInput struct {
	EventID    string
	TicketType string
	Section    string
	PromoCode  string
	Payment    int64
	Buyer      string
}

type PurchaseResult struct {
	Ticket     *models.Ticket
	Quote      marketplace.Quote
	Settlement marketplace.Settlement

	currentSales int
}

// PurchaseTicket buys one ticket. Either the event counters, promo usage, both revenues and
// the new ticket are persisted together, or nothing is.
func (s *MarketplaceService) PurchaseTicket(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	start := time.Now()
	result, err := s.purchase(ctx, in)

	outcome, level := purchaseOutcome(err)
	metrics.TrackPurchase(outcome, time.Since(start))
	if err != nil {
		msg := "Purchase rejected"
		if level == slog.LevelError {
			msg = "Purchase failed"
		}
		logger.WithContext(ctx).Log(ctx, level, msg,
			"event_id", in.EventID,
			"ticket_type", in.TicketType,
			"section", in.Section,
			"error", err)
		return nil, err
	}

	s.afterPurchase(ctx, in, result)
	return result, nil
}

// purchaseOutcome maps a purchase error to its metrics result and log level.
func purchaseOutcome(err error) (string, slog.Level) {
	switch {
	case err == nil:
		return metrics.ResultSuccess, slog.LevelInfo
	case isRejection(err):
		return metrics.ResultRejected, slog.LevelInfo
	default:
		return metrics.ResultError, slog.LevelError
	}
}

func (s *MarketplaceService) purchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	lock := s.locks.get(in.EventID)
	lock.Lock()
	defer lock.Unlock()

	var err error
	for attempt := 0; attempt < commitAttempts; attempt++ {
		var result *PurchaseResult
		result, err = s.tryPurchase(ctx, in)
		if !errors.Is(err, apperr.ErrConcurrentUpdate) {
			return result, err
		}
		logger.WithContext(ctx).Warn("Event changed during purchase, retrying",
			"event_id", in.EventID,
			"attempt", attempt+1)
	}
	return nil, err
}

func (s *MarketplaceService) tryPurchase(ctx context.Context, in PurchaseInput) (*PurchaseResult, error) {
	event, err := s.loadEvent(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	platform, err := s.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}

	receipt, err := marketplace.Purchase(ctx, platform, event, marketplace.PurchaseRequest{
		TicketType: in.TicketType,
		Section:    in.Section,
		PromoCode:  in.PromoCode,
		Payment:    in.Payment,
		Buyer:      in.Buyer,
		Now:        s.clock.Now(),
	}, s.eligibility)
	if err != nil {
		return nil, err
	}

	if err := s.store.CommitPurchase(ctx, event, receipt.Ticket, receipt.Settlement.PlatformFee); err != nil {
		if errors.Is(err, apperr.ErrConcurrentUpdate) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	return &PurchaseResult{
		Ticket:     receipt.Ticket,
		Quote:      receipt.Quote,
		Settlement: receipt.Settlement,

		currentSales: event.CurrentSales,
	}, nil
}

func (s *MarketplaceService) afterPurchase(ctx context.Context, in PurchaseInput, r *PurchaseResult) {
	log := logger.WithContext(ctx)

	if s.cache != nil {
		if err := s.cache.Set(ctx, r.Ticket); err != nil {
			log.Warn("Failed to cache ticket", "ticket_id", r.Ticket.ID, "error", err)
		}
	}

	metrics.TrackSettlement(in.EventID, r.Settlement.PlatformFee, r.Settlement.Proceeds)
	if r.Quote.PromoApplied {
		metrics.TrackPromoRedemption(in.EventID)
	}

	s.publish(ctx, models.EventTicketPurchased, models.TicketPurchasedEvent{
		TicketID:     r.Ticket.ID,
		EventID:      r.Ticket.EventID,
		TicketType:   r.Ticket.TicketType,
		Section:      r.Ticket.Section,
		Buyer:        r.Ticket.Owner,
		FinalPrice:   r.Settlement.Price,
		PlatformFee:  r.Settlement.PlatformFee,
		Proceeds:     r.Settlement.Proceeds,
		PromoCode:    r.Quote.PromoCode,
		NFTDiscount:  r.Quote.NFTApplied,
		CurrentSales: r.currentSales,
		Timestamp:    r.Ticket.PurchasedAt,
	})

	log.Info("Ticket purchased",
		"ticket_id", r.Ticket.ID,
		"event_id", r.Ticket.EventID,
		"ticket_type", r.Ticket.TicketType,
		"section", r.Ticket.Section,
		"final_price", r.Settlement.Price,
		"platform_fee", r.Settlement.PlatformFee,
		"promo_code", r.Quote.PromoCode,
		"refund", r.Settlement.Refund)
}

// QuotePrice previews the price a buyer would pay. Nothing is reserved or redeemed.
func (s *MarketplaceService) QuotePrice(ctx context.Context, eventID, ticketType, section, promoCode, buyer string) (*marketplace.Quote, int64, error) {
	lock := s.locks.get(eventID)
	lock.RLock()
	defer lock.RUnlock()

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return nil, 0, err
	}
	platform, err := s.loadPlatform(ctx)
	if err != nil {
		return nil, 0, err
	}

	tt := event.FindTicketType(ticketType)
	if tt == nil {
		return nil, 0, apperr.ErrTicketTypeNotFound
	}
	sec := event.FindSection(section)
	if sec == nil {
		return nil, 0, apperr.ErrSectionNotFound
	}

	pricer := marketplace.Pricer{Eligibility: s.eligibility}
	quote, err := pricer.Quote(ctx, marketplace.PriceInput{
		Event:      event,
		TicketType: tt,
		Section:    sec,
		PromoCode:  promoCode,
		Buyer:      buyer,
		Now:        s.clock.Now(),
	})
	if err != nil {
		return nil, 0, err
	}

	fee, _ := marketplace.Split(quote.FinalPrice, platform.FeeBasisPoints)
	return &quote, fee, nil
}

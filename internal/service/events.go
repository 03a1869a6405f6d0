package service

import (
	"context"
	"fmt"
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/marketplace"
	"marketplace/internal/models"
	"marketplace/internal/search"

	"github.com/google/uuid"
)

// CreateEvent publishes a new event owned by caller, who must be a registered organizer.
func (s *MarketplaceService) CreateEvent(ctx context.Context, caller string, req *models.CreateEventRequest) (*models.Event, error) {
	platform, err := s.loadPlatform(ctx)
	if err != nil {
		return nil, err
	}
	if !platform.IsOrganizer(caller) {
		return nil, apperr.ErrOrganizerNotRegistered
	}

	now := s.clock.Now()
	event := eventFromRequest(req, caller, now)
	if err := marketplace.ValidateEvent(event); err != nil {
		return nil, err
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.publish(ctx, models.EventEventCreated, models.EventCreatedEvent{
		EventID:   event.ID,
		Organizer: caller,
		Timestamp: now,
	})

	logger.WithContext(ctx).Info("Event created", "event_id", event.ID, "name", event.Name)
	return event, nil
}

func eventFromRequest(req *models.CreateEventRequest, organizer string, now time.Time) *models.Event {
	event := &models.Event{
		ID:          uuid.New().String(),
		Organizer:   organizer,
		Name:        req.Name,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxCapacity: req.MaxCapacity,
		TicketTypes: make([]*models.TicketType, len(req.TicketTypes)),
		Sections:    make([]*models.Section, len(req.Sections)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for i, tt := range req.TicketTypes {
		validFrom := tt.ValidFrom
		if validFrom.IsZero() {
			validFrom = req.StartTime
		}
		event.TicketTypes[i] = &models.TicketType{
			Name:           tt.Name,
			Price:          tt.Price,
			Benefits:       tt.Benefits,
			Transferable:   tt.Transferable.Bool(),
			Resellable:     tt.Resellable.Bool(),
			MaxResalePrice: tt.MaxResalePrice,
			Quantity:       tt.Quantity,
			ValidFrom:      validFrom,
			ValidUntil:     tt.ValidUntil,
		}
	}
	for i, sec := range req.Sections {
		event.Sections[i] = &models.Section{
			Name:            sec.Name,
			Remaining:       sec.Capacity,
			PriceMultiplier: sec.PriceMultiplier,
		}
	}
	for _, p := range req.PromoCodes {
		event.PromoCodes = append(event.PromoCodes, promoFromRequest(p))
	}
	if b := req.NFTBenefits; b != nil {
		event.NFTBenefits = &models.NFTBenefits{
			DiscountPercentage:  b.DiscountPercentage,
			EligibleCollections: b.EligibleCollections,
			PriorityAccess:      b.PriorityAccess.Bool(),
		}
	}
	return event
}

func promoFromRequest(p models.PromoCodeRequest) *models.PromoCode {
	return &models.PromoCode{
		Code:                p.Code,
		DiscountPercentage:  p.DiscountPercentage,
		MaxUses:             p.MaxUses,
		ValidUntil:          p.ValidUntil,
		EligibleTicketTypes: p.EligibleTicketTypes,
	}
}

func (s *MarketplaceService) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	lock := s.locks.get(id)
	lock.RLock()
	defer lock.RUnlock()

	return s.loadEvent(ctx, id)
}

// AddPromoCode attaches a promo code to an event. Only the event's organizer may do this.
func (s *MarketplaceService) AddPromoCode(ctx context.Context, caller, eventID string, req models.PromoCodeRequest) error {
	promo := promoFromRequest(req)

	err := s.updateEvent(ctx, eventID, func(event *models.Event) error {
		return marketplace.AddPromoCode(event, caller, promo)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, models.EventPromoCodeAdded, models.PromoCodeAddedEvent{
		EventID:   eventID,
		Code:      promo.Code,
		MaxUses:   promo.MaxUses,
		Timestamp: s.clock.Now(),
	})
	return nil
}

// CancelEvent stops all further sales and entrance checks for the event.
func (s *MarketplaceService) CancelEvent(ctx context.Context, caller, eventID string) error {
	err := s.updateEvent(ctx, eventID, func(event *models.Event) error {
		return marketplace.CancelEvent(event, caller)
	})
	if err != nil {
		return err
	}

	s.publish(ctx, models.EventEventCancelled, models.EventCancelledEvent{
		EventID:   eventID,
		Organizer: caller,
		Timestamp: s.clock.Now(),
	})

	logger.WithContext(ctx).Info("Event cancelled", "event_id", eventID)
	return nil
}

// updateEvent applies fn to a fresh copy of the event under its write lock and saves it.
func (s *MarketplaceService) updateEvent(ctx context.Context, eventID string, fn func(*models.Event) error) error {
	lock := s.locks.get(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := fn(event); err != nil {
		return err
	}
	return s.store.SaveEvent(ctx, event)
}

// SearchEvents queries the availability index.
func (s *MarketplaceService) SearchEvents(ctx context.Context, query string, onlyAvailable bool, page, pageSize int) ([]search.EventDocument, error) {
	if s.index == nil {
		return nil, apperr.ErrSearchUnavailable
	}
	return s.index.Search(ctx, query, onlyAvailable, page, pageSize)
}

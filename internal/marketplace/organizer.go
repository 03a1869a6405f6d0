package marketplace

import (
	"fmt"

	apperr "marketplace/internal/errors"
	"marketplace/internal/models"
)

// ValidateEvent checks an event configuration before it is published.
// Discounts above 100% and non-positive multipliers are rejected here so pricing never sees them.
func ValidateEvent(e *models.Event) error {
	if e.Name == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrInvalidEvent)
	}
	if !e.EndTime.After(e.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", apperr.ErrInvalidEvent)
	}
	if e.MaxCapacity <= 0 {
		return fmt.Errorf("%w: max capacity must be positive", apperr.ErrInvalidEvent)
	}
	if len(e.TicketTypes) == 0 || len(e.Sections) == 0 {
		return fmt.Errorf("%w: at least one ticket type and one section are required", apperr.ErrInvalidEvent)
	}

	types := make(map[string]struct{}, len(e.TicketTypes))
	for _, tt := range e.TicketTypes {
		if tt.Name == "" {
			return fmt.Errorf("%w: ticket type name is required", apperr.ErrInvalidEvent)
		}
		if _, dup := types[tt.Name]; dup {
			return fmt.Errorf("%w: duplicate ticket type %q", apperr.ErrInvalidEvent, tt.Name)
		}
		types[tt.Name] = struct{}{}
		if tt.Price < 0 || tt.Quantity <= 0 || tt.Sold < 0 || tt.Sold > tt.Quantity {
			return fmt.Errorf("%w: ticket type %q has invalid price or quantity", apperr.ErrInvalidEvent, tt.Name)
		}
		if tt.ValidUntil != nil && tt.ValidUntil.Before(tt.ValidFrom) {
			return fmt.Errorf("%w: ticket type %q validity ends before it starts", apperr.ErrInvalidEvent, tt.Name)
		}
	}

	sections := make(map[string]struct{}, len(e.Sections))
	for _, s := range e.Sections {
		if s.Name == "" {
			return fmt.Errorf("%w: section name is required", apperr.ErrInvalidEvent)
		}
		if _, dup := sections[s.Name]; dup {
			return fmt.Errorf("%w: duplicate section %q", apperr.ErrInvalidEvent, s.Name)
		}
		sections[s.Name] = struct{}{}
		if s.Remaining < 0 || s.PriceMultiplier <= 0 {
			return fmt.Errorf("%w: section %q has invalid capacity or multiplier", apperr.ErrInvalidEvent, s.Name)
		}
	}

	if b := e.NFTBenefits; b != nil {
		if err := validateDiscount(b.DiscountPercentage); err != nil {
			return err
		}
		if len(b.EligibleCollections) == 0 {
			return fmt.Errorf("%w: nft benefit needs at least one collection", apperr.ErrInvalidEvent)
		}
	}

	codes := make(map[string]struct{}, len(e.PromoCodes))
	for _, p := range e.PromoCodes {
		if _, dup := codes[p.Code]; dup {
			return fmt.Errorf("%w: %q", apperr.ErrPromoCodeExists, p.Code)
		}
		codes[p.Code] = struct{}{}
		if err := validatePromoCode(e, p); err != nil {
			return err
		}
	}
	return nil
}

func validateDiscount(pct int64) error {
	if pct < 0 || pct > 100 {
		return apperr.ErrInvalidDiscount
	}
	return nil
}

func validatePromoCode(e *models.Event, p *models.PromoCode) error {
	if p.Code == "" {
		return fmt.Errorf("%w: promo code is required", apperr.ErrInvalidEvent)
	}
	if err := validateDiscount(p.DiscountPercentage); err != nil {
		return err
	}
	if p.MaxUses <= 0 || p.Used < 0 || p.Used > p.MaxUses {
		return fmt.Errorf("%w: promo code %q has invalid usage limits", apperr.ErrInvalidEvent, p.Code)
	}
	for _, name := range p.EligibleTicketTypes {
		if e.FindTicketType(name) == nil {
			return fmt.Errorf("%w: promo code %q references unknown ticket type %q", apperr.ErrInvalidEvent, p.Code, name)
		}
	}
	return nil
}

// CheckOrganizer returns ErrNotOrganizer unless caller organizes event.
func CheckOrganizer(event *models.Event, caller string) error {
	if event.Organizer != caller {
		return apperr.ErrNotOrganizer
	}
	return nil
}

// AddPromoCode attaches a new promo code to event on behalf of its organizer.
func AddPromoCode(event *models.Event, caller string, promo *models.PromoCode) error {
	if err := CheckOrganizer(event, caller); err != nil {
		return err
	}
	if event.FindPromoCode(promo.Code) != nil {
		return apperr.ErrPromoCodeExists
	}
	if err := validatePromoCode(event, promo); err != nil {
		return err
	}
	event.PromoCodes = append(event.PromoCodes, promo)
	return nil
}

// CancelEvent sets the cancellation flag. Cancelling twice is allowed.
func CancelEvent(event *models.Event, caller string) error {
	if err := CheckOrganizer(event, caller); err != nil {
		return err
	}
	event.Cancelled = true
	return nil
}

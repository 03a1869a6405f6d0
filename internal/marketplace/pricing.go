package marketplace

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/models"
)

// Quote is a fully derived price with the stage values that produced it.
type Quote struct {
	BasePrice    int64
	SectionPrice int64
	FinalPrice   int64
	NFTApplied   bool
	PromoApplied bool
	PromoCode    string
}

// PriceInput is everything the pricing stages read.
type PriceInput struct {
	Event      *models.Event
	TicketType *models.TicketType
	Section    *models.Section
	PromoCode  string
	Buyer      string
	Now        time.Time
}

// SectionPrice scales a base price by a percentage multiplier.
func SectionPrice(base, multiplier int64) int64 {
	return base * multiplier / 100
}

// ApplyDiscount takes pct percent off price, truncating.
func ApplyDiscount(price, pct int64) int64 {
	return price * (100 - pct) / 100
}

// Pricer derives ticket prices. A nil Eligibility grants no NFT discount.
type Pricer struct {
	Eligibility Eligibility
}

// Quote computes the price without touching the promo registry.
func (p Pricer) Quote(ctx context.Context, in PriceInput) (Quote, error) {
	q := Quote{
		BasePrice:    in.TicketType.Price,
		SectionPrice: SectionPrice(in.TicketType.Price, in.Section.PriceMultiplier),
	}
	price := q.SectionPrice

	if benefit := in.Event.NFTBenefits; benefit != nil && p.Eligibility != nil {
		ok, err := p.Eligibility.IsEligible(ctx, benefit, in.Buyer)
		if err != nil {
			return Quote{}, fmt.Errorf("failed to verify nft holdings: %w", err)
		}
		if ok {
			price = ApplyDiscount(price, benefit.DiscountPercentage)
			q.NFTApplied = true
		}
	}

	if in.PromoCode != "" {
		promo := in.Event.FindPromoCode(in.PromoCode)
		if Redeemable(promo, in.TicketType.Name, in.Now) {
			price = ApplyDiscount(price, promo.DiscountPercentage)
			q.PromoApplied = true
			q.PromoCode = promo.Code
		}
	}

	q.FinalPrice = price
	return q, nil
}

// Price computes the price and redeems the promo code when it was applied.
// The returned Redemption is nil when no code was used.
func (p Pricer) Price(ctx context.Context, in PriceInput) (Quote, *Redemption, error) {
	q, err := p.Quote(ctx, in)
	if err != nil {
		return Quote{}, nil, err
	}
	if !q.PromoApplied {
		return q, nil, nil
	}
	return q, redeem(in.Event.FindPromoCode(q.PromoCode)), nil
}

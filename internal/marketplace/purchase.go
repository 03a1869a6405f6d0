package marketplace

import (
	"context"
	"time"

	"marketplace/internal/models"
)

// PurchaseRequest is a buyer's attempt to buy one ticket.
type PurchaseRequest struct {
	TicketType string
	Section    string
	// PromoCode is optional; "" means none.
	PromoCode string
	Payment   int64
	Buyer     string
	Now       time.Time
}

// Receipt is the outcome of a successful purchase.
type Receipt struct {
	Ticket     *models.Ticket
	Quote      Quote
	Settlement Settlement
}

// Purchase runs reserve, price, settle and issue against platform and event.
// On error every counter, the promo registry and both balances are left as they were.
func Purchase(ctx context.Context, platform *models.Platform, event *models.Event, req PurchaseRequest, eligibility Eligibility) (*Receipt, error) {
	res, err := Reserve(event, req.TicketType, req.Section, req.Now)
	if err != nil {
		return nil, err
	}

	pricer := Pricer{Eligibility: eligibility}
	quote, redemption, err := pricer.Price(ctx, PriceInput{
		Event:      event,
		TicketType: res.TicketType,
		Section:    res.Section,
		PromoCode:  req.PromoCode,
		Buyer:      req.Buyer,
		Now:        req.Now,
	})
	if err != nil {
		res.Release()
		return nil, err
	}

	settlement, err := Settle(platform, event, quote.FinalPrice, req.Payment)
	if err != nil {
		redemption.Revert()
		res.Release()
		return nil, err
	}

	return &Receipt{
		Ticket:     issueTicket(event, res, req.Buyer, quote.FinalPrice, req.Now),
		Quote:      quote,
		Settlement: settlement,
	}, nil
}

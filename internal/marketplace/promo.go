package marketplace

import (
	"slices"
	"time"

	"marketplace/internal/models"
)

// Redeemable reports whether promo can be applied to ticketType at now.
func Redeemable(promo *models.PromoCode, ticketType string, now time.Time) bool {
	if promo == nil {
		return false
	}
	if promo.Used >= promo.MaxUses {
		return false
	}
	if !now.Before(promo.ValidUntil) {
		return false
	}
	if len(promo.EligibleTicketTypes) > 0 && !slices.Contains(promo.EligibleTicketTypes, ticketType) {
		return false
	}
	return true
}

// Redemption records a single usage increment so it can be undone if the purchase fails later.
type Redemption struct {
	promo    *models.PromoCode
	reverted bool
}

func redeem(promo *models.PromoCode) *Redemption {
	promo.Used++
	return &Redemption{promo: promo}
}

// Code returns the redeemed code, or "" for a nil redemption.
func (r *Redemption) Code() string {
	if r == nil {
		return ""
	}
	return r.promo.Code
}

// Revert undoes the usage increment. Safe on nil and idempotent.
func (r *Redemption) Revert() {
	if r == nil || r.reverted {
		return
	}
	r.promo.Used--
	r.reverted = true
}

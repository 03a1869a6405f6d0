package marketplace

import (
	apperr "marketplace/internal/errors"
	"marketplace/internal/models"
)

// BasisPoints is the denominator for the platform fee.
const BasisPoints = 10000

// Settlement is how a payment was divided.
type Settlement struct {
	Price       int64
	PlatformFee int64
	Proceeds    int64
	// Refund is the overpaid amount returned to the buyer.
	Refund int64
}

// Split divides price into the platform fee and the event's share. The two always sum to price.
func Split(price, feeBasisPoints int64) (fee, proceeds int64) {
	fee = price * feeBasisPoints / BasisPoints
	return fee, price - fee
}

// Settle validates payment against price and credits both balances.
func Settle(platform *models.Platform, event *models.Event, price, payment int64) (Settlement, error) {
	if payment < price {
		return Settlement{}, apperr.ErrInsufficientFunds
	}

	fee, proceeds := Split(price, platform.FeeBasisPoints)
	platform.Revenue += fee
	event.Revenue += proceeds

	return Settlement{
		Price:       price,
		PlatformFee: fee,
		Proceeds:    proceeds,
		Refund:      payment - price,
	}, nil
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_purchases_total",
			Help: "Purchase attempts by result",
		},
		[]string{"result"},
	)

	purchaseDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "marketplace_purchase_duration_seconds",
			Help:    "Time spent processing a purchase",
			Buckets: prometheus.DefBuckets,
		},
	)

	platformFees = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_platform_fees_total",
			Help: "Platform fees collected, in minor units",
		},
	)

	eventProceeds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_event_proceeds_total",
			Help: "Organizer proceeds credited, in minor units",
		},
		[]string{"event_id"},
	)

	promoRedemptions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_promo_redemptions_total",
			Help: "Promo codes redeemed by committed purchases",
		},
		[]string{"event_id"},
	)

	ticketUses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_ticket_uses_total",
			Help: "Ticket use attempts by result",
		},
		[]string{"result"},
	)
)

// Result labels
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// TrackPurchase records a purchase attempt and how long it took.
func TrackPurchase(result string, duration time.Duration) {
	purchases.WithLabelValues(result).Inc()
	purchaseDuration.Observe(duration.Seconds())
}

// TrackSettlement records the money movement of a committed purchase.
func TrackSettlement(eventID string, platformFee, proceeds int64) {
	platformFees.Add(float64(platformFee))
	eventProceeds.WithLabelValues(eventID).Add(float64(proceeds))
}

func TrackPromoRedemption(eventID string) {
	promoRedemptions.WithLabelValues(eventID).Inc()
}

func TrackTicketUse(result string) {
	ticketUses.WithLabelValues(result).Inc()
}

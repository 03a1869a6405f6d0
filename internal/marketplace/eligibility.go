package marketplace

import (
	"context"

	"marketplace/internal/models"
)

// Eligibility decides whether a buyer qualifies for an event's NFT benefit.
type Eligibility interface {
	IsEligible(ctx context.Context, benefit *models.NFTBenefits, buyer string) (bool, error)
}

// EligibilityFunc adapts a plain function to Eligibility.
type EligibilityFunc func(ctx context.Context, benefit *models.NFTBenefits, buyer string) (bool, error)

func (f EligibilityFunc) IsEligible(ctx context.Context, benefit *models.NFTBenefits, buyer string) (bool, error) {
	return f(ctx, benefit, buyer)
}

// StaticEligibility is a fixed allow-list of buyers, used in development and tests.
type StaticEligibility map[string]bool

func (s StaticEligibility) IsEligible(_ context.Context, _ *models.NFTBenefits, buyer string) (bool, error) {
	return s[buyer], nil
}

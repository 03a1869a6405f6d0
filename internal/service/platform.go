package service

import (
	"context"
	"fmt"

	apperr "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/marketplace"
	"marketplace/internal/models"
)

// Bootstrap creates the platform singleton unless one already exists.
func (s *MarketplaceService) Bootstrap(ctx context.Context, admin string, feeBasisPoints int64) error {
	created, err := s.store.InitPlatform(ctx, &models.Platform{
		Admin:          admin,
		FeeBasisPoints: feeBasisPoints,
		Organizers:     make(map[string]models.OrganizerProfile),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize platform: %w", err)
	}
	if created {
		logger.WithContext(ctx).Info("Platform initialized", "admin", admin, "fee_bps", feeBasisPoints)
	}
	return nil
}

func (s *MarketplaceService) GetPlatform(ctx context.Context) (*models.Platform, error) {
	return s.loadPlatform(ctx)
}

// RegisterOrganizer lets caller create events.
func (s *MarketplaceService) RegisterOrganizer(ctx context.Context, caller string, req *models.RegisterOrganizerRequest) (*models.OrganizerProfile, error) {
	profile := models.OrganizerProfile{
		Address:      caller,
		Name:         req.Name,
		Description:  req.Description,
		RegisteredAt: s.clock.Now(),
	}
	if err := s.store.RegisterOrganizer(ctx, profile); err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info("Organizer registered", "organizer", caller)
	return &profile, nil
}

// SetFee changes the platform fee. Only the platform admin may call it.
func (s *MarketplaceService) SetFee(ctx context.Context, caller string, feeBasisPoints int64) error {
	platform, err := s.loadPlatform(ctx)
	if err != nil {
		return err
	}
	if platform.Admin != caller {
		return apperr.ErrForbidden
	}
	if feeBasisPoints < 0 || feeBasisPoints > marketplace.BasisPoints {
		return apperr.ErrInvalidFee
	}
	if err := s.store.UpdateFee(ctx, feeBasisPoints); err != nil {
		return fmt.Errorf("failed to update fee: %w", err)
	}

	logger.WithContext(ctx).Info("Platform fee updated", "fee_bps", feeBasisPoints)
	return nil
}

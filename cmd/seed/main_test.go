package main

import (
	"context"
	"testing"

	"marketplace/internal/config"
	"marketplace/internal/repository"
	"marketplace/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_IsRepeatable(t *testing.T) {
	svc := service.NewMarketplaceService(repository.NewMemoryStore(), service.Options{})
	cfg := &config.Config{Platform: config.PlatformConfig{Admin: "admin", FeeBasisPoints: 250}}
	ctx := context.Background()

	first, err := seed(ctx, svc, cfg, "demo", 100)
	require.NoError(t, err)
	second, err := seed(ctx, svc, cfg, "demo", 100)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 100, first.MaxCapacity)
	assert.Equal(t, 10, first.FindTicketType("VIP").Quantity)

	platform, err := svc.GetPlatform(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, platform.Organizers["demo"].EventsCreated)
}

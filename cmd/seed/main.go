package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/logger"
	"marketplace/internal/middleware"
	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/service"
)

var (
	organizer = flag.String("organizer", "demo-organizer", "Account registered as the demo organizer")
	capacity  = flag.Int("capacity", 500, "Capacity of the demo event")
	dryRun    = flag.Bool("dry-run", false, "Seed an in-memory store and print the result without touching Postgres")
)

func main() {
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")
	log := logger.WithFields("organizer", *organizer, "dry_run", *dryRun)
	log.Info("Starting seed...")

	var store repository.Store
	if *dryRun {
		store = repository.NewMemoryStore()
	} else {
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
		store = repository.NewPostgresStore(db)
	}

	svc := service.NewMarketplaceService(store, service.Options{})
	ctx := context.Background()

	event, err := seed(ctx, svc, cfg, *organizer, *capacity)
	if err != nil {
		logger.Fatal("Seed failed", "error", err)
	}

	log.Info("Seed completed successfully!", "event_id", event.ID)

	for _, account := range []string{cfg.Platform.Admin, *organizer, "demo-buyer"} {
		token, err := middleware.IssueToken(account, cfg.Auth.JWTSecret, cfg.Auth.Issuer, 24*time.Hour)
		if err != nil {
			logger.Fatal("Failed to issue token", "account", account, "error", err)
		}
		fmt.Fprintf(os.Stdout, "%s\t%s\n", account, token)
	}
}

// seed creates the platform, the demo organizer and one demo event with tiers, sections and a promo code
func seed(ctx context.Context, svc *service.MarketplaceService, cfg *config.Config, organizer string, capacity int) (*models.Event, error) {
	if err := svc.Bootstrap(ctx, cfg.Platform.Admin, cfg.Platform.FeeBasisPoints); err != nil {
		return nil, err
	}

	platform, err := svc.GetPlatform(ctx)
	if err != nil {
		return nil, err
	}
	if !platform.IsOrganizer(organizer) {
		if _, err := svc.RegisterOrganizer(ctx, organizer, &models.RegisterOrganizerRequest{
			Name:        "Demo Organizer",
			Description: "Created by the seed command",
		}); err != nil {
			return nil, fmt.Errorf("failed to register organizer: %w", err)
		}
	}

	start := time.Now().UTC().Truncate(time.Hour)
	vip := capacity / 10
	return svc.CreateEvent(ctx, organizer, &models.CreateEventRequest{
		Name:        "Demo Night",
		Description: "Seeded demo event",
		StartTime:   start,
		EndTime:     start.Add(30 * 24 * time.Hour),
		MaxCapacity: capacity,
		TicketTypes: []models.TicketTypeRequest{
			{Name: "General", Price: 5000, Quantity: capacity - vip, Transferable: true},
			{Name: "VIP", Price: 15000, Quantity: vip, Benefits: []string{"Lounge access", "Fast lane"}},
		},
		Sections: []models.SectionRequest{
			{Name: "Floor", Capacity: capacity / 2, PriceMultiplier: 100},
			{Name: "Balcony", Capacity: capacity - capacity/2, PriceMultiplier: 125},
		},
		PromoCodes: []models.PromoCodeRequest{
			{Code: "LAUNCH20", DiscountPercentage: 20, MaxUses: 50, ValidUntil: start.Add(7 * 24 * time.Hour)},
		},
		NFTBenefits: &models.NFTBenefitsRequest{
			DiscountPercentage:  15,
			EligibleCollections: []string{"demo-collection"},
		},
	})
}

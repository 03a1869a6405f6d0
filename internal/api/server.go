package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"marketplace/internal/cache"
	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/external"
	"marketplace/internal/handlers"
	"marketplace/internal/logger"
	"marketplace/internal/messaging"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/search"
	"marketplace/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the HTTP API together with the connections it owns
type Server struct {
	router  *gin.Engine
	config  *config.Config
	db      *database.DB
	nats    *messaging.NATSClient
	cache   *cache.TicketCache
	service *service.MarketplaceService
}

// NewServer connects every configured backend and builds the router
func NewServer(cfg *config.Config) (*Server, error) {
	gin.SetMode(cfg.GinMode)

	s := &Server{config: cfg}
	opts := service.Options{}

	var store repository.Store
	switch cfg.Storage {
	case "memory":
		logger.Get().Warn("Using in-memory storage, data is lost on restart")
		store = repository.NewMemoryStore()
	case "postgres":
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		s.db = db
		store = repository.NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		s.Cleanup()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	s.nats = natsClient
	opts.Publisher = natsClient

	if cfg.Redis.Enabled {
		ticketCache, err := cache.NewTicketCache(cfg.Redis)
		if err != nil {
			// the cache is an optimization; run without it
			logger.Get().Warn("Redis unavailable, ticket cache disabled", "error", err)
		} else {
			s.cache = ticketCache
			opts.Cache = ticketCache
		}
	}

	if cfg.Elasticsearch.Enabled {
		esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Get().Warn("Elasticsearch unavailable, event search disabled", "error", err)
		} else {
			opts.Index = esClient
		}
	}

	if cfg.Holdings.Enabled {
		opts.Eligibility = external.NewHoldingsClient(cfg.Holdings)
	} else {
		logger.Get().Info("Holdings oracle disabled, NFT discounts will not apply")
	}

	svc := service.NewMarketplaceService(store, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := svc.Bootstrap(ctx, cfg.Platform.Admin, cfg.Platform.FeeBasisPoints); err != nil {
		s.Cleanup()
		return nil, err
	}

	s.service = svc
	s.router = newRouter(cfg, svc, s.healthCheck)
	return s, nil
}

// NewServerWithService builds the router around an existing service, without owning any connection
func NewServerWithService(cfg *config.Config, svc *service.MarketplaceService) *Server {
	s := &Server{config: cfg, service: svc}
	s.router = newRouter(cfg, svc, s.healthCheck)
	return s
}

func newRouter(cfg *config.Config, svc *service.MarketplaceService, health gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	h := handlers.NewHandlers(svc, cfg.Platform.CurrencyDecimals)

	api := router.Group("/api")
	api.Use(middleware.Auth(cfg.Auth.JWTSecret, cfg.Auth.Issuer))
	{
		api.POST("/organizers", h.RegisterOrganizer)

		events := api.Group("/events")
		{
			events.POST("", h.CreateEvent)
			events.GET("/search", h.SearchEvents)
			events.GET("/:id", h.GetEvent)
			events.PATCH("/:id/cancel", h.CancelEvent)
			events.POST("/:id/promo-codes", h.AddPromoCode)
			events.GET("/:id/quote", h.QuotePrice)
			events.POST("/:id/purchase", h.PurchaseTicket)
			events.GET("/:id/tickets/:ticketId/verify", h.VerifyTicket)
		}

		tickets := api.Group("/tickets")
		{
			tickets.GET("", h.ListTickets)
			tickets.GET("/:id", h.GetTicket)
			tickets.PATCH("/:id/use", h.UseTicket)
		}

		platform := api.Group("/platform")
		{
			platform.GET("", h.GetPlatform)
			platform.PATCH("/fee", h.SetFee)
		}
	}

	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (s *Server) healthCheck(c *gin.Context) {
	response := gin.H{
		"status":  "ok",
		"service": "marketplace-api",
		"storage": s.config.Storage,
	}

	if s.db != nil {
		dbHealth := s.db.HealthCheck(c.Request.Context())
		response["database"] = dbHealth
		if dbHealth.Status != "healthy" {
			response["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, response)
			return
		}
	}

	c.JSON(http.StatusOK, response)
}

// Run starts the HTTP server
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter returns the router, for http.Server and tests
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes every connection the server owns
func (s *Server) Cleanup() error {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			logger.Get().Error("Error closing Redis connection", "error", err)
		}
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

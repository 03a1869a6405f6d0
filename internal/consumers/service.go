package consumers

import (
	"context"
	"fmt"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/logger"
	"marketplace/internal/messaging"
	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/search"

	"github.com/nats-io/stan.go"
)

const queueGroup = "consumers"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
	subs     []stan.Subscription
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	if !cfg.NATS.Enabled {
		return nil, fmt.Errorf("consumers need NATS, set NATS_ENABLED=true")
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		db.Close()
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	handlers := NewHandlers(repository.NewPostgresStore(db), esClient)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Start() error {
	logger.Get().Info("Starting NATS consumers...")

	routes := []struct {
		subject string
		handler stan.MsgHandler
	}{
		{models.EventTicketPurchased, cs.handlers.HandleTicketPurchased},
		{models.EventEventCreated, cs.handlers.HandleEventCreated},
		{models.EventEventCancelled, cs.handlers.HandleEventCancelled},
		{models.EventTicketUsed, cs.handlers.HandleTicketUsed},
	}

	for _, r := range routes {
		sub, err := cs.nats.SubscribeQueue(r.subject, queueGroup, r.handler)
		if err != nil {
			return err
		}
		cs.subs = append(cs.subs, sub)
	}

	logger.Get().Info("All consumers started successfully", "subscriptions", len(cs.subs))
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	logger.Get().Info("Shutting down consumer service...")

	// Close keeps durable queue subscriptions registered on the server
	for _, sub := range cs.subs {
		if err := sub.Close(); err != nil {
			logger.Get().Error("Error closing subscription", "error", err)
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}

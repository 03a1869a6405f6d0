package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/models"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Enabled   bool
	Addr      string
	Password  string
	DB        int
	TicketTTL time.Duration
}

// TicketCache is a read-through cache for ticket records keyed by ticket:<id>.
type TicketCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTicketCache(cfg Config) (*TicketCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewTicketCacheWithClient(rdb, cfg.TicketTTL), nil
}

func NewTicketCacheWithClient(client *redis.Client, ttl time.Duration) *TicketCache {
	return &TicketCache{client: client, ttl: ttl}
}

func ticketKey(id string) string {
	return "ticket:" + id
}

// Get returns (nil, nil) on a cache miss.
func (c *TicketCache) Get(ctx context.Context, id string) (*models.Ticket, error) {
	raw, err := c.client.Get(ctx, ticketKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}

	ticket := &models.Ticket{}
	if err := json.Unmarshal(raw, ticket); err != nil {
		return nil, fmt.Errorf("invalid ticket in cache: %w", err)
	}
	return ticket, nil
}

func (c *TicketCache) Set(ctx context.Context, ticket *models.Ticket) error {
	raw, err := json.Marshal(ticket)
	if err != nil {
		return fmt.Errorf("failed to marshal ticket: %w", err)
	}
	return c.client.Set(ctx, ticketKey(ticket.ID), raw, c.ttl).Err()
}

func (c *TicketCache) Delete(ctx context.Context, id string) error {
	return c.client.Del(ctx, ticketKey(id)).Err()
}

func (c *TicketCache) Close() error {
	return c.client.Close()
}

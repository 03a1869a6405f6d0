package service

import (
	"context"
	"errors"
	"sync"

	"marketplace/internal/clock"
	apperr "marketplace/internal/errors"
	"marketplace/internal/logger"
	"marketplace/internal/marketplace"
	"marketplace/internal/models"
	"marketplace/internal/repository"
	"marketplace/internal/search"
)

// Publisher sends domain messages. Implemented by messaging.NATSClient.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// TicketCache is the optional read-through cache for tickets.
type TicketCache interface {
	Get(ctx context.Context, id string) (*models.Ticket, error)
	Set(ctx context.Context, ticket *models.Ticket) error
	Delete(ctx context.Context, id string) error
}

// EventIndex is the optional availability search index.
type EventIndex interface {
	Search(ctx context.Context, query string, onlyAvailable bool, page, pageSize int) ([]search.EventDocument, error)
}

type Options struct {
	Eligibility marketplace.Eligibility
	Publisher   Publisher
	Cache       TicketCache
	Index       EventIndex
	Clock       clock.Clock
}

// MarketplaceService coordinates the marketplace rules with storage, caching and messaging.
// All mutations of one event are serialized through a per-event lock.
type MarketplaceService struct {
	store       repository.Store
	eligibility marketplace.Eligibility
	publisher   Publisher
	cache       TicketCache
	index       EventIndex
	clock       clock.Clock

	locks eventLocks
}

func NewMarketplaceService(store repository.Store, opts Options) *MarketplaceService {
	if opts.Clock == nil {
		opts.Clock = clock.NewSystem()
	}
	return &MarketplaceService{
		store:       store,
		eligibility: opts.Eligibility,
		publisher:   opts.Publisher,
		cache:       opts.Cache,
		index:       opts.Index,
		clock:       opts.Clock,
		locks:       eventLocks{locks: make(map[string]*sync.RWMutex)},
	}
}

type eventLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

func (l *eventLocks) get(eventID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[eventID]
	if !ok {
		lock = &sync.RWMutex{}
		l.locks[eventID] = lock
	}
	return lock
}

func (s *MarketplaceService) publish(ctx context.Context, subject string, data interface{}) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"event_type", subject)
	}
}

func (s *MarketplaceService) loadEvent(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, apperr.ErrEventNotFound
	}
	return event, nil
}

func (s *MarketplaceService) loadPlatform(ctx context.Context) (*models.Platform, error) {
	platform, err := s.store.GetPlatform(ctx)
	if err != nil {
		return nil, err
	}
	if platform == nil {
		return nil, apperr.ErrPlatformNotFound
	}
	return platform, nil
}

var businessErrors = []error{
	apperr.ErrEventNotFound,
	apperr.ErrEventCancelled,
	apperr.ErrEventNotStarted,
	apperr.ErrEventEnded,
	apperr.ErrCapacityExceeded,
	apperr.ErrTicketTypeNotFound,
	apperr.ErrTicketTypeSoldOut,
	apperr.ErrSectionNotFound,
	apperr.ErrSectionSoldOut,
	apperr.ErrInsufficientFunds,
	apperr.ErrTicketNotFound,
	apperr.ErrTicketAlreadyUsed,
	apperr.ErrNotOwner,
}

// isRejection reports whether err is a rule violation rather than an infrastructure failure.
func isRejection(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

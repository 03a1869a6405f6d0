package repository

import (
	"context"
	"sync"
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/models"
)

// MemoryStore keeps everything in process. Used by tests and STORAGE=memory.
type MemoryStore struct {
	mu       sync.Mutex
	platform *models.Platform
	events   map[string]*models.Event
	tickets  map[string]*models.Ticket
	// purchase order, so owner listings are stable
	ticketIDs []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:  make(map[string]*models.Event),
		tickets: make(map[string]*models.Ticket),
	}
}

func (s *MemoryStore) GetPlatform(_ context.Context) (*models.Platform, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.platform.Clone(), nil
}

func (s *MemoryStore) InitPlatform(_ context.Context, p *models.Platform) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platform != nil {
		return false, nil
	}
	s.platform = p.Clone()
	s.platform.UpdatedAt = time.Now()
	return true, nil
}

func (s *MemoryStore) UpdateFee(_ context.Context, feeBasisPoints int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platform == nil {
		return apperr.ErrPlatformNotFound
	}
	s.platform.FeeBasisPoints = feeBasisPoints
	s.platform.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) RegisterOrganizer(_ context.Context, profile models.OrganizerProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platform == nil {
		return apperr.ErrPlatformNotFound
	}
	if s.platform.IsOrganizer(profile.Address) {
		return apperr.ErrOrganizerExists
	}
	s.platform.Organizers[profile.Address] = profile
	return nil
}

func (s *MemoryStore) CreateEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platform == nil {
		return apperr.ErrPlatformNotFound
	}
	profile, ok := s.platform.Organizers[event.Organizer]
	if !ok {
		return apperr.ErrOrganizerNotRegistered
	}
	profile.EventsCreated++
	s.platform.Organizers[event.Organizer] = profile
	s.events[event.ID] = event.Clone()
	return nil
}

func (s *MemoryStore) GetEvent(_ context.Context, id string) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id].Clone(), nil
}

func (s *MemoryStore) SaveEvent(_ context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveEventLocked(event)
}

func (s *MemoryStore) saveEventLocked(event *models.Event) error {
	stored, ok := s.events[event.ID]
	if !ok {
		return apperr.ErrEventNotFound
	}
	if stored.Version != event.Version {
		return apperr.ErrConcurrentUpdate
	}
	event.Version++
	event.UpdatedAt = time.Now()
	s.events[event.ID] = event.Clone()
	return nil
}

func (s *MemoryStore) CommitPurchase(_ context.Context, event *models.Event, ticket *models.Ticket, platformFee int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.platform == nil {
		return apperr.ErrPlatformNotFound
	}
	if err := s.saveEventLocked(event); err != nil {
		return err
	}
	t := *ticket
	s.tickets[t.ID] = &t
	s.ticketIDs = append(s.ticketIDs, t.ID)
	s.platform.Revenue += platformFee
	return nil
}

func (s *MemoryStore) GetTicket(_ context.Context, id string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (s *MemoryStore) ListTicketsByOwner(_ context.Context, owner string) ([]models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var tickets []models.Ticket
	for i := len(s.ticketIDs) - 1; i >= 0; i-- {
		if t := s.tickets[s.ticketIDs[i]]; t.Owner == owner {
			tickets = append(tickets, *t)
		}
	}
	return tickets, nil
}

func (s *MemoryStore) MarkTicketUsed(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	if !ok {
		return apperr.ErrTicketNotFound
	}
	if t.Used {
		return apperr.ErrTicketAlreadyUsed
	}
	t.Used = true
	return nil
}

package repository

import (
	"context"
	"testing"
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) (*MemoryStore, *models.Event) {
	t.Helper()
	ctx := context.Background()
	s := NewMemoryStore()

	created, err := s.InitPlatform(ctx, &models.Platform{
		Admin:          "admin",
		FeeBasisPoints: 250,
		Organizers:     map[string]models.OrganizerProfile{},
	})
	require.NoError(t, err)
	require.True(t, created)
	require.NoError(t, s.RegisterOrganizer(ctx, models.OrganizerProfile{Address: "org", Name: "Org"}))

	event := &models.Event{
		ID:          "evt-1",
		Organizer:   "org",
		Name:        "Show",
		MaxCapacity: 10,
		TicketTypes: []*models.TicketType{{Name: "General", Price: 1000, Quantity: 10}},
		Sections:    []*models.Section{{Name: "Floor", Remaining: 10, PriceMultiplier: 100}},
	}
	require.NoError(t, s.CreateEvent(ctx, event))
	return s, event
}

func TestMemoryStore_Platform(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)

	created, err := s.InitPlatform(ctx, &models.Platform{Admin: "other"})
	require.NoError(t, err)
	assert.False(t, created)

	assert.ErrorIs(t, s.RegisterOrganizer(ctx, models.OrganizerProfile{Address: "org"}), apperr.ErrOrganizerExists)
	require.NoError(t, s.UpdateFee(ctx, 500))

	p, err := s.GetPlatform(ctx)
	require.NoError(t, err)
	assert.Equal(t, "admin", p.Admin)
	assert.Equal(t, int64(500), p.FeeBasisPoints)
	assert.Equal(t, 1, p.Organizers["org"].EventsCreated)
}

func TestMemoryStore_EmptyPlatform(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	p, err := s.GetPlatform(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, s.UpdateFee(ctx, 1), apperr.ErrPlatformNotFound)
	assert.ErrorIs(t, s.CreateEvent(ctx, &models.Event{ID: "x", Organizer: "org"}), apperr.ErrPlatformNotFound)
}

func TestMemoryStore_CreateEventRequiresOrganizer(t *testing.T) {
	s, _ := seededStore(t)
	err := s.CreateEvent(context.Background(), &models.Event{ID: "evt-2", Organizer: "stranger"})
	assert.ErrorIs(t, err, apperr.ErrOrganizerNotRegistered)
}

func TestMemoryStore_SaveEventVersioning(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)

	first, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	second, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)

	first.Name = "Renamed"
	require.NoError(t, s.SaveEvent(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	second.Cancelled = true
	assert.ErrorIs(t, s.SaveEvent(ctx, second), apperr.ErrConcurrentUpdate)
	assert.Equal(t, int64(0), second.Version)

	stored, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)
	assert.False(t, stored.Cancelled)
}

func TestMemoryStore_GetEventReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)

	event, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	event.TicketTypes[0].Sold = 5

	again, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, 0, again.TicketTypes[0].Sold)

	missing, err := s.GetEvent(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestMemoryStore_CommitPurchase(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"t-1", "t-2", "t-3"} {
		event, err := s.GetEvent(ctx, "evt-1")
		require.NoError(t, err)
		event.CurrentSales++
		owner := "bob"
		if id == "t-2" {
			owner = "eve"
		}
		ticket := &models.Ticket{ID: id, EventID: event.ID, Owner: owner, PurchasedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CommitPurchase(ctx, event, ticket, 25))
	}

	p, err := s.GetPlatform(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(75), p.Revenue)

	event, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, 3, event.CurrentSales)
	assert.Equal(t, int64(3), event.Version)

	tickets, err := s.ListTicketsByOwner(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "t-3", tickets[0].ID)
	assert.Equal(t, "t-1", tickets[1].ID)
}

func TestMemoryStore_CommitPurchaseStaleEvent(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)

	stale, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	fresh, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	require.NoError(t, s.SaveEvent(ctx, fresh))

	err = s.CommitPurchase(ctx, stale, &models.Ticket{ID: "t-1", EventID: "evt-1", Owner: "bob"}, 25)
	assert.ErrorIs(t, err, apperr.ErrConcurrentUpdate)

	ticket, err := s.GetTicket(ctx, "t-1")
	require.NoError(t, err)
	assert.Nil(t, ticket)

	p, err := s.GetPlatform(ctx)
	require.NoError(t, err)
	assert.Zero(t, p.Revenue)
}

func TestMemoryStore_MarkTicketUsed(t *testing.T) {
	ctx := context.Background()
	s, _ := seededStore(t)

	event, err := s.GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	require.NoError(t, s.CommitPurchase(ctx, event, &models.Ticket{ID: "t-1", EventID: "evt-1", Owner: "bob"}, 0))

	require.NoError(t, s.MarkTicketUsed(ctx, "t-1"))
	assert.ErrorIs(t, s.MarkTicketUsed(ctx, "t-1"), apperr.ErrTicketAlreadyUsed)
	assert.ErrorIs(t, s.MarkTicketUsed(ctx, "t-9"), apperr.ErrTicketNotFound)

	ticket, err := s.GetTicket(ctx, "t-1")
	require.NoError(t, err)
	assert.True(t, ticket.Used)
}

package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace/internal/models"
	"marketplace/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIndexer struct {
	indexed []models.Event
	err     error
}

func (f *fakeIndexer) IndexEvent(_ context.Context, event *models.Event) error {
	if f.err != nil {
		return f.err
	}
	f.indexed = append(f.indexed, *event)
	return nil
}

func seededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()
	_, err := store.InitPlatform(ctx, &models.Platform{
		Admin:      "admin",
		Organizers: map[string]models.OrganizerProfile{"org": {Address: "org"}},
	})
	require.NoError(t, err)
	require.NoError(t, store.CreateEvent(ctx, &models.Event{
		ID:           "evt-1",
		Organizer:    "org",
		Name:         "Concert",
		MaxCapacity:  10,
		CurrentSales: 3,
	}))
	return store
}

func payload(t *testing.T, v interface{}) []byte {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestTicketPurchased_ReindexesFromStore(t *testing.T) {
	idx := &fakeIndexer{}
	h := NewHandlers(seededStore(t), idx)

	// the message is stale; the store is the source of truth
	err := h.ticketPurchased(payload(t, models.TicketPurchasedEvent{
		TicketID:     "t-1",
		EventID:      "evt-1",
		CurrentSales: 1,
		Timestamp:    time.Now(),
	}))

	require.NoError(t, err)
	require.Len(t, idx.indexed, 1)
	assert.Equal(t, 3, idx.indexed[0].CurrentSales)
}

func TestEventCreatedAndCancelled(t *testing.T) {
	idx := &fakeIndexer{}
	h := NewHandlers(seededStore(t), idx)

	require.NoError(t, h.eventCreated(payload(t, models.EventCreatedEvent{EventID: "evt-1", Organizer: "org"})))
	require.NoError(t, h.eventCancelled(payload(t, models.EventCancelledEvent{EventID: "evt-1", Organizer: "org"})))

	assert.Len(t, idx.indexed, 2)
}

func TestReindex_MissingEventIsSkipped(t *testing.T) {
	idx := &fakeIndexer{}
	h := NewHandlers(seededStore(t), idx)

	err := h.eventCreated(payload(t, models.EventCreatedEvent{EventID: "gone"}))

	assert.NoError(t, err)
	assert.Empty(t, idx.indexed)
}

func TestReindex_IndexErrorIsReturned(t *testing.T) {
	idx := &fakeIndexer{err: errors.New("es down")}
	h := NewHandlers(seededStore(t), idx)

	err := h.ticketPurchased(payload(t, models.TicketPurchasedEvent{EventID: "evt-1"}))

	assert.ErrorContains(t, err, "es down")
	assert.False(t, errors.Is(err, errMalformed))
}

func TestMalformedMessages(t *testing.T) {
	h := NewHandlers(seededStore(t), &fakeIndexer{})

	for name, fn := range map[string]func([]byte) error{
		"purchased": h.ticketPurchased,
		"created":   h.eventCreated,
		"cancelled": h.eventCancelled,
		"used":      h.ticketUsed,
	} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, fn([]byte("{not json")), errMalformed)
		})
	}
}

func TestTicketUsed(t *testing.T) {
	h := NewHandlers(seededStore(t), &fakeIndexer{})

	err := h.ticketUsed(payload(t, models.TicketUsedEvent{TicketID: "t-1", EventID: "evt-1", Owner: "alice"}))

	assert.NoError(t, err)
}

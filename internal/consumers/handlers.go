package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/logger"
	"marketplace/internal/models"
	"marketplace/internal/repository"

	"github.com/nats-io/stan.go"
)

// EventIndexer writes event availability documents. Implemented by search.ElasticsearchClient.
type EventIndexer interface {
	IndexEvent(ctx context.Context, event *models.Event) error
}

var errMalformed = errors.New("malformed message")

const handlerTimeout = 10 * time.Second

type Handlers struct {
	store repository.Store
	index EventIndexer
}

func NewHandlers(store repository.Store, index EventIndexer) *Handlers {
	return &Handlers{
		store: store,
		index: index,
	}
}

// ack acknowledges processed and malformed messages. Anything else is left for redelivery.
func ack(m *stan.Msg, subject string, err error) {
	if err != nil && !errors.Is(err, errMalformed) {
		logger.Get().Error("Failed to process message, will be redelivered",
			"subject", subject,
			"sequence", m.Sequence,
			"error", err)
		return
	}
	if err != nil {
		logger.Get().Error("Dropping malformed message", "subject", subject, "sequence", m.Sequence, "error", err)
	}
	if ackErr := m.Ack(); ackErr != nil {
		logger.Get().Error("Failed to ack message", "subject", subject, "error", ackErr)
	}
}

func (h *Handlers) HandleTicketPurchased(m *stan.Msg) {
	ack(m, models.EventTicketPurchased, h.ticketPurchased(m.Data))
}

func (h *Handlers) HandleEventCreated(m *stan.Msg) {
	ack(m, models.EventEventCreated, h.eventCreated(m.Data))
}

func (h *Handlers) HandleEventCancelled(m *stan.Msg) {
	ack(m, models.EventEventCancelled, h.eventCancelled(m.Data))
}

func (h *Handlers) HandleTicketUsed(m *stan.Msg) {
	ack(m, models.EventTicketUsed, h.ticketUsed(m.Data))
}

func (h *Handlers) ticketPurchased(data []byte) error {
	var event models.TicketPurchasedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	logger.Get().Info("Processing ticket purchased event",
		"ticket_id", event.TicketID,
		"event_id", event.EventID,
		"current_sales", event.CurrentSales)

	return h.reindex(event.EventID)
}

func (h *Handlers) eventCreated(data []byte) error {
	var event models.EventCreatedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	logger.Get().Info("Processing event created event", "event_id", event.EventID, "organizer", event.Organizer)
	return h.reindex(event.EventID)
}

func (h *Handlers) eventCancelled(data []byte) error {
	var event models.EventCancelledEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	logger.Get().Info("Processing event cancelled event", "event_id", event.EventID)
	return h.reindex(event.EventID)
}

// ticketUsed records attendance in the log; availability does not change.
func (h *Handlers) ticketUsed(data []byte) error {
	var event models.TicketUsedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}

	logger.Get().Info("Attendee admitted",
		"ticket_id", event.TicketID,
		"event_id", event.EventID,
		"owner", event.Owner,
		"ticket_type", event.TicketType,
		"at", event.Timestamp)
	return nil
}

// reindex loads the latest state of the event and writes its availability document.
// Messages can arrive out of order, so the document is always rebuilt from the store.
func (h *Handlers) reindex(eventID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	event, err := h.store.GetEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	if event == nil {
		logger.Get().Warn("Event no longer exists, skipping reindex", "event_id", eventID)
		return nil
	}

	if err := h.index.IndexEvent(ctx, event); err != nil {
		return fmt.Errorf("failed to index event %s: %w", eventID, err)
	}
	return nil
}

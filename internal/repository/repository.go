package repository

import (
	"context"

	"marketplace/internal/models"
)

// Store persists marketplace state. Getters return (nil, nil) when the record does not exist
// and always hand out copies the caller may mutate freely.
type Store interface {
	GetPlatform(ctx context.Context) (*models.Platform, error)
	// InitPlatform stores p unless a platform already exists.
	InitPlatform(ctx context.Context, p *models.Platform) (bool, error)
	UpdateFee(ctx context.Context, feeBasisPoints int64) error
	RegisterOrganizer(ctx context.Context, profile models.OrganizerProfile) error

	// CreateEvent stores a new event and bumps its organizer's event count.
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	// SaveEvent writes event if its Version still matches the stored one, then bumps Version.
	SaveEvent(ctx context.Context, event *models.Event) error

	// CommitPurchase saves the event, inserts the ticket and credits the platform fee as one unit.
	CommitPurchase(ctx context.Context, event *models.Event, ticket *models.Ticket, platformFee int64) error
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	ListTicketsByOwner(ctx context.Context, owner string) ([]models.Ticket, error)
	// MarkTicketUsed flips used from false to true, or fails with ErrTicketAlreadyUsed.
	MarkTicketUsed(ctx context.Context, id string) error
}

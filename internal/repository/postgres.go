package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/database"
	apperr "marketplace/internal/errors"
	"marketplace/internal/models"

	"github.com/lib/pq"
)

// PostgresStore keeps events as JSONB documents guarded by a version column.
type PostgresStore struct {
	db *database.DB
}

func NewPostgresStore(db *database.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (r *PostgresStore) GetPlatform(ctx context.Context) (*models.Platform, error) {
	p := &models.Platform{}
	var organizers []byte
	query := `
		SELECT admin, fee_bps, revenue, organizers, updated_at
		FROM platform
		WHERE id = 1`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&p.Admin,
		&p.FeeBasisPoints,
		&p.Revenue,
		&organizers,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(organizers, &p.Organizers); err != nil {
		return nil, fmt.Errorf("failed to decode organizers: %w", err)
	}
	if p.Organizers == nil {
		p.Organizers = make(map[string]models.OrganizerProfile)
	}
	return p, nil
}

func (r *PostgresStore) InitPlatform(ctx context.Context, p *models.Platform) (bool, error) {
	organizers, err := json.Marshal(p.Organizers)
	if err != nil {
		return false, fmt.Errorf("failed to encode organizers: %w", err)
	}
	if p.Organizers == nil {
		organizers = []byte("{}")
	}

	query := `
		INSERT INTO platform (id, admin, fee_bps, revenue, organizers)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, p.Admin, p.FeeBasisPoints, p.Revenue, organizers)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PostgresStore) UpdateFee(ctx context.Context, feeBasisPoints int64) error {
	query := `UPDATE platform SET fee_bps = $1, updated_at = NOW() WHERE id = 1`
	res, err := r.db.ExecContext(ctx, query, feeBasisPoints)
	if err != nil {
		return err
	}
	return expectOne(res, apperr.ErrPlatformNotFound)
}

func (r *PostgresStore) RegisterOrganizer(ctx context.Context, profile models.OrganizerProfile) error {
	doc, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode organizer: %w", err)
	}

	query := `
		UPDATE platform
		SET organizers = organizers || jsonb_build_object($1::text, $2::jsonb), updated_at = NOW()
		WHERE id = 1 AND NOT organizers ? $1`

	res, err := r.db.ExecContext(ctx, query, profile.Address, doc)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		p, err := r.GetPlatform(ctx)
		if err != nil {
			return err
		}
		if p == nil {
			return apperr.ErrPlatformNotFound
		}
		return apperr.ErrOrganizerExists
	}
	return nil
}

func (r *PostgresStore) CreateEvent(ctx context.Context, event *models.Event) error {
	doc, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	bump := `
		UPDATE platform
		SET organizers = jsonb_set(
			organizers,
			ARRAY[$1::text, 'events_created'],
			to_jsonb(COALESCE((organizers->$1->>'events_created')::int, 0) + 1)
		)
		WHERE id = 1 AND organizers ? $1`
	res, err := tx.ExecContext(ctx, bump, event.Organizer)
	if err != nil {
		return err
	}
	if err := expectOne(res, apperr.ErrOrganizerNotRegistered); err != nil {
		return err
	}

	insert := `
		INSERT INTO events (id, organizer, document, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`
	if _, err := tx.ExecContext(ctx, insert, event.ID, event.Organizer, doc, event.Version, event.CreatedAt); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresStore) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	var doc []byte
	var version int64
	var updatedAt time.Time
	query := `SELECT document, version, updated_at FROM events WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(&doc, &version, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isInvalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	event := &models.Event{}
	if err := json.Unmarshal(doc, event); err != nil {
		return nil, fmt.Errorf("failed to decode event %s: %w", id, err)
	}
	event.Version = version
	event.UpdatedAt = updatedAt
	return event, nil
}

func (r *PostgresStore) SaveEvent(ctx context.Context, event *models.Event) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := saveEventTx(ctx, tx, event); err != nil {
		return err
	}
	return tx.Commit()
}

func saveEventTx(ctx context.Context, tx *sql.Tx, event *models.Event) error {
	next := *event
	next.Version = event.Version + 1
	next.UpdatedAt = time.Now().UTC()
	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	query := `
		UPDATE events
		SET document = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4`
	res, err := tx.ExecContext(ctx, query, doc, next.UpdatedAt, event.ID, event.Version)
	if err != nil {
		return err
	}
	if err := expectOne(res, apperr.ErrConcurrentUpdate); err != nil {
		return err
	}

	event.Version = next.Version
	event.UpdatedAt = next.UpdatedAt
	return nil
}

func (r *PostgresStore) CommitPurchase(ctx context.Context, event *models.Event, ticket *models.Ticket, platformFee int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	version, updatedAt := event.Version, event.UpdatedAt
	if err := saveEventTx(ctx, tx, event); err != nil {
		return err
	}

	insert := `
		INSERT INTO tickets (id, event_id, ticket_type, section, owner, purchase_price, purchased_at, used, access_token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := tx.ExecContext(ctx, insert,
		ticket.ID,
		ticket.EventID,
		ticket.TicketType,
		ticket.Section,
		ticket.Owner,
		ticket.PurchasePrice,
		ticket.PurchasedAt,
		ticket.Used,
		ticket.AccessToken,
	); err != nil {
		event.Version, event.UpdatedAt = version, updatedAt
		return fmt.Errorf("failed to insert ticket: %w", err)
	}

	credit := `UPDATE platform SET revenue = revenue + $1, updated_at = NOW() WHERE id = 1`
	res, err := tx.ExecContext(ctx, credit, platformFee)
	if err != nil {
		event.Version, event.UpdatedAt = version, updatedAt
		return err
	}
	if err := expectOne(res, apperr.ErrPlatformNotFound); err != nil {
		event.Version, event.UpdatedAt = version, updatedAt
		return err
	}

	if err := tx.Commit(); err != nil {
		event.Version, event.UpdatedAt = version, updatedAt
		return err
	}
	return nil
}

const ticketColumns = `id, event_id, ticket_type, section, owner, purchase_price, purchased_at, used, access_token`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner, t *models.Ticket) error {
	return row.Scan(
		&t.ID,
		&t.EventID,
		&t.TicketType,
		&t.Section,
		&t.Owner,
		&t.PurchasePrice,
		&t.PurchasedAt,
		&t.Used,
		&t.AccessToken,
	)
}

func (r *PostgresStore) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`

	err := scanTicket(r.db.QueryRowContext(ctx, query, id), ticket)
	if err == sql.ErrNoRows || isInvalidUUID(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *PostgresStore) ListTicketsByOwner(ctx context.Context, owner string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	query := `SELECT ` + ticketColumns + `
		FROM tickets
		WHERE owner = $1
		ORDER BY purchased_at DESC`

	rows, err := r.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ticket models.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

func (r *PostgresStore) MarkTicketUsed(ctx context.Context, id string) error {
	query := `UPDATE tickets SET used = TRUE WHERE id = $1 AND used = FALSE`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if isInvalidUUID(err) {
			return apperr.ErrTicketNotFound
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	ticket, err := r.GetTicket(ctx, id)
	if err != nil {
		return err
	}
	if ticket == nil {
		return apperr.ErrTicketNotFound
	}
	return apperr.ErrTicketAlreadyUsed
}

func expectOne(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return notFound
	}
	return nil
}

func isInvalidUUID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

package marketplace

import (
	"testing"
	"time"

	apperr "marketplace/internal/errors"
	"marketplace/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseTicket(t *testing.T) {
	t.Run("owner uses once", func(t *testing.T) {
		ticket := &models.Ticket{ID: "t-1", Owner: "alice"}

		require.NoError(t, UseTicket(ticket, "alice"))
		assert.True(t, ticket.Used)

		err := UseTicket(ticket, "alice")
		assert.ErrorIs(t, err, apperr.ErrTicketAlreadyUsed)
		assert.True(t, ticket.Used)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		ticket := &models.Ticket{ID: "t-1", Owner: "alice"}

		err := UseTicket(ticket, "mallory")
		assert.ErrorIs(t, err, apperr.ErrNotOwner)
		assert.False(t, ticket.Used)
	})
}

func TestVerifyTicket(t *testing.T) {
	from := testNow.Add(-time.Hour)
	until := testNow.Add(2 * time.Hour)

	newFixture := func() (*models.Event, *models.Ticket) {
		e := newTestEvent()
		e.TicketTypes[0].ValidFrom = from
		e.TicketTypes[0].ValidUntil = &until
		return e, &models.Ticket{ID: "t-1", EventID: e.ID, TicketType: "GA", Section: "A", Owner: "alice"}
	}

	tests := []struct {
		name    string
		mutate  func(e *models.Event, tk *models.Ticket)
		caller  string
		now     time.Time
		wantErr error
	}{
		{name: "valid", caller: "alice", now: testNow},
		{name: "valid at window start", caller: "alice", now: from},
		{name: "valid at window end", caller: "alice", now: until},
		{name: "other event", mutate: func(_ *models.Event, tk *models.Ticket) { tk.EventID = "event-2" }, caller: "alice", now: testNow, wantErr: apperr.ErrTicketEventMismatch},
		{name: "cancelled", mutate: func(e *models.Event, _ *models.Ticket) { e.Cancelled = true }, caller: "alice", now: testNow, wantErr: apperr.ErrEventCancelled},
		{name: "used", mutate: func(_ *models.Event, tk *models.Ticket) { tk.Used = true }, caller: "alice", now: testNow, wantErr: apperr.ErrTicketAlreadyUsed},
		{name: "not owner", caller: "bob", now: testNow, wantErr: apperr.ErrNotOwner},
		{name: "too early", caller: "alice", now: from.Add(-time.Second), wantErr: apperr.ErrTicketNotYetValid},
		{name: "too late", caller: "alice", now: until.Add(time.Second), wantErr: apperr.ErrTicketExpired},
		{name: "open ended validity", mutate: func(e *models.Event, _ *models.Ticket) { e.TicketTypes[0].ValidUntil = nil }, caller: "alice", now: until.Add(48 * time.Hour)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, tk := newFixture()
			if tc.mutate != nil {
				tc.mutate(e, tk)
			}
			used := tk.Used

			err := VerifyTicket(e, tk, tc.caller, tc.now)

			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
			assert.Equal(t, used, tk.Used)
		})
	}
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := defaultLogger
	defaultLogger = slog.New(slog.NewJSONHandler(&buf, nil))
	t.Cleanup(func() { defaultLogger = prev })
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestWithFields(t *testing.T) {
	buf := captureJSON(t)

	WithFields("organizer", "org", "dry_run", true).Info("Starting seed...")

	entry := decodeLine(t, buf)
	assert.Equal(t, "Starting seed...", entry["msg"])
	assert.Equal(t, "org", entry["organizer"])
	assert.Equal(t, true, entry["dry_run"])
}

func TestWithContext(t *testing.T) {
	buf := captureJSON(t)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithAccount(ctx, "alice")
	WithContext(ctx).Info("Ticket used")

	entry := decodeLine(t, buf)
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "alice", entry["account"])
}

func TestWithContext_NoValues(t *testing.T) {
	buf := captureJSON(t)

	WithContext(context.Background()).Info("plain")

	entry := decodeLine(t, buf)
	assert.NotContains(t, entry, "request_id")
	assert.NotContains(t, entry, "account")
}

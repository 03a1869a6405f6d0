package database

import (
	"context"
	"database/sql"
	"log/slog"
	"time"
)

const healthTimeout = 2 * time.Second

// PoolUsage is the part of sql.DBStats the health endpoint reports
type PoolUsage struct {
	Open      int   `json:"open"`
	InUse     int   `json:"in_use"`
	Idle      int   `json:"idle"`
	WaitCount int64 `json:"wait_count"`
	// Saturated means every allowed connection is checked out
	Saturated bool `json:"saturated"`
}

type Health struct {
	Status    string    `json:"status"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	Pool      PoolUsage `json:"pool"`
	CheckedAt time.Time `json:"checked_at"`
}

func poolUsage(stats sql.DBStats) PoolUsage {
	return PoolUsage{
		Open:      stats.OpenConnections,
		InUse:     stats.InUse,
		Idle:      stats.Idle,
		WaitCount: stats.WaitCount,
		Saturated: stats.MaxOpenConnections > 0 && stats.InUse >= stats.MaxOpenConnections,
	}
}

// HealthCheck pings the database and reports pool usage
func (db *DB) HealthCheck(ctx context.Context) Health {
	start := time.Now()
	health := Health{
		CheckedAt: start.UTC(),
		Pool:      poolUsage(db.Stats()),
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	err := db.PingContext(pingCtx)
	health.LatencyMs = time.Since(start).Milliseconds()

	if err != nil {
		health.Status = "unhealthy"
		health.Error = err.Error()
		slog.Error("Database health check failed", "error", err)
		return health
	}

	health.Status = "healthy"
	if health.Pool.Saturated {
		slog.Warn("Database pool saturated", "in_use", health.Pool.InUse, "wait_count", health.Pool.WaitCount)
	}
	return health
}

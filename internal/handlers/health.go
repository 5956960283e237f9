// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"database/sql"
	"net/http"
	"time"
)

// Health reports process and database liveness.
type Health struct {
	db      *sql.DB
	env     string
	started time.Time
}

// NewHealth creates a new Health handler.
func NewHealth(db *sql.DB, env string) *Health {
	return &Health{db: db, env: env, started: time.Now()}
}

// Check returns 200 when the database answers a ping, 503 otherwise.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "up"
	code := http.StatusOK

	if err := h.db.PingContext(r.Context()); err != nil {
		status = "degraded"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, map[string]any{
		"status":      status,
		"database":    dbStatus,
		"environment": h.env,
		"uptime":      time.Since(h.started).Round(time.Second).String(),
	})
}

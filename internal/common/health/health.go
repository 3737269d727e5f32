// Package health wires liveness and readiness checks for the HTTP services.
package health

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"
)

// Pinger is anything with a cheap connectivity check, e.g. the broker client.
type Pinger interface {
	Ping() error
}

// NewHandler serves /live and /ready. db and broker are optional; nil ones
// are simply not checked.
func NewHandler(db *sql.DB, broker Pinger) healthcheck.Handler {
	h := healthcheck.NewHandler()
	h.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(1000))
	if db != nil {
		h.AddReadinessCheck("database", healthcheck.DatabasePingCheck(db, time.Second))
	}
	if broker != nil {
		h.AddReadinessCheck("rabbitmq", healthcheck.Check(broker.Ping))
	}
	return h
}

// Mount registers the check endpoints on mux.
func Mount(mux *http.ServeMux, h healthcheck.Handler) {
	mux.HandleFunc("GET /live", h.LiveEndpoint)
	mux.HandleFunc("GET /ready", h.ReadyEndpoint)
}

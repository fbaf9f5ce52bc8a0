// Package server exposes the analysis engine over HTTP: trigger
// endpoints for the two passes plus a notification feed.
package server

import (
	"log/slog"

	"github.com/crewline/pulse/internal/engine"
	"github.com/crewline/pulse/internal/store"
)

// Server handles the HTTP API. All state lives in the engine and the
// store; the server itself is stateless.
type Server struct {
	engine *engine.Engine
	store  store.Store
	logger *slog.Logger
}

// New returns a Server over the given engine and store.
func New(e *engine.Engine, s store.Store, logger *slog.Logger) *Server {
	return &Server{engine: e, store: s, logger: logger}
}

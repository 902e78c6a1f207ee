// Package server exposes the tempo HTTP API over the persistence layer.
package server

import (
	"context"
	"log/slog"

	"github.com/alfredjeanlab/tempo/internal/events"
	"github.com/alfredjeanlab/tempo/internal/store"
)

// TempoServer serves the HTTP API backed by the given store and publisher.
type TempoServer struct {
	store     store.Store
	publisher events.Publisher
}

// NewTempoServer returns a new TempoServer backed by the given store and publisher.
func NewTempoServer(s store.Store, p events.Publisher) *TempoServer {
	return &TempoServer{store: s, publisher: p}
}

// publish emits an event to the event bus. Publishing is best-effort;
// failures are logged but never block or roll back the caller.
func (s *TempoServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// The HTTP layer maps this to a 400 response.
type inputError string

func (e inputError) Error() string { return string(e) }

package services

import (
	"context"
	"time"

	"minter/internal/models"
)

// EventKind tells which payload an Event carries
type EventKind string

const (
	EventUpload EventKind = "upload"
	EventMint   EventKind = "mint"
)

// Event is a side effect of the minter that services may react to.
// Exactly one of Upload and Mint is set, matching Kind.
type Event struct {
	Kind       EventKind
	Upload     *models.Upload
	Mint       *models.MintResult
	OccurredAt time.Time
}

// Service defines the interface that all specialized services must implement
type Service interface {
	// Process handles a single event
	// Returning an error is logged by the orchestrator and does not stop other services
	Process(ctx context.Context, event *Event) error

	// Name returns the service name for logging
	Name() string
}

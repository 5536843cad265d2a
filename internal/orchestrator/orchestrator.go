package orchestrator

import (
	"context"
	"log/slog"
	"time"

	"minter/internal/models"
	"minter/internal/services"
)

// recordTimeout bounds the side effects of one event, independently of the caller's deadline
const recordTimeout = 5 * time.Second

// Orchestrator coordinates multiple services reacting to minter events
type Orchestrator struct {
	services []services.Service
}

// New creates a new Orchestrator with the given services
func New(services []services.Service) *Orchestrator {
	return &Orchestrator{
		services: services,
	}
}

// ProcessEvent runs an event through all registered services
func (o *Orchestrator) ProcessEvent(ctx context.Context, event *services.Event) error {
	slog.Debug("Orchestrator: Processing event",
		"kind", event.Kind,
		"services_count", len(o.services),
	)

	// Execute each service in order
	for _, service := range o.services {
		if err := service.Process(ctx, event); err != nil {
			slog.Error("Service processing failed",
				"service", service.Name(),
				"kind", event.Kind,
				"error", err,
			)
			// Continue processing with other services even if one fails
		}
	}

	return nil
}

// RecordUpload publishes an upload event
func (o *Orchestrator) RecordUpload(ctx context.Context, upload *models.Upload) {
	o.record(ctx, &services.Event{Kind: services.EventUpload, Upload: upload})
}

// RecordMint publishes a mint event
func (o *Orchestrator) RecordMint(ctx context.Context, result *models.MintResult) {
	o.record(ctx, &services.Event{Kind: services.EventMint, Mint: result})
}

func (o *Orchestrator) record(ctx context.Context, event *services.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	event.OccurredAt = time.Now().UTC()
	o.ProcessEvent(ctx, event)
}

// Services returns the list of registered services (for inspection/testing)
func (o *Orchestrator) Services() []services.Service {
	return o.services
}

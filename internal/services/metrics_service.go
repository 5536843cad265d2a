package services

import (
	"context"

	"minter/internal/metrics"
	"minter/internal/models"
)

// MetricsService turns events into Prometheus counters
type MetricsService struct{}

// NewMetricsService creates a new MetricsService instance
func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// Process updates the counters for the event
func (s *MetricsService) Process(ctx context.Context, event *Event) error {
	switch event.Kind {
	case EventUpload:
		if event.Upload != nil {
			metrics.UploadedBytes.WithLabelValues(string(event.Upload.Kind)).Add(float64(event.Upload.Size))
		}
	case EventMint:
		if event.Mint != nil {
			metrics.MintsTotal.WithLabelValues(string(event.Mint.Status)).Inc()
			if event.Mint.Status != models.MintSucceeded {
				metrics.ErrorsTotal.WithLabelValues("mint").Inc()
			}
		}
	}
	return nil
}

// Name returns the service name
func (s *MetricsService) Name() string {
	return "MetricsService"
}

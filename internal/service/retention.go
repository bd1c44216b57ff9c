package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/repository"

	"github.com/google/uuid"
)

const defaultRetentionAge = 24 * time.Hour

// RetentionService expires uploads past their session lifetime. Parsed
// curve data can be large; without the sweep the database grows without
// bound under abandoned sessions.
type RetentionService struct {
	fileRepo  repository.Files
	eventRepo repository.Events
	maxAge    time.Duration
}

func NewRetentionService(fileRepo repository.Files, eventRepo repository.Events, maxAge time.Duration) *RetentionService {
	if maxAge <= 0 {
		maxAge = defaultRetentionAge
	}
	return &RetentionService{
		fileRepo:  fileRepo,
		eventRepo: eventRepo,
		maxAge:    maxAge,
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *RetentionService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.sweep(ctx, now)
		}
	}
}

// sweep removes everything uploaded before now-maxAge and logs each
// removal. Repository errors are swallowed; the next tick retries.
func (s *RetentionService) sweep(ctx context.Context, now time.Time) {
	cutoff := now.UTC().Add(-s.maxAge)
	removed, err := s.fileRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return
	}
	for _, f := range removed {
		_ = s.eventRepo.Append(ctx, models.ActivityEvent{
			EventID:     uuid.NewString(),
			OccurredAt:  now.UTC(),
			Type:        EventDelete,
			Description: fmt.Sprintf("Expired %q after retention window", f.Name),
			Metadata: map[string]any{
				"file_id":     f.ID,
				"uploaded_at": f.UploadedAt,
			},
		})
	}
}

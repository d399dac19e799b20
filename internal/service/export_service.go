package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/metrics"
	"github.com/wodtracker/wodtracker/internal/repository"
	"github.com/wodtracker/wodtracker/internal/storage"
)

//go:generate mockgen -destination=storage_mocks_test.go -package=service_test github.com/wodtracker/wodtracker/internal/storage ArchiveStorage

const exportKeyPrefix = "exports/workouts-"

// ExportResult describes a stored history export.
type ExportResult struct {
	Key   string
	Count int
	URL   string
}

type ExportService interface {
	// Export writes the full workout history as a JSON array and returns a download link.
	Export(ctx context.Context, now time.Time) (*ExportResult, error)
}

type exportService struct {
	workoutRepo repository.WorkoutRepository
	archive     storage.ArchiveStorage
	location    *time.Location
	metrics     *metrics.Manager
}

func NewExportService(
	workoutRepo repository.WorkoutRepository,
	archive storage.ArchiveStorage,
	loc *time.Location,
	metricsManager *metrics.Manager,
) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{
		workoutRepo: workoutRepo,
		archive:     archive,
		location:    loc,
		metrics:     metricsManager,
	}
}

// ExportKey returns the object key of the export taken at now.
func ExportKey(now time.Time, loc *time.Location) string {
	return exportKeyPrefix + domain.DateOf(now, loc).String() + ".json"
}

func (s *exportService) Export(ctx context.Context, now time.Time) (*ExportResult, error) {
	workouts, err := s.workoutRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	if workouts == nil {
		workouts = []domain.Workout{}
	}

	body, err := json.Marshal(workouts)
	if err != nil {
		return nil, fmt.Errorf("marshal workouts: %w", err)
	}

	key := ExportKey(now, s.location)
	if err := s.archive.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, err
	}

	url, err := s.archive.GeneratePresignedDownloadURL(ctx, key, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CounterExports.Inc()
	}
	log.Infof("exported %d workouts to %s", len(workouts), key)

	return &ExportResult{Key: key, Count: len(workouts), URL: url}, nil
}

package repository

import (
	"context"

	"github.com/wodtracker/wodtracker/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound      = RepositoryError("not found")
	ErrDuplicateDate = RepositoryError("a workout is already scheduled for this date")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRepository defines the interface for interacting with workout data.
// Listing methods order results by scheduled date descending, then by id descending.
type WorkoutRepository interface {
	// FindByDate returns the workout scheduled on date, or ErrNotFound.
	FindByDate(ctx context.Context, date domain.Date) (*domain.Workout, error)
	// FindLatestByType returns the most recently scheduled workout of the type, or ErrNotFound.
	FindLatestByType(ctx context.Context, wodType domain.WodType) (*domain.Workout, error)
	// FindCompletedByType returns all completed workouts of the type.
	FindCompletedByType(ctx context.Context, wodType domain.WodType) ([]domain.Workout, error)
	// Insert stores a new workout. It fails with ErrDuplicateDate when the date is taken.
	Insert(ctx context.Context, workout *domain.Workout) error

	GetByID(ctx context.Context, id string) (*domain.Workout, error)
	UpdateFields(ctx context.Context, id string, patch domain.WorkoutPatch) (*domain.Workout, error)
	ListAll(ctx context.Context) ([]domain.Workout, error)
}

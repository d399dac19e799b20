package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/repository"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidWeight   = errors.New("weight must not be negative")
)

// WorkoutUpdate carries the client-editable fields of a workout. Nil members are kept.
type WorkoutUpdate struct {
	Weights        [domain.ExerciseSlots]*decimal.Decimal
	IncreaseWeight [domain.ExerciseSlots]*bool
}

type WorkoutService interface {
	GetWorkout(ctx context.Context, id string) (*domain.Workout, error)
	// CompleteWorkout applies update and marks the workout completed now. Completion is
	// always set by the server; clients cannot clear it.
	CompleteWorkout(ctx context.Context, id string, update WorkoutUpdate) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
}

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	location    *time.Location
	now         func() time.Time
}

// NewWorkoutService creates the service behind the workout API. Completion timestamps
// and returned times are expressed in loc; now defaults to time.Now.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, loc *time.Location, now func() time.Time) WorkoutService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &workoutService{
		workoutRepo: workoutRepo,
		location:    loc,
		now:         now,
	}
}

func (s *workoutService) GetWorkout(ctx context.Context, id string) (*domain.Workout, error) {
	w, err := s.workoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout %s: %w", id, err)
	}
	return s.localize(w), nil
}

func (s *workoutService) CompleteWorkout(ctx context.Context, id string, update WorkoutUpdate) (*domain.Workout, error) {
	for _, weight := range update.Weights {
		if weight != nil && weight.IsNegative() {
			return nil, ErrInvalidWeight
		}
	}

	completed := true
	completedAt := s.now().In(s.location)
	patch := domain.WorkoutPatch{
		Weights:        update.Weights,
		IncreaseWeight: update.IncreaseWeight,
		Completed:      &completed,
		CompletedAt:    &completedAt,
	}

	w, err := s.workoutRepo.UpdateFields(ctx, id, patch)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("update workout %s: %w", id, err)
	}
	return s.localize(w), nil
}

func (s *workoutService) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	workouts, err := s.workoutRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	for i := range workouts {
		s.localize(&workouts[i])
	}
	return workouts, nil
}

// localize expresses the completion time in the service's zone; stores may hand back UTC.
func (s *workoutService) localize(w *domain.Workout) *domain.Workout {
	if w.CompletedAt != nil {
		local := w.CompletedAt.In(s.location)
		w.CompletedAt = &local
	}
	return w
}

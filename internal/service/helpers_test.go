package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/repository/memory"
)

// faultyRepo wraps the memory store, counts inserts and fails chosen calls.
type faultyRepo struct {
	*memory.WorkoutRepository

	findByDateErr    error
	findLatestErr    error
	findCompletedErr error
	insertErr        error
	updateErr        error
	listErr          error

	inserts int
}

func newRepo(seed ...domain.Workout) *faultyRepo {
	return &faultyRepo{WorkoutRepository: memory.NewWorkoutRepository(seed...)}
}

func (r *faultyRepo) FindByDate(ctx context.Context, date domain.Date) (*domain.Workout, error) {
	if r.findByDateErr != nil {
		return nil, r.findByDateErr
	}
	return r.WorkoutRepository.FindByDate(ctx, date)
}

func (r *faultyRepo) FindLatestByType(ctx context.Context, wodType domain.WodType) (*domain.Workout, error) {
	if r.findLatestErr != nil {
		return nil, r.findLatestErr
	}
	return r.WorkoutRepository.FindLatestByType(ctx, wodType)
}

func (r *faultyRepo) FindCompletedByType(ctx context.Context, wodType domain.WodType) ([]domain.Workout, error) {
	if r.findCompletedErr != nil {
		return nil, r.findCompletedErr
	}
	return r.WorkoutRepository.FindCompletedByType(ctx, wodType)
}

func (r *faultyRepo) Insert(ctx context.Context, w *domain.Workout) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	if err := r.WorkoutRepository.Insert(ctx, w); err != nil {
		return err
	}
	r.inserts++
	return nil
}

func (r *faultyRepo) UpdateFields(ctx context.Context, id string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	return r.WorkoutRepository.UpdateFields(ctx, id, patch)
}

func (r *faultyRepo) ListAll(ctx context.Context) ([]domain.Workout, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	return r.WorkoutRepository.ListAll(ctx)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func weights(a, b, c string) [domain.ExerciseSlots]decimal.Decimal {
	return [domain.ExerciseSlots]decimal.Decimal{dec(a), dec(b), dec(c)}
}

func assertWeights(t *testing.T, want, got [domain.ExerciseSlots]decimal.Decimal) {
	t.Helper()
	for i := range want {
		if !want[i].Equal(got[i]) {
			t.Errorf("weight %d = %s, want %s", i+1, got[i], want[i])
		}
	}
}

func completedWorkout(id string, date domain.Date, wodType domain.WodType, w [domain.ExerciseSlots]decimal.Decimal, increase [domain.ExerciseSlots]bool) domain.Workout {
	return domain.Workout{
		ID:             id,
		ScheduledDate:  date,
		WodType:        wodType,
		Weights:        w,
		IncreaseWeight: increase,
		Completed:      true,
	}
}

var allIncrease = [domain.ExerciseSlots]bool{true, true, true}

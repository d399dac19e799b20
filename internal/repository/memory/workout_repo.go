// Package memory keeps workouts in process memory. It backs tests and the "memory"
// database driver used for local runs without MongoDB.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/repository"
)

type WorkoutRepository struct {
	mu       sync.RWMutex
	workouts map[string]domain.Workout
}

// NewWorkoutRepository returns an empty store seeded with the given workouts.
func NewWorkoutRepository(seed ...domain.Workout) *WorkoutRepository {
	r := &WorkoutRepository{
		workouts: make(map[string]domain.Workout, len(seed)),
	}
	for _, w := range seed {
		r.workouts[w.ID] = clone(w)
	}
	return r
}

var _ repository.WorkoutRepository = (*WorkoutRepository)(nil)

func (r *WorkoutRepository) FindByDate(_ context.Context, date domain.Date) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.filter(func(w domain.Workout) bool { return w.ScheduledDate == date })
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return &matches[0], nil
}

func (r *WorkoutRepository) FindLatestByType(_ context.Context, wodType domain.WodType) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := r.filter(func(w domain.Workout) bool { return w.WodType == wodType })
	if len(matches) == 0 {
		return nil, repository.ErrNotFound
	}
	return &matches[0], nil
}

func (r *WorkoutRepository) FindCompletedByType(_ context.Context, wodType domain.WodType) ([]domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(w domain.Workout) bool {
		return w.WodType == wodType && w.Completed
	}), nil
}

func (r *WorkoutRepository) Insert(_ context.Context, workout *domain.Workout) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.workouts {
		if w.ScheduledDate == workout.ScheduledDate {
			return repository.ErrDuplicateDate
		}
	}
	r.workouts[workout.ID] = clone(*workout)
	return nil
}

func (r *WorkoutRepository) GetByID(_ context.Context, id string) (*domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	w = clone(w)
	return &w, nil
}

func (r *WorkoutRepository) UpdateFields(_ context.Context, id string, patch domain.WorkoutPatch) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(&w)
	r.workouts[id] = w

	updated := clone(w)
	return &updated, nil
}

func (r *WorkoutRepository) ListAll(_ context.Context) ([]domain.Workout, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.filter(func(domain.Workout) bool { return true }), nil
}

// filter returns copies of the matching workouts, newest first. Callers hold the lock.
func (r *WorkoutRepository) filter(keep func(domain.Workout) bool) []domain.Workout {
	out := make([]domain.Workout, 0, len(r.workouts))
	for _, w := range r.workouts {
		if keep(w) {
			out = append(out, clone(w))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScheduledDate != out[j].ScheduledDate {
			return out[i].ScheduledDate > out[j].ScheduledDate
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func clone(w domain.Workout) domain.Workout {
	if w.CompletedAt != nil {
		completedAt := *w.CompletedAt
		w.CompletedAt = &completedAt
	}
	return w
}

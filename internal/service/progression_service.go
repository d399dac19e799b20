package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/metrics"
	"github.com/wodtracker/wodtracker/internal/notifier"
	"github.com/wodtracker/wodtracker/internal/repository"
)

//go:generate mockgen -destination=mocks_test.go -package=service_test github.com/wodtracker/wodtracker/internal/notifier Notifier

var (
	// WeightIncrement is added to a slot after a completed workout of the same type.
	WeightIncrement = decimal.RequireFromString("2.5")
	// BaselineWeight is the starting load of a slot with no progression history.
	BaselineWeight = decimal.RequireFromString("20.0")
)

type ProgressionService interface {
	// CreateNextWorkout decides today's workout: nothing when one is already scheduled,
	// the pending workout again when the last one was not completed, otherwise a new
	// workout of the other type with progressed weights.
	CreateNextWorkout(ctx context.Context, today domain.Date) (*domain.Outcome, error)
}

type progressionService struct {
	workoutRepo repository.WorkoutRepository
	notifier    notifier.Notifier
	frontURL    string
	metrics     *metrics.Manager
}

// NewProgressionService creates the workout progression engine. metricsManager may be nil.
func NewProgressionService(
	workoutRepo repository.WorkoutRepository,
	n notifier.Notifier,
	frontURL string,
	metricsManager *metrics.Manager,
) ProgressionService {
	return &progressionService{
		workoutRepo: workoutRepo,
		notifier:    n,
		frontURL:    frontURL,
		metrics:     metricsManager,
	}
}

func (s *progressionService) CreateNextWorkout(ctx context.Context, today domain.Date) (*domain.Outcome, error) {
	existing, err := s.workoutRepo.FindByDate(ctx, today)
	switch {
	case err == nil:
		log.Infof("workout %s already scheduled for %s", existing.ID, today)
		return s.done(&domain.Outcome{Kind: domain.OutcomeAlreadyExists, Workout: existing}), nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("find workout for %s: %w", today, err)
	}

	last, err := s.lastWorkout(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &domain.Outcome{Kind: domain.OutcomeRepeated, Workout: last}
	if last == nil || last.Completed {
		next, err := s.nextWorkout(ctx, today, last)
		if err != nil {
			return nil, err
		}
		if err := s.workoutRepo.Insert(ctx, next); err != nil {
			if errors.Is(err, repository.ErrDuplicateDate) {
				log.Warnf("another run scheduled a workout for %s first", today)
				return s.done(&domain.Outcome{Kind: domain.OutcomeAlreadyExists}), nil
			}
			return nil, fmt.Errorf("insert workout for %s: %w", today, err)
		}
		outcome = &domain.Outcome{Kind: domain.OutcomeCreated, Workout: next}
	}

	s.notify(ctx, outcome.Workout)
	return s.done(outcome), nil
}

// lastWorkout returns the later of the latest A and latest B workouts; on the same date A
// wins. It returns nil when there is no workout at all.
func (s *progressionService) lastWorkout(ctx context.Context) (*domain.Workout, error) {
	lastA, err := s.latestOfType(ctx, domain.WodTypeA)
	if err != nil {
		return nil, err
	}
	lastB, err := s.latestOfType(ctx, domain.WodTypeB)
	if err != nil {
		return nil, err
	}

	switch {
	case lastA == nil:
		return lastB, nil
	case lastB == nil:
		return lastA, nil
	case lastB.ScheduledDate.After(lastA.ScheduledDate):
		return lastB, nil
	default:
		return lastA, nil
	}
}

func (s *progressionService) latestOfType(ctx context.Context, wodType domain.WodType) (*domain.Workout, error) {
	w, err := s.workoutRepo.FindLatestByType(ctx, wodType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find latest %s workout: %w", wodType, err)
	}
	return w, nil
}

func (s *progressionService) nextWorkout(ctx context.Context, today domain.Date, last *domain.Workout) (*domain.Workout, error) {
	wodType := NextWodType(last)

	completed, err := s.workoutRepo.FindCompletedByType(ctx, wodType)
	if err != nil {
		return nil, fmt.Errorf("find completed %s workouts: %w", wodType, err)
	}

	return &domain.Workout{
		ID:             uuid.NewString(),
		ScheduledDate:  today,
		WodType:        wodType,
		Weights:        NextWeights(LatestWorkout(completed)),
		IncreaseWeight: [domain.ExerciseSlots]bool{true, true, true},
		Completed:      false,
	}, nil
}

func (s *progressionService) notify(ctx context.Context, w *domain.Workout) {
	message := notifier.FormatWorkoutMessage(w, s.frontURL)
	if err := s.notifier.Notify(ctx, message); err != nil {
		log.Errorf("notify workout %s: %s", w.ID, err)
		if s.metrics != nil {
			s.metrics.CounterNotificationFailures.Inc()
		}
	}
}

func (s *progressionService) done(outcome *domain.Outcome) *domain.Outcome {
	if s.metrics != nil {
		s.metrics.CounterOutcomes.WithLabelValues(string(outcome.Kind)).Inc()
	}
	return outcome
}

// NextWodType alternates from the last workout's type, starting with A.
func NextWodType(last *domain.Workout) domain.WodType {
	if last == nil {
		return domain.WodTypeA
	}
	return last.WodType.Next()
}

// NextWeights computes the loads for a new workout from the last completed workout of the
// same type. A slot is raised by WeightIncrement only when that workout asked for it;
// every other case starts from BaselineWeight.
func NextWeights(lastSameType *domain.Workout) [domain.ExerciseSlots]decimal.Decimal {
	var weights [domain.ExerciseSlots]decimal.Decimal
	for i := range weights {
		if lastSameType != nil && lastSameType.IncreaseWeight[i] {
			weights[i] = lastSameType.Weights[i].Add(WeightIncrement)
		} else {
			weights[i] = BaselineWeight
		}
	}
	return weights
}

// LatestWorkout returns the workout with the latest scheduled date (highest id on ties),
// or nil for an empty slice.
func LatestWorkout(workouts []domain.Workout) *domain.Workout {
	var latest *domain.Workout
	for i := range workouts {
		w := &workouts[i]
		if latest == nil ||
			w.ScheduledDate.After(latest.ScheduledDate) ||
			(w.ScheduledDate == latest.ScheduledDate && w.ID > latest.ID) {
			latest = w
		}
	}
	return latest
}

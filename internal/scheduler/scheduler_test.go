package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/repository/memory"
	"github.com/wodtracker/wodtracker/internal/scheduler"
	"github.com/wodtracker/wodtracker/internal/service"
)

type notifyFunc func(ctx context.Context, message string) error

func (f notifyFunc) Notify(ctx context.Context, message string) error {
	return f(ctx, message)
}

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := scheduler.New("every tuesday", time.UTC, nil, nil)
	assert.ErrorContains(t, err, "parse cron spec")
}

func TestScheduler_NextIsTuesdayOrThursdayMorning(t *testing.T) {
	loc := rome(t)
	s, err := scheduler.New("0 8 * * 2,4", loc, nil, nil)
	require.NoError(t, err)

	// Monday 2024-06-03 12:00 UTC
	next := s.Next(time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC))
	assert.True(t, time.Date(2024, 6, 4, 8, 0, 0, 0, loc).Equal(next), "next run %s", next)

	next = s.Next(next)
	assert.True(t, time.Date(2024, 6, 6, 8, 0, 0, 0, loc).Equal(next), "next run %s", next)
}

func TestScheduler_RunOnceUsesCivilDateOfZone(t *testing.T) {
	loc := rome(t)
	repo := memory.NewWorkoutRepository()
	var messages []string
	engine := service.NewProgressionService(repo, notifyFunc(func(_ context.Context, m string) error {
		messages = append(messages, m)
		return nil
	}), "https://wod.example.com", nil)

	// 22:30 UTC on June 3rd is already June 4th in Rome.
	now := func() time.Time { return time.Date(2024, 6, 3, 22, 30, 0, 0, time.UTC) }
	s, err := scheduler.New("0 8 * * 2,4", loc, engine, now)
	require.NoError(t, err)
	assert.Equal(t, domain.Date("2024-06-04"), s.Today())

	outcome, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeCreated, outcome.Kind)
	assert.Equal(t, domain.Date("2024-06-04"), outcome.Workout.ScheduledDate)
	assert.Len(t, messages, 1)

	outcome, err = s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAlreadyExists, outcome.Kind)
	assert.Len(t, messages, 1)
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := scheduler.New("0 8 * * 2,4", time.UTC, nil, nil)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

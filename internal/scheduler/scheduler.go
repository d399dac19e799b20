package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/service"
)

// runTimeout bounds a single scheduled run.
const runTimeout = time.Minute

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Scheduler triggers the progression engine on a cron schedule evaluated in a fixed zone.
type Scheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	engine   service.ProgressionService
	location *time.Location
	now      func() time.Time
}

// New parses spec and prepares the job. now defaults to time.Now.
func New(spec string, loc *time.Location, engine service.ProgressionService, now func() time.Time) (*Scheduler, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}

	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithParser(cronParser)),
		schedule: schedule,
		engine:   engine,
		location: loc,
		now:      now,
	}
	s.cron.Schedule(schedule, cron.FuncJob(s.run))
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Infof("workout scheduler started, next run at %s", s.Next(s.now()))
}

// Stop prevents new runs and waits for a running one to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the first fire time after from, in the scheduler's zone.
func (s *Scheduler) Next(from time.Time) time.Time {
	return s.schedule.Next(from.In(s.location))
}

// Today returns the current civil date in the scheduler's zone.
func (s *Scheduler) Today() domain.Date {
	return domain.DateOf(s.now(), s.location)
}

// RunOnce creates the next workout for today.
func (s *Scheduler) RunOnce(ctx context.Context) (*domain.Outcome, error) {
	return s.engine.CreateNextWorkout(ctx, s.Today())
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	outcome, err := s.RunOnce(ctx)
	if err != nil {
		log.Errorf("scheduled workout run failed: %s", err)
		return
	}
	log.WithFields(log.Fields{
		"outcome":    outcome.Kind,
		"workout_id": outcome.WorkoutID(),
	}).Info("scheduled workout run finished")
}

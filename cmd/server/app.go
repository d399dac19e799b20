package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/wodtracker/wodtracker/internal/config"
	"github.com/wodtracker/wodtracker/internal/logging"
	"github.com/wodtracker/wodtracker/internal/metrics"
	"github.com/wodtracker/wodtracker/internal/notifier"
	"github.com/wodtracker/wodtracker/internal/repository"
	"github.com/wodtracker/wodtracker/internal/repository/memory"
	"github.com/wodtracker/wodtracker/internal/repository/mongo"
	"github.com/wodtracker/wodtracker/internal/scheduler"
	"github.com/wodtracker/wodtracker/internal/service"
)

// indexTimeout bounds index creation at startup.
const indexTimeout = time.Minute

// app holds the dependencies shared by every command.
type app struct {
	cfg         config.Config
	location    *time.Location
	workoutRepo repository.WorkoutRepository
	metrics     *metrics.Manager
	registry    *prometheus.Registry
	close       func()
}

func newApp(ctx context.Context, configPath string) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.SetupParams{Level: cfg.Log.Level, FormatJSON: cfg.Log.JSON})
	log.Infoln("configuration loaded")

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		location: loc,
		registry: prometheus.NewRegistry(),
		close:    func() {},
	}
	a.metrics = metrics.NewManager("wodtracker", "server", a.registry)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Warnln("using in-memory workout store, data is lost on exit")
		a.workoutRepo = memory.NewWorkoutRepository()
	default:
		client, err := mongo.ConnectDB(cfg.Database.URI)
		if err != nil {
			return nil, err
		}
		a.close = func() {
			log.Infoln("disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("failed to disconnect MongoDB: %s", err)
			}
		}

		db := client.Database(cfg.Database.Name)
		indexCtx, cancel := context.WithTimeout(ctx, indexTimeout)
		defer cancel()
		if err := mongo.EnsureWorkoutIndexes(indexCtx, db.Collection(mongo.WorkoutCollectionName)); err != nil {
			a.close()
			return nil, err
		}

		a.workoutRepo = mongo.NewMongoWorkoutRepository(db)
		log.Infof("connected to MongoDB database %s", cfg.Database.Name)
	}

	return a, nil
}

func (a *app) progressionService() service.ProgressionService {
	if a.cfg.Notification.Endpoint == "" {
		log.Warnln("notification endpoint is not configured, notifications will fail")
	}
	n := notifier.NewHTTPNotifier(a.cfg.Notification.Endpoint, a.cfg.Notification.Timeout)
	return service.NewProgressionService(a.workoutRepo, n, a.cfg.Front.URL, a.metrics)
}

func (a *app) scheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.cfg.Schedule.Cron, a.location, a.progressionService(), nil)
}

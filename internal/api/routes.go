package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wodtracker/wodtracker/internal/metrics"
	"github.com/wodtracker/wodtracker/internal/service"
)

// SetupRoutes registers the workout API. gatherer may be nil to skip /metrics.
func SetupRoutes(
	router *gin.Engine,
	workoutService service.WorkoutService,
	metricsManager *metrics.Manager,
	gatherer prometheus.Gatherer,
) {
	workoutHandler := NewWorkoutHandler(workoutService)

	router.Use(RequestLogMiddleware(metricsManager))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(CORSMiddleware())
	{
		workoutGroup := apiV1.Group("/workouts")
		{
			// GET /api/v1/workouts
			workoutGroup.GET("", workoutHandler.ListWorkouts)
			// GET /api/v1/workouts/{id}
			workoutGroup.GET("/:id", workoutHandler.GetWorkout)
			// PUT /api/v1/workouts/{id}
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.OPTIONS("/:id", func(c *gin.Context) {})
		}
	}
}

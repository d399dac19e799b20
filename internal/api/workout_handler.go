// internal/api/workout_handler.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/wodtracker/wodtracker/internal/domain"
	"github.com/wodtracker/wodtracker/internal/service"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
	}
}

// WorkoutUpdateRequest is the PUT payload. Every field is optional; completed and
// completed_at are accepted for compatibility but the server always sets them.
type WorkoutUpdateRequest struct {
	IncreaseWeight1 *bool            `json:"increase_weight1"`
	IncreaseWeight2 *bool            `json:"increase_weight2"`
	IncreaseWeight3 *bool            `json:"increase_weight3"`
	Exercise1Weight *decimal.Decimal `json:"exercise1_weight"`
	Exercise2Weight *decimal.Decimal `json:"exercise2_weight"`
	Exercise3Weight *decimal.Decimal `json:"exercise3_weight"`
	Completed       *bool            `json:"completed"`
	CompletedAt     json.RawMessage  `json:"completed_at"`
}

// ToUpdate keeps only the client-editable fields.
func (r WorkoutUpdateRequest) ToUpdate() service.WorkoutUpdate {
	return service.WorkoutUpdate{
		Weights:        [domain.ExerciseSlots]*decimal.Decimal{r.Exercise1Weight, r.Exercise2Weight, r.Exercise3Weight},
		IncreaseWeight: [domain.ExerciseSlots]*bool{r.IncreaseWeight1, r.IncreaseWeight2, r.IncreaseWeight3},
	}
}

// GetWorkout godoc
// @Summary Get a workout
// @Produce json
// @Param id path string true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id := c.Param("id")

	workout, err := h.workoutService.GetWorkout(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNotFound) {
			abortWithError(c, http.StatusNotFound, "Workout not found")
			return
		}
		log.Errorf("get workout %s: %s", id, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workout.")
		return
	}

	c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Update a workout and mark it completed
// @Description Applies the optional weight and increase flags and stamps completion.
// @Accept json
// @Produce json
// @Param id path string true "Workout ID"
// @Param update body WorkoutUpdateRequest true "Fields to update"
// @Success 200 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id := c.Param("id")

	var req WorkoutUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	workout, err := h.workoutService.CompleteWorkout(c.Request.Context(), id, req.ToUpdate())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound):
			abortWithError(c, http.StatusNotFound, "Workout not found")
		case errors.Is(err, service.ErrInvalidWeight):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			log.Errorf("update workout %s: %s", id, err)
			abortWithError(c, http.StatusInternalServerError, "Failed to update workout.")
		}
		return
	}

	c.JSON(http.StatusOK, workout)
}

// ListWorkouts godoc
// @Summary List all workouts, newest first
// @Produce json
// @Success 200 {array} domain.Workout
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		log.Errorf("list workouts: %s", err)
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve workouts.")
		return
	}

	if workouts == nil {
		c.JSON(http.StatusOK, []domain.Workout{}) // Return empty JSON array, not null
		return
	}
	c.JSON(http.StatusOK, workouts)
}

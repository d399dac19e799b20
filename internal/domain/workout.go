package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExerciseSlots is the number of tracked exercises in every workout template.
const ExerciseSlots = 3

// WodType selects which exercise template a workout uses.
type WodType string

const (
	WodTypeA WodType = "A"
	WodTypeB WodType = "B"
)

func (t WodType) IsValid() bool {
	return t == WodTypeA || t == WodTypeB
}

// Next returns the type that follows t in the A/B rotation.
func (t WodType) Next() WodType {
	if t == WodTypeA {
		return WodTypeB
	}
	return WodTypeA
}

// ExerciseNames returns the display names of the three slots for the type.
func (t WodType) ExerciseNames() [ExerciseSlots]string {
	if t == WodTypeA {
		return [ExerciseSlots]string{"SQUAT", "BENCH PRESS", "ROW"}
	}
	return [ExerciseSlots]string{"SQUAT", "MILITARY PRESS", "DEADLIFT"}
}

// Workout is a single scheduled session. Weights and IncreaseWeight are indexed by
// exercise slot (0-based); on the wire they are flattened to exercise1_weight etc.
type Workout struct {
	ID             string
	ScheduledDate  Date
	WodType        WodType
	Weights        [ExerciseSlots]decimal.Decimal
	IncreaseWeight [ExerciseSlots]bool
	Completed      bool
	CompletedAt    *time.Time
}

type workoutJSON struct {
	ID              string          `json:"id"`
	ScheduledDate   Date            `json:"scheduled_date"`
	WodType         WodType         `json:"wod_type"`
	Exercise1Weight decimal.Decimal `json:"exercise1_weight"`
	Exercise2Weight decimal.Decimal `json:"exercise2_weight"`
	Exercise3Weight decimal.Decimal `json:"exercise3_weight"`
	IncreaseWeight1 bool            `json:"increase_weight1"`
	IncreaseWeight2 bool            `json:"increase_weight2"`
	IncreaseWeight3 bool            `json:"increase_weight3"`
	Completed       bool            `json:"completed"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
}

func (w Workout) MarshalJSON() ([]byte, error) {
	return json.Marshal(workoutJSON{
		ID:              w.ID,
		ScheduledDate:   w.ScheduledDate,
		WodType:         w.WodType,
		Exercise1Weight: w.Weights[0],
		Exercise2Weight: w.Weights[1],
		Exercise3Weight: w.Weights[2],
		IncreaseWeight1: w.IncreaseWeight[0],
		IncreaseWeight2: w.IncreaseWeight[1],
		IncreaseWeight3: w.IncreaseWeight[2],
		Completed:       w.Completed,
		CompletedAt:     w.CompletedAt,
	})
}

func (w *Workout) UnmarshalJSON(data []byte) error {
	var raw workoutJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Workout{
		ID:            raw.ID,
		ScheduledDate: raw.ScheduledDate,
		WodType:       raw.WodType,
		Weights:       [ExerciseSlots]decimal.Decimal{raw.Exercise1Weight, raw.Exercise2Weight, raw.Exercise3Weight},
		IncreaseWeight: [ExerciseSlots]bool{
			raw.IncreaseWeight1, raw.IncreaseWeight2, raw.IncreaseWeight3,
		},
		Completed:   raw.Completed,
		CompletedAt: raw.CompletedAt,
	}
	return nil
}

// WorkoutPatch lists the fields a partial update may touch. Nil members are left as they are.
type WorkoutPatch struct {
	Weights        [ExerciseSlots]*decimal.Decimal
	IncreaseWeight [ExerciseSlots]*bool
	Completed      *bool
	CompletedAt    *time.Time
}

// IsEmpty reports whether the patch carries no field at all.
func (p WorkoutPatch) IsEmpty() bool {
	for i := 0; i < ExerciseSlots; i++ {
		if p.Weights[i] != nil || p.IncreaseWeight[i] != nil {
			return false
		}
	}
	return p.Completed == nil && p.CompletedAt == nil
}

// Apply copies the present patch fields onto w.
func (p WorkoutPatch) Apply(w *Workout) {
	for i := 0; i < ExerciseSlots; i++ {
		if p.Weights[i] != nil {
			w.Weights[i] = *p.Weights[i]
		}
		if p.IncreaseWeight[i] != nil {
			w.IncreaseWeight[i] = *p.IncreaseWeight[i]
		}
	}
	if p.Completed != nil {
		w.Completed = *p.Completed
	}
	if p.CompletedAt != nil {
		completedAt := *p.CompletedAt
		w.CompletedAt = &completedAt
	}
}

// WeightFieldName returns the storage/wire key of the weight in slot i (0-based).
func WeightFieldName(i int) string {
	return fmt.Sprintf("exercise%d_weight", i+1)
}

// IncreaseFieldName returns the storage/wire key of the increase flag in slot i (0-based).
func IncreaseFieldName(i int) string {
	return fmt.Sprintf("increase_weight%d", i+1)
}

package domain

// OutcomeKind tells what a scheduling run did.
type OutcomeKind string

const (
	OutcomeAlreadyExists OutcomeKind = "already_exists"
	OutcomeCreated       OutcomeKind = "created"
	OutcomeRepeated      OutcomeKind = "repeated"
)

// Outcome is the result of one CreateNextWorkout run. Workout is the target workout for
// Created and Repeated, and today's existing workout for AlreadyExists when known.
type Outcome struct {
	Kind    OutcomeKind
	Workout *Workout
}

// WorkoutID returns the id of the target workout, or "" when there is none.
func (o Outcome) WorkoutID() string {
	if o.Workout == nil {
		return ""
	}
	return o.Workout.ID
}

package sessions

import (
	"encoding/json"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

type SetStatus string

const (
	SetPending   SetStatus = "pending"
	SetCompleted SetStatus = "completed"
	SetSkipped   SetStatus = "skipped"
)

// Progress is the derived status of an exercise or a day.
type Progress string

const (
	ProgressPending Progress = "pending"
	ProgressDone    Progress = "done"
)

type Session struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	PlanID          *int       `json:"plan_id"`
	Status          Status     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	Rating          *int       `json:"rating,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	Days            []*Day     `json:"days,omitempty"`

	// ReconciledMinutes is filled on reads, never stored with the session.
	ReconciledMinutes int `json:"reconciled_duration_minutes,omitempty"`
}

type Day struct {
	ID          int         `json:"id"`
	SessionID   int         `json:"session_id"`
	PlanDayName string      `json:"plan_day_name"`
	Order       int         `json:"order"`
	Exercises   []*Exercise `json:"exercises"`
}

type Exercise struct {
	ID               int    `json:"id"`
	SessionDayID     int    `json:"session_day_id"`
	PlanExerciseName string `json:"plan_exercise_name"`
	MuscleGroup      string `json:"muscle_group"`
	Order            int    `json:"order"`
	Sets             []*Set `json:"sets"`
}

type Set struct {
	ID                int        `json:"id"`
	SessionExerciseID int        `json:"session_exercise_id"`
	Order             int        `json:"order"`
	Status            SetStatus  `json:"status"`
	PlanRepsMin       int        `json:"plan_reps_min"`
	PlanRepsMax       int        `json:"plan_reps_max"`
	PlanWeight        float64    `json:"plan_weight"`
	RepsDone          *int       `json:"reps_done"`
	WeightLifted      *float64   `json:"weight_lifted"`
	SettledAt         *time.Time `json:"settled_at,omitempty"`
}

func (s *Session) IsTerminal() bool {
	return s.Status != StatusActive
}

// AllSets walks the tree in day, exercise and set order.
func (s *Session) AllSets() []*Set {
	var sets []*Set
	for _, d := range s.Days {
		for _, e := range d.Exercises {
			sets = append(sets, e.Sets...)
		}
	}
	return sets
}

func (s *Session) PendingSets() int {
	pending := 0
	for _, set := range s.AllSets() {
		if set.Status == SetPending {
			pending++
		}
	}
	return pending
}

func (s *Session) FindSet(id int) *Set {
	for _, set := range s.AllSets() {
		if set.ID == id {
			return set
		}
	}
	return nil
}

// Status is pending while any set of the exercise is pending.
func (e *Exercise) Status() Progress {
	for _, set := range e.Sets {
		if set.Status == SetPending {
			return ProgressPending
		}
	}
	return ProgressDone
}

// Status is pending while any exercise of the day is pending.
func (d *Day) Status() Progress {
	for _, e := range d.Exercises {
		if e.Status() == ProgressPending {
			return ProgressPending
		}
	}
	return ProgressDone
}

func (s *Set) IsTerminal() bool {
	return s.Status != SetPending
}

// derived statuses are computed on every marshal, never stored

func (d *Day) MarshalJSON() ([]byte, error) {
	type day Day
	return json.Marshal(struct {
		*day
		Status Progress `json:"status"`
	}{
		day:    (*day)(d),
		Status: d.Status(),
	})
}

func (e *Exercise) MarshalJSON() ([]byte, error) {
	type exercise Exercise
	return json.Marshal(struct {
		*exercise
		Status Progress `json:"status"`
	}{
		exercise: (*exercise)(e),
		Status:   e.Status(),
	})
}

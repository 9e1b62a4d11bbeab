package plans

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	MaxDays            = 14
	MaxExercisesPerDay = 30
	MaxSetsPerExercise = 50
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrInvalidPlan  = errors.New("invalid plan")
)

// Snapshot is an immutable workout plan produced by the planner.
// Regenerating a plan stores a new snapshot, existing ones are never updated.
type Snapshot struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Name        string    `json:"name"`
	GeneratedAt time.Time `json:"generated_at"`
	Days        []Day     `json:"days"`
}

type Day struct {
	Name      string     `json:"name"`
	Exercises []Exercise `json:"exercises"`
}

type Exercise struct {
	Name        string  `json:"name"`
	MuscleGroup string  `json:"muscle_group"`
	Sets        int     `json:"sets"`
	RepsMin     int     `json:"reps_min"`
	RepsMax     int     `json:"reps_max"`
	Weight      float64 `json:"weight"`
	RestSeconds int     `json:"rest_seconds"`
	Equipment   string  `json:"equipment,omitempty"`
}

func (s *Snapshot) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidPlan)
	}
	if len(s.Days) == 0 {
		return fmt.Errorf("%w: no days", ErrInvalidPlan)
	}
	if len(s.Days) > MaxDays {
		return fmt.Errorf("%w: %d days, max %d", ErrInvalidPlan, len(s.Days), MaxDays)
	}
	for i, d := range s.Days {
		if d.Name == "" {
			return fmt.Errorf("%w: day %d has no name", ErrInvalidPlan, i)
		}
		if len(d.Exercises) > MaxExercisesPerDay {
			return fmt.Errorf("%w: day %d has %d exercises, max %d", ErrInvalidPlan, i, len(d.Exercises), MaxExercisesPerDay)
		}
		for j, e := range d.Exercises {
			if err := e.validate(); err != nil {
				return fmt.Errorf("%w: day %d, exercise %d: %s", ErrInvalidPlan, i, j, err)
			}
		}
	}
	return nil
}

func (e Exercise) validate() error {
	switch {
	case e.Name == "":
		return errors.New("empty name")
	case e.Sets < 0:
		return errors.New("negative set count")
	case e.Sets > MaxSetsPerExercise:
		return fmt.Errorf("%d sets, max %d", e.Sets, MaxSetsPerExercise)
	case e.RepsMin < 0 || e.RepsMax < e.RepsMin:
		return fmt.Errorf("bad rep range [%d, %d]", e.RepsMin, e.RepsMax)
	case math.IsNaN(e.Weight) || math.IsInf(e.Weight, 0) || e.Weight < 0:
		return fmt.Errorf("bad weight %v", e.Weight)
	case e.RestSeconds < 0:
		return errors.New("negative rest seconds")
	}
	return nil
}

// DayAt returns the day under the given index, or false when out of range.
func (s *Snapshot) DayAt(index int) (Day, bool) {
	if index < 0 || index >= len(s.Days) {
		return Day{}, false
	}
	return s.Days[index], true
}

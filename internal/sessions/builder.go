package sessions

import (
	"fmt"
	"time"

	"github.com/2beens/gymsessions/internal/plans"
)

// BuildSession materializes an active session for one plan day.
// Names and prescriptions are copied, so later plan changes do not leak into the session.
// Ids are left at zero, the store assigns them.
func BuildSession(userID int, plan *plans.Snapshot, dayIndex int, now time.Time) (*Session, error) {
	planDay, ok := plan.DayAt(dayIndex)
	if !ok {
		return nil, fmt.Errorf("%w: day index %d out of range [0, %d)", ErrValidation, dayIndex, len(plan.Days))
	}

	if len(planDay.Exercises) > plans.MaxExercisesPerDay {
		return nil, fmt.Errorf("%w: %d exercises, max %d", ErrValidation, len(planDay.Exercises), plans.MaxExercisesPerDay)
	}
	for _, planExercise := range planDay.Exercises {
		if planExercise.Sets < 0 || planExercise.Sets > plans.MaxSetsPerExercise {
			return nil, fmt.Errorf("%w: exercise %q has %d sets, allowed [0, %d]",
				ErrValidation, planExercise.Name, planExercise.Sets, plans.MaxSetsPerExercise)
		}
	}

	planID := plan.ID
	day := &Day{
		PlanDayName: planDay.Name,
		Order:       1,
		Exercises:   make([]*Exercise, 0, len(planDay.Exercises)),
	}
	for i, planExercise := range planDay.Exercises {
		exercise := &Exercise{
			PlanExerciseName: planExercise.Name,
			MuscleGroup:      planExercise.MuscleGroup,
			Order:            i + 1,
			Sets:             make([]*Set, 0, planExercise.Sets),
		}
		for j := 0; j < planExercise.Sets; j++ {
			exercise.Sets = append(exercise.Sets, &Set{
				Order:       j + 1,
				Status:      SetPending,
				PlanRepsMin: planExercise.RepsMin,
				PlanRepsMax: planExercise.RepsMax,
				PlanWeight:  planExercise.Weight,
			})
		}
		day.Exercises = append(day.Exercises, exercise)
	}

	return &Session{
		UserID:    userID,
		PlanID:    &planID,
		Status:    StatusActive,
		StartedAt: now,
		Days:      []*Day{day},
	}, nil
}

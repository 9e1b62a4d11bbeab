package stats

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidPeriod = errors.New("invalid period")

type Period string

const (
	PeriodAllTime   Period = "all_time"
	PeriodLastMonth Period = "last_month"
	PeriodLastWeek  Period = "last_week"
)

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "":
		return PeriodAllTime, nil
	case PeriodAllTime, PeriodLastMonth, PeriodLastWeek:
		return Period(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPeriod, s)
	}
}

// Since returns the lower bound of the period, zero time for all time.
func (p Period) Since(now time.Time) time.Time {
	switch p {
	case PeriodLastMonth:
		return now.AddDate(0, 0, -30)
	case PeriodLastWeek:
		return now.AddDate(0, 0, -7)
	default:
		return time.Time{}
	}
}

// ChartOverallVolume is the progress chart of lifted volume per completion day.
const ChartOverallVolume = "overall_volume"

// UnknownMuscleGroup groups exercises planned without a muscle group.
const UnknownMuscleGroup = "unknown"

// Totals are aggregated over completed sessions and their completed sets only.
type Totals struct {
	Workouts            int
	DurationMinutes     int
	Sets                int
	Reps                int
	VolumeKg            float64
	VolumeByMuscleGroup []MuscleGroupVolume
	DailyVolume         []ProgressPoint
}

type MuscleGroupVolume struct {
	MuscleGroup string  `json:"muscle_group"`
	VolumeKg    float64 `json:"volume_kg"`
}

// ProgressPoint is one chart value, Date is formatted as YYYY-MM-DD (UTC).
type ProgressPoint struct {
	Date    string  `json:"date"`
	ValueKg float64 `json:"value_kg"`
}

type Summary struct {
	Period               Period                     `json:"period"`
	Workouts             int                        `json:"workouts"`
	TotalDurationMinutes int                        `json:"total_duration_minutes"`
	VolumeKg             float64                    `json:"volume_kg"`
	Sets                 int                        `json:"sets"`
	Reps                 int                        `json:"reps"`
	VolumeByMuscleGroup  []MuscleGroupVolume        `json:"volume_by_muscle_group"`
	ProgressCharts       map[string][]ProgressPoint `json:"progress_charts"`
}

func roundKg(v float64) float64 {
	return math.Round(v*100) / 100
}

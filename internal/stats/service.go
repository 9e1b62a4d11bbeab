package stats

import (
	"context"
	"time"

	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=stats_test

type totalsRepo interface {
	Totals(ctx context.Context, userID int, since time.Time) (*Totals, error)
}

type minutesReconciler interface {
	TotalMinutes(ctx context.Context, userID, authoritativeTotal int, since time.Time) (int, error)
}

// Service summarizes finalized sessions of a user.
type Service struct {
	repo       totalsRepo
	reconciler minutesReconciler
	now        func() time.Time
}

func NewService(repo totalsRepo, reconciler minutesReconciler) *Service {
	return &Service{
		repo:       repo,
		reconciler: reconciler,
		now:        time.Now,
	}
}

func (s *Service) Summary(ctx context.Context, userID int, period Period) (_ *Summary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.stats.summary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period", string(period)))

	since := period.Since(s.now())
	totals, err := s.repo.Totals(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	duration := totals.DurationMinutes
	if s.reconciler != nil {
		reconciled, err := s.reconciler.TotalMinutes(ctx, userID, totals.DurationMinutes, since)
		if err != nil {
			log.Warnf("stats: reconcile total duration of user %d: %s", userID, err)
		} else {
			duration = reconciled
		}
	}

	volumeByMuscleGroup := make([]MuscleGroupVolume, 0, len(totals.VolumeByMuscleGroup))
	for _, v := range totals.VolumeByMuscleGroup {
		volumeByMuscleGroup = append(volumeByMuscleGroup, MuscleGroupVolume{
			MuscleGroup: v.MuscleGroup,
			VolumeKg:    roundKg(v.VolumeKg),
		})
	}
	overallVolume := make([]ProgressPoint, 0, len(totals.DailyVolume))
	for _, p := range totals.DailyVolume {
		overallVolume = append(overallVolume, ProgressPoint{
			Date:    p.Date,
			ValueKg: roundKg(p.ValueKg),
		})
	}

	return &Summary{
		Period:               period,
		Workouts:             totals.Workouts,
		TotalDurationMinutes: duration,
		VolumeKg:             roundKg(totals.VolumeKg),
		Sets:                 totals.Sets,
		Reps:                 totals.Reps,
		VolumeByMuscleGroup:  volumeByMuscleGroup,
		ProgressCharts: map[string][]ProgressPoint{
			ChartOverallVolume: overallVolume,
		},
	}, nil
}

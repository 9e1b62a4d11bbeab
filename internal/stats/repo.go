package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Totals aggregates the user's completed sessions finished at or after since.
// Canceled sessions never count, nor do their sets.
func (r *Repo) Totals(ctx context.Context, userID int, since time.Time) (_ *Totals, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.stats.totals")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}

	totals := &Totals{}
	if err := r.db.QueryRow(
		ctx,
		`SELECT count(*), COALESCE(sum(duration_minutes), 0)
			FROM workout_session
			WHERE user_id = $1 AND status = 'completed'
				AND ($2::timestamptz IS NULL OR completed_at >= $2)`,
		userID, sinceArg,
	).Scan(&totals.Workouts, &totals.DurationMinutes); err != nil {
		return nil, fmt.Errorf("aggregate sessions: %w", err)
	}

	if err := r.db.QueryRow(
		ctx,
		`SELECT count(ss.id), COALESCE(sum(ss.reps_done), 0), COALESCE(sum(ss.reps_done * ss.weight_lifted), 0)
			FROM session_set ss
			JOIN session_exercise se ON se.id = ss.session_exercise_id
			JOIN session_day sd ON sd.id = se.session_day_id
			JOIN workout_session ws ON ws.id = sd.session_id
			WHERE ws.user_id = $1 AND ws.status = 'completed' AND ss.status = 'completed'
				AND ($2::timestamptz IS NULL OR ws.completed_at >= $2)`,
		userID, sinceArg,
	).Scan(&totals.Sets, &totals.Reps, &totals.VolumeKg); err != nil {
		return nil, fmt.Errorf("aggregate sets: %w", err)
	}

	if totals.VolumeByMuscleGroup, err = r.volumeByMuscleGroup(ctx, userID, sinceArg); err != nil {
		return nil, err
	}
	if totals.DailyVolume, err = r.dailyVolume(ctx, userID, sinceArg); err != nil {
		return nil, err
	}

	return totals, nil
}

func (r *Repo) volumeByMuscleGroup(ctx context.Context, userID int, since *time.Time) ([]MuscleGroupVolume, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT COALESCE(NULLIF(se.muscle_group, ''), $3) AS muscle_group, sum(ss.reps_done * ss.weight_lifted) AS volume
			FROM session_set ss
			JOIN session_exercise se ON se.id = ss.session_exercise_id
			JOIN session_day sd ON sd.id = se.session_day_id
			JOIN workout_session ws ON ws.id = sd.session_id
			WHERE ws.user_id = $1 AND ws.status = 'completed' AND ss.status = 'completed'
				AND ($2::timestamptz IS NULL OR ws.completed_at >= $2)
			GROUP BY 1
			ORDER BY volume DESC, muscle_group`,
		userID, since, UnknownMuscleGroup,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate muscle groups: %w", err)
	}
	defer rows.Close()

	var volumes []MuscleGroupVolume
	for rows.Next() {
		var v MuscleGroupVolume
		if err := rows.Scan(&v.MuscleGroup, &v.VolumeKg); err != nil {
			return nil, fmt.Errorf("scan muscle group volume: %w", err)
		}
		volumes = append(volumes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("muscle group rows: %w", err)
	}
	return volumes, nil
}

// dailyVolume sums the lifted volume per completion day, sessions without completed sets count as zero.
func (r *Repo) dailyVolume(ctx context.Context, userID int, since *time.Time) ([]ProgressPoint, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT (ws.completed_at AT TIME ZONE 'UTC')::date AS day,
				COALESCE(sum(ss.reps_done * ss.weight_lifted) FILTER (WHERE ss.status = 'completed'), 0)
			FROM workout_session ws
			LEFT JOIN session_day sd ON sd.session_id = ws.id
			LEFT JOIN session_exercise se ON se.session_day_id = sd.id
			LEFT JOIN session_set ss ON ss.session_exercise_id = se.id
			WHERE ws.user_id = $1 AND ws.status = 'completed'
				AND ($2::timestamptz IS NULL OR ws.completed_at >= $2)
			GROUP BY day
			ORDER BY day`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate daily volume: %w", err)
	}
	defer rows.Close()

	var points []ProgressPoint
	for rows.Next() {
		var (
			day    time.Time
			volume float64
		)
		if err := rows.Scan(&day, &volume); err != nil {
			return nil, fmt.Errorf("scan daily volume: %w", err)
		}
		points = append(points, ProgressPoint{Date: day.Format(time.DateOnly), ValueKg: volume})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily volume rows: %w", err)
	}
	return points, nil
}

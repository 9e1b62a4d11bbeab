package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/2beens/gymsessions/internal/telemetry/tracing"
	"github.com/2beens/gymsessions/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var _ Store = (*Repo)(nil)

const (
	oneActiveSessionIndex = "workout_session_one_active_idx"
	sessionColumns        = `id, user_id, plan_id, status, started_at, completed_at, duration_minutes, rating, notes`
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Create(ctx context.Context, session *Session) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer rollback(ctx, tx)

	err = tx.QueryRow(
		ctx,
		`INSERT INTO workout_session (user_id, plan_id, status, started_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
		session.UserID, session.PlanID, session.Status, session.StartedAt,
	).Scan(&session.ID)
	if err != nil {
		if pkg.IsUniqueViolationError(err, oneActiveSessionIndex) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert session: %w", err)
	}
	span.SetAttributes(attribute.Int("session.id", session.ID))

	for _, d := range session.Days {
		d.SessionID = session.ID
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO session_day (session_id, plan_day_name, day_order) VALUES ($1, $2, $3) RETURNING id`,
			d.SessionID, d.PlanDayName, d.Order,
		).Scan(&d.ID); err != nil {
			return nil, fmt.Errorf("insert session day: %w", err)
		}

		for _, e := range d.Exercises {
			e.SessionDayID = d.ID
			if err := tx.QueryRow(
				ctx,
				`INSERT INTO session_exercise (session_day_id, plan_exercise_name, muscle_group, exercise_order)
					VALUES ($1, $2, $3, $4) RETURNING id`,
				e.SessionDayID, e.PlanExerciseName, e.MuscleGroup, e.Order,
			).Scan(&e.ID); err != nil {
				return nil, fmt.Errorf("insert session exercise: %w", err)
			}

			for _, set := range e.Sets {
				set.SessionExerciseID = e.ID
				if err := tx.QueryRow(
					ctx,
					`INSERT INTO session_set (session_exercise_id, set_order, status, plan_reps_min, plan_reps_max, plan_weight)
						VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
					set.SessionExerciseID, set.Order, set.Status, set.PlanRepsMin, set.PlanRepsMax, set.PlanWeight,
				).Scan(&set.ID); err != nil {
					return nil, fmt.Errorf("insert session set: %w", err)
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if pkg.IsUniqueViolationError(err, oneActiveSessionIndex) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("commit: %w", err)
	}

	return session, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	session, err := scanSession(r.db.QueryRow(
		ctx,
		`SELECT `+sessionColumns+` FROM workout_session WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, err
	}

	if session.Days, err = r.loadTree(ctx, session.ID); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *Repo) GetActive(ctx context.Context, userID int) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.getActive")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	session, err := scanSession(r.db.QueryRow(
		ctx,
		`SELECT `+sessionColumns+` FROM workout_session WHERE user_id = $1 AND status = 'active'`,
		userID,
	))
	if err != nil {
		return nil, err
	}

	if session.Days, err = r.loadTree(ctx, session.ID); err != nil {
		return nil, err
	}
	return session, nil
}

func (r *Repo) List(ctx context.Context, userID, page, size int) (_ []*Session, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	if err := r.db.QueryRow(
		ctx,
		`SELECT count(*) FROM workout_session WHERE user_id = $1 AND status <> 'active'`,
		userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sessions: %w", err)
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+sessionColumns+` FROM workout_session
			WHERE user_id = $1 AND status <> 'active'
			ORDER BY started_at DESC, id DESC
			LIMIT $2 OFFSET $3`,
		userID, size, (page-1)*size,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	list := make([]*Session, 0, size)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, session)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list sessions rows: %w", err)
	}

	return list, total, nil
}

func (r *Repo) TransitionSet(ctx context.Context, transition SetTransition) (_ *Set, sessionID int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.transitionSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("set.id", transition.SetID),
		attribute.String("set.to", string(transition.To)),
	)

	// compare-and-set: only a pending set of an active session owned by the user.
	// The session row is share locked, so a concurrent cancel or finish either waits for
	// this transition or is seen by it, never commits in between.
	set := &Set{}
	err = r.db.QueryRow(
		ctx,
		`WITH target AS (
			SELECT ss.id AS set_id, ws.id AS session_id
				FROM session_set ss
				JOIN session_exercise se ON se.id = ss.session_exercise_id
				JOIN session_day sd ON sd.id = se.session_day_id
				JOIN workout_session ws ON ws.id = sd.session_id
				WHERE ss.id = $1
					AND ws.user_id = $2
					AND ws.status = 'active'
					AND ss.status = 'pending'
				FOR SHARE OF ws
		)
		UPDATE session_set ss
			SET status = $3, reps_done = $4, weight_lifted = $5, settled_at = $6
			FROM target
			WHERE ss.id = target.set_id
				AND ss.status = 'pending'
			RETURNING ss.id, ss.session_exercise_id, ss.set_order, ss.status, ss.plan_reps_min, ss.plan_reps_max,
				ss.plan_weight, ss.reps_done, ss.weight_lifted, ss.settled_at, target.session_id`,
		transition.SetID, transition.UserID, transition.To, transition.RepsDone, transition.WeightLifted, transition.At,
	).Scan(
		&set.ID, &set.SessionExerciseID, &set.Order, &set.Status, &set.PlanRepsMin, &set.PlanRepsMax,
		&set.PlanWeight, &set.RepsDone, &set.WeightLifted, &set.SettledAt, &sessionID,
	)
	if err == nil {
		return set, sessionID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, 0, fmt.Errorf("update set: %w", err)
	}

	// nothing updated, find out why
	var setStatus, sessionStatus string
	err = r.db.QueryRow(
		ctx,
		`SELECT ss.status, ws.status FROM session_set ss
			JOIN session_exercise se ON se.id = ss.session_exercise_id
			JOIN session_day sd ON sd.id = se.session_day_id
			JOIN workout_session ws ON ws.id = sd.session_id
			WHERE ss.id = $1 AND ws.user_id = $2`,
		transition.SetID, transition.UserID,
	).Scan(&setStatus, &sessionStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, 0, fmt.Errorf("set %d: %w", transition.SetID, ErrNotFound)
		}
		return nil, 0, fmt.Errorf("probe set: %w", err)
	}
	return nil, 0, fmt.Errorf("set %d is %s, session is %s: %w", transition.SetID, setStatus, sessionStatus, ErrInvalidState)
}

func (r *Repo) CountPending(ctx context.Context, sessionID int) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.countPending")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	var pending int
	if err := r.db.QueryRow(
		ctx,
		`SELECT count(*) FROM session_set ss
			JOIN session_exercise se ON se.id = ss.session_exercise_id
			JOIN session_day sd ON sd.id = se.session_day_id
			WHERE sd.session_id = $1 AND ss.status = 'pending'`,
		sessionID,
	).Scan(&pending); err != nil {
		return 0, fmt.Errorf("count pending sets: %w", err)
	}
	return pending, nil
}

func (r *Repo) Finish(ctx context.Context, sessionID int, skipPending bool, now time.Time) (_ *Session, finished bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.finish")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("session.id", sessionID),
		attribute.Bool("skip.pending", skipPending),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("begin tx: %w", err)
	}
	defer rollback(ctx, tx)

	// the active check makes a second finish a no-op, completed_at is written once
	tag, err := tx.Exec(
		ctx,
		`UPDATE workout_session
			SET status = 'completed',
				completed_at = COALESCE(completed_at, $2),
				duration_minutes = GREATEST(0, floor(extract(epoch FROM (COALESCE(completed_at, $2) - started_at)) / 60))::int
			WHERE id = $1 AND status = 'active'`,
		sessionID, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("finish session: %w", err)
	}
	finished = tag.RowsAffected() > 0

	if finished && skipPending {
		if _, err := tx.Exec(
			ctx,
			`UPDATE session_set ss
				SET status = 'skipped', settled_at = $2
				FROM session_exercise se, session_day sd
				WHERE se.id = ss.session_exercise_id
					AND sd.id = se.session_day_id
					AND sd.session_id = $1
					AND ss.status = 'pending'`,
			sessionID, now,
		); err != nil {
			return nil, false, fmt.Errorf("skip pending sets: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("commit: %w", err)
	}

	session, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}
	return session, finished, nil
}

func (r *Repo) Cancel(ctx context.Context, sessionID int, now time.Time) (_ *Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.cancel")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_session SET status = 'canceled', completed_at = $2 WHERE id = $1 AND status = 'active'`,
		sessionID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("cancel session: %w", err)
	}

	session, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("session %d is %s: %w", sessionID, session.Status, ErrInvalidState)
	}
	return session, nil
}

func (r *Repo) SetFeedback(ctx context.Context, sessionID int, rating *int, notes *string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.setFeedback")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("session.id", sessionID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout_session SET rating = COALESCE($2, rating), notes = COALESCE($3, notes)
			WHERE id = $1 AND status = 'completed'`,
		sessionID, rating, notes,
	)
	if err != nil {
		return fmt.Errorf("set feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("session %d not completed: %w", sessionID, ErrInvalidState)
	}
	return nil
}

func (r *Repo) ListStuck(ctx context.Context, limit int) (_ []int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.sessions.listStuck")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT ws.id FROM workout_session ws
			WHERE ws.status = 'active'
				AND NOT EXISTS (
					SELECT 1 FROM session_set ss
						JOIN session_exercise se ON se.id = ss.session_exercise_id
						JOIN session_day sd ON sd.id = se.session_day_id
						WHERE sd.session_id = ws.id AND ss.status = 'pending'
				)
			ORDER BY ws.id
			LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list stuck sessions: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan stuck session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *Repo) loadTree(ctx context.Context, sessionID int) ([]*Day, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT d.id, d.plan_day_name, d.day_order,
				e.id, e.plan_exercise_name, e.muscle_group, e.exercise_order,
				s.id, s.set_order, s.status, s.plan_reps_min, s.plan_reps_max, s.plan_weight,
				s.reps_done, s.weight_lifted, s.settled_at
			FROM session_day d
			LEFT JOIN session_exercise e ON e.session_day_id = d.id
			LEFT JOIN session_set s ON s.session_exercise_id = e.id
			WHERE d.session_id = $1
			ORDER BY d.day_order, e.exercise_order, s.set_order`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("load session tree: %w", err)
	}
	defer rows.Close()

	var (
		days         []*Day
		lastDay      *Day
		lastExercise *Exercise
	)
	for rows.Next() {
		var (
			dayID, dayOrder           int
			dayName                   string
			exerciseID, exerciseOrder *int
			exerciseName, muscleGroup *string
			setID, setOrder           *int
			setStatus                 *string
			repsMin, repsMax          *int
			planWeight                *float64
			repsDone                  *int
			weightLifted              *float64
			settledAt                 *time.Time
		)
		if err := rows.Scan(
			&dayID, &dayName, &dayOrder,
			&exerciseID, &exerciseName, &muscleGroup, &exerciseOrder,
			&setID, &setOrder, &setStatus, &repsMin, &repsMax, &planWeight,
			&repsDone, &weightLifted, &settledAt,
		); err != nil {
			return nil, fmt.Errorf("scan session tree row: %w", err)
		}

		if lastDay == nil || lastDay.ID != dayID {
			lastDay = &Day{
				ID:          dayID,
				SessionID:   sessionID,
				PlanDayName: dayName,
				Order:       dayOrder,
				Exercises:   []*Exercise{},
			}
			lastExercise = nil
			days = append(days, lastDay)
		}
		if exerciseID == nil {
			continue
		}
		if lastExercise == nil || lastExercise.ID != *exerciseID {
			lastExercise = &Exercise{
				ID:               *exerciseID,
				SessionDayID:     dayID,
				PlanExerciseName: *exerciseName,
				MuscleGroup:      *muscleGroup,
				Order:            *exerciseOrder,
				Sets:             []*Set{},
			}
			lastDay.Exercises = append(lastDay.Exercises, lastExercise)
		}
		if setID == nil {
			continue
		}
		lastExercise.Sets = append(lastExercise.Sets, &Set{
			ID:                *setID,
			SessionExerciseID: *exerciseID,
			Order:             *setOrder,
			Status:            SetStatus(*setStatus),
			PlanRepsMin:       *repsMin,
			PlanRepsMax:       *repsMax,
			PlanWeight:        *planWeight,
			RepsDone:          repsDone,
			WeightLifted:      weightLifted,
			SettledAt:         settledAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session tree rows: %w", err)
	}

	return days, nil
}

func scanSession(row pgx.Row) (*Session, error) {
	session := &Session{}
	err := row.Scan(
		&session.ID, &session.UserID, &session.PlanID, &session.Status, &session.StartedAt,
		&session.CompletedAt, &session.DurationMinutes, &session.Rating, &session.Notes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return session, nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Errorf("rollback tx: %s", err)
	}
}

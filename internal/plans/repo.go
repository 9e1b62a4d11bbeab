package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/2beens/gymsessions/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
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

func (r *Repo) Add(ctx context.Context, snapshot Snapshot) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	daysJson, err := json.Marshal(snapshot.Days)
	if err != nil {
		return nil, fmt.Errorf("marshal days: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_plan (user_id, name, days, generated_at)
			VALUES ($1, $2, $3, COALESCE($4, now()))
			RETURNING id, generated_at;`,
		snapshot.UserID, snapshot.Name, daysJson, nullTime(snapshot),
	).Scan(&snapshot.ID, &snapshot.GeneratedAt)
	if err != nil {
		return nil, fmt.Errorf("insert plan: %w", err)
	}

	span.SetAttributes(attribute.Int("plan.id", snapshot.ID))
	return &snapshot, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, days, generated_at FROM workout_plan WHERE id = $1`,
		id,
	)
	return scanSnapshot(row)
}

// Latest returns the most recently generated plan of the user.
func (r *Repo) Latest(ctx context.Context, userID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.latest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	row := r.db.QueryRow(
		ctx,
		`SELECT id, user_id, name, days, generated_at FROM workout_plan
			WHERE user_id = $1
			ORDER BY generated_at DESC, id DESC
			LIMIT 1`,
		userID,
	)
	return scanSnapshot(row)
}

// Delete removes the user's plan. Sessions started from it keep their tree, their plan_id is nulled.
func (r *Repo) Delete(ctx context.Context, id, userID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("id", id),
		attribute.Int("user.id", userID),
	)

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM workout_plan WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPlanNotFound
	}
	return nil
}

func scanSnapshot(row pgx.Row) (*Snapshot, error) {
	var (
		snapshot Snapshot
		daysJson []byte
	)
	if err := row.Scan(&snapshot.ID, &snapshot.UserID, &snapshot.Name, &daysJson, &snapshot.GeneratedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("scan plan: %w", err)
	}
	if err := json.Unmarshal(daysJson, &snapshot.Days); err != nil {
		return nil, fmt.Errorf("unmarshal plan days: %w", err)
	}
	return &snapshot, nil
}

func nullTime(s Snapshot) any {
	if s.GeneratedAt.IsZero() {
		return nil
	}
	return s.GeneratedAt
}

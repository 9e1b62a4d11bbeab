package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymsessions/internal/telemetry/tracing"
	"github.com/2beens/gymsessions/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	db *pgxpool.Pool
}

func NewUsersRepo(db *pgxpool.Pool) *UsersRepo {
	return &UsersRepo{
		db: db,
	}
}

func (r *UsersRepo) Add(ctx context.Context, username, passwordHash string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	err = r.db.QueryRow(
		ctx,
		`INSERT INTO app_user (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		username, passwordHash,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err, "app_user_username_key") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.users.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	user := &User{}
	err = r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, created_at FROM app_user WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

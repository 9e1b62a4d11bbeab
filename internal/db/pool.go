package db

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	TracingEnabled bool
}

// ConnString builds the postgres URL for the given params, defaulting the user to postgres.
// Credentials are escaped, so passwords may contain any character.
func (p NewDBPoolParams) ConnString() string {
	user := p.DBUser
	if user == "" {
		user = "postgres"
	}
	userInfo := url.User(user)
	if p.DBPassword != "" {
		userInfo = url.UserPassword(user, p.DBPassword)
	}
	connURL := url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   net.JoinHostPort(p.DBHost, p.DBPort),
		Path:   "/" + p.DBName,
	}
	return connURL.String()
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(params.ConnString())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}

// Package main runs the gymsessions MCP server over stdio (for local editor use).
// The same tools are also mounted on the main service at /mcp over HTTP, scoped
// to the logged in user. Over stdio every tool takes a user_id argument.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"os"

	"github.com/2beens/gymsessions/internal/config"
	"github.com/2beens/gymsessions/internal/db"
	sessionsmcp "github.com/2beens/gymsessions/internal/mcp"
	"github.com/2beens/gymsessions/internal/plans"
	"github.com/2beens/gymsessions/internal/sessions"
	"github.com/2beens/gymsessions/internal/stats"
	"github.com/2beens/gymsessions/internal/telemetry/metrics"

	"github.com/go-redis/redis/v8"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	userID := flag.Int("user", 0, "bind all tools to this user id (0 means tools take a user_id argument)")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         os.Getenv("GYMSESSIONS_DB_USER"),
		DBPassword:     os.Getenv("GYMSESSIONS_DB_PASS"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("GYMSESSIONS_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}()

	// the tools only read, the service is used for its ownership checks
	metricsManager := metrics.NewManager("gymsessions", "mcp", nil)
	plansRepo := plans.NewRepo(dbPool)
	durations := sessions.NewDurationReconciler(
		rdb,
		cfg.DurationEstimatesTTL.Duration,
		cfg.DurationEstimatesMaxPerUser,
	)
	sessionsService := sessions.NewService(sessions.ServiceParams{
		Store:          sessions.NewRepo(dbPool),
		Plans:          plansRepo,
		Durations:      durations,
		MetricsManager: metricsManager,
	})

	contextService := sessionsmcp.NewContextService(
		sessionsmcp.NewPoolSchemaRepo(dbPool),
		sessionsService,
		plansRepo,
		stats.NewService(stats.NewRepo(dbPool), durations),
	)
	server := sessionsmcp.NewServer(contextService, *userID)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}

package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/gymsessions/internal/auth"
	"github.com/2beens/gymsessions/internal/config"
	"github.com/2beens/gymsessions/internal/db"
	"github.com/2beens/gymsessions/internal/mcp"
	"github.com/2beens/gymsessions/internal/middleware"
	"github.com/2beens/gymsessions/internal/misc"
	"github.com/2beens/gymsessions/internal/plans"
	"github.com/2beens/gymsessions/internal/sessions"
	"github.com/2beens/gymsessions/internal/stats"
	"github.com/2beens/gymsessions/internal/telemetry/metrics"
	"github.com/2beens/gymsessions/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	plansRepo       *plans.CachedRepo
	sessionsService *sessions.Service
	statsService    *stats.Service
	scheduler       *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	PostgresUser            string
	PostgresPassword        string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPoolParams := db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	dbPool, err := db.NewDBPool(ctx, dbPoolParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if params.Config.RunDBMigrations {
		if err := db.RunMigrations(dbPoolParams.ConnString()); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("run db migrations: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymsessions", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymsessions", rdb)
	if err != nil {
		return nil, err
	}

	authService := auth.NewAuthService(
		auth.NewUsersRepo(dbPool),
		params.Config.AuthTokenTTL.Duration,
		rdb,
	)

	plansRepo := plans.NewCachedRepo(
		plans.NewRepo(dbPool),
		params.Config.PlanCacheSizeMB,
		metricsManager,
	)
	durations := sessions.NewDurationReconciler(
		rdb,
		params.Config.DurationEstimatesTTL.Duration,
		params.Config.DurationEstimatesMaxPerUser,
	)
	sessionsService := sessions.NewService(sessions.ServiceParams{
		Store:          sessions.NewRepo(dbPool),
		Plans:          plansRepo,
		Durations:      durations,
		MetricsManager: metricsManager,
	})

	s := &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(params.Config.AuthTokenTTL.Duration, rdb),

		plansRepo:       plansRepo,
		sessionsService: sessionsService,
		statsService:    stats.NewService(stats.NewRepo(dbPool), durations),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	s.scheduler, err = s.setupScheduler(ctx)
	if err != nil {
		return nil, fmt.Errorf("setup scheduler: %w", err)
	}

	return s, nil
}

// setupScheduler registers the periodic jobs: the stuck session sweep and the auth tokens cleanup.
func (s *Server) setupScheduler(ctx context.Context) (*cron.Cron, error) {
	scheduler := cron.New()

	if err := scheduler.AddFunc(s.config.SweepSchedule, func() {
		if finished := s.sessionsService.Monitor().Sweep(ctx); finished > 0 {
			log.Infof("sweep finished %d stuck sessions", finished)
		}
	}); err != nil {
		return nil, fmt.Errorf("add sweep job [%s]: %w", s.config.SweepSchedule, err)
	}

	if err := scheduler.AddFunc(s.config.AuthTokensCleanupSchedule, func() {
		s.authService.ScanAndClean(ctx)
	}); err != nil {
		return nil, fmt.Errorf("add auth cleanup job [%s]: %w", s.config.AuthTokensCleanupSchedule, err)
	}

	return scheduler, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager, s.config.LoginRateLimitAllowedPerMin)

	plansHandler := plans.NewHandler(s.plansRepo)
	plansHandler.SetupRoutes(r.PathPrefix("/plans").Subrouter())

	sessionsRouter := r.PathPrefix("/sessions").Subrouter()
	sessionsHandler := sessions.NewHandler(s.sessionsService)
	sessionsHandler.SetupRoutes(sessionsRouter)
	sessionsRouter.Use(middleware.RateLimit(
		reqRateLimiter,
		"sessions",
		s.config.SessionRateLimitAllowedPerMin,
		s.metricsManager,
	))

	statsHandler := stats.NewHandler(s.statsService)
	statsHandler.SetupRoutes(r.PathPrefix("/stats").Subrouter())

	mcpService := mcp.NewContextService(
		mcp.NewPoolSchemaRepo(s.dbPool),
		s.sessionsService,
		s.plansRepo,
		s.statsService,
	)
	r.PathPrefix("/mcp").Handler(mcp.NewHTTPHandler(mcpService)).Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.LimitAndDrainRequest(middleware.MaxRequestBodyBytes))

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "gymsessions-http"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.scheduler.Start()
	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	if s.scheduler != nil {
		s.scheduler.Stop()
		log.Trace("scheduler stopped ...")
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		if shutdownErr := s.httpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown http server: %w", shutdownErr))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if shutdownErr := s.metricsHttpServer.Shutdown(ctx); shutdownErr != nil {
			err = multierr.Append(err, fmt.Errorf("shutdown metrics http server: %w", shutdownErr))
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if closeErr := s.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis client: %w", closeErr))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	return err
}

package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/cruxlog/cruxlog/internal/auth"
	"github.com/cruxlog/cruxlog/internal/calendar"
	"github.com/cruxlog/cruxlog/internal/climbing"
	"github.com/cruxlog/cruxlog/internal/config"
	"github.com/cruxlog/cruxlog/internal/db"
	"github.com/cruxlog/cruxlog/internal/goals"
	"github.com/cruxlog/cruxlog/internal/grades"
	"github.com/cruxlog/cruxlog/internal/middleware"
	"github.com/cruxlog/cruxlog/internal/telemetry/metrics"
	"github.com/cruxlog/cruxlog/internal/telemetry/tracing"
	"github.com/cruxlog/cruxlog/internal/wellness"
	"github.com/cruxlog/cruxlog/internal/workouts"
	"github.com/cruxlog/cruxlog/pkg"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

const statsCacheSizeBytes = 10 * 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	statsCache *freecache.Cache

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "cruxlog_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("cruxlog", "backend", promRegistry)
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

	authService := auth.NewService(auth.NewUsersRepo(dbPool), auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "cruxlog-backend")
	if err != nil {
		return nil, err
	}

	return &Server{
		config:      params.Config,
		dbPool:      dbPool,
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		statsCache: freecache.NewCache(statsCacheSizeBytes),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("cruxlog-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	authHandler := auth.NewHandler(s.authService)
	r.Handle("/a/login", middleware.RateLimit(
		reqRateLimiter,
		"login",
		s.config.LoginRateLimitAllowedPerMin,
		s.metricsManager,
	)(http.HandlerFunc(authHandler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	r.HandleFunc("/a/logout", authHandler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	climbsRepo := climbing.NewRepo(s.dbPool)
	climbsHandler := climbing.NewHandler(climbsRepo, s.statsCache, s.metricsManager)
	r.HandleFunc("/climbs", climbsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-climb")
	r.HandleFunc("/climbs", climbsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-climb")
	r.HandleFunc("/climbs/{id}", climbsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-climb")
	r.HandleFunc("/climbs/climb/{id}", climbsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-climb")
	r.HandleFunc("/climbs/list/page/{page}/size/{size}", climbsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-climbs")
	r.HandleFunc("/climbs/stats", climbsHandler.HandleStats).Methods("GET", "OPTIONS").Name("climbs-stats")
	r.HandleFunc("/climbs/histogram/lead", climbsHandler.HandleLeadHistogram).Methods("GET", "OPTIONS").Name("lead-histogram")
	r.HandleFunc("/climbs/histogram/boulder-board", climbsHandler.HandleBoulderBoardHistogram).Methods("GET", "OPTIONS").Name("boulder-board-histogram")

	r.HandleFunc("/grades/v-scale", func(w http.ResponseWriter, r *http.Request) {
		writeGrades(w, grades.VScale())
	}).Methods("GET", "OPTIONS").Name("v-scale-grades")
	r.HandleFunc("/grades/french", func(w http.ResponseWriter, r *http.Request) {
		writeGrades(w, grades.French())
	}).Methods("GET", "OPTIONS").Name("french-grades")

	sessionsHandler := calendar.NewHandler(calendar.NewRepo(s.dbPool), s.metricsManager)
	r.HandleFunc("/calendar", sessionsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-session")
	r.HandleFunc("/calendar", sessionsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-session")
	r.HandleFunc("/calendar/{id:[0-9]+}", sessionsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-session")
	r.HandleFunc("/calendar/session/{id}", sessionsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-session")
	r.HandleFunc("/calendar/sessions", sessionsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/calendar/stats", sessionsHandler.HandleStats).Methods("GET", "OPTIONS").Name("calendar-stats")
	r.HandleFunc("/calendar/deload", sessionsHandler.HandleApplyDeload).Methods("PUT", "OPTIONS").Name("apply-deload")
	r.HandleFunc("/calendar/deload", sessionsHandler.HandleClearDeload).Methods("DELETE", "OPTIONS").Name("clear-deload")

	goalsHandler := goals.NewHandler(goals.NewRepo(s.dbPool), climbsRepo)
	r.HandleFunc("/goals", goalsHandler.HandleSet).Methods("POST", "OPTIONS").Name("set-goal")
	r.HandleFunc("/goals/{type}", goalsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-goal")
	r.HandleFunc("/goals/{type}", goalsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-goal")
	r.HandleFunc("/goals/{type}/progress", goalsHandler.HandleProgress).Methods("GET", "OPTIONS").Name("goal-progress")

	workoutsHandler := workouts.NewHandler(workouts.NewRepo(s.dbPool))
	r.HandleFunc("/workouts", workoutsHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts", workoutsHandler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts", workoutsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id}", workoutsHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")

	wellnessHandler := wellness.NewHandler(
		wellness.NewService(wellness.NewRepo(s.dbPool)),
		s.metricsManager,
	)
	r.HandleFunc("/wellness/report/sleep", wellnessHandler.HandleAddSleepReport).Methods("POST", "OPTIONS").Name("new-sleep-report")
	r.HandleFunc("/wellness/report/soreness", wellnessHandler.HandleAddSorenessReport).Methods("POST", "OPTIONS").Name("new-soreness-report")
	r.HandleFunc("/wellness/report/weight", wellnessHandler.HandleAddWeightReport).Methods("POST", "OPTIONS").Name("new-weight-report")
	r.HandleFunc("/wellness", wellnessHandler.HandleList).Methods("GET", "OPTIONS").Name("list-wellness-reports")
	r.HandleFunc("/wellness/{id}", wellnessHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-wellness-report")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.loginChecker)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(_ context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
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

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

func writeGrades(w http.ResponseWriter, gradesList []grades.Grade) {
	gradesJson, err := json.Marshal(gradesList)
	if err != nil {
		log.Errorf("failed to marshal grades: %s", err)
		http.Error(w, "failed to marshal grades", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, gradesJson, http.StatusOK)
}

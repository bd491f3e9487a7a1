package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/liftlog/backend/internal/analytics"
	"github.com/liftlog/backend/internal/auth"
	"github.com/liftlog/backend/internal/catalog"
	"github.com/liftlog/backend/internal/coach"
	"github.com/liftlog/backend/internal/config"
	"github.com/liftlog/backend/internal/db"
	"github.com/liftlog/backend/internal/middleware"
	"github.com/liftlog/backend/internal/misc"
	"github.com/liftlog/backend/internal/telemetry/metrics"
	"github.com/liftlog/backend/internal/telemetry/tracing"
	"github.com/liftlog/backend/internal/workout"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const catalogCacheSizeBytes = 10 * 1024 * 1024

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	mobileAppSecret   string // used with the companion mobile app
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool

	catalogService *catalog.Service
	workoutRepo    *workout.Repo
	analyzer       *analytics.Analyzer
	coachService   *coach.Service

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	GeminiAPIKey            string
	MobileAppSecret         string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	HoneycombTracingEnabled bool
	OtelServiceName         string
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
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, params.OtelServiceName)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	synonymsCsvFile, err := os.Open(params.Config.SynonymsCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open synonyms file: %w", err)
	}
	defer func() {
		if err := synonymsCsvFile.Close(); err != nil {
			log.Warnf("close synonyms csv file: %s", err)
		}
	}()

	synonyms, err := catalog.NewSynonymTableFromCSV(csv.NewReader(synonymsCsvFile))
	if err != nil {
		return nil, fmt.Errorf("load exercise synonyms: %w", err)
	}

	catalogService := catalog.NewService(
		catalog.NewRepo(dbPool),
		catalog.NewResolver(synonyms),
		freecache.NewCache(catalogCacheSizeBytes),
		params.Config.CatalogCacheTTLSecs,
		metricsManager,
	)

	workoutRepo := workout.NewRepo(dbPool)
	analyzer := analytics.NewAnalyzer(workoutRepo)

	coachService := coach.NewService(
		coach.NewGeminiAPI(
			params.Config.GeminiBaseURL,
			params.Config.GeminiModel,
			params.GeminiAPIKey,
			tracedHttpClient,
		),
		analyzer,
		workoutRepo,
		coach.NewChatHistory(rdb),
		metricsManager,
	)

	return &Server{
		config:          params.Config,
		dbPool:          dbPool,
		mobileAppSecret: params.MobileAppSecret,
		versionInfo:     params.VersionInfo,

		catalogService: catalogService,
		workoutRepo:    workoutRepo,
		analyzer:       analyzer,
		coachService:   coachService,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)

	miscHandler := misc.NewHandler(s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.config.LoginRateLimitAllowedPerMin)

	catalogHandler := catalog.NewHandler(s.catalogService)
	r.HandleFunc("/catalog/exercises", catalogHandler.HandleList).Methods("GET", "OPTIONS").Name("list-exercises")
	r.HandleFunc("/catalog/exercises", catalogHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-exercise")
	r.HandleFunc("/catalog/exercise/{name}", catalogHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-exercise")
	r.HandleFunc("/catalog/exercise/{name}/media", catalogHandler.HandleGetMedia).Methods("GET", "OPTIONS").Name("get-exercise-media")
	r.HandleFunc("/catalog/exercise/{name}/media", catalogHandler.HandleAddMedia).Methods("POST", "OPTIONS").Name("new-exercise-media")
	r.HandleFunc("/catalog/resolve/{name}", catalogHandler.HandleResolve).Methods("GET", "OPTIONS").Name("resolve-exercise")

	workoutHandler := workout.NewHandler(s.workoutRepo, s.metricsManager)
	r.HandleFunc("/workout/session/start", workoutHandler.HandleStartSession).Methods("POST", "OPTIONS").Name("start-session")
	r.HandleFunc("/workout/session/{id}/complete", workoutHandler.HandleCompleteSession).Methods("POST", "OPTIONS").Name("complete-session")
	r.HandleFunc("/workout/session/{id}/sets", workoutHandler.HandleSessionSets).Methods("GET", "OPTIONS").Name("session-sets")
	r.HandleFunc("/workout/sessions", workoutHandler.HandleListSessions).Methods("GET", "OPTIONS").Name("list-sessions")
	r.HandleFunc("/workout/set", workoutHandler.HandleAddSet).Methods("POST", "OPTIONS").Name("new-set")
	r.HandleFunc("/workout/exercise/{name}/history", workoutHandler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-history")
	r.HandleFunc("/workout/summary", workoutHandler.HandleSummary).Methods("GET", "OPTIONS").Name("workout-summary")

	analyticsHandler := analytics.NewHandler(s.analyzer)
	r.HandleFunc("/analytics/exercise/{name}", analyticsHandler.HandleExerciseProgress).Methods("GET", "OPTIONS").Name("exercise-progress")

	coachHandler := coach.NewHandler(s.coachService)
	coachSubrouter := r.PathPrefix("/coach").Subrouter()
	coachSubrouter.HandleFunc("/recommendation", coachHandler.HandleRecommendation).Methods("POST", "OPTIONS").Name("coach-recommendation")
	coachSubrouter.HandleFunc("/analysis", coachHandler.HandleAnalysis).Methods("POST", "OPTIONS").Name("coach-analysis")
	coachSubrouter.HandleFunc("/chat", coachHandler.HandleChat).Methods("POST", "OPTIONS").Name("coach-chat")
	coachSubrouter.HandleFunc("/chat/history", coachHandler.HandleChatHistory).Methods("GET", "OPTIONS").Name("coach-chat-history")
	coachSubrouter.HandleFunc("/chat/history", coachHandler.HandleClearChatHistory).Methods("DELETE", "OPTIONS").Name("coach-clear-chat")

	// the gemini calls are not cheap, keep abusers away
	coachSubrouter.Use(middleware.RateLimit(reqRateLimiter, "coach", s.config.CoachRateLimitPerMin))

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.mobileAppSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(host string) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(s.config.Port))
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

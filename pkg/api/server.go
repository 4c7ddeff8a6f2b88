package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/studyhall/studyhall/pkg/auth"
	"github.com/studyhall/studyhall/pkg/groupplans"
	"github.com/studyhall/studyhall/pkg/httputil"
	"github.com/studyhall/studyhall/pkg/middleware"
	"github.com/studyhall/studyhall/pkg/observability"
	"github.com/studyhall/studyhall/pkg/quizzes"
	"github.com/studyhall/studyhall/pkg/storage"
	"github.com/studyhall/studyhall/pkg/users"
)

// Config carries the dependencies and settings the server is built from
type Config struct {
	DB     *storage.DB
	Logger *logrus.Logger

	JWTSecret string
	TokenTTL  time.Duration

	CORSOrigins []string
	UploadDir   string

	MetricsEnabled bool
}

// Server represents the API server
type Server struct {
	router  *mux.Router
	handler http.Handler
	logger  *logrus.Logger
	metrics *observability.Metrics
}

// NewServer creates the API server with all routes and middleware wired
func NewServer(cfg Config) (*Server, error) {
	s := &Server{
		router: mux.NewRouter(),
		logger: cfg.Logger,
	}

	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		s.metrics = observability.NewMetrics(registry)
	}

	userStore := users.NewStore(cfg.DB)
	hasher := auth.NewPasswordHasher()
	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)
	manager := auth.NewManager(userStore, hasher)

	authHandlers := NewAuthHandlers(userStore, hasher, manager, codec, s.metrics, cfg.Logger)
	authHandlers.RegisterRoutes(s.router)

	quizService := quizzes.NewSQLService(cfg.DB)
	quizzes.NewHandlers(quizService, cfg.Logger).RegisterRoutes(s.router)

	images, err := groupplans.NewFilesystemImageStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	planService := groupplans.NewSQLService(cfg.DB)
	groupplans.NewHandlers(planService, images, cfg.Logger).RegisterRoutes(s.router)

	checker := observability.NewHealthChecker(cfg.DB.DB, cfg.UploadDir)
	s.router.HandleFunc("/health/live", checker.Liveness).Methods("GET")
	s.router.HandleFunc("/health/ready", checker.Readiness).Methods("GET")

	if registry != nil {
		s.router.Handle("/metrics", observability.MetricsHandler(registry)).Methods("GET")
	}

	s.router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	middlewares := []httputil.Middleware{
		httputil.RecoveryMiddleware(cfg.Logger),
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(cfg.Logger),
	}
	if s.metrics != nil {
		middlewares = append(middlewares, observability.HTTPMetricsMiddleware(s.metrics))
	}
	middlewares = append(middlewares,
		httputil.CORSMiddleware(cfg.CORSOrigins),
		middleware.TokenFilter(codec),
	)
	s.handler = httputil.Chain(middlewares...)(s.router)

	return s, nil
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Router exposes the underlying router for additional route registration
func (s *Server) Router() *mux.Router {
	return s.router
}

// Metrics exposes the metric set, nil when metrics are disabled
func (s *Server) Metrics() *observability.Metrics {
	return s.metrics
}

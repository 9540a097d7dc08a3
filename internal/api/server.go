package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/config"
	"github.com/nerrad567/rollcall-core/internal/infrastructure/logging"
	"github.com/nerrad567/rollcall-core/internal/location"
	"github.com/nerrad567/rollcall-core/internal/rollcall"
	"github.com/nerrad567/rollcall-core/internal/routing"
	"github.com/nerrad567/rollcall-core/internal/status"
)

// gracefulShutdownTimeout bounds how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// HealthChecker is implemented by the database and MQTT clients.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config     config.APIConfig
	Logger     *logging.Logger
	Locations  location.Reader
	Router     *routing.Router
	Generator  *rollcall.Generator
	Planner    *rollcall.Planner
	Aggregator *status.Aggregator

	// Health lists named components reported by GET /health.
	Health  map[string]HealthChecker
	Version string
}

// Server is the HTTP API server.
type Server struct {
	cfg        config.APIConfig
	logger     *logging.Logger
	locations  location.Reader
	router     *routing.Router
	generator  *rollcall.Generator
	planner    *rollcall.Planner
	aggregator *status.Aggregator
	health     map[string]HealthChecker
	version    string
	now        func() time.Time
	server     *http.Server
}

// New creates a server. It is not listening until Start is called.
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Logger == nil:
		return nil, errors.New("logger is required")
	case deps.Locations == nil:
		return nil, errors.New("location reader is required")
	case deps.Router == nil:
		return nil, errors.New("router is required")
	case deps.Generator == nil:
		return nil, errors.New("generator is required")
	case deps.Planner == nil:
		return nil, errors.New("planner is required")
	case deps.Aggregator == nil:
		return nil, errors.New("aggregator is required")
	}

	return &Server{
		cfg:        deps.Config,
		logger:     deps.Logger,
		locations:  deps.Locations,
		router:     deps.Router,
		generator:  deps.Generator,
		planner:    deps.Planner,
		aggregator: deps.Aggregator,
		health:     deps.Health,
		version:    deps.Version,
		now:        time.Now,
	}, nil
}

// Handler returns the routed handler with the full middleware stack.
func (s *Server) Handler() http.Handler {
	return s.buildRouter()
}

// Start launches the HTTP listener in a background goroutine.
func (s *Server) Start(_ context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		s.logger.Info("API server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()
	return nil
}

// Close waits up to gracefulShutdownTimeout for in-flight requests.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck reports whether the server has been started.
func (s *Server) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api health check: %w", err)
	}
	if s.server == nil {
		return errors.New("api server not started")
	}
	return nil
}

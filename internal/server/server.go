// Package server provides the HTTP REST API for the team quoting service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appconfig "github.com/mcabrera/teamquote/internal/config"
	"github.com/mcabrera/teamquote/internal/currency"
	"github.com/mcabrera/teamquote/internal/db"
	"github.com/mcabrera/teamquote/internal/geo"
	"github.com/mcabrera/teamquote/internal/pool"
	"github.com/mcabrera/teamquote/internal/pricing"
	"github.com/mcabrera/teamquote/internal/quote"
	"github.com/mcabrera/teamquote/internal/server/middleware"
	"github.com/mcabrera/teamquote/internal/server/ratelimit"
	"github.com/mcabrera/teamquote/internal/types"
	"github.com/mcabrera/teamquote/internal/wizard"
)

// ProgressReader loads persisted wizard progress.
type ProgressReader interface {
	GetProgress(ctx context.Context, quoteID uuid.UUID) (*db.WizardProgress, error)
}

// QuoteReader loads finalized quotes.
type QuoteReader interface {
	GetQuote(ctx context.Context, id uuid.UUID) (*types.Quote, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	log         *zap.SugaredLogger
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	registry    *sessionRegistry
	wizardStore wizard.Store
	converter   *currency.Converter
	locator     *geo.Locator
	progress    ProgressReader
	quotes      QuoteReader
}

// Config holds server configuration
type Config struct {
	Addr           string
	DatabaseURL    string
	MigrationsDir  string
	PoolServiceURL string
	RatesURL       string
	GeoServiceURL  string
}

// New creates a new server instance
func New(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*Server, error) {
	// Connect to database
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.MigrationsDir != "" {
		if err := database.Migrate(ctx, cfg.MigrationsDir); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	var rateProvider currency.RateProvider
	if cfg.RatesURL != "" {
		rateProvider = currency.NewHTTPProvider(cfg.RatesURL)
	}
	converter := currency.NewConverter(rateProvider, log)

	var locator *geo.Locator
	if cfg.GeoServiceURL != "" {
		locator = geo.NewLocator(cfg.GeoServiceURL)
	}

	poolClient := pool.NewClient(cfg.PoolServiceURL)
	engine := quote.NewEngine(poolClient, pricing.NewEngine(converter), log)

	store := wizard.Store{
		Progress: database,
		Quotes:   database,
		Engine:   engine,
	}

	s := newServer(deps{
		DB:        database,
		Log:       log,
		Store:     store,
		Converter: converter,
		Locator:   locator,
		Progress:  database,
		Quotes:    database,
	})

	// Initialize authentication services
	passwordConfig, err := appconfig.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := appconfig.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// deps bundles the collaborators newServer wires up. Tests construct it with
// in-memory fakes.
type deps struct {
	DB        *db.DB
	Log       *zap.SugaredLogger
	Store     wizard.Store
	Converter *currency.Converter
	Locator   *geo.Locator
	Progress  ProgressReader
	Quotes    QuoteReader
}

func newServer(d deps) *Server {
	return &Server{
		db:          d.DB,
		log:         d.Log,
		rateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		registry:    newSessionRegistry(),
		wizardStore: d.Store,
		converter:   d.Converter,
		locator:     d.Locator,
		progress:    d.Progress,
		quotes:      d.Quotes,
	}
}

// routes builds the request router.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Public quoting flow
	// Session actions live under /wizard/sessions/ so their patterns cannot
	// overlap the step path, which would panic at registration.
	mux.HandleFunc("POST /wizard/steps/{step}", s.handleSubmitStep)
	mux.HandleFunc("POST /wizard/sessions/{session_id}/compute", s.handleCompute)
	mux.HandleFunc("POST /wizard/sessions/{session_id}/finalize", s.handleFinalize)
	mux.HandleFunc("GET /currencies", s.handleListCurrencies)
	mux.HandleFunc("GET /health", s.handleHealth)

	// Authentication
	if s.authHandler != nil {
		mux.HandleFunc("POST /auth/register", s.authHandler.Register)
		mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	}

	// Stored quotes and saved progress require authentication
	if s.jwtService != nil {
		authed := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
		mux.Handle("GET /wizard/{quote_id}", authed(http.HandlerFunc(s.handleGetProgress)))
		mux.Handle("GET /quotes/{id}", authed(http.HandlerFunc(s.handleGetQuote)))
	} else {
		mux.HandleFunc("GET /wizard/{quote_id}", s.handleGetProgress)
		mux.HandleFunc("GET /quotes/{id}", s.handleGetQuote)
	}

	return mux
}

// newSession opens a wizard with the client's default currency, resolved from
// the request IP when a geolocation service is configured.
func (s *Server) newSession(r *http.Request) *wizard.Wizard {
	defaultCurrency := "USD"
	if s.locator != nil {
		defaultCurrency = s.locator.DefaultCurrencyFor(r.Context(), s.extractClientID(r))
	}
	return wizard.New(s.wizardStore, defaultCurrency, s.log)
}

// Start begins listening for requests
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep exchange rates fresh for the lifetime of the server
	s.converter.Start(ctx)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-stop:
	}
	s.log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if s.db != nil {
		s.db.Close()
	}
	s.log.Info("server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Infow("request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr, "duration", time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = "unreachable"
			s.jsonResponse(w, http.StatusServiceUnavailable, status)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorw("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// For now this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	s.log.Warnw("rate limit exceeded", "limit", info.Limit, "remaining", info.Remaining, "reset", info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

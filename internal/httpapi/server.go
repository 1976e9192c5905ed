// Package httpapi is the outer HTTP surface: read-only round state for
// anyone, and 202-style command endpoints that publish the matching
// request events onto the bus. Command processing itself stays in the
// event handlers.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	wmmiddleware "github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/config"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
)

// Server serves the lottery HTTP API.
type Server struct {
	logger      *slog.Logger
	service     lotteryservice.Service
	ledger      lotteryledger.Ledger
	eventBus    eventbus.EventBus
	joinLimiter *rate.Limiter
	jwtSecret   []byte

	httpServer *http.Server
}

// NewServer creates the HTTP server with all routes mounted.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	service lotteryservice.Service,
	ledger lotteryledger.Ledger,
	eventBus eventbus.EventBus,
) *Server {
	s := &Server{
		logger:      logger,
		service:     service,
		ledger:      ledger,
		eventBus:    eventBus,
		joinLimiter: rate.NewLimiter(rate.Limit(cfg.HTTP.JoinRateLimit), cfg.HTTP.JoinRateBurst),
		jwtSecret:   []byte(cfg.JWT.Secret),
	}

	s.httpServer = &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/rounds/current", s.handleCurrentRound)
	r.Get("/rounds/{roundID}", s.handleRound)
	r.Get("/players/{playerID}/balance", s.handlePlayerBalance)

	r.With(s.joinRateLimit).Post("/rounds/current/join", s.handleJoin)

	r.Route("/admin", func(admin chi.Router) {
		admin.Use(s.requireAdmin)
		admin.Post("/rounds", s.handleStartRound)
		admin.Post("/rounds/{roundID}/void", s.handleVoidRound)
		admin.Post("/ledger/deposit", s.handleDeposit)
		admin.Post("/players/{playerID}/frozen", s.handleSetFrozen)
	})

	return r
}

// Start runs the HTTP listener until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("HTTP API listening", attr.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// publish puts a request event on the bus the same way an internal
// handler would, so the router's consumers cannot tell the difference.
func (s *Server) publish(r *http.Request, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(eventbus.SubjectMetadataKey, topic)

	correlationID := r.Header.Get("X-Correlation-ID")
	if correlationID == "" {
		correlationID = watermill.NewUUID()
	}
	msg.Metadata.Set(wmmiddleware.CorrelationIDMetadataKey, correlationID)

	return s.eventBus.Publish(topic, msg)
}

func (s *Server) joinRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.joinLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "join rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

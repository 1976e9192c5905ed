package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"

	"github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/config"
	"github.com/High-Roller-Club/lotto-coordinator/internal/db/bundb"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
	"github.com/High-Roller-Club/lotto-coordinator/internal/httpapi"
	"github.com/High-Roller-Club/lotto-coordinator/internal/observability"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// App owns every long-lived component of the coordinator process.
type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	DB            *bun.DB
	EventBus      eventbus.EventBus
	Router        *message.Router
	LotteryModule *lottery.Module
	APIServer     *httpapi.Server

	natsConn       *nc.Conn
	tracerShutdown func(context.Context) error
	metricsServer  *http.Server
	cancelFunc     context.CancelFunc
}

// NewApp wires the full application from configuration.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := observability.NewLogger(cfg.Observability.Environment)

	tracerProvider, tracerShutdown, err := observability.NewTracerProvider(
		ctx,
		"lotto-coordinator",
		cfg.Observability.OTLPEndpoint,
		cfg.Observability.Environment,
		cfg.Observability.OTLPInsecure,
		cfg.Observability.TraceSampleRate,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	tracer := tracerProvider.Tracer("lotto-coordinator")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewLotteryMetrics(registry)

	db, err := bundb.New(cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	if err := bus.EnsureStream(ctx, "lottery", []string{"lottery.>"}); err != nil {
		return nil, fmt.Errorf("failed to ensure lottery stream: %w", err)
	}

	natsConn, err := nc.Connect(cfg.NATS.URL,
		nc.Name("lotto-coordinator-oracle"),
		nc.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS for oracle requests: %w", err)
	}
	oracleClient := oracle.NewNATSClient(natsConn, cfg.Oracle.RequestSubject, logger)

	watermillLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message router: %w", err)
	}

	module, err := lottery.NewLotteryModule(
		ctx, cfg, logger, metrics, tracer, db, bus, router, oracleClient, ctx,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lottery module: %w", err)
	}

	apiServer := httpapi.NewServer(cfg, logger, module.LotteryService, module.Ledger, bus)

	metricsServer := &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		DB:             db,
		EventBus:       bus,
		Router:         router,
		LotteryModule:  module,
		APIServer:      apiServer,
		natsConn:       natsConn,
		tracerShutdown: tracerShutdown,
		metricsServer:  metricsServer,
	}, nil
}

// Run starts the router, the module, and both HTTP listeners, then
// blocks until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	app.cancelFunc = cancel
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go app.LotteryModule.Run(ctx, &wg)

	go func() {
		app.Logger.Info("Metrics listening", attr.String("addr", app.metricsServer.Addr))
		if err := app.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Logger.Error("Metrics server failed", attr.Error(err))
		}
	}()

	go func() {
		if err := app.APIServer.Start(); err != nil {
			app.Logger.Error("HTTP API server failed", attr.Error(err))
			cancel()
		}
	}()

	app.Logger.Info("Starting message router")
	if err := app.Router.Run(ctx); err != nil {
		return fmt.Errorf("message router stopped: %w", err)
	}

	wg.Wait()
	return nil
}

// Close shuts everything down in reverse dependency order.
func (app *App) Close() {
	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.APIServer.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Error shutting down HTTP API", attr.Error(err))
	}
	if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("Error shutting down metrics server", attr.Error(err))
	}
	if err := app.LotteryModule.Close(); err != nil {
		app.Logger.Error("Error closing lottery module", attr.Error(err))
	}
	if err := app.EventBus.Close(); err != nil {
		app.Logger.Error("Error closing event bus", attr.Error(err))
	}
	app.natsConn.Close()
	if err := app.DB.Close(); err != nil {
		app.Logger.Error("Error closing database", attr.Error(err))
	}
	if app.tracerShutdown != nil {
		if err := app.tracerShutdown(shutdownCtx); err != nil {
			app.Logger.Error("Error shutting down tracer provider", attr.Error(err))
		}
	}

	app.Logger.Info("Application shut down")
}

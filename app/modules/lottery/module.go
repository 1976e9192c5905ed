package lottery

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
	lotteryqueue "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/queue"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	lotteryrouter "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/router"
	"github.com/High-Roller-Club/lotto-coordinator/config"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
	"github.com/High-Roller-Club/lotto-coordinator/internal/observability"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// Module wires the lottery service, its router, and the stall scanner.
type Module struct {
	EventBus       eventbus.EventBus
	LotteryService lotteryservice.Service
	LotteryRouter  *lotteryrouter.LotteryRouter
	QueueService   lotteryqueue.QueueService
	Repo           lotterydb.Repository
	Ledger         lotteryledger.Ledger

	config     *config.Config
	logger     *slog.Logger
	cancelFunc context.CancelFunc
}

// NewLotteryModule creates a new instance of the lottery module.
func NewLotteryModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	metrics observability.LotteryMetrics,
	tracer trace.Tracer,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	oracleClient oracle.Client,
	routerCtx context.Context,
) (*Module, error) {
	repo := lotterydb.NewRoundDB(db)
	ledger := lotteryledger.NewStore(db)

	service := lotteryservice.NewLotteryService(
		repo,
		ledger,
		oracleClient,
		logger,
		metrics,
		tracer,
		cfg.Oracle.KeyHash,
		cfg.Oracle.Fee,
	)

	verifier, err := oracle.NewNkeysVerifier(cfg.Oracle.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to build oracle verifier: %w", err)
	}

	lotteryRouter := lotteryrouter.NewLotteryRouter(logger, router, eventBus, eventBus, tracer)
	if err := lotteryRouter.Configure(routerCtx, service, verifier); err != nil {
		return nil, fmt.Errorf("failed to configure lottery router: %w", err)
	}

	queueService, err := lotteryqueue.NewService(
		ctx,
		logger,
		cfg.Postgres.DSN,
		repo,
		eventBus,
		cfg.Queue.StallAfter,
		cfg.Queue.ScanInterval,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}

	return &Module{
		EventBus:       eventBus,
		LotteryService: service,
		LotteryRouter:  lotteryRouter,
		QueueService:   queueService,
		Repo:           repo,
		Ledger:         ledger,
		config:         cfg,
		logger:         logger,
	}, nil
}

// Run starts the lottery module and blocks until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting lottery module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start queue service", "error", err)
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Lottery module goroutine stopped")
}

// Close stops the lottery module and cleans up resources.
func (m *Module) Close() error {
	m.logger.Info("Stopping lottery module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Stop(context.Background()); err != nil {
			m.logger.Error("Error stopping queue service", "error", err)
		}
	}

	if m.LotteryRouter != nil {
		if err := m.LotteryRouter.Close(); err != nil {
			return fmt.Errorf("error closing LotteryRouter: %w", err)
		}
	}

	m.logger.Info("Lottery module stopped")
	return nil
}

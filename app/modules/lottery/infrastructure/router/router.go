package lotteryrouter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/trace"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotteryhandlers "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/handlers"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// LotteryRouter handles routing for lottery module events.
type LotteryRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	tracer     trace.Tracer
}

// NewLotteryRouter creates a new LotteryRouter.
func NewLotteryRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	tracer trace.Tracer,
) *LotteryRouter {
	return &LotteryRouter{
		logger:     logger,
		Router:     router,
		subscriber: subscriber,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Configure sets up the router with the necessary handlers and dependencies.
func (r *LotteryRouter) Configure(ctx context.Context, service lotteryservice.Service, verifier oracle.Verifier) error {
	handlers := lotteryhandlers.NewLotteryHandlers(service, verifier, r.logger)

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	if err := r.RegisterHandlers(ctx, handlers); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}
	return nil
}

type handlerDeps struct {
	router     *message.Router
	subscriber eventbus.EventBus
	publisher  eventbus.EventBus
	logger     *slog.Logger
	tracer     trace.Tracer
}

// registerHandler registers a pure transformation-pattern handler with typed payload.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "lottery." + topic

	deps.router.AddHandler(
		handlerName,
		topic,
		deps.subscriber,
		"", // Watermill reads topic from message metadata when empty
		deps.publisher,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			handler,
		),
	)
}

// RegisterHandlers registers event handlers using the pure transformation pattern.
func (r *LotteryRouter) RegisterHandlers(ctx context.Context, handlers lotteryhandlers.Handlers) error {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	registerHandler(deps, lotteryevents.RoundStartRequestedV1, handlers.HandleStartRound)
	registerHandler(deps, lotteryevents.RoundJoinRequestedV1, handlers.HandleJoinRound)
	registerHandler(deps, lotteryevents.RandomnessDeliveredV1, handlers.HandleRandomnessDelivered)
	registerHandler(deps, lotteryevents.RoundVoidRequestedV1, handlers.HandleVoidRound)

	return nil
}

// Close stops the router.
func (r *LotteryRouter) Close() error {
	return r.Router.Close()
}

package lotteryhandlers

import (
	"log/slog"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// LotteryHandlers implements the Handlers interface for lottery events.
type LotteryHandlers struct {
	service  lotteryservice.Service
	verifier oracle.Verifier
	logger   *slog.Logger
}

// NewLotteryHandlers creates a new LotteryHandlers instance.
func NewLotteryHandlers(service lotteryservice.Service, verifier oracle.Verifier, logger *slog.Logger) *LotteryHandlers {
	return &LotteryHandlers{
		service:  service,
		verifier: verifier,
		logger:   logger,
	}
}

// mapOperationResult converts a service OperationResult to handler Results.
func mapOperationResult(
	result results.OperationResult,
	successTopic, failureTopic string,
) []handlerwrapper.Result {
	handlerResults := result.MapToHandlerResults(successTopic, failureTopic)

	wrapperResults := make([]handlerwrapper.Result, len(handlerResults))
	for i, hr := range handlerResults {
		wrapperResults[i] = handlerwrapper.Result{
			Topic:    hr.Topic,
			Payload:  hr.Payload,
			Metadata: hr.Metadata,
		}
	}

	return wrapperResults
}

package lotteryservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
	"github.com/High-Roller-Club/lotto-coordinator/internal/observability"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// LotteryService implements the Service interface.
type LotteryService struct {
	repo    lotterydb.Repository
	ledger  lotteryledger.Ledger
	oracle  oracle.Client
	logger  *slog.Logger
	metrics observability.LotteryMetrics
	tracer  trace.Tracer

	oracleKeyHash string
	oracleFee     lotterytypes.Amount
}

// NewLotteryService creates a new LotteryService.
func NewLotteryService(
	repo lotterydb.Repository,
	ledger lotteryledger.Ledger,
	oracleClient oracle.Client,
	logger *slog.Logger,
	metrics observability.LotteryMetrics,
	tracer trace.Tracer,
	oracleKeyHash string,
	oracleFee lotterytypes.Amount,
) *LotteryService {
	return &LotteryService{
		repo:          repo,
		ledger:        ledger,
		oracle:        oracleClient,
		logger:        logger,
		metrics:       metrics,
		tracer:        tracer,
		oracleKeyHash: oracleKeyHash,
		oracleFee:     oracleFee,
	}
}

// operationFunc is the signature for service operation functions.
type operationFunc func(ctx context.Context) (results.OperationResult, error)

// withTelemetry wraps a service operation with tracing, metrics, and
// panic recovery. This standardizes observability across all service
// methods.
func (s *LotteryService) withTelemetry(
	ctx context.Context,
	operationName string,
	op operationFunc,
) (result results.OperationResult, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("operation", operationName),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult{}
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.Failure != nil {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Any("failure_type", fmt.Sprintf("%T", result.Failure)),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}

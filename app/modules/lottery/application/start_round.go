package lotteryservice

import (
	"context"
	"errors"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
)

// StartRound opens a new round. The caller's administrative capability
// is checked upstream; the service only enforces round-state rules.
func (s *LotteryService) StartRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "start_round", func(ctx context.Context) (results.OperationResult, error) {
		if maxParticipants <= 0 {
			return startRoundFailure(ErrInvalidMaxParticipants), nil
		}
		if entryFee < 0 {
			return startRoundFailure(ErrNegativeEntryFee), nil
		}

		round, err := s.repo.CreateRound(ctx, maxParticipants, entryFee)
		if err != nil {
			if errors.Is(err, lotterydb.ErrActiveRoundExists) {
				return startRoundFailure(ErrAlreadyRunning), nil
			}
			return results.OperationResult{}, err
		}

		s.logger.InfoContext(ctx, "Round started",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("round_id", int64(round.ID)),
			attr.Int("max_participants", round.MaxParticipants),
			attr.Int64("entry_fee", int64(round.EntryFee)),
		)
		s.metrics.RecordRoundStarted(ctx)

		return results.SuccessResult(&lotteryevents.RoundStartedPayloadV1{
			RoundID:         round.ID,
			MaxParticipants: round.MaxParticipants,
			EntryFee:        round.EntryFee,
		}), nil
	})
}

func startRoundFailure(err error) results.OperationResult {
	return results.FailureResult(&lotteryevents.RoundStartFailedPayloadV1{
		Reason: err.Error(),
	}, err)
}

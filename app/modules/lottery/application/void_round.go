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

// VoidRound is the operator escape hatch for a round stuck full (oracle
// never answered, reserve was short, or the payout was rejected). It
// refunds every participant their entry fee and closes the round without
// a winner. Nothing calls this automatically.
func (s *LotteryService) VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "void_round", func(ctx context.Context) (results.OperationResult, error) {
		round, err := s.repo.GetRound(ctx, roundID)
		if err != nil {
			return results.OperationResult{}, err
		}
		if round == nil {
			return voidRoundFailure(roundID, ErrRoundNotFound), nil
		}
		if !round.State.IsActive() {
			return voidRoundFailure(roundID, ErrRoundNotVoidable), nil
		}

		refunded, participants, err := s.repo.VoidRound(ctx, roundID)
		if err != nil {
			if errors.Is(err, lotterydb.ErrNoActiveRound) {
				return voidRoundFailure(roundID, ErrRoundNotVoidable), nil
			}
			return results.OperationResult{}, err
		}

		s.logger.WarnContext(ctx, "Round voided by operator",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("round_id", int64(roundID)),
			attr.Int("participants", participants),
			attr.Int64("refunded", int64(refunded)),
		)
		s.metrics.RecordRoundVoided(ctx)

		return results.SuccessResult(&lotteryevents.RoundVoidedPayloadV1{
			RoundID:      roundID,
			Participants: participants,
			Refunded:     refunded,
		}), nil
	})
}

func voidRoundFailure(roundID lotterytypes.RoundID, err error) results.OperationResult {
	return results.FailureResult(&lotteryevents.RoundVoidFailedPayloadV1{
		RoundID: roundID,
		Reason:  err.Error(),
	}, err)
}

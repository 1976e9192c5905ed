package lotteryservice

import (
	"context"
	"errors"
	"fmt"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
)

// ResolveRound consumes an oracle callback. The token binding is the
// only way in: an unbound token (never issued, or already consumed by a
// successful resolution) is rejected, which makes resolution idempotent.
func (s *LotteryService) ResolveRound(ctx context.Context, token lotterytypes.CorrelationToken, randomValue uint64) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "resolve_round", func(ctx context.Context) (results.OperationResult, error) {
		round, err := s.repo.RoundForToken(ctx, token)
		if err != nil {
			return results.OperationResult{}, err
		}
		if round == nil {
			return resolveRoundFailure(0, token, ErrUnknownRequest), nil
		}

		participants, err := s.repo.Participants(ctx, round.ID)
		if err != nil {
			return results.OperationResult{}, err
		}
		// The registry equals maxParticipants whenever a request is
		// bound, so this only guards against a corrupted store.
		if len(participants) == 0 {
			return results.OperationResult{}, fmt.Errorf("round %d has a pending request but no participants", round.ID)
		}

		winnerIndex := randomValue % uint64(len(participants))
		winner := participants[winnerIndex].PlayerID

		payout, err := s.repo.SettleRound(ctx, round.ID, winner, token)
		if err != nil {
			switch {
			case errors.Is(err, lotterydb.ErrTransferRejected):
				// The round stays full with the pot locked; only an
				// operator void can move it now.
				return resolveRoundFailure(round.ID, token, ErrPayoutFailed), nil
			case errors.Is(err, lotterydb.ErrTokenNotBound):
				// Lost the race against another delivery of the same
				// token.
				return resolveRoundFailure(round.ID, token, ErrUnknownRequest), nil
			default:
				return results.OperationResult{}, err
			}
		}

		s.logger.InfoContext(ctx, "Round resolved",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("round_id", int64(round.ID)),
			attr.String("winner", string(winner)),
			attr.Uint64("winner_index", winnerIndex),
			attr.Int64("payout", int64(payout)),
		)
		s.metrics.RecordRoundResolved(ctx, int64(payout))

		return results.SuccessResult(&lotteryevents.GameEndedPayloadV1{
			RoundID: round.ID,
			Winner:  winner,
			Token:   token,
			Payout:  payout,
		}), nil
	})
}

func resolveRoundFailure(roundID lotterytypes.RoundID, token lotterytypes.CorrelationToken, err error) results.OperationResult {
	return results.FailureResult(&lotteryevents.RoundResolutionFailedPayloadV1{
		RoundID: roundID,
		Token:   token,
		Reason:  err.Error(),
	}, err)
}

package lotteryservice

import (
	"context"
	"errors"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// JoinOutcome is the success payload of JoinRound. The filling join
// additionally carries the outcome of the randomness-request procedure:
// either the issued request or its failure. A failed request leaves the
// round full and waiting on operator intervention; the accepted join is
// not unwound.
type JoinOutcome struct {
	Joined              *lotteryevents.PlayerJoinedPayloadV1
	RandomnessRequested *lotteryevents.RandomnessRequestedPayloadV1
	RandomnessFailed    *lotteryevents.RandomnessRequestFailedPayloadV1
}

// JoinRound validates and applies a join request. On the join that fills
// the registry it triggers the randomness request as the terminal step of
// the same operation; the registry being full is what suspends the round
// until the oracle answers.
func (s *LotteryService) JoinRound(ctx context.Context, player lotterytypes.PlayerID, paidAmount lotterytypes.Amount) (results.OperationResult, error) {
	return s.withTelemetry(ctx, "join_round", func(ctx context.Context) (results.OperationResult, error) {
		if player == "" {
			return joinRoundFailure(player, ErrEmptyPlayerID), nil
		}

		round, err := s.repo.ActiveRound(ctx)
		if err != nil {
			return results.OperationResult{}, err
		}
		if round == nil {
			return joinRoundFailure(player, ErrNotStarted), nil
		}
		// Fee equality is checked before the capacity check and before
		// any state mutation.
		if paidAmount != round.EntryFee {
			return joinRoundFailure(player, ErrFeeMismatch), nil
		}
		if round.State == lotterytypes.RoundStateFull {
			return joinRoundFailure(player, ErrRoundFull), nil
		}

		updated, err := s.repo.AddParticipant(ctx, round.ID, player, paidAmount)
		if err != nil {
			switch {
			case errors.Is(err, lotterydb.ErrRegistryFull):
				return joinRoundFailure(player, ErrRoundFull), nil
			case errors.Is(err, lotterydb.ErrNoActiveRound):
				return joinRoundFailure(player, ErrNotStarted), nil
			default:
				return results.OperationResult{}, err
			}
		}

		s.logger.InfoContext(ctx, "Player joined round",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("round_id", int64(updated.ID)),
			attr.String("player_id", string(player)),
			attr.Int("participants", updated.ParticipantCount),
		)
		s.metrics.RecordPlayerJoined(ctx)

		outcome := &JoinOutcome{
			Joined: &lotteryevents.PlayerJoinedPayloadV1{
				RoundID:  updated.ID,
				PlayerID: player,
				Position: updated.ParticipantCount - 1,
				Pot:      updated.Pot,
			},
		}

		if updated.State == lotterytypes.RoundStateFull {
			s.requestRandomness(ctx, updated, outcome)
		}

		return results.SuccessResult(outcome), nil
	})
}

// requestRandomness runs the randomness-request procedure for a round
// whose registry just filled. Failures are recorded on the outcome, not
// returned: the join itself stands, and the round stays full with no
// automatic unwind.
func (s *LotteryService) requestRandomness(ctx context.Context, round *lotterytypes.Round, outcome *JoinOutcome) {
	fail := func(err error) {
		s.logger.ErrorContext(ctx, "Randomness request failed; round is stuck full",
			attr.ExtractCorrelationID(ctx),
			attr.Int64("round_id", int64(round.ID)),
			attr.Error(err),
		)
		outcome.RandomnessFailed = &lotteryevents.RandomnessRequestFailedPayloadV1{
			RoundID: round.ID,
			Reason:  err.Error(),
		}
	}

	reserve, err := s.ledger.ReserveBalance(ctx)
	if err != nil {
		fail(err)
		return
	}
	if reserve < s.oracleFee {
		fail(ErrInsufficientOracleFunds)
		return
	}

	// The token is minted here and bound (with the reserve debit) before
	// the request leaves the process: a callback can only exist for a
	// token the store already knows. Publishing first would open a window
	// where a fast delivery finds no binding and gets discarded.
	token := lotterytypes.NewCorrelationToken()
	if err := s.repo.BindPendingRequest(ctx, token, round.ID, s.oracleFee); err != nil {
		if errors.Is(err, lotterydb.ErrInsufficientReserve) {
			fail(ErrInsufficientOracleFunds)
		} else {
			fail(err)
		}
		return
	}

	if err := s.oracle.RequestRandomness(ctx, oracle.Request{
		Token:   token,
		RoundID: round.ID,
		KeyHash: s.oracleKeyHash,
		Fee:     s.oracleFee,
	}); err != nil {
		// The binding stays: no request is in flight for it, so the
		// round sits full until an operator void clears it.
		fail(err)
		return
	}

	s.metrics.RecordRandomnessRequested(ctx)
	outcome.RandomnessRequested = &lotteryevents.RandomnessRequestedPayloadV1{
		RoundID: round.ID,
		Token:   token,
	}
}

func joinRoundFailure(player lotterytypes.PlayerID, err error) results.OperationResult {
	return results.FailureResult(&lotteryevents.RoundJoinFailedPayloadV1{
		PlayerID: player,
		Reason:   err.Error(),
	}, err)
}

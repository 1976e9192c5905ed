package lotteryservice

import (
	"context"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
)

// Service is the lottery application surface.
type Service interface {
	// StartRound opens a new round. Admin-gated upstream.
	StartRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (results.OperationResult, error)

	// JoinRound applies a join request; the join that fills the registry
	// also issues the randomness request.
	JoinRound(ctx context.Context, player lotterytypes.PlayerID, paidAmount lotterytypes.Amount) (results.OperationResult, error)

	// ResolveRound consumes an oracle callback: picks the winner, pays
	// out the pot and closes the round.
	ResolveRound(ctx context.Context, token lotterytypes.CorrelationToken, randomValue uint64) (results.OperationResult, error)

	// VoidRound is the operator escape hatch for a stuck round: refunds
	// entry fees and closes the round without a winner.
	VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (results.OperationResult, error)

	// CurrentRound returns a snapshot of the active round, or nil.
	CurrentRound(ctx context.Context) (*RoundSnapshot, error)

	// Round returns a snapshot of any round by ID.
	Round(ctx context.Context, id lotterytypes.RoundID) (*RoundSnapshot, error)
}

// RoundSnapshot is the externally readable state surface of a round.
type RoundSnapshot struct {
	Round        lotterytypes.Round
	Participants []lotterytypes.Participant
}

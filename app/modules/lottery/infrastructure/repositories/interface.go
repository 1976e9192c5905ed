package lotterydb

import (
	"context"
	"errors"
	"time"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
)

// Sentinel errors the repository maps database outcomes onto. The
// service translates these into its own domain errors.
var (
	ErrActiveRoundExists = errors.New("an active round already exists")
	ErrNoActiveRound     = errors.New("no active round")
	ErrRegistryFull      = errors.New("participant registry is full")
	ErrTokenNotBound     = errors.New("correlation token is not bound to a round")

	// Re-exported ledger failures so the service matches one package.
	ErrInsufficientReserve = lotteryledger.ErrInsufficientReserve
	ErrTransferRejected    = lotteryledger.ErrTransferRejected
)

// Repository is the persistence surface for rounds, participants and
// pending randomness requests. Mutating methods are transactional: each
// either applies completely or leaves no trace, and each re-validates
// state under a row lock on the round so concurrent operations on the
// shared round serialize.
type Repository interface {
	// ActiveRound returns the round in open or full state, or nil.
	ActiveRound(ctx context.Context) (*lotterytypes.Round, error)

	// GetRound returns a round by ID, or nil when it does not exist.
	GetRound(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error)

	// Participants returns a round's registry in join order.
	Participants(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error)

	// CreateRound starts a new round with the next round ID. Fails with
	// ErrActiveRoundExists when a round is already open or full.
	CreateRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (*lotterytypes.Round, error)

	// AddParticipant appends the player to the round's registry and
	// credits the entry fee to the pot, atomically. The join that reaches
	// maxParticipants also flips the round to full. Fails with
	// ErrNoActiveRound or ErrRegistryFull.
	AddParticipant(ctx context.Context, roundID lotterytypes.RoundID, player lotterytypes.PlayerID, fee lotterytypes.Amount) (*lotterytypes.Round, error)

	// BindPendingRequest records the correlation token against the round
	// and debits the oracle fee from the reserve, atomically. Fails with
	// ErrInsufficientReserve.
	BindPendingRequest(ctx context.Context, token lotterytypes.CorrelationToken, roundID lotterytypes.RoundID, fee lotterytypes.Amount) error

	// RoundForToken resolves the round bound to a correlation token, or
	// nil when no binding exists.
	RoundForToken(ctx context.Context, token lotterytypes.CorrelationToken) (*lotterytypes.Round, error)

	// SettleRound transfers the whole pot to the winner, marks the round
	// resolved and consumes the token binding, atomically. A rejected
	// transfer fails with ErrTransferRejected and leaves everything as it
	// was. Returns the amount paid out.
	SettleRound(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, token lotterytypes.CorrelationToken) (lotterytypes.Amount, error)

	// VoidRound refunds every participant their entry fee, drops any
	// token binding and marks the round voided, atomically. Returns the
	// refunded total and the number of participants refunded.
	VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (lotterytypes.Amount, int, error)

	// StalledRounds lists rounds that have been full since before the
	// given cutoff.
	StalledRounds(ctx context.Context, fullBefore time.Time) ([]lotterytypes.Round, error)
}

// Package lotteryledger is the funds ledger: an append-only record of
// every movement (entry fees, payouts, refunds, oracle fees, deposits)
// plus account balances, including the oracle fee reserve.
package lotteryledger

import (
	"context"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// Ledger is the surface the service consults directly. Pot credits,
// payouts, refunds and reserve debits run inside repository transactions
// and are not exposed here.
type Ledger interface {
	// ReserveBalance returns the oracle fee reserve balance.
	ReserveBalance(ctx context.Context) (lotterytypes.Amount, error)

	// Deposit accepts unsolicited inbound funds into the fee reserve. It
	// changes no round state.
	Deposit(ctx context.Context, source string, amount lotterytypes.Amount) error

	// PlayerBalance returns a player's account balance.
	PlayerBalance(ctx context.Context, player lotterytypes.PlayerID) (lotterytypes.Amount, error)

	// SetAccountFrozen marks a player account as rejecting (or accepting)
	// inbound transfers. A frozen winner account is how a payout fails.
	SetAccountFrozen(ctx context.Context, player lotterytypes.PlayerID, frozen bool) error
}

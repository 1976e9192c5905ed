package lotteryledger

import (
	"time"

	"github.com/uptrace/bun"
)

// Account kinds.
const (
	AccountKindPlayer  = "player"
	AccountKindReserve = "reserve"
)

// Ledger entry types.
const (
	EntryTypeEntryFee  = "entry_fee"
	EntryTypePayout    = "payout"
	EntryTypeRefund    = "refund"
	EntryTypeOracleFee = "oracle_fee"
	EntryTypeDeposit   = "deposit"
)

// Account holds a balance. The oracle fee reserve is a single well-known
// account; every player gets one on first payout or refund. A frozen
// account rejects inbound transfers, which is how a payout fails.
type Account struct {
	bun.BaseModel `bun:"table:ledger_accounts,alias:a"`

	ID        string    `bun:"id,pk,type:varchar(80)"`
	Kind      string    `bun:"kind,notnull,type:varchar(20)"`
	Balance   int64     `bun:"balance,notnull,default:0"`
	Frozen    bool      `bun:"frozen,notnull,default:false"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// Entry is one row of the append-only ledger. Entries are never updated
// or deleted.
type Entry struct {
	bun.BaseModel `bun:"table:ledger_entries,alias:e"`

	ID        int64     `bun:"id,pk,autoincrement"`
	EntryType string    `bun:"entry_type,notnull,type:varchar(20)"`
	AccountID string    `bun:"account_id,notnull,type:varchar(80)"`
	RoundID   *int64    `bun:"round_id,nullzero"`
	PlayerID  *string   `bun:"player_id,nullzero,type:varchar(80)"`
	Amount    int64     `bun:"amount,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

package lotteryledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

var (
	// ErrInsufficientReserve means the fee reserve cannot cover a debit.
	ErrInsufficientReserve = errors.New("insufficient fee reserve")
	// ErrTransferRejected means the destination account rejects funds.
	ErrTransferRejected = errors.New("transfer rejected by receiver")
)

// ReserveAccountID is the oracle fee reserve account.
const ReserveAccountID = "oracle:reserve"

// PlayerAccountID returns the account ID for a player.
func PlayerAccountID(player lotterytypes.PlayerID) string {
	return "player:" + string(player)
}

// PotAccountID returns the audit account ID for a round's pot. The pot
// balance itself lives on the round row; this account only labels the
// audit entries.
func PotAccountID(roundID lotterytypes.RoundID) string {
	return fmt.Sprintf("pot:%d", roundID)
}

// Store implements Ledger on bun and exposes the transaction-scoped
// helpers the round repository composes into its own transactions.
type Store struct {
	DB *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{DB: db}
}

var _ Ledger = (*Store)(nil)

func (s *Store) ReserveBalance(ctx context.Context) (lotterytypes.Amount, error) {
	var account Account
	err := s.DB.NewSelect().Model(&account).Where("id = ?", ReserveAccountID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return lotterytypes.Amount(account.Balance), nil
}

// Deposit accepts unsolicited inbound funds into the fee reserve. No
// round state changes.
func (s *Store) Deposit(ctx context.Context, source string, amount lotterytypes.Amount) error {
	if amount <= 0 {
		return fmt.Errorf("deposit amount must be positive")
	}
	return s.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := creditAccount(ctx, tx, ReserveAccountID, AccountKindReserve, int64(amount)); err != nil {
			return err
		}
		entry := &Entry{
			EntryType: EntryTypeDeposit,
			AccountID: ReserveAccountID,
			PlayerID:  nullableString(source),
			Amount:    int64(amount),
		}
		_, err := tx.NewInsert().Model(entry).Exec(ctx)
		return err
	})
}

func (s *Store) PlayerBalance(ctx context.Context, player lotterytypes.PlayerID) (lotterytypes.Amount, error) {
	var account Account
	err := s.DB.NewSelect().Model(&account).Where("id = ?", PlayerAccountID(player)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return lotterytypes.Amount(account.Balance), nil
}

func (s *Store) SetAccountFrozen(ctx context.Context, player lotterytypes.PlayerID, frozen bool) error {
	account := &Account{
		ID:     PlayerAccountID(player),
		Kind:   AccountKindPlayer,
		Frozen: frozen,
	}
	_, err := s.DB.NewInsert().
		Model(account).
		On("CONFLICT (id) DO UPDATE").
		Set("frozen = EXCLUDED.frozen").
		Set("updated_at = current_timestamp").
		Exec(ctx)
	return err
}

// CreditPotEntry records an entry-fee movement into a round's pot. The
// pot balance is maintained on the round row by the caller, inside the
// same transaction.
func CreditPotEntry(ctx context.Context, idb bun.IDB, roundID lotterytypes.RoundID, player lotterytypes.PlayerID, amount lotterytypes.Amount) error {
	entry := &Entry{
		EntryType: EntryTypeEntryFee,
		AccountID: PotAccountID(roundID),
		RoundID:   nullableInt64(int64(roundID)),
		PlayerID:  nullableString(string(player)),
		Amount:    int64(amount),
	}
	_, err := idb.NewInsert().Model(entry).Exec(ctx)
	return err
}

// Payout transfers a round's pot to the winner. Fails with
// ErrTransferRejected when the winner's account is frozen; the caller's
// transaction then rolls back, leaving the round full and the pot
// undistributed.
func Payout(ctx context.Context, idb bun.IDB, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, amount lotterytypes.Amount) error {
	accountID := PlayerAccountID(winner)

	account, err := lockAccount(ctx, idb, accountID, AccountKindPlayer)
	if err != nil {
		return err
	}
	if account.Frozen {
		return fmt.Errorf("account %s: %w", accountID, ErrTransferRejected)
	}

	if err := addToBalance(ctx, idb, accountID, int64(amount)); err != nil {
		return err
	}

	entry := &Entry{
		EntryType: EntryTypePayout,
		AccountID: accountID,
		RoundID:   nullableInt64(int64(roundID)),
		PlayerID:  nullableString(string(winner)),
		Amount:    int64(amount),
	}
	_, err = idb.NewInsert().Model(entry).Exec(ctx)
	return err
}

// Refund returns one participant's entry fee out of a voided round's pot.
func Refund(ctx context.Context, idb bun.IDB, roundID lotterytypes.RoundID, player lotterytypes.PlayerID, amount lotterytypes.Amount) error {
	accountID := PlayerAccountID(player)

	// Refunds land even on frozen accounts; freezing only rejects
	// winnings.
	if _, err := lockAccount(ctx, idb, accountID, AccountKindPlayer); err != nil {
		return err
	}
	if err := addToBalance(ctx, idb, accountID, int64(amount)); err != nil {
		return err
	}

	entry := &Entry{
		EntryType: EntryTypeRefund,
		AccountID: accountID,
		RoundID:   nullableInt64(int64(roundID)),
		PlayerID:  nullableString(string(player)),
		Amount:    int64(amount),
	}
	_, err := idb.NewInsert().Model(entry).Exec(ctx)
	return err
}

// DebitReserve takes one oracle fee out of the reserve. Fails with
// ErrInsufficientReserve when the balance cannot cover it.
func DebitReserve(ctx context.Context, idb bun.IDB, roundID lotterytypes.RoundID, fee lotterytypes.Amount) error {
	account, err := lockAccount(ctx, idb, ReserveAccountID, AccountKindReserve)
	if err != nil {
		return err
	}
	if account.Balance < int64(fee) {
		return fmt.Errorf("reserve holds %d, need %d: %w", account.Balance, fee, ErrInsufficientReserve)
	}

	if err := addToBalance(ctx, idb, ReserveAccountID, -int64(fee)); err != nil {
		return err
	}

	entry := &Entry{
		EntryType: EntryTypeOracleFee,
		AccountID: ReserveAccountID,
		RoundID:   nullableInt64(int64(roundID)),
		Amount:    -int64(fee),
	}
	_, err = idb.NewInsert().Model(entry).Exec(ctx)
	return err
}

// creditAccount adds funds to an account, creating it with a zero
// balance when missing.
func creditAccount(ctx context.Context, idb bun.IDB, accountID, kind string, amount int64) error {
	if _, err := lockAccount(ctx, idb, accountID, kind); err != nil {
		return err
	}
	return addToBalance(ctx, idb, accountID, amount)
}

// lockAccount selects the account FOR UPDATE, creating it with a zero
// balance when missing.
func lockAccount(ctx context.Context, idb bun.IDB, accountID, kind string) (*Account, error) {
	account := new(Account)
	err := idb.NewSelect().Model(account).Where("id = ?", accountID).For("UPDATE").Scan(ctx)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	account = &Account{ID: accountID, Kind: kind}
	if _, err := idb.NewInsert().Model(account).On("CONFLICT (id) DO NOTHING").Exec(ctx); err != nil {
		return nil, err
	}
	err = idb.NewSelect().Model(account).Where("id = ?", accountID).For("UPDATE").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return account, nil
}

func addToBalance(ctx context.Context, idb bun.IDB, accountID string, delta int64) error {
	_, err := idb.NewUpdate().
		Model((*Account)(nil)).
		Set("balance = balance + ?", delta).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", accountID).
		Exec(ctx)
	return err
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableInt64(n int64) *int64 {
	return &n
}

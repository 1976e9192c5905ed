package migrations

import (
	"context"
	"fmt"

	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Creating lottery tables...")
			models := []interface{}{
				(*lotterydb.Round)(nil),
				(*lotterydb.Participant)(nil),
				(*lotterydb.PendingRequest)(nil),
				(*lotteryledger.Account)(nil),
				(*lotteryledger.Entry)(nil),
			}
			for _, model := range models {
				if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
					return err
				}
			}

			// At most one round may be open or full at any time.
			if _, err := db.ExecContext(ctx,
				`CREATE UNIQUE INDEX IF NOT EXISTS rounds_single_active_idx
				 ON rounds ((1)) WHERE state IN ('open', 'full')`); err != nil {
				return err
			}

			if _, err := db.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS ledger_entries_account_idx
				 ON ledger_entries (account_id)`); err != nil {
				return err
			}
			if _, err := db.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS ledger_entries_round_idx
				 ON ledger_entries (round_id)`); err != nil {
				return err
			}

			fmt.Println("Lottery tables created successfully!")
			return nil
		},
		func(ctx context.Context, db *bun.DB) error {
			fmt.Println("Dropping lottery tables...")
			models := []interface{}{
				(*lotteryledger.Entry)(nil),
				(*lotteryledger.Account)(nil),
				(*lotterydb.PendingRequest)(nil),
				(*lotterydb.Participant)(nil),
				(*lotterydb.Round)(nil),
			}
			for _, model := range models {
				if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
					return err
				}
			}
			fmt.Println("Lottery tables dropped successfully!")
			return nil
		},
	)
}

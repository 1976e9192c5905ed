package lotterydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
)

// RoundDBImpl implements Repository on bun.
type RoundDBImpl struct {
	DB *bun.DB
}

var _ Repository = (*RoundDBImpl)(nil)

func NewRoundDB(db *bun.DB) *RoundDBImpl {
	return &RoundDBImpl{DB: db}
}

func (db *RoundDBImpl) ActiveRound(ctx context.Context) (*lotterytypes.Round, error) {
	var round Round
	err := db.DB.NewSelect().
		Model(&round).
		Where("state IN (?)", bun.In([]string{string(lotterytypes.RoundStateOpen), string(lotterytypes.RoundStateFull)})).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainRound(&round), nil
}

func (db *RoundDBImpl) GetRound(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error) {
	var round Round
	err := db.DB.NewSelect().Model(&round).Where("id = ?", int64(id)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainRound(&round), nil
}

func (db *RoundDBImpl) Participants(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
	var rows []Participant
	err := db.DB.NewSelect().
		Model(&rows).
		Where("round_id = ?", int64(id)).
		Order("position ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	participants := make([]lotterytypes.Participant, len(rows))
	for i := range rows {
		participants[i] = toDomainParticipant(&rows[i])
	}
	return participants, nil
}

func (db *RoundDBImpl) CreateRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (*lotterytypes.Round, error) {
	var created Round
	err := db.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// Serialize starts against each other and against active rounds.
		exists, err := tx.NewSelect().
			Model((*Round)(nil)).
			Where("state IN (?)", bun.In([]string{string(lotterytypes.RoundStateOpen), string(lotterytypes.RoundStateFull)})).
			For("UPDATE").
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrActiveRoundExists
		}

		var lastID int64
		if err := tx.NewSelect().
			ColumnExpr("COALESCE(MAX(id), 0)").
			Model((*Round)(nil)).
			Scan(ctx, &lastID); err != nil {
			return err
		}

		created = Round{
			ID:              lastID + 1,
			State:           string(lotterytypes.RoundStateOpen),
			MaxParticipants: maxParticipants,
			EntryFee:        int64(entryFee),
			StartedAt:       time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(&created).Exec(ctx); err != nil {
			// The partial unique index backs up the FOR UPDATE check.
			return fmt.Errorf("%w: %v", ErrActiveRoundExists, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainRound(&created), nil
}

func (db *RoundDBImpl) AddParticipant(ctx context.Context, roundID lotterytypes.RoundID, player lotterytypes.PlayerID, fee lotterytypes.Amount) (*lotterytypes.Round, error) {
	var updated Round
	err := db.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		round, err := lockRound(ctx, tx, roundID)
		if err != nil {
			return err
		}
		if round == nil || round.State != string(lotterytypes.RoundStateOpen) {
			return ErrNoActiveRound
		}
		if round.ParticipantCount >= round.MaxParticipants {
			return ErrRegistryFull
		}

		now := time.Now().UTC()
		participant := &Participant{
			RoundID:  round.ID,
			Position: round.ParticipantCount,
			PlayerID: string(player),
			JoinedAt: now,
		}
		if _, err := tx.NewInsert().Model(participant).Exec(ctx); err != nil {
			return err
		}

		// Fee collection and registry append are one atomic step.
		if err := lotteryledger.CreditPotEntry(ctx, tx, roundID, player, fee); err != nil {
			return err
		}

		round.ParticipantCount++
		round.Pot += int64(fee)
		if round.ParticipantCount == round.MaxParticipants {
			round.State = string(lotterytypes.RoundStateFull)
			round.FullAt = &now
		}

		if _, err := tx.NewUpdate().
			Model(round).
			Column("state", "participant_count", "pot", "full_at").
			WherePK().
			Exec(ctx); err != nil {
			return err
		}

		updated = *round
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toDomainRound(&updated), nil
}

func (db *RoundDBImpl) BindPendingRequest(ctx context.Context, token lotterytypes.CorrelationToken, roundID lotterytypes.RoundID, fee lotterytypes.Amount) error {
	return db.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		// The round must still be full when the binding commits; a void
		// that slipped in since the filling join aborts the request
		// before the reserve is touched.
		round, err := lockRound(ctx, tx, roundID)
		if err != nil {
			return err
		}
		if round == nil || round.State != string(lotterytypes.RoundStateFull) {
			return ErrNoActiveRound
		}

		if err := lotteryledger.DebitReserve(ctx, tx, roundID, fee); err != nil {
			return err
		}

		pending := &PendingRequest{
			Token:       token.String(),
			RoundID:     int64(roundID),
			Fee:         int64(fee),
			RequestedAt: time.Now().UTC(),
		}
		if _, err := tx.NewInsert().Model(pending).Exec(ctx); err != nil {
			return err
		}

		tokenStr := token.String()
		_, err = tx.NewUpdate().
			Model((*Round)(nil)).
			Set("token = ?", tokenStr).
			Where("id = ?", int64(roundID)).
			Exec(ctx)
		return err
	})
}

func (db *RoundDBImpl) RoundForToken(ctx context.Context, token lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
	var pending PendingRequest
	err := db.DB.NewSelect().Model(&pending).Where("token = ?", token.String()).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return db.GetRound(ctx, lotterytypes.RoundID(pending.RoundID))
}

func (db *RoundDBImpl) SettleRound(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, token lotterytypes.CorrelationToken) (lotterytypes.Amount, error) {
	var payout int64
	err := db.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		round, err := lockRound(ctx, tx, roundID)
		if err != nil {
			return err
		}
		if round == nil || round.State != string(lotterytypes.RoundStateFull) {
			return ErrTokenNotBound
		}

		// Consuming the binding here makes a replayed callback miss: if
		// anything below fails the rollback restores it.
		res, err := tx.NewDelete().
			Model((*PendingRequest)(nil)).
			Where("token = ? AND round_id = ?", token.String(), int64(roundID)).
			Exec(ctx)
		if err != nil {
			return err
		}
		if affected, err := res.RowsAffected(); err != nil {
			return err
		} else if affected == 0 {
			return ErrTokenNotBound
		}

		if err := lotteryledger.Payout(ctx, tx, roundID, winner, lotterytypes.Amount(round.Pot)); err != nil {
			return err
		}

		payout = round.Pot
		now := time.Now().UTC()
		winnerID := string(winner)
		round.State = string(lotterytypes.RoundStateResolved)
		round.WinnerID = &winnerID
		round.Pot = 0
		round.ClosedAt = &now

		_, err = tx.NewUpdate().
			Model(round).
			Column("state", "winner_id", "pot", "closed_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, err
	}
	return lotterytypes.Amount(payout), nil
}

func (db *RoundDBImpl) VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (lotterytypes.Amount, int, error) {
	var (
		refunded int64
		count    int
	)
	err := db.DB.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		round, err := lockRound(ctx, tx, roundID)
		if err != nil {
			return err
		}
		if round == nil || !lotterytypes.RoundState(round.State).IsActive() {
			return ErrNoActiveRound
		}

		var participants []Participant
		if err := tx.NewSelect().
			Model(&participants).
			Where("round_id = ?", int64(roundID)).
			Order("position ASC").
			Scan(ctx); err != nil {
			return err
		}

		for i := range participants {
			player := lotterytypes.PlayerID(participants[i].PlayerID)
			if err := lotteryledger.Refund(ctx, tx, roundID, player, lotterytypes.Amount(round.EntryFee)); err != nil {
				return err
			}
			refunded += round.EntryFee
		}
		count = len(participants)

		if _, err := tx.NewDelete().
			Model((*PendingRequest)(nil)).
			Where("round_id = ?", int64(roundID)).
			Exec(ctx); err != nil {
			return err
		}

		now := time.Now().UTC()
		round.State = string(lotterytypes.RoundStateVoided)
		round.Pot = 0
		round.ClosedAt = &now

		_, err = tx.NewUpdate().
			Model(round).
			Column("state", "pot", "closed_at").
			WherePK().
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, 0, err
	}
	return lotterytypes.Amount(refunded), count, nil
}

func (db *RoundDBImpl) StalledRounds(ctx context.Context, fullBefore time.Time) ([]lotterytypes.Round, error) {
	var rows []Round
	err := db.DB.NewSelect().
		Model(&rows).
		Where("state = ?", string(lotterytypes.RoundStateFull)).
		Where("full_at < ?", fullBefore).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	rounds := make([]lotterytypes.Round, len(rows))
	for i := range rows {
		rounds[i] = *toDomainRound(&rows[i])
	}
	return rounds, nil
}

// lockRound selects a round FOR UPDATE, or nil when it does not exist.
func lockRound(ctx context.Context, tx bun.Tx, roundID lotterytypes.RoundID) (*Round, error) {
	round := new(Round)
	err := tx.NewSelect().Model(round).Where("id = ?", int64(roundID)).For("UPDATE").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return round, nil
}

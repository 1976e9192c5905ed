package lotterydb

import (
	"time"

	"github.com/uptrace/bun"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// Round is the rounds table. A partial unique index (see migrations)
// allows at most one row in open or full state, which is the
// single-active-round invariant at the storage level.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID               int64      `bun:"id,pk"`
	State            string     `bun:"state,notnull,type:varchar(10)"`
	MaxParticipants  int        `bun:"max_participants,notnull"`
	EntryFee         int64      `bun:"entry_fee,notnull"`
	ParticipantCount int        `bun:"participant_count,notnull,default:0"`
	Pot              int64      `bun:"pot,notnull,default:0"`
	WinnerID         *string    `bun:"winner_id,nullzero,type:varchar(80)"`
	Token            *string    `bun:"token,nullzero,type:varchar(36)"`
	StartedAt        time.Time  `bun:"started_at,nullzero,notnull,default:current_timestamp"`
	FullAt           *time.Time `bun:"full_at,nullzero"`
	ClosedAt         *time.Time `bun:"closed_at,nullzero"`
}

// Participant is the round_participants table. Position is the join
// order within the round, starting at 0.
type Participant struct {
	bun.BaseModel `bun:"table:round_participants,alias:p"`

	RoundID  int64     `bun:"round_id,pk"`
	Position int       `bun:"position,pk"`
	PlayerID string    `bun:"player_id,notnull,type:varchar(80)"`
	JoinedAt time.Time `bun:"joined_at,nullzero,notnull,default:current_timestamp"`
}

// PendingRequest is the pending_requests table: the correlation between
// an issued randomness request and its round. The row is deleted in the
// same transaction that settles the round, so a replayed callback finds
// no binding.
type PendingRequest struct {
	bun.BaseModel `bun:"table:pending_requests,alias:pr"`

	Token       string    `bun:"token,pk,type:varchar(36)"`
	RoundID     int64     `bun:"round_id,notnull,unique"`
	Fee         int64     `bun:"fee,notnull"`
	RequestedAt time.Time `bun:"requested_at,nullzero,notnull,default:current_timestamp"`
}

func toDomainRound(r *Round) *lotterytypes.Round {
	if r == nil {
		return nil
	}
	round := &lotterytypes.Round{
		ID:               lotterytypes.RoundID(r.ID),
		State:            lotterytypes.RoundState(r.State),
		MaxParticipants:  r.MaxParticipants,
		EntryFee:         lotterytypes.Amount(r.EntryFee),
		ParticipantCount: r.ParticipantCount,
		Pot:              lotterytypes.Amount(r.Pot),
		StartedAt:        r.StartedAt,
		FullAt:           r.FullAt,
		ClosedAt:         r.ClosedAt,
	}
	if r.WinnerID != nil {
		winner := lotterytypes.PlayerID(*r.WinnerID)
		round.Winner = &winner
	}
	if r.Token != nil {
		if token, err := lotterytypes.ParseCorrelationToken(*r.Token); err == nil {
			round.Token = &token
		}
	}
	return round
}

func toDomainParticipant(p *Participant) lotterytypes.Participant {
	return lotterytypes.Participant{
		RoundID:  lotterytypes.RoundID(p.RoundID),
		Position: p.Position,
		PlayerID: lotterytypes.PlayerID(p.PlayerID),
		JoinedAt: p.JoinedAt,
	}
}

package lotteryservice

import (
	"context"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// CurrentRound returns a snapshot of the active round, or nil when no
// round is running. The round state surface is readable by anyone.
func (s *LotteryService) CurrentRound(ctx context.Context) (*RoundSnapshot, error) {
	round, err := s.repo.ActiveRound(ctx)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, nil
	}
	return s.snapshot(ctx, round)
}

// Round returns a snapshot of any round by ID, or nil when it does not
// exist.
func (s *LotteryService) Round(ctx context.Context, id lotterytypes.RoundID) (*RoundSnapshot, error) {
	round, err := s.repo.GetRound(ctx, id)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, nil
	}
	return s.snapshot(ctx, round)
}

func (s *LotteryService) snapshot(ctx context.Context, round *lotterytypes.Round) (*RoundSnapshot, error) {
	participants, err := s.repo.Participants(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	return &RoundSnapshot{
		Round:        *round,
		Participants: participants,
	}, nil
}

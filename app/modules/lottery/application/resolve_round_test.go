package lotteryservice

import (
	"context"
	"errors"
	"testing"
	"time"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
)

func fullRound(id lotterytypes.RoundID, max int, fee lotterytypes.Amount, token lotterytypes.CorrelationToken) *lotterytypes.Round {
	now := time.Now().UTC()
	return &lotterytypes.Round{
		ID:               id,
		State:            lotterytypes.RoundStateFull,
		MaxParticipants:  max,
		EntryFee:         fee,
		ParticipantCount: max,
		Pot:              fee * lotterytypes.Amount(max),
		Token:            &token,
		FullAt:           &now,
	}
}

func registry(roundID lotterytypes.RoundID, players ...lotterytypes.PlayerID) []lotterytypes.Participant {
	out := make([]lotterytypes.Participant, len(players))
	for i, p := range players {
		out[i] = lotterytypes.Participant{RoundID: roundID, Position: i, PlayerID: p}
	}
	return out
}

func TestLotteryService_ResolveRound_WinnerSelection(t *testing.T) {
	// Two participants paying 100 each, random value 7: 7 % 2 = 1, so the
	// second joiner wins the whole pot.
	token := lotterytypes.NewCorrelationToken()

	repo := NewFakeRepository()
	repo.RoundForTokenFunc = func(ctx context.Context, got lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
		if got != token {
			t.Errorf("looked up token %s, want %s", got, token)
		}
		return fullRound(1, 2, 100, token), nil
	}
	repo.ParticipantsFunc = func(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
		return registry(1, "alice", "bob"), nil
	}

	var settledWinner lotterytypes.PlayerID
	repo.SettleRoundFunc = func(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, got lotterytypes.CorrelationToken) (lotterytypes.Amount, error) {
		settledWinner = winner
		return 200, nil
	}

	svc := newTestService(repo, &FakeLedger{}, &FakeOracle{})

	result, err := svc.ResolveRound(context.Background(), token, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload, ok := result.Success.(*lotteryevents.GameEndedPayloadV1)
	if !ok {
		t.Fatalf("unexpected success payload %T", result.Success)
	}
	if payload.Winner != "bob" || settledWinner != "bob" {
		t.Errorf("winner = %s (settled %s), want bob", payload.Winner, settledWinner)
	}
	if payload.Payout != 200 {
		t.Errorf("payout = %d, want 200", payload.Payout)
	}
	if payload.Token != token {
		t.Error("ended event must carry the consumed token")
	}
}

func TestLotteryService_ResolveRound_WinnerIndexStaysInBounds(t *testing.T) {
	token := lotterytypes.NewCorrelationToken()
	players := []lotterytypes.PlayerID{"a", "b", "c"}

	for _, randomValue := range []uint64{0, 1, 2, 3, 17, ^uint64(0)} {
		repo := NewFakeRepository()
		repo.RoundForTokenFunc = func(ctx context.Context, got lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
			return fullRound(1, 3, 10, token), nil
		}
		repo.ParticipantsFunc = func(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
			return registry(1, players...), nil
		}
		repo.SettleRoundFunc = func(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, got lotterytypes.CorrelationToken) (lotterytypes.Amount, error) {
			return 30, nil
		}

		svc := newTestService(repo, &FakeLedger{}, &FakeOracle{})
		result, err := svc.ResolveRound(context.Background(), token, randomValue)
		if err != nil {
			t.Fatalf("randomValue=%d: unexpected error: %v", randomValue, err)
		}

		payload := result.Success.(*lotteryevents.GameEndedPayloadV1)
		want := players[randomValue%3]
		if payload.Winner != want {
			t.Errorf("randomValue=%d: winner %s, want %s", randomValue, payload.Winner, want)
		}
	}
}

func TestLotteryService_ResolveRound_Failures(t *testing.T) {
	token := lotterytypes.NewCorrelationToken()

	tests := []struct {
		name        string
		setupFake   func(*FakeRepository)
		wantFailure error
	}{
		{
			name:        "unknown token",
			setupFake:   func(f *FakeRepository) {},
			wantFailure: ErrUnknownRequest,
		},
		{
			name: "payout rejected",
			setupFake: func(f *FakeRepository) {
				f.RoundForTokenFunc = func(ctx context.Context, got lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
					return fullRound(1, 2, 100, token), nil
				}
				f.ParticipantsFunc = func(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
					return registry(1, "alice", "bob"), nil
				}
				f.SettleRoundFunc = func(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, got lotterytypes.CorrelationToken) (lotterytypes.Amount, error) {
					return 0, lotterydb.ErrTransferRejected
				}
			},
			wantFailure: ErrPayoutFailed,
		},
		{
			name: "replayed callback loses settle race",
			setupFake: func(f *FakeRepository) {
				f.RoundForTokenFunc = func(ctx context.Context, got lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
					return fullRound(1, 2, 100, token), nil
				}
				f.ParticipantsFunc = func(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
					return registry(1, "alice", "bob"), nil
				}
				f.SettleRoundFunc = func(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, got lotterytypes.CorrelationToken) (lotterytypes.Amount, error) {
					return 0, lotterydb.ErrTokenNotBound
				}
			},
			wantFailure: ErrUnknownRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRepository()
			tt.setupFake(repo)
			svc := newTestService(repo, &FakeLedger{}, &FakeOracle{})

			result, err := svc.ResolveRound(context.Background(), token, 7)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !errors.Is(result.Error, tt.wantFailure) {
				t.Errorf("got failure error %v, want %v", result.Error, tt.wantFailure)
			}
			if _, ok := result.Failure.(*lotteryevents.RoundResolutionFailedPayloadV1); !ok {
				t.Errorf("unexpected failure payload %T", result.Failure)
			}
		})
	}
}

func TestLotteryService_ResolveRound_EmptyRegistryIsInfrastructureError(t *testing.T) {
	token := lotterytypes.NewCorrelationToken()

	repo := NewFakeRepository()
	repo.RoundForTokenFunc = func(ctx context.Context, got lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
		return fullRound(1, 2, 100, token), nil
	}
	repo.ParticipantsFunc = func(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
		return nil, nil
	}

	svc := newTestService(repo, &FakeLedger{}, &FakeOracle{})
	if _, err := svc.ResolveRound(context.Background(), token, 7); err == nil {
		t.Fatal("expected an error for a bound token with no participants")
	}
}

package lotteryservice

import (
	"context"
	"errors"
	"testing"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
)

func TestLotteryService_VoidRound(t *testing.T) {
	tests := []struct {
		name        string
		setupFake   func(*FakeRepository)
		wantErr     bool
		wantFailure error
	}{
		{
			name: "success - full round voided with refunds",
			setupFake: func(f *FakeRepository) {
				f.GetRoundFunc = func(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error) {
					r := openRound(1, 2, 2, 100)
					r.State = lotterytypes.RoundStateFull
					return r, nil
				}
				f.VoidRoundFunc = func(ctx context.Context, roundID lotterytypes.RoundID) (lotterytypes.Amount, int, error) {
					return 200, 2, nil
				}
			},
		},
		{
			name:        "failure - round not found",
			setupFake:   func(f *FakeRepository) {},
			wantFailure: ErrRoundNotFound,
		},
		{
			name: "failure - resolved round is not voidable",
			setupFake: func(f *FakeRepository) {
				f.GetRoundFunc = func(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error) {
					r := openRound(1, 2, 2, 100)
					r.State = lotterytypes.RoundStateResolved
					return r, nil
				}
			},
			wantFailure: ErrRoundNotVoidable,
		},
		{
			name: "failure - round settled between check and void",
			setupFake: func(f *FakeRepository) {
				f.GetRoundFunc = func(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error) {
					r := openRound(1, 2, 2, 100)
					r.State = lotterytypes.RoundStateFull
					return r, nil
				}
				f.VoidRoundFunc = func(ctx context.Context, roundID lotterytypes.RoundID) (lotterytypes.Amount, int, error) {
					return 0, 0, lotterydb.ErrNoActiveRound
				}
			},
			wantFailure: ErrRoundNotVoidable,
		},
		{
			name: "error - repository failure",
			setupFake: func(f *FakeRepository) {
				f.GetRoundFunc = func(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error) {
					return nil, context.DeadlineExceeded
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeRepository()
			tt.setupFake(repo)
			svc := newTestService(repo, &FakeLedger{}, &FakeOracle{})

			result, err := svc.VoidRound(context.Background(), 1)

			if (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, want error %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if tt.wantFailure != nil {
				if !errors.Is(result.Error, tt.wantFailure) {
					t.Errorf("got failure error %v, want %v", result.Error, tt.wantFailure)
				}
				return
			}

			payload, ok := result.Success.(*lotteryevents.RoundVoidedPayloadV1)
			if !ok {
				t.Fatalf("unexpected success payload %T", result.Success)
			}
			if payload.Refunded != 200 || payload.Participants != 2 {
				t.Errorf("got refunded=%d participants=%d, want 200/2", payload.Refunded, payload.Participants)
			}
		})
	}
}

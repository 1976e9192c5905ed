package lotteryhandlers

import (
	"context"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// ------------------------
// Fake Lottery Service
// ------------------------

// FakeLotteryService provides a programmable stub for the
// lotteryservice.Service interface.
type FakeLotteryService struct {
	trace []string

	StartRoundFunc   func(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (results.OperationResult, error)
	JoinRoundFunc    func(ctx context.Context, player lotterytypes.PlayerID, paidAmount lotterytypes.Amount) (results.OperationResult, error)
	ResolveRoundFunc func(ctx context.Context, token lotterytypes.CorrelationToken, randomValue uint64) (results.OperationResult, error)
	VoidRoundFunc    func(ctx context.Context, roundID lotterytypes.RoundID) (results.OperationResult, error)
	CurrentRoundFunc func(ctx context.Context) (*lotteryservice.RoundSnapshot, error)
	RoundFunc        func(ctx context.Context, id lotterytypes.RoundID) (*lotteryservice.RoundSnapshot, error)
}

func NewFakeLotteryService() *FakeLotteryService {
	return &FakeLotteryService{trace: []string{}}
}

func (f *FakeLotteryService) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of service methods called.
func (f *FakeLotteryService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeLotteryService) StartRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (results.OperationResult, error) {
	f.record("StartRound")
	if f.StartRoundFunc != nil {
		return f.StartRoundFunc(ctx, maxParticipants, entryFee)
	}
	return results.OperationResult{}, nil
}

func (f *FakeLotteryService) JoinRound(ctx context.Context, player lotterytypes.PlayerID, paidAmount lotterytypes.Amount) (results.OperationResult, error) {
	f.record("JoinRound")
	if f.JoinRoundFunc != nil {
		return f.JoinRoundFunc(ctx, player, paidAmount)
	}
	return results.OperationResult{}, nil
}

func (f *FakeLotteryService) ResolveRound(ctx context.Context, token lotterytypes.CorrelationToken, randomValue uint64) (results.OperationResult, error) {
	f.record("ResolveRound")
	if f.ResolveRoundFunc != nil {
		return f.ResolveRoundFunc(ctx, token, randomValue)
	}
	return results.OperationResult{}, nil
}

func (f *FakeLotteryService) VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (results.OperationResult, error) {
	f.record("VoidRound")
	if f.VoidRoundFunc != nil {
		return f.VoidRoundFunc(ctx, roundID)
	}
	return results.OperationResult{}, nil
}

func (f *FakeLotteryService) CurrentRound(ctx context.Context) (*lotteryservice.RoundSnapshot, error) {
	f.record("CurrentRound")
	if f.CurrentRoundFunc != nil {
		return f.CurrentRoundFunc(ctx)
	}
	return nil, nil
}

func (f *FakeLotteryService) Round(ctx context.Context, id lotterytypes.RoundID) (*lotteryservice.RoundSnapshot, error) {
	f.record("Round")
	if f.RoundFunc != nil {
		return f.RoundFunc(ctx, id)
	}
	return nil, nil
}

var _ lotteryservice.Service = (*FakeLotteryService)(nil)

// ------------------------
// Fake Verifier
// ------------------------

type FakeVerifier struct {
	VerifyFunc func(token lotterytypes.CorrelationToken, randomValue uint64, signature []byte) error
}

func (f *FakeVerifier) Verify(token lotterytypes.CorrelationToken, randomValue uint64, signature []byte) error {
	if f.VerifyFunc != nil {
		return f.VerifyFunc(token, randomValue, signature)
	}
	return nil
}

var _ oracle.Verifier = (*FakeVerifier)(nil)

package lotteryservice

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace/noop"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	lotteryledger "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/ledger"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/High-Roller-Club/lotto-coordinator/internal/observability"
	"github.com/High-Roller-Club/lotto-coordinator/internal/oracle"
)

// ------------------------
// Fake Repository
// ------------------------

// FakeRepository provides a programmable stub for lotterydb.Repository.
type FakeRepository struct {
	trace []string

	ActiveRoundFunc        func(ctx context.Context) (*lotterytypes.Round, error)
	GetRoundFunc           func(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error)
	ParticipantsFunc       func(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error)
	CreateRoundFunc        func(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (*lotterytypes.Round, error)
	AddParticipantFunc     func(ctx context.Context, roundID lotterytypes.RoundID, player lotterytypes.PlayerID, fee lotterytypes.Amount) (*lotterytypes.Round, error)
	BindPendingRequestFunc func(ctx context.Context, token lotterytypes.CorrelationToken, roundID lotterytypes.RoundID, fee lotterytypes.Amount) error
	RoundForTokenFunc      func(ctx context.Context, token lotterytypes.CorrelationToken) (*lotterytypes.Round, error)
	SettleRoundFunc        func(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, token lotterytypes.CorrelationToken) (lotterytypes.Amount, error)
	VoidRoundFunc          func(ctx context.Context, roundID lotterytypes.RoundID) (lotterytypes.Amount, int, error)
	StalledRoundsFunc      func(ctx context.Context, fullBefore time.Time) ([]lotterytypes.Round, error)
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}}
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of repository methods called.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) ActiveRound(ctx context.Context) (*lotterytypes.Round, error) {
	f.record("ActiveRound")
	if f.ActiveRoundFunc != nil {
		return f.ActiveRoundFunc(ctx)
	}
	return nil, nil
}

func (f *FakeRepository) GetRound(ctx context.Context, id lotterytypes.RoundID) (*lotterytypes.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, id)
	}
	return nil, nil
}

func (f *FakeRepository) Participants(ctx context.Context, id lotterytypes.RoundID) ([]lotterytypes.Participant, error) {
	f.record("Participants")
	if f.ParticipantsFunc != nil {
		return f.ParticipantsFunc(ctx, id)
	}
	return nil, nil
}

func (f *FakeRepository) CreateRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (*lotterytypes.Round, error) {
	f.record("CreateRound")
	if f.CreateRoundFunc != nil {
		return f.CreateRoundFunc(ctx, maxParticipants, entryFee)
	}
	return nil, nil
}

func (f *FakeRepository) AddParticipant(ctx context.Context, roundID lotterytypes.RoundID, player lotterytypes.PlayerID, fee lotterytypes.Amount) (*lotterytypes.Round, error) {
	f.record("AddParticipant")
	if f.AddParticipantFunc != nil {
		return f.AddParticipantFunc(ctx, roundID, player, fee)
	}
	return nil, nil
}

func (f *FakeRepository) BindPendingRequest(ctx context.Context, token lotterytypes.CorrelationToken, roundID lotterytypes.RoundID, fee lotterytypes.Amount) error {
	f.record("BindPendingRequest")
	if f.BindPendingRequestFunc != nil {
		return f.BindPendingRequestFunc(ctx, token, roundID, fee)
	}
	return nil
}

func (f *FakeRepository) RoundForToken(ctx context.Context, token lotterytypes.CorrelationToken) (*lotterytypes.Round, error) {
	f.record("RoundForToken")
	if f.RoundForTokenFunc != nil {
		return f.RoundForTokenFunc(ctx, token)
	}
	return nil, nil
}

func (f *FakeRepository) SettleRound(ctx context.Context, roundID lotterytypes.RoundID, winner lotterytypes.PlayerID, token lotterytypes.CorrelationToken) (lotterytypes.Amount, error) {
	f.record("SettleRound")
	if f.SettleRoundFunc != nil {
		return f.SettleRoundFunc(ctx, roundID, winner, token)
	}
	return 0, nil
}

func (f *FakeRepository) VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (lotterytypes.Amount, int, error) {
	f.record("VoidRound")
	if f.VoidRoundFunc != nil {
		return f.VoidRoundFunc(ctx, roundID)
	}
	return 0, 0, nil
}

func (f *FakeRepository) StalledRounds(ctx context.Context, fullBefore time.Time) ([]lotterytypes.Round, error) {
	f.record("StalledRounds")
	if f.StalledRoundsFunc != nil {
		return f.StalledRoundsFunc(ctx, fullBefore)
	}
	return nil, nil
}

var _ lotterydb.Repository = (*FakeRepository)(nil)

// ------------------------
// Fake Ledger
// ------------------------

type FakeLedger struct {
	ReserveBalanceFunc   func(ctx context.Context) (lotterytypes.Amount, error)
	DepositFunc          func(ctx context.Context, source string, amount lotterytypes.Amount) error
	PlayerBalanceFunc    func(ctx context.Context, player lotterytypes.PlayerID) (lotterytypes.Amount, error)
	SetAccountFrozenFunc func(ctx context.Context, player lotterytypes.PlayerID, frozen bool) error
}

func (f *FakeLedger) ReserveBalance(ctx context.Context) (lotterytypes.Amount, error) {
	if f.ReserveBalanceFunc != nil {
		return f.ReserveBalanceFunc(ctx)
	}
	return 0, nil
}

func (f *FakeLedger) Deposit(ctx context.Context, source string, amount lotterytypes.Amount) error {
	if f.DepositFunc != nil {
		return f.DepositFunc(ctx, source, amount)
	}
	return nil
}

func (f *FakeLedger) PlayerBalance(ctx context.Context, player lotterytypes.PlayerID) (lotterytypes.Amount, error) {
	if f.PlayerBalanceFunc != nil {
		return f.PlayerBalanceFunc(ctx, player)
	}
	return 0, nil
}

func (f *FakeLedger) SetAccountFrozen(ctx context.Context, player lotterytypes.PlayerID, frozen bool) error {
	if f.SetAccountFrozenFunc != nil {
		return f.SetAccountFrozenFunc(ctx, player, frozen)
	}
	return nil
}

var _ lotteryledger.Ledger = (*FakeLedger)(nil)

// ------------------------
// Fake Oracle Client
// ------------------------

type FakeOracle struct {
	Requests              []oracle.Request
	RequestRandomnessFunc func(ctx context.Context, req oracle.Request) error
}

func (f *FakeOracle) RequestRandomness(ctx context.Context, req oracle.Request) error {
	f.Requests = append(f.Requests, req)
	if f.RequestRandomnessFunc != nil {
		return f.RequestRandomnessFunc(ctx, req)
	}
	return nil
}

var _ oracle.Client = (*FakeOracle)(nil)

// ------------------------
// Test service constructor
// ------------------------

const (
	testKeyHash   = "keyhash-aa"
	testOracleFee = lotterytypes.Amount(50)
)

func newTestService(repo *FakeRepository, ledger *FakeLedger, oracleClient *FakeOracle) *LotteryService {
	return NewLotteryService(
		repo,
		ledger,
		oracleClient,
		observability.NoOpLogger,
		observability.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		testKeyHash,
		testOracleFee,
	)
}

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/go-cmp/cmp"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/results"
	"github.com/High-Roller-Club/lotto-coordinator/config"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
	"github.com/High-Roller-Club/lotto-coordinator/internal/observability"
)

// fakeService stubs the read surface; command endpoints never call it.
type fakeService struct {
	current *lotteryservice.RoundSnapshot
	byID    map[lotterytypes.RoundID]*lotteryservice.RoundSnapshot
}

func (f *fakeService) StartRound(ctx context.Context, maxParticipants int, entryFee lotterytypes.Amount) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeService) JoinRound(ctx context.Context, player lotterytypes.PlayerID, paidAmount lotterytypes.Amount) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeService) ResolveRound(ctx context.Context, token lotterytypes.CorrelationToken, randomValue uint64) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeService) VoidRound(ctx context.Context, roundID lotterytypes.RoundID) (results.OperationResult, error) {
	return results.OperationResult{}, nil
}

func (f *fakeService) CurrentRound(ctx context.Context) (*lotteryservice.RoundSnapshot, error) {
	return f.current, nil
}

func (f *fakeService) Round(ctx context.Context, id lotterytypes.RoundID) (*lotteryservice.RoundSnapshot, error) {
	return f.byID[id], nil
}

type fakeLedger struct {
	deposits map[string]lotterytypes.Amount
	frozen   map[lotterytypes.PlayerID]bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		deposits: map[string]lotterytypes.Amount{},
		frozen:   map[lotterytypes.PlayerID]bool{},
	}
}

func (f *fakeLedger) ReserveBalance(ctx context.Context) (lotterytypes.Amount, error) {
	return 0, nil
}

func (f *fakeLedger) Deposit(ctx context.Context, source string, amount lotterytypes.Amount) error {
	f.deposits[source] += amount
	return nil
}

func (f *fakeLedger) PlayerBalance(ctx context.Context, player lotterytypes.PlayerID) (lotterytypes.Amount, error) {
	return 42, nil
}

func (f *fakeLedger) SetAccountFrozen(ctx context.Context, player lotterytypes.PlayerID, frozen bool) error {
	f.frozen[player] = frozen
	return nil
}

// fakeBus records published messages per topic.
type fakeBus struct {
	published map[string][]*message.Message
}

func newFakeBus() *fakeBus {
	return &fakeBus{published: map[string][]*message.Message{}}
}

func (f *fakeBus) Publish(topic string, messages ...*message.Message) error {
	f.published[topic] = append(f.published[topic], messages...)
	return nil
}

func (f *fakeBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return nil, nil
}

func (f *fakeBus) EnsureStream(ctx context.Context, name string, subjects []string) error {
	return nil
}

func (f *fakeBus) Close() error { return nil }

var _ eventbus.EventBus = (*fakeBus)(nil)

func testServer(t *testing.T, svc *fakeService, ledger *fakeLedger, bus *fakeBus) *Server {
	t.Helper()
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Addr: ":0", JoinRateLimit: 100, JoinRateBurst: 100},
		JWT:  config.JWTConfig{Secret: "test-secret", DefaultTTL: time.Minute},
	}
	return NewServer(cfg, observability.NoOpLogger, svc, ledger, bus)
}

func TestServer_ReadEndpoints(t *testing.T) {
	snapshot := &lotteryservice.RoundSnapshot{
		Round: lotterytypes.Round{ID: 3, State: lotterytypes.RoundStateOpen, MaxParticipants: 2, EntryFee: 100},
	}
	svc := &fakeService{
		current: snapshot,
		byID:    map[lotterytypes.RoundID]*lotteryservice.RoundSnapshot{3: snapshot},
	}
	srv := testServer(t, svc, newFakeLedger(), newFakeBus())
	router := srv.routes()

	t.Run("healthz", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("got status %d", rec.Code)
		}
	})

	t.Run("current round", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds/current", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d", rec.Code)
		}
	})

	t.Run("round by id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds/3", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("got status %d", rec.Code)
		}
	})

	t.Run("unknown round", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds/99", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("got status %d", rec.Code)
		}
	})

	t.Run("no current round", func(t *testing.T) {
		empty := testServer(t, &fakeService{}, newFakeLedger(), newFakeBus())
		rec := httptest.NewRecorder()
		empty.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rounds/current", nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("got status %d", rec.Code)
		}
	})
}

func TestServer_JoinPublishesRequest(t *testing.T) {
	bus := newFakeBus()
	srv := testServer(t, &fakeService{}, newFakeLedger(), bus)
	router := srv.routes()

	body := strings.NewReader(`{"player_id":"alice","paid_amount":100}`)
	req := httptest.NewRequest(http.MethodPost, "/rounds/current/join", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("got status %d, want 202", rec.Code)
	}

	msgs := bus.published[lotteryevents.RoundJoinRequestedV1]
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}

	var payload lotteryevents.RoundJoinRequestedPayloadV1
	if err := json.Unmarshal(msgs[0].Payload, &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	want := lotteryevents.RoundJoinRequestedPayloadV1{PlayerID: "alice", PaidAmount: 100}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if msgs[0].Metadata.Get(eventbus.SubjectMetadataKey) != lotteryevents.RoundJoinRequestedV1 {
		t.Error("subject metadata not set")
	}
}

func TestServer_JoinRateLimit(t *testing.T) {
	cfg := &config.Config{
		HTTP: config.HTTPConfig{Addr: ":0", JoinRateLimit: 1, JoinRateBurst: 1},
		JWT:  config.JWTConfig{Secret: "test-secret"},
	}
	bus := newFakeBus()
	srv := NewServer(cfg, observability.NoOpLogger, &fakeService{}, newFakeLedger(), bus)
	router := srv.routes()

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/rounds/current/join",
		strings.NewReader(`{"player_id":"alice","paid_amount":100}`)))
	if first.Code != http.StatusAccepted {
		t.Fatalf("first join got status %d", first.Code)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/rounds/current/join",
		strings.NewReader(`{"player_id":"bob","paid_amount":100}`)))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second join got status %d, want 429", second.Code)
	}
}

func TestServer_AdminGate(t *testing.T) {
	bus := newFakeBus()
	srv := testServer(t, &fakeService{}, newFakeLedger(), bus)
	router := srv.routes()

	startBody := `{"max_participants":2,"entry_fee":100}`

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/rounds", strings.NewReader(startBody)))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", rec.Code)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/admin/rounds", strings.NewReader(startBody))
		req.Header.Set("Authorization", "Bearer nonsense")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", rec.Code)
		}
	})

	t.Run("valid token publishes start request", func(t *testing.T) {
		token, err := IssueAdminToken("test-secret", time.Minute)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/admin/rounds", strings.NewReader(startBody))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusAccepted {
			t.Fatalf("got status %d, want 202", rec.Code)
		}
		if len(bus.published[lotteryevents.RoundStartRequestedV1]) != 1 {
			t.Error("start request not published")
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		token, err := IssueAdminToken("other-secret", time.Minute)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/admin/rounds", strings.NewReader(startBody))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got status %d, want 401", rec.Code)
		}
	})
}

func TestServer_Deposit(t *testing.T) {
	ledger := newFakeLedger()
	srv := testServer(t, &fakeService{}, ledger, newFakeBus())
	router := srv.routes()

	token, err := IssueAdminToken("test-secret", time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/ledger/deposit",
		strings.NewReader(`{"source":"treasury","amount":500}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if ledger.deposits["treasury"] != 500 {
		t.Errorf("deposit not recorded: %+v", ledger.deposits)
	}
}

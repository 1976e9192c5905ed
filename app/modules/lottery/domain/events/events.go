package lotteryevents

import (
	"time"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
)

// Topic names, versioned. Request topics are consumed by this service;
// the rest are emitted observations.
const (
	RoundStartRequestedV1 = "lottery.round.start.requested.v1"
	RoundStartedV1        = "lottery.round.started.v1"
	RoundStartFailedV1    = "lottery.round.start.failed.v1"

	RoundJoinRequestedV1 = "lottery.round.join.requested.v1"
	PlayerJoinedV1       = "lottery.round.player.joined.v1"
	RoundJoinFailedV1    = "lottery.round.join.failed.v1"

	RandomnessRequestedV1     = "lottery.oracle.randomness.requested.v1"
	RandomnessRequestFailedV1 = "lottery.oracle.randomness.request.failed.v1"
	RandomnessDeliveredV1     = "lottery.oracle.randomness.delivered.v1"

	GameEndedV1             = "lottery.round.game.ended.v1"
	RoundResolutionFailedV1 = "lottery.round.resolution.failed.v1"

	RoundVoidRequestedV1 = "lottery.round.void.requested.v1"
	RoundVoidedV1        = "lottery.round.voided.v1"
	RoundVoidFailedV1    = "lottery.round.void.failed.v1"

	RoundStalledV1 = "lottery.round.stalled.v1"
)

type RoundStartRequestedPayloadV1 struct {
	MaxParticipants int                 `json:"max_participants"`
	EntryFee        lotterytypes.Amount `json:"entry_fee"`
}

type RoundStartedPayloadV1 struct {
	RoundID         lotterytypes.RoundID `json:"round_id"`
	MaxParticipants int                  `json:"max_participants"`
	EntryFee        lotterytypes.Amount  `json:"entry_fee"`
}

type RoundStartFailedPayloadV1 struct {
	Reason string `json:"reason"`
}

type RoundJoinRequestedPayloadV1 struct {
	PlayerID   lotterytypes.PlayerID `json:"player_id"`
	PaidAmount lotterytypes.Amount   `json:"paid_amount"`
}

type PlayerJoinedPayloadV1 struct {
	RoundID  lotterytypes.RoundID  `json:"round_id"`
	PlayerID lotterytypes.PlayerID `json:"player_id"`
	Position int                   `json:"position"`
	Pot      lotterytypes.Amount   `json:"pot"`
}

type RoundJoinFailedPayloadV1 struct {
	PlayerID lotterytypes.PlayerID `json:"player_id"`
	Reason   string                `json:"reason"`
}

type RandomnessRequestedPayloadV1 struct {
	RoundID lotterytypes.RoundID          `json:"round_id"`
	Token   lotterytypes.CorrelationToken `json:"token"`
}

type RandomnessRequestFailedPayloadV1 struct {
	RoundID lotterytypes.RoundID `json:"round_id"`
	Reason  string               `json:"reason"`
}

// RandomnessDeliveredPayloadV1 is published by the oracle collaborator.
// Signature covers "<token>:<random_value>" and is verified against the
// oracle's nkeys public key before the payload reaches the service.
type RandomnessDeliveredPayloadV1 struct {
	Token       lotterytypes.CorrelationToken `json:"token"`
	RandomValue uint64                        `json:"random_value"`
	Signature   []byte                        `json:"signature"`
}

type GameEndedPayloadV1 struct {
	RoundID lotterytypes.RoundID          `json:"round_id"`
	Winner  lotterytypes.PlayerID         `json:"winner"`
	Token   lotterytypes.CorrelationToken `json:"token"`
	Payout  lotterytypes.Amount           `json:"payout"`
}

type RoundResolutionFailedPayloadV1 struct {
	RoundID lotterytypes.RoundID          `json:"round_id"`
	Token   lotterytypes.CorrelationToken `json:"token"`
	Reason  string                        `json:"reason"`
}

type RoundVoidRequestedPayloadV1 struct {
	RoundID lotterytypes.RoundID `json:"round_id"`
}

type RoundVoidedPayloadV1 struct {
	RoundID      lotterytypes.RoundID `json:"round_id"`
	Participants int                  `json:"participants"`
	Refunded     lotterytypes.Amount  `json:"refunded"`
}

type RoundVoidFailedPayloadV1 struct {
	RoundID lotterytypes.RoundID `json:"round_id"`
	Reason  string               `json:"reason"`
}

type RoundStalledPayloadV1 struct {
	RoundID lotterytypes.RoundID           `json:"round_id"`
	Token   *lotterytypes.CorrelationToken `json:"token,omitempty"`
	FullAt  time.Time                      `json:"full_at"`
}

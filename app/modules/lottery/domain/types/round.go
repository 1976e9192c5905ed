package lotterytypes

import (
	"time"

	"github.com/google/uuid"
)

// RoundID identifies a round. IDs are assigned when a round starts and
// increase by exactly one per started round; they are never reused.
type RoundID int64

// PlayerID identifies a participant. Duplicate joins by the same player
// are allowed; each join buys one slot in the registry.
type PlayerID string

// Amount is a quantity of funds in base units.
type Amount int64

// CorrelationToken links a randomness request to its eventual callback
// and to the round that issued it.
type CorrelationToken uuid.UUID

func NewCorrelationToken() CorrelationToken {
	return CorrelationToken(uuid.New())
}

func (t CorrelationToken) String() string {
	return uuid.UUID(t).String()
}

func (t CorrelationToken) IsZero() bool {
	return uuid.UUID(t) == uuid.Nil
}

func ParseCorrelationToken(s string) (CorrelationToken, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CorrelationToken{}, err
	}
	return CorrelationToken(u), nil
}

// MarshalText/UnmarshalText keep tokens as plain UUID strings in JSON.
func (t CorrelationToken) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *CorrelationToken) UnmarshalText(data []byte) error {
	u, err := uuid.ParseBytes(data)
	if err != nil {
		return err
	}
	*t = CorrelationToken(u)
	return nil
}

// RoundState is the tagged lifecycle state of a round.
//
//	open     accepting joins
//	full     registry full, awaiting the oracle callback
//	resolved winner paid, round closed
//	voided   closed by an operator, entry fees refunded
//
// "No round active" is the absence of a round in open or full state.
type RoundState string

const (
	RoundStateOpen     RoundState = "open"
	RoundStateFull     RoundState = "full"
	RoundStateResolved RoundState = "resolved"
	RoundStateVoided   RoundState = "voided"
)

// IsActive reports whether the state blocks a new round from starting.
func (s RoundState) IsActive() bool {
	return s == RoundStateOpen || s == RoundStateFull
}

// Round is the central entity: one complete cycle from start to either
// successful resolution or terminal stall.
type Round struct {
	ID               RoundID
	State            RoundState
	MaxParticipants  int
	EntryFee         Amount
	ParticipantCount int
	Pot              Amount
	Winner           *PlayerID
	Token            *CorrelationToken
	StartedAt        time.Time
	FullAt           *time.Time
	ClosedAt         *time.Time
}

// Participant is one entry in a round's registry. Position is the join
// order, starting at 0.
type Participant struct {
	RoundID  RoundID
	Position int
	PlayerID PlayerID
	JoinedAt time.Time
}

// PendingRequest binds an issued randomness request to its round so a
// delayed or duplicate callback cannot resolve the wrong round.
type PendingRequest struct {
	Token       CorrelationToken
	RoundID     RoundID
	Fee         Amount
	RequestedAt time.Time
}

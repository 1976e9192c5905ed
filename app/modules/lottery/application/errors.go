package lotteryservice

import "errors"

// Domain errors. Each maps to a failure event; none is retried by the
// service itself.
var (
	// ErrAlreadyRunning rejects StartRound while a round is open or full.
	ErrAlreadyRunning = errors.New("a round is already running")

	// ErrNotStarted rejects JoinRound when no round is active.
	ErrNotStarted = errors.New("no round has been started")

	// ErrFeeMismatch rejects a join whose paid amount differs from the
	// round's entry fee.
	ErrFeeMismatch = errors.New("paid amount does not match the entry fee")

	// ErrRoundFull rejects a join once the registry holds maxParticipants.
	ErrRoundFull = errors.New("round is full")

	// ErrInsufficientOracleFunds means the fee reserve cannot cover a
	// randomness request. The round stays full with no automatic unwind;
	// an operator must intervene.
	ErrInsufficientOracleFunds = errors.New("oracle fee reserve is insufficient")

	// ErrUnknownRequest rejects a callback whose correlation token is not
	// bound to any round, including tokens already consumed by a
	// successful resolution.
	ErrUnknownRequest = errors.New("unknown randomness request")

	// ErrPayoutFailed means the transfer to the winner was rejected. The
	// round stays full with the pot undistributed.
	ErrPayoutFailed = errors.New("payout transfer failed")

	// ErrRoundNotVoidable rejects voiding a round that is not open or full.
	ErrRoundNotVoidable = errors.New("round is not voidable")

	// ErrRoundNotFound is returned by lookups for unknown round IDs.
	ErrRoundNotFound = errors.New("round not found")

	ErrInvalidMaxParticipants = errors.New("max participants must be positive")
	ErrNegativeEntryFee       = errors.New("entry fee cannot be negative")
	ErrEmptyPlayerID          = errors.New("player ID cannot be empty")
)

package lotteryhandlers

import (
	"context"
	"errors"
	"fmt"

	lotteryservice "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/application"
	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
)

// HandleJoinRound handles the RoundJoinRequested event. A successful join
// emits PlayerJoined, and the join that fills the registry additionally
// emits the outcome of the randomness request it triggered.
func (h *LotteryHandlers) HandleJoinRound(ctx context.Context, payload *lotteryevents.RoundJoinRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.JoinRound(ctx, payload.PlayerID, payload.PaidAmount)
	if err != nil {
		return nil, err
	}

	if result.Success == nil {
		return mapOperationResult(result,
			lotteryevents.PlayerJoinedV1,
			lotteryevents.RoundJoinFailedV1,
		), nil
	}

	outcome, ok := result.Success.(*lotteryservice.JoinOutcome)
	if !ok {
		return nil, fmt.Errorf("unexpected join success payload %T", result.Success)
	}

	out := []handlerwrapper.Result{
		{Topic: lotteryevents.PlayerJoinedV1, Payload: outcome.Joined},
	}
	if outcome.RandomnessRequested != nil {
		out = append(out, handlerwrapper.Result{
			Topic:   lotteryevents.RandomnessRequestedV1,
			Payload: outcome.RandomnessRequested,
		})
	}
	if outcome.RandomnessFailed != nil {
		out = append(out, handlerwrapper.Result{
			Topic:   lotteryevents.RandomnessRequestFailedV1,
			Payload: outcome.RandomnessFailed,
		})
	}
	return out, nil
}

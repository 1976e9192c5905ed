package lotteryhandlers

import (
	"context"
	"errors"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
)

// HandleStartRound handles the RoundStartRequested event.
func (h *LotteryHandlers) HandleStartRound(ctx context.Context, payload *lotteryevents.RoundStartRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.StartRound(ctx, payload.MaxParticipants, payload.EntryFee)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result,
		lotteryevents.RoundStartedV1,
		lotteryevents.RoundStartFailedV1,
	), nil
}

package lotteryhandlers

import (
	"context"
	"errors"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
)

// HandleVoidRound handles the operator-initiated RoundVoidRequested event.
func (h *LotteryHandlers) HandleVoidRound(ctx context.Context, payload *lotteryevents.RoundVoidRequestedPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	result, err := h.service.VoidRound(ctx, payload.RoundID)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result,
		lotteryevents.RoundVoidedV1,
		lotteryevents.RoundVoidFailedV1,
	), nil
}

package lotteryhandlers

import (
	"context"
	"errors"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
)

// HandleRandomnessDelivered handles the oracle callback. The signature is
// checked before the service sees the value; a forged delivery is logged
// and dropped. Redelivery cannot make a bad signature verify, so nacking
// here would just loop the same message forever.
func (h *LotteryHandlers) HandleRandomnessDelivered(ctx context.Context, payload *lotteryevents.RandomnessDeliveredPayloadV1) ([]handlerwrapper.Result, error) {
	if payload == nil {
		return nil, errors.New("payload cannot be nil")
	}

	if err := h.verifier.Verify(payload.Token, payload.RandomValue, payload.Signature); err != nil {
		h.logger.WarnContext(ctx, "Dropped randomness delivery with a bad signature",
			attr.ExtractCorrelationID(ctx),
			attr.String("token", payload.Token.String()),
			attr.Error(err),
		)
		return nil, nil
	}

	result, err := h.service.ResolveRound(ctx, payload.Token, payload.RandomValue)
	if err != nil {
		return nil, err
	}

	return mapOperationResult(result,
		lotteryevents.GameEndedV1,
		lotteryevents.RoundResolutionFailedV1,
	), nil
}

package lotteryhandlers

import (
	"context"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	"github.com/High-Roller-Club/lotto-coordinator/internal/handlerwrapper"
)

// Handlers defines the contract for lottery event handlers.
type Handlers interface {
	HandleStartRound(ctx context.Context, payload *lotteryevents.RoundStartRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleJoinRound(ctx context.Context, payload *lotteryevents.RoundJoinRequestedPayloadV1) ([]handlerwrapper.Result, error)
	HandleRandomnessDelivered(ctx context.Context, payload *lotteryevents.RandomnessDeliveredPayloadV1) ([]handlerwrapper.Result, error)
	HandleVoidRound(ctx context.Context, payload *lotteryevents.RoundVoidRequestedPayloadV1) ([]handlerwrapper.Result, error)
}

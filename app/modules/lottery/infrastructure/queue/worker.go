package lotteryqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"

	lotteryevents "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/events"
	lotterydb "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/infrastructure/repositories"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
)

// StallScanWorker executes the periodic stall scan.
type StallScanWorker struct {
	river.WorkerDefaults[StallScanArgs]

	repo       lotterydb.Repository
	eventBus   eventbus.EventBus
	logger     *slog.Logger
	stallAfter time.Duration
}

func NewStallScanWorker(repo lotterydb.Repository, eventBus eventbus.EventBus, logger *slog.Logger, stallAfter time.Duration) *StallScanWorker {
	return &StallScanWorker{
		repo:       repo,
		eventBus:   eventBus,
		logger:     logger,
		stallAfter: stallAfter,
	}
}

func (w *StallScanWorker) Work(ctx context.Context, job *river.Job[StallScanArgs]) error {
	cutoff := time.Now().UTC().Add(-w.stallAfter)

	rounds, err := w.repo.StalledRounds(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("stall scan query: %w", err)
	}
	if len(rounds) == 0 {
		return nil
	}

	for _, round := range rounds {
		payload := lotteryevents.RoundStalledPayloadV1{
			RoundID: round.ID,
			Token:   round.Token,
		}
		if round.FullAt != nil {
			payload.FullAt = *round.FullAt
		}

		body, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("stall scan marshal round %d: %w", round.ID, err)
		}

		msg := message.NewMessage(watermill.NewUUID(), body)
		msg.Metadata.Set(eventbus.SubjectMetadataKey, lotteryevents.RoundStalledV1)
		if err := w.eventBus.Publish(lotteryevents.RoundStalledV1, msg); err != nil {
			return fmt.Errorf("stall scan publish round %d: %w", round.ID, err)
		}

		w.logger.WarnContext(ctx, "Round stalled waiting on randomness",
			attr.Int64("round_id", int64(round.ID)),
			attr.Duration("stall_after", w.stallAfter),
		)
	}

	return nil
}

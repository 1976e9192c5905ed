// Package handlerwrapper adapts typed transforming handlers onto
// watermill. A handler receives the unmarshalled payload and returns the
// events to emit; the wrapper owns unmarshalling, correlation metadata,
// tracing, and message construction.
package handlerwrapper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
	"github.com/High-Roller-Club/lotto-coordinator/internal/eventbus"
)

// Result is one outbound event produced by a handler.
type Result struct {
	Topic    string
	Payload  any
	Metadata map[string]string
}

// WrapTransformingTyped wraps a typed transforming handler into a
// watermill HandlerFunc.
func WrapTransformingTyped[T any](
	handlerName string,
	logger *slog.Logger,
	tracer trace.Tracer,
	handler func(ctx context.Context, payload *T) ([]Result, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		correlationID := msg.Metadata.Get(middleware.CorrelationIDMetadataKey)
		if correlationID == "" {
			correlationID = watermill.NewUUID()
		}

		ctx := attr.WithCorrelationID(msg.Context(), correlationID)
		ctx, span := tracer.Start(ctx, handlerName, trace.WithAttributes(
			attribute.String("handler", handlerName),
			attribute.String("message_id", msg.UUID),
		))
		defer span.End()

		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, fmt.Errorf("%s: failed to unmarshal payload: %w", handlerName, err)
		}

		results, err := handler(ctx, &payload)
		if err != nil {
			logger.ErrorContext(ctx, "Handler failed",
				attr.String("handler", handlerName),
				attr.String("message_id", msg.UUID),
				attr.Error(err),
			)
			span.RecordError(err)
			return nil, err
		}

		out := make([]*message.Message, 0, len(results))
		for _, res := range results {
			payloadBytes, err := json.Marshal(res.Payload)
			if err != nil {
				span.RecordError(err)
				return nil, fmt.Errorf("%s: failed to marshal payload for %s: %w", handlerName, res.Topic, err)
			}

			outMsg := message.NewMessage(watermill.NewUUID(), payloadBytes)
			outMsg.Metadata.Set(middleware.CorrelationIDMetadataKey, correlationID)
			outMsg.Metadata.Set(eventbus.SubjectMetadataKey, res.Topic)
			outMsg.Metadata.Set("caused_by", handlerName)
			for k, v := range res.Metadata {
				outMsg.Metadata.Set(k, v)
			}
			out = append(out, outMsg)
		}

		logger.DebugContext(ctx, "Handler completed",
			attr.String("handler", handlerName),
			attr.Int("emitted", len(out)),
		)
		return out, nil
	}
}

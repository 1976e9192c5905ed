// Package oracle is the client side of the external randomness oracle.
// The oracle answers asynchronously on the randomness-delivered topic;
// its latency and failures are entirely outside this service's control.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	nc "github.com/nats-io/nats.go"

	lotterytypes "github.com/High-Roller-Club/lotto-coordinator/app/modules/lottery/domain/types"
	"github.com/High-Roller-Club/lotto-coordinator/app/shared/attr"
)

// Request is a randomness request for one round. The caller mints the
// correlation token and records it before the request leaves the
// process, so the callback can never outrun the binding.
type Request struct {
	Token   lotterytypes.CorrelationToken `json:"token"`
	RoundID lotterytypes.RoundID          `json:"round_id"`
	KeyHash string                        `json:"key_hash"`
	Fee     lotterytypes.Amount           `json:"fee"`
}

// Client issues randomness requests.
type Client interface {
	RequestRandomness(ctx context.Context, req Request) error
}

// NATSClient publishes randomness requests on a NATS subject the oracle
// collaborator listens on.
type NATSClient struct {
	conn    *nc.Conn
	subject string
	logger  *slog.Logger
}

func NewNATSClient(conn *nc.Conn, subject string, logger *slog.Logger) *NATSClient {
	return &NATSClient{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}
}

func (c *NATSClient) RequestRandomness(ctx context.Context, req Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal randomness request: %w", err)
	}

	if err := c.conn.Publish(c.subject, payload); err != nil {
		c.logger.ErrorContext(ctx, "Failed to publish randomness request",
			attr.String("subject", c.subject),
			attr.Int64("round_id", int64(req.RoundID)),
			attr.Error(err),
		)
		return fmt.Errorf("failed to publish randomness request: %w", err)
	}

	c.logger.InfoContext(ctx, "Randomness requested",
		attr.String("subject", c.subject),
		attr.Int64("round_id", int64(req.RoundID)),
		attr.String("token", req.Token.String()),
	)
	return nil
}

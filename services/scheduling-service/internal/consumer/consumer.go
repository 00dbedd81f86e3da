// Package consumer reads calendar sync completion events and drops the
// affected user's cached external busy blocks.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/tahsin-rahman/meetsync/libs/kafkax"
	"github.com/tahsin-rahman/meetsync/services/scheduling-service/internal/inbox"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Invalidator is satisfied by the extcal client.
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

type Consumer struct {
	reader *kafka.Reader
	logger *slog.Logger
	inbox  *inbox.Repository
	cache  Invalidator
}

type Config struct {
	Brokers string
	GroupID string
	Topic   string
}

type syncCompletedPayload struct {
	UserID string `json:"user_id"`
}

func New(logger *slog.Logger, inboxRepo *inbox.Repository, cache Invalidator, cfg Config) *Consumer {
	brokers := kafkax.SplitBrokers(cfg.Brokers)
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader: reader,
		logger: logger,
		inbox:  inboxRepo,
		cache:  cache,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka read error", "err", err)
			time.Sleep(1 * time.Second)
			continue
		}

		ctxMsg := kafkax.ExtractTraceContext(ctx, msg)
		ctxSpan, span := otel.Tracer("kafka").Start(ctxMsg, "kafka.consume",
			trace.WithAttributes(
				attribute.String("messaging.system", "kafka"),
				attribute.String("messaging.destination", msg.Topic),
			),
		)

		meta := kafkax.ExtractEventMeta(msg)

		ok, err := c.inbox.Record(ctxSpan, meta.EventID, meta.EventType)
		if err != nil {
			c.logger.Error("inbox record failed", "err", err)
			span.RecordError(err)
			span.End()
			continue
		}
		if !ok {
			c.logger.Info("duplicate event ignored", "event_id", meta.EventID, "event_type", meta.EventType)
			span.End()
			continue
		}

		if err := c.handle(ctxSpan, msg); err != nil {
			c.logger.Error("sync event handling failed", "err", err, "event_id", meta.EventID)
			span.RecordError(err)
			span.End()
			continue
		}
		span.End()
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	var payload syncCompletedPayload
	if err := json.Unmarshal(msg.Value, &payload); err != nil {
		return fmt.Errorf("decoding sync event: %w", err)
	}
	if payload.UserID == "" {
		return fmt.Errorf("sync event missing user_id")
	}
	if err := c.cache.Invalidate(ctx, payload.UserID); err != nil {
		return fmt.Errorf("invalidating cached busy blocks: %w", err)
	}
	c.logger.Info("external calendar cache invalidated", "user_id", payload.UserID)
	return nil
}

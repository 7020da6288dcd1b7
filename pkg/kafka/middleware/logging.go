package middleware

import (
	"context"
	"time"

	"museumtix/pkg/kafka"
	"museumtix/pkg/logger"
)

// ProducerLogging logs every publish with its outcome and latency.
func ProducerLogging(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		if err != nil {
			log.Error("Event publish failed",
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"key", msg.Key,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			return err
		}

		log.Debug("Event published",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"key", msg.Key,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

// ConsumerLogging logs every handled message with its outcome and latency.
func ConsumerLogging(log *logger.Logger) kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)

		if err != nil {
			log.Error("Event handling failed",
				"event_id", msg.GetEventID(),
				"event_type", msg.GetEventType(),
				"topic", msg.Topic,
				"offset", msg.Offset,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			return err
		}

		log.Debug("Event handled",
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"topic", msg.Topic,
			"offset", msg.Offset,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}
}

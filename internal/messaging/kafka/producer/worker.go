package producer

import (
	"context"
	"time"

	"go-leave/internal/messaging/kafka"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const relayBatchSize = 50

// ProcessOutboxEvents polls the outbox table and relays pending events
// to Kafka until the context is cancelled. Publish failures are marked
// for retry with backoff, never dropped.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer *kafkago.Writer,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox relay started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			if err := relayBatch(ctx, repo, writer, log); err != nil {
				log.Error("relay outbox batch failed", zap.Error(err))
			}
		}
	}
}

func relayBatch(ctx context.Context, repo kafka.OutboxRepository, writer *kafkago.Writer, log *zap.Logger) error {
	events, err := repo.ListPending(ctx, relayBatchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	log.Info("relaying pending outbox events", zap.Int("count", len(events)))

	for _, event := range events {
		relayOne(ctx, repo, writer, log, event)
	}
	return nil
}

func relayOne(ctx context.Context, repo kafka.OutboxRepository, writer *kafkago.Writer, log *zap.Logger, event kafka.OutboxEvent) {
	fields := []zap.Field{
		zap.String("outbox_id", event.ID),
		zap.String("event_type", event.EventType),
		zap.String("topic", event.Topic),
	}

	if err := publishEvent(ctx, writer, event); err != nil {
		log.Error("publish outbox event failed", append(fields, zap.Error(err))...)
		if markErr := repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
			log.Error("mark outbox failed errored", zap.String("outbox_id", event.ID), zap.Error(markErr))
		}
		return
	}

	if err := repo.MarkSent(ctx, event.ID); err != nil {
		// The event was published; on the next poll it is re-sent and
		// consumers must dedupe on the outbox id.
		log.Error("mark outbox sent failed", zap.String("outbox_id", event.ID), zap.Error(err))
		return
	}

	log.Info("outbox event sent", fields...)
}

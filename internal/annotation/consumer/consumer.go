// Package consumer reads annotation requests from Kafka, runs them through
// the annotation service, and publishes completion events for downstream
// consumers.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/internal/annotator/document"
	"github.com/annotext/emoji-annotation-platform/pkg/kafka"
	"github.com/annotext/emoji-annotation-platform/pkg/resilience"
)

// annotateTimeout bounds the processing time for a single Kafka message so
// one pathological document cannot stall the partition.
const annotateTimeout = 30 * time.Second

// AnnotateConsumer wraps a Kafka consumer to drive the annotation pipeline.
type AnnotateConsumer struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// New creates an AnnotateConsumer backed by the given Kafka consumer.
func New(kafkaConsumer *kafka.Consumer) *AnnotateConsumer {
	return &AnnotateConsumer{
		consumer: kafkaConsumer,
		logger:   slog.Default().With("component", "annotate-consumer"),
	}
}

// Start begins consuming Kafka messages. It blocks until ctx is cancelled.
func (ac *AnnotateConsumer) Start(ctx context.Context) error {
	ac.logger.Info("annotate consumer starting")
	return ac.consumer.Start(ctx)
}

// HandleMessage returns a Kafka MessageHandler that annotates every
// AnnotateEvent through svc. If producer is non-nil an AnnotatedEvent is
// published after each successful run; publishing is retried, and a
// document whose completion event cannot be published is redelivered.
func HandleMessage(svc *annotation.Service, producer *kafka.Producer) kafka.MessageHandler {
	logger := slog.Default().With("component", "annotate-consumer")
	return func(ctx context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[annotation.AnnotateEvent](value)
		if err != nil {
			logger.Error("failed to decode annotate event",
				"error", err,
				"key", string(key),
			)
			return nil
		}
		if event.Text == "" {
			logger.Warn("skipping annotate event without text", "document_id", event.DocumentID)
			return nil
		}

		logger.Debug("processing annotate event",
			"document_id", event.DocumentID,
			"pattern_id", event.PatternID,
		)

		var result *annotation.Result
		err = resilience.WithTimeout(ctx, annotateTimeout, "annotate-document", func(ctx context.Context) error {
			var annotateErr error
			result, annotateErr = svc.Annotate(ctx, &annotation.AnnotateRequest{
				DocumentID: event.DocumentID,
				Text:       event.Text,
				PatternID:  event.PatternID,
			}, "kafka")
			return annotateErr
		})
		if err != nil {
			return fmt.Errorf("annotating document %s: %w", event.DocumentID, err)
		}

		if producer != nil {
			completed := kafka.Event{
				Key:   result.DocumentID,
				Value: annotatedEvent(result),
			}
			err := resilience.Retry(ctx, "publish-annotated", resilience.RetryConfig{}, func() error {
				return producer.Publish(ctx, completed)
			})
			if err != nil {
				return fmt.Errorf("publishing annotated event for %s: %w", result.DocumentID, err)
			}
		}

		logger.Info("document annotated",
			"document_id", result.DocumentID,
			"pattern_id", result.PatternID,
			"tokens", result.TokenCount,
		)
		return nil
	}
}

// annotatedEvent projects a rendered result into the completion event
// schema. The occurrence list is recovered from the annotation map, which
// carries it under the annotator's configured name for the last slot.
func annotatedEvent(result *annotation.Result) annotation.AnnotatedEvent {
	var occs []document.Occurrence
	for _, v := range result.Annotation {
		if typed, ok := v.([]document.Occurrence); ok {
			occs = typed
			break
		}
	}
	return annotation.AnnotatedEvent{
		DocumentID:  result.DocumentID,
		PatternID:   result.PatternID,
		TokenCount:  result.TokenCount,
		EmojiCount:  len(occs),
		Occurrences: occs,
		CompletedAt: time.Now().UTC(),
	}
}

package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/beanmap/drip/pkg/kafka"
	"github.com/beanmap/drip/pkg/models"
)

const (
	EventEntrySynced  = "entry.synced"
	EventEntryDeleted = "entry.deleted"
)

// Emitter announces projection writes to downstream consumers. Emission is
// best effort and never fails the webhook that triggered it.
type Emitter interface {
	EntrySynced(ctx context.Context, model models.Model, documentID string)
	EntryDeleted(ctx context.Context, model models.Model, documentID string)
}

// KafkaEmitter emits sync events through a Kafka producer.
type KafkaEmitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewKafkaEmitter creates a new Kafka backed emitter.
func NewKafkaEmitter(producer *kafka.Producer, logger ectologger.Logger) *KafkaEmitter {
	return &KafkaEmitter{
		producer: producer,
		logger:   logger,
	}
}

// EntrySynced announces that an entry projection was written.
func (e *KafkaEmitter) EntrySynced(ctx context.Context, model models.Model, documentID string) {
	e.publish(ctx, EventEntrySynced, model, documentID)
}

// EntryDeleted announces that an entry projection was removed.
func (e *KafkaEmitter) EntryDeleted(ctx context.Context, model models.Model, documentID string) {
	e.publish(ctx, EventEntryDeleted, model, documentID)
}

func (e *KafkaEmitter) publish(ctx context.Context, eventType string, model models.Model, documentID string) {
	event := &kafka.SyncEvent{
		EventType:  eventType,
		Model:      string(model),
		DocumentID: documentID,
	}

	if err := e.producer.PublishSyncEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"event_type":  eventType,
			"model":       model,
			"document_id": documentID,
		}).Error("failed to emit sync event")
	}
}

// NoopEmitter drops all events. Used when Kafka is disabled.
type NoopEmitter struct{}

// NewNoopEmitter creates an emitter that drops all events.
func NewNoopEmitter() *NoopEmitter {
	return &NoopEmitter{}
}

func (NoopEmitter) EntrySynced(ctx context.Context, model models.Model, documentID string)  {}
func (NoopEmitter) EntryDeleted(ctx context.Context, model models.Model, documentID string) {}

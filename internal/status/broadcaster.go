package status

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/mqtt"
)

// Publisher is the subset of mqtt.Client the Broadcaster uses.
type Publisher interface {
	PublishRetained(topic string, payload []byte) error
}

// Broadcaster publishes a roll call's treemap whenever its outcomes change.
// It satisfies rollcall.Notifier.
type Broadcaster struct {
	aggregator *Aggregator
	publisher  Publisher
	logger     Logger
	now        func() time.Time
}

// NewBroadcaster creates a Broadcaster.
func NewBroadcaster(aggregator *Aggregator, publisher Publisher) *Broadcaster {
	return &Broadcaster{
		aggregator: aggregator,
		publisher:  publisher,
		logger:     noopLogger{},
		now:        time.Now,
	}
}

// SetLogger sets the logger for the broadcaster.
func (b *Broadcaster) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	b.logger = logger
}

// RollCallUpdated republishes the treemap for rollCallID. Failures are
// logged; the outcome that triggered the update is already stored.
func (b *Broadcaster) RollCallUpdated(ctx context.Context, rollCallID string) {
	if err := b.Publish(ctx, rollCallID); err != nil {
		b.logger.Warn("status broadcast failed",
			"roll_call_id", rollCallID,
			"error", err,
		)
	}
}

// Publish builds the current treemap for rollCallID and publishes it
// retained on the roll call's status topic.
func (b *Broadcaster) Publish(ctx context.Context, rollCallID string) error {
	tree, err := b.aggregator.BuildTreemap(ctx, Query{
		RollCallIDs: []string{rollCallID},
		At:          b.now(),
	})
	if err != nil {
		return fmt.Errorf("building treemap: %w", err)
	}

	payload, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("encoding treemap: %w", err)
	}

	topic := mqtt.Topics{}.RollCallStatus(rollCallID)
	if err := b.publisher.PublishRetained(topic, payload); err != nil {
		return fmt.Errorf("publishing %s: %w", topic, err)
	}

	b.logger.Debug("status published",
		"roll_call_id", rollCallID,
		"topic", topic,
		"status", string(tree.Status),
	)
	return nil
}

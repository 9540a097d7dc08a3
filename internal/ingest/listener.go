package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/rollcall-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/rollcall-core/internal/rollcall"
)

// ErrBadMessage marks payloads or topics that can never be recorded.
var ErrBadMessage = errors.New("ingest: malformed verification message")

// Logger defines the logging interface used by the Listener.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Recorder stores verification outcomes. *rollcall.Planner satisfies it.
type Recorder interface {
	RecordVerification(ctx context.Context, v rollcall.Verification) (*rollcall.Verification, error)
}

// Subscriber is the subset of mqtt.Client the Listener uses.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// message is the wire form of one outcome.
type message struct {
	OccupantID string     `json:"occupant_id"`
	LocationID string     `json:"location_id"`
	Status     string     `json:"status"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

// Listener turns MQTT verification messages into stored outcomes.
type Listener struct {
	recorder Recorder
	logger   Logger
}

// NewListener creates a Listener that records through r.
func NewListener(r Recorder) *Listener {
	return &Listener{recorder: r, logger: noopLogger{}}
}

// SetLogger sets the logger for the listener.
func (l *Listener) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	l.logger = logger
}

// Start subscribes to outcomes for every roll call. ctx scopes the
// recordings made from received messages.
func (l *Listener) Start(ctx context.Context, sub Subscriber, qos byte) error {
	return sub.Subscribe(mqtt.Topics{}.AllVerifications(), qos, func(topic string, payload []byte) error {
		return l.Handle(ctx, topic, payload)
	})
}

// Handle records one message received on topic.
func (l *Listener) Handle(ctx context.Context, topic string, payload []byte) error {
	rollCallID, ok := mqtt.RollCallIDFromTopic(topic)
	if !ok {
		return fmt.Errorf("%w: unexpected topic %q", ErrBadMessage, topic)
	}

	var msg message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("%w: %w", ErrBadMessage, err)
	}

	v := rollcall.Verification{
		RollCallID: rollCallID,
		OccupantID: msg.OccupantID,
		LocationID: msg.LocationID,
		Status:     rollcall.VerificationStatus(msg.Status),
	}
	if msg.Timestamp != nil {
		v.Timestamp = *msg.Timestamp
	}

	stored, err := l.recorder.RecordVerification(ctx, v)
	if err != nil {
		l.logger.Warn("verification rejected",
			"roll_call_id", rollCallID,
			"occupant_id", msg.OccupantID,
			"error", err,
		)
		return fmt.Errorf("recording verification for %s: %w", rollCallID, err)
	}

	l.logger.Debug("verification ingested",
		"roll_call_id", rollCallID,
		"verification_id", stored.ID,
	)
	return nil
}

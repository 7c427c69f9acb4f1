// Package eventbus publishes upload and generation lifecycle events to
// NATS. The bus is optional: a nil Bus drops events silently so the API
// keeps serving when NATS is down.
package eventbus

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subjects for lifecycle events.
const (
	SubjectImageUploaded       = "architect.image.uploaded"
	SubjectGenerationCompleted = "architect.generation.completed"
)

// Bus wraps a NATS connection. When JetStream is enabled, events are
// written to the durable stream instead of fire-and-forget publishes.
type Bus struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *zap.Logger
}

// Connect dials NATS. Callers treat a connection error as degraded
// operation, not fatal.
func Connect(url string, logger *zap.Logger) (*Bus, error) {
	nc, err := nats.Connect(url,
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
	)
	if err != nil {
		return nil, err
	}
	return &Bus{conn: nc, logger: logger}, nil
}

// Close closes the underlying connection.
func (b *Bus) Close() {
	if b == nil || b.conn == nil {
		return
	}
	b.conn.Close()
}

// ImageUploadedEvent is published after an upload is accepted.
type ImageUploadedEvent struct {
	ImageID   string    `json:"image_id"`
	Filename  string    `json:"filename"`
	SizeBytes int64     `json:"size_bytes"`
	Timestamp time.Time `json:"timestamp"`
}

// GenerationCompletedEvent is published after each generation attempt.
type GenerationCompletedEvent struct {
	ImageID   string    `json:"image_id"`
	Provider  string    `json:"provider"`
	Format    string    `json:"format"`
	Succeeded bool      `json:"succeeded"`
	LatencyMS int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// Publish emits an event on the given subject. Failures are logged, not
// surfaced; eventing never fails a request.
func (b *Bus) Publish(subject string, event any) {
	if b == nil || b.conn == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Warn("failed to encode event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if b.js != nil {
		if _, err := b.js.Publish(subject, payload); err != nil {
			b.logger.Warn("failed to append event to stream", zap.String("subject", subject), zap.Error(err))
		}
		return
	}
	if err := b.conn.Publish(subject, payload); err != nil {
		b.logger.Warn("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}

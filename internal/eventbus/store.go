package eventbus

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// streamName is the JetStream stream holding lifecycle events.
const streamName = "ARCHITECT"

// EnableJetStream creates the event stream if it does not exist yet and
// switches Publish to durable JetStream writes.
func (b *Bus) EnableJetStream() error {
	if b == nil || b.conn == nil {
		return fmt.Errorf("NATS connection not initialized")
	}
	js, err := b.conn.JetStream()
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}

	_, err = js.AddStream(&nats.StreamConfig{
		Name:     streamName,
		Subjects: []string{"architect.>"},
	})
	if err != nil && err != nats.ErrStreamNameAlreadyInUse {
		return fmt.Errorf("ensure stream: %w", err)
	}

	b.js = js
	return nil
}

package mqtt

import "context"

// Publisher delivers an encoded assignment report to the configured broker
// topic.
type Publisher interface {
	// Publish sends payload and blocks until the broker acknowledged it or
	// ctx is done.
	Publish(ctx context.Context, payload []byte) error

	// Close releases the broker connection.
	Close()
}

// NopPublisher drops every payload.
type NopPublisher struct{}

// Publish accepts and discards payload.
func (NopPublisher) Publish(context.Context, []byte) error { return nil }

// Close is a no-op.
func (NopPublisher) Close() {}

package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/carrierassign/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// NewPublisher returns a ResultPublisher when a broker is configured and a
// no-op publisher otherwise.
func NewPublisher(cfg Config) (Publisher, error) {
	if !cfg.Enabled() {
		return coremqtt.NopPublisher{}, nil
	}
	p, err := NewResultPublisher(cfg)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MockPublisher keeps published payloads in memory. It is used in tests.
type MockPublisher struct {
	Payloads [][]byte
	Fail     bool
	Closed   bool
	mu       sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish records the payload or returns an error if configured to fail.
func (m *MockPublisher) Publish(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	cp := make([]byte, len(payload))
	copy(cp, payload)
	m.Payloads = append(m.Payloads, cp)
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
}

// Published returns a copy of the recorded payloads.
func (m *MockPublisher) Published() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.Payloads))
	copy(out, m.Payloads)
	return out
}

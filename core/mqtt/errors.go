package mqtt

import "errors"

var (
	// ErrNotConnected is returned when publishing on a closed publisher.
	ErrNotConnected = errors.New("mqtt: not connected")
	// ErrPublishTimeout is returned when the broker did not confirm a publish
	// before the context expired.
	ErrPublishTimeout = errors.New("mqtt: publish timeout")
)

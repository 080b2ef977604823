package sqslistener

import "time"

// EmptyReceivePolicy controls how a receive call that returns no messages is
// treated. Earlier revisions of this client reported an empty response as an
// error; some deployments prefer to treat it as an ordinary quiet cycle, so
// the behavior is selectable.
type EmptyReceivePolicy int

const (
	// EmptyReceiveError reports ErrUnknownReceiveMessages when a receive
	// returns no messages. This is the default.
	EmptyReceiveError EmptyReceivePolicy = iota

	// EmptyReceiveOK treats a receive with no messages as an empty batch.
	EmptyReceiveOK
)

const defaultCheckInterval = 10 * time.Second

// Config tunes a ListenerClient. Build a Config with DefaultConfig and
// override individual fields; every field has a usable default and
// construction never fails.
type Config struct {
	// CheckInterval is how long the poller waits after a cycle completes
	// before fetching again. The next fetch happens CheckInterval after the
	// previous cycle finished, not on a fixed period, so a slow handler
	// stretches the cadence. Defaults to 10 seconds.
	CheckInterval time.Duration

	// AutoAck deletes every dispatched message at the end of its cycle.
	// Defaults to true. When disabled the caller must acknowledge messages
	// with ListenerClient.Ack or they will be redelivered.
	AutoAck bool

	// EmptyReceivePolicy selects how an empty receive response is handled.
	// Defaults to EmptyReceiveError.
	EmptyReceivePolicy EmptyReceivePolicy

	// MaxMessages caps the number of messages fetched per cycle. Zero
	// leaves the service default in place.
	MaxMessages int32

	// WaitTime enables SQS long polling on the receive call. Zero means
	// short polling. SQS accepts whole seconds only, so the value is
	// rounded up, and caps the wait at 20 seconds.
	WaitTime time.Duration
}

// DefaultConfig returns the configuration used when none is supplied:
// a 10 second check interval with auto-ack enabled.
func DefaultConfig() Config {
	return Config{
		CheckInterval: defaultCheckInterval,
		AutoAck:       true,
	}
}

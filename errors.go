package sqslistener

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownReceiveMessages is reported when a receive call succeeds but
	// carries no messages and Config.EmptyReceivePolicy is EmptyReceiveError.
	ErrUnknownReceiveMessages = errors.New("unable to receive messages: response contained no messages")

	// ErrNoMessageHandle is returned by Ack for a message that carries no
	// receipt handle. SQS is not contacted in that case.
	ErrNoMessageHandle = errors.New("message did not contain a receipt handle to use for acknowledging")

	// ErrListenerStopped is returned by Ack when the poller is not running,
	// either because Start was never called or its context has ended.
	ErrListenerStopped = errors.New("listener has stopped")

	// ErrAlreadyStarted is returned by Start on a client that is already
	// running; a ListenerClient is a start-once resource.
	ErrAlreadyStarted = errors.New("listener client already started")

	// ErrMissingClient and ErrMissingListener are the builder validation
	// failures; all other builder fields have defaults.
	ErrMissingClient   = errors.New("no SQS client configured")
	ErrMissingListener = errors.New("no listener attached")
)

func receiveError(err error) error {
	return fmt.Errorf("unable to receive messages: %w", err)
}

func ackError(err error) error {
	return fmt.Errorf("unable to acknowledge message: %w", err)
}

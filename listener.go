package sqslistener

// HandlerFunc is called once per received message, in the order the batch
// was returned. Its outcome does not influence acknowledgment; when
// Config.AutoAck is enabled every dispatched message is acknowledged
// regardless of what the handler did.
type HandlerFunc func(*Message)

// SQSListener binds a queue URL to a handler function. It is immutable once
// attached to a client and is owned by that client's poller for its
// lifetime.
type SQSListener struct {
	queueURL string
	handler  HandlerFunc
}

// NewListener creates a listener for queueURL whose handler is invoked for
// every received message.
func NewListener(queueURL string, handler HandlerFunc) SQSListener {
	return SQSListener{queueURL: queueURL, handler: handler}
}

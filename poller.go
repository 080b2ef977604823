package sqslistener

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	log "github.com/sirupsen/logrus"
)

type ackRequest struct {
	msg   *Message
	reply chan error
}

// poller owns the SQS client, config and listener exclusively. All of its
// state is confined to the goroutine running run(); timer fires and ack
// requests are the only inputs, so cycles and manual acks are serialized
// without locks.
type poller struct {
	sqs      SQSAPI
	config   Config
	listener SQSListener

	acks    chan ackRequest
	started chan struct{}
	stopped chan struct{}
}

func newPoller(client SQSAPI, config Config, listener SQSListener) *poller {
	return &poller{
		sqs:      client,
		config:   config,
		listener: listener,
		acks:     make(chan ackRequest),
		started:  make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// run drives the poll loop until ctx is canceled. The timer is re-armed only
// after a cycle completes, so at most one cycle is ever in flight and the
// effective cadence is CheckInterval plus the cycle duration.
func (p *poller) run(ctx context.Context) {
	close(p.started)
	defer close(p.stopped)

	timer := time.NewTimer(p.config.CheckInterval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.WithField("queue_url", p.listener.queueURL).Info("listener stopping")
			return
		case <-timer.C:
			if err := p.cycle(ctx); err != nil {
				log.WithError(err).Error("error when handling messages")
			}
			timer.Reset(p.config.CheckInterval)
		case req := <-p.acks:
			// The select picks randomly among ready cases, so an ack can
			// win over a finished context; report the shutdown instead of
			// issuing a delete that is bound to fail.
			if ctx.Err() != nil {
				req.reply <- ErrListenerStopped
				continue
			}
			req.reply <- p.ackMessage(ctx, req.msg)
		}
	}
}

// cycle is one fetch/dispatch/ack pass. Errors are returned for logging
// only; they never stop the loop.
func (p *poller) cycle(ctx context.Context) error {
	log.Debug("checking for new messages")

	input := &sqs.ReceiveMessageInput{QueueUrl: &p.listener.queueURL}
	if p.config.MaxMessages > 0 {
		input.MaxNumberOfMessages = p.config.MaxMessages
	}
	if p.config.WaitTime > 0 {
		// SQS wait time has whole-second granularity; round up so a
		// sub-second setting still long-polls.
		input.WaitTimeSeconds = int32((p.config.WaitTime + time.Second - 1) / time.Second)
	}

	output, err := p.sqs.ReceiveMessage(ctx, input)
	if err != nil {
		return receiveError(err)
	}
	if len(output.Messages) == 0 {
		if p.config.EmptyReceivePolicy == EmptyReceiveError {
			return ErrUnknownReceiveMessages
		}
		return nil
	}

	log.WithField("count", len(output.Messages)).Info("received messages")

	messages := make([]*Message, 0, len(output.Messages))
	for i := range output.Messages {
		messages = append(messages, newMessage(&output.Messages[i]))
	}

	p.dispatch(ctx, messages)

	if p.config.AutoAck {
		p.ackBatch(ctx, messages)
	}
	return nil
}

// dispatch invokes the handler for every message, synchronously and in
// fetch order. Handler outcomes are not propagated; acknowledgment is gated
// on Config.AutoAck alone.
func (p *poller) dispatch(ctx context.Context, messages []*Message) {
	for _, m := range messages {
		span, _ := tracer.StartSpanFromContext(ctx, "sqs_listener.dispatch_msg")
		if m.MessageId != nil {
			span.SetTag("message_id", *m.MessageId)
		}
		p.listener.handler(m)
		span.Finish()
	}
}

// ackBatch deletes every dispatched message that carries a receipt handle.
// Deletions are independent; a failure is logged and the rest of the batch
// still goes through.
func (p *poller) ackBatch(ctx context.Context, messages []*Message) {
	for _, m := range messages {
		if !m.hasHandle() {
			log.Warn("message has no receipt handle, skipping ack")
			continue
		}
		if err := p.delete(ctx, m); err != nil {
			log.WithError(err).Error("unable to delete message from the queue")
		}
	}
}

// ackMessage is the manual acknowledge path, run on the poller goroutine.
// Unlike ackBatch it reports the failure to the caller.
func (p *poller) ackMessage(ctx context.Context, m *Message) error {
	if m == nil || !m.hasHandle() {
		return ErrNoMessageHandle
	}
	if err := p.delete(ctx, m); err != nil {
		return ackError(err)
	}
	return nil
}

func (p *poller) delete(ctx context.Context, m *Message) error {
	span, ctx := tracer.StartSpanFromContext(ctx, "sqs_listener.delete_msg")
	defer span.Finish()

	_, err := p.sqs.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &p.listener.queueURL,
		ReceiptHandle: m.ReceiptHandle,
	})
	if err != nil {
		span.SetTag("deleted", false)
		span.SetTag("error", err)
		return err
	}
	span.SetTag("deleted", true)
	log.WithFields(TraceFields(ctx)).Debug("message deleted")
	return nil
}

// ack routes a manual acknowledge request to the poller goroutine. It is
// safe to call concurrently with an in-progress cycle; the request is served
// between cycles.
func (p *poller) ack(ctx context.Context, m *Message) error {
	select {
	case <-p.started:
	default:
		return ErrListenerStopped
	}

	req := ackRequest{msg: m, reply: make(chan error, 1)}
	select {
	case p.acks <- req:
	case <-p.stopped:
		return ErrListenerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.reply:
		return err
	case <-p.stopped:
		return ErrListenerStopped
	}
}

// TraceFields extracts Datadog trace correlation ids from ctx for logging.
func TraceFields(ctx context.Context) log.Fields {
	if span, ok := tracer.SpanFromContext(ctx); ok {
		return log.Fields{"dd.trace_id": span.Context().TraceID(), "dd.span_id": span.Context().SpanID()}
	}
	return log.Fields{}
}

// Package producer is the send-side counterpart to the listener: it
// publishes messages to standard or FIFO SQS queues through the same narrow
// client seam the listener consumes from.
package producer

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type sendAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Producer sends messages to a single SQS queue.
type Producer struct {
	sqs      sendAPI
	queueURL string
	fifo     bool
}

// NewStandard creates a producer for a standard queue.
func NewStandard(client sendAPI, queueURL string) *Producer {
	return &Producer{sqs: client, queueURL: queueURL}
}

// NewFIFO creates a producer for a FIFO queue. FIFO messages must carry a
// group id.
func NewFIFO(client sendAPI, queueURL string) *Producer {
	return &Producer{sqs: client, queueURL: queueURL, fifo: true}
}

// Message is an outgoing message. GroupID and DeduplicationID apply to FIFO
// queues only and must be nil for standard queues.
type Message struct {
	Body            string
	GroupID         *string
	DeduplicationID *string
}

// Send validates the message against the queue kind and publishes it.
func (p *Producer) Send(ctx context.Context, m Message) error {
	if err := p.validate(m); err != nil {
		return fmt.Errorf("invalid sqs message: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    &p.queueURL,
		MessageBody: &m.Body,
	}
	if m.GroupID != nil {
		input.MessageGroupId = m.GroupID
	}
	if m.DeduplicationID != nil {
		input.MessageDeduplicationId = m.DeduplicationID
	}

	if _, err := p.sqs.SendMessage(ctx, input); err != nil {
		return fmt.Errorf("error sending message to queue %s, reason: %w", p.queueURL, err)
	}
	return nil
}

func (p *Producer) validate(m Message) error {
	if m.Body == "" {
		return errors.New("message body cannot be empty")
	}
	if p.fifo {
		if m.GroupID == nil || *m.GroupID == "" {
			return errors.New("FIFO queue requires a message group id")
		}
		return nil
	}
	if m.GroupID != nil || m.DeduplicationID != nil {
		return errors.New("FIFO fields set for a standard queue")
	}
	return nil
}

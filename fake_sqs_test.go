package sqslistener

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// fakeSQS implements SQSAPI in memory. Each ReceiveMessage pops one queued
// response; once exhausted it returns empty outputs. Every call is recorded
// in a single event log so tests can assert cross-call ordering.
type fakeSQS struct {
	mu          sync.Mutex
	responses   []fakeResponse
	receives    int
	lastReceive *sqs.ReceiveMessageInput
	deleted     []string
	deleteErrs  map[string]error
	events      []string
}

type fakeResponse struct {
	messages []types.Message
	err      error
}

func newFakeSQS(responses ...fakeResponse) *fakeSQS {
	return &fakeSQS{responses: responses}
}

func (f *fakeSQS) ReceiveMessage(_ context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.receives++
	f.lastReceive = params
	f.events = append(f.events, "receive")

	if len(f.responses) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &sqs.ReceiveMessageOutput{Messages: next.messages}, nil
}

func (f *fakeSQS) DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	handle := ""
	if params.ReceiptHandle != nil {
		handle = *params.ReceiptHandle
	}
	if err := f.deleteErrs[handle]; err != nil {
		return nil, err
	}
	f.deleted = append(f.deleted, handle)
	f.events = append(f.events, "delete:"+handle)
	return &sqs.DeleteMessageOutput{}, nil
}

func (f *fakeSQS) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeSQS) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.events...)
}

func (f *fakeSQS) deletedHandles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func (f *fakeSQS) receiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receives
}

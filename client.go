package sqslistener

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	log "github.com/sirupsen/logrus"
)

// Builder assembles a ListenerClient. The SQS client and the listener are
// mandatory; the config defaults when not supplied.
type Builder struct {
	sqs      SQSAPI
	listener *SQSListener
	config   Config
	cfgSet   bool
	err      error
}

// NewBuilder starts a builder from an already constructed SQS client.
func NewBuilder(client SQSAPI) *Builder {
	return &Builder{sqs: client}
}

// NewBuilderDefault resolves region and credentials from the default AWS
// provider chain (environment, shared config, instance role).
func NewBuilderDefault(ctx context.Context) *Builder {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return &Builder{err: fmt.Errorf("unable to load AWS config: %w", err)}
	}
	return NewBuilder(sqs.NewFromConfig(awsCfg))
}

// NewBuilderWithCredentials constructs the SQS client from static
// credentials and an explicit region. A non-empty endpoint overrides the
// service endpoint, which is how tests point the client at Localstack.
func NewBuilderWithCredentials(ctx context.Context, accessKey, secretKey, region, endpoint string) *Builder {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	}
	if endpoint != "" {
		options = append(options, awsconfig.WithEndpointResolverWithOptions(
			aws.EndpointResolverWithOptionsFunc(func(_, _ string, _ ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{
					URL:               endpoint,
					PartitionID:       "aws",
					SigningRegion:     region,
					HostnameImmutable: true,
				}, nil
			})))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return &Builder{err: fmt.Errorf("unable to load AWS config: %w", err)}
	}
	return NewBuilder(sqs.NewFromConfig(awsCfg))
}

// Listener attaches the queue/handler pair. Exactly one listener per client;
// a later call replaces an earlier one.
func (b *Builder) Listener(l SQSListener) *Builder {
	b.listener = &l
	return b
}

// Config overrides the default configuration.
func (b *Builder) Config(c Config) *Builder {
	b.config = c
	b.cfgSet = true
	return b
}

// Build validates the mandatory fields and returns the client handle.
func (b *Builder) Build() (*ListenerClient, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.sqs == nil {
		return nil, ErrMissingClient
	}
	if b.listener == nil {
		return nil, ErrMissingListener
	}

	config := b.config
	if !b.cfgSet {
		config = DefaultConfig()
	}
	if config.CheckInterval <= 0 {
		config.CheckInterval = defaultCheckInterval
	}

	return &ListenerClient{poller: newPoller(b.sqs, config, *b.listener)}, nil
}

// ListenerClient is the caller-facing handle. Start runs the poll loop until
// its context ends; Ack manually acknowledges a message when auto-ack is
// disabled.
type ListenerClient struct {
	poller  *poller
	started atomic.Bool
}

// Start runs the poll loop on the calling goroutine. It blocks until ctx is
// canceled; with a background context it effectively runs forever. A
// ListenerClient can be started at most once.
func (c *ListenerClient) Start(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	log.WithField("queue_url", c.poller.listener.queueURL).Info("SQS listener started")
	c.poller.run(ctx)
	return nil
}

// Ack deletes a previously received message from the queue so it is not
// redelivered. It is only needed when Config.AutoAck is disabled, and is
// valid only while the poller is running. Requests are served by the poller
// between cycles, so Ack must not be called from inside the handler, where
// it would wait on the cycle it is part of. Double-acknowledging is not
// tracked locally; SQS decides what a second delete of the same handle
// means.
func (c *ListenerClient) Ack(ctx context.Context, m *Message) error {
	return c.poller.ack(ctx, m)
}

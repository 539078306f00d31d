package sqsconsumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"

	"github.com/queueworks/sqsconsumer/pkg/jsonschema"
)

const (
	// defaultMaxMessages defines the maximum number of messages to retrieve in one SQS API call.
	defaultMaxMessages = 5
	// defaultWaitTime enables SQS Long Polling, reducing cost and empty responses.
	defaultWaitTime = 10 * time.Second
	// deleteTimeout sets a client-side timeout for the DeleteMessage API call.
	deleteTimeout = 5 * time.Second
	// processingTimeout sets a deadline for processing a single message.
	// This should be less than the container's graceful shutdown period (e.g., terminationGracePeriodSeconds in K8s).
	processingTimeout = 30 * time.Second
)

// Consumer is the single logical owner of one queue's consumption. It polls
// the source queue, runs each message through the filter chain, optionally
// validates the content against a schema, invokes the processing callback,
// and finishes each message with either a delete (success) or an error-queue
// publication followed by a delete (failure).
//
// Messages are handled strictly one at a time, in receive order; callback
// invocations for one Consumer never overlap. Run multiple Consumer
// instances for concurrency.
type Consumer struct {
	client    SQSClient
	queueURL  string
	process   ProcessFunc
	filters   FilterChain
	listeners []Listener
	validator *jsonschema.Validator
	logger    zerolog.Logger

	errorQueueURL string
	reporter      *Reporter

	maxMessages       int32
	waitTime          time.Duration
	visibilityTimeout time.Duration
}

// NewConsumer creates a consumer of queueURL invoking process for each
// accepted message. Failure handling requires an error queue; configure one
// with WithErrorQueue or any failed message becomes a hard stop.
func NewConsumer(client SQSClient, queueURL string, process ProcessFunc, opts ...Option) *Consumer {
	c := &Consumer{
		client:      client,
		queueURL:    queueURL,
		process:     process,
		logger:      zerolog.Nop(),
		maxMessages: defaultMaxMessages,
		waitTime:    defaultWaitTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.errorQueueURL != "" {
		c.reporter = NewReporter(c.client, c.errorQueueURL, c.logger)
	}
	return c
}

// Start begins the consumer's polling loop. It blocks until ctx is canceled,
// returning nil after the in-flight message (if any) has finished, or until
// a transport failure occurs, returning the error. Transport failures are
// never swallowed: a message that can be neither processed, deleted, nor
// error-reported must surface to the supervisor.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().Str("queue_url", c.queueURL).Msg("Consumer started, polling queue")

	for {
		// Before polling, check if a shutdown has been initiated.
		if ctx.Err() != nil {
			c.logger.Info().Msg("Shutdown initiated, no longer polling for new messages")
			return nil
		}

		input := &sqs.ReceiveMessageInput{
			QueueUrl:              aws.String(c.queueURL),
			MaxNumberOfMessages:   c.maxMessages,
			WaitTimeSeconds:       int32(c.waitTime / time.Second),
			MessageAttributeNames: []string{"All"},
		}
		if c.visibilityTimeout > 0 {
			input.VisibilityTimeout = int32(c.visibilityTimeout / time.Second)
		}

		output, err := c.client.ReceiveMessage(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.logger.Info().Msg("Context canceled by shutdown signal, stopping poller")
				return nil
			}
			return fmt.Errorf("%w: %v", ErrReceiveMessage, err)
		}

		if len(output.Messages) == 0 {
			continue
		}

		c.logger.Debug().Int("count", len(output.Messages)).Msg("Received messages")

		// Sequential by contract: the in-flight message always finishes its
		// current step before shutdown, so the processing context is detached
		// from ctx and bounded by processingTimeout instead.
		for _, raw := range output.Messages {
			msgCtx, cancel := context.WithTimeout(context.Background(), processingTimeout)
			err := c.handleMessage(msgCtx, messageFromSQS(raw))
			cancel()
			if err != nil {
				return err
			}
		}
	}
}

// handleMessage drives one message through filtering, validation, the
// callback, and the terminal delete or report-then-delete. The returned
// error is non-nil only for transport failures; rejection, validation
// failure, and callback failure are terminal per-message outcomes that do
// not stop consumption.
func (c *Consumer) handleMessage(ctx context.Context, msg Message) error {
	filtered, accepted, err := c.applyFilters(msg)

	if err == nil && !accepted {
		// Rejection is silent: no callback, no error record, and no delete.
		// The message becomes visible again when its visibility timeout
		// expires; cleanup is the caller's choice.
		c.logger.Debug().Str("message_id", msg.MessageID).Msg("Message rejected by filter chain")
		c.notify(Outcome{Kind: OutcomeRejected, Message: msg})
		return nil
	}

	if err == nil {
		err = c.handle(ctx, filtered)
	}

	if err != nil {
		// Record the failure durably before deleting the original, so the
		// delete never loses information.
		if pubErr := c.reportFailure(ctx, err, msg); pubErr != nil {
			return pubErr
		}
		if delErr := c.deleteMessage(msg); delErr != nil {
			return delErr
		}
		c.logger.Warn().
			Str("message_id", msg.MessageID).
			Err(err).
			Msg("Message failed, error record published")
		c.notify(Outcome{Kind: OutcomeFailed, Message: msg, Err: err})
		return nil
	}

	c.logger.Info().Str("message_id", msg.MessageID).Msg("Message processed")
	c.notify(Outcome{Kind: OutcomeProcessed, Message: filtered})

	return c.deleteMessage(msg)
}

// applyFilters runs the filter chain with panic isolation. A panicking
// filter violates the purity contract and is converted into a processing
// failure rather than crashing the consumer.
func (c *Consumer) applyFilters(msg Message) (out Message, accepted bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("filter panic: %v", r)
		}
	}()
	out, accepted = c.filters.Apply(msg)
	return out, accepted, nil
}

// handle validates the message content when a validator is configured, then
// invokes the processing callback. Panics in the callback are caught here so
// one poisonous message never stops consumption of the queue.
func (c *Consumer) handle(ctx context.Context, msg Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processing panic: %v", r)
		}
	}()
	if c.validator != nil {
		if _, verr := c.validator.Validate([]byte(msg.Body)); verr != nil {
			return verr
		}
	}
	return c.process(ctx, msg)
}

// reportFailure routes a failed message to the error queue. Running without
// an error queue turns any failure into a transport-level stop: silently
// dropping the failure would break the delete-iff-recorded invariant.
func (c *Consumer) reportFailure(ctx context.Context, cause error, msg Message) error {
	if c.reporter == nil {
		return fmt.Errorf("%w: cannot record failure for message %s: %v", ErrErrorQueueUnset, msg.MessageID, cause)
	}
	return c.reporter.PublishError(ctx, cause, msg)
}

// deleteMessage removes msg from the source queue. The delete context is
// detached so a shutdown signal cannot interrupt a half-finished message.
func (c *Consumer) deleteMessage(msg Message) error {
	delCtx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	_, err := c.client.DeleteMessage(delCtx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(c.queueURL),
		ReceiptHandle: aws.String(msg.ReceiptHandle),
	})
	if err != nil {
		return fmt.Errorf("%w: message %s: %v", ErrDeleteMessage, msg.MessageID, err)
	}
	c.logger.Debug().Str("message_id", msg.MessageID).Msg("Deleted message")
	return nil
}

func (c *Consumer) notify(o Outcome) {
	for _, l := range c.listeners {
		l.Notify(o)
	}
}

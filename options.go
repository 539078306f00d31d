package sqsconsumer

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/queueworks/sqsconsumer/pkg/jsonschema"
)

// Option configures a Consumer at construction time.
type Option func(*Consumer)

// WithFilters sets the ordered filter chain applied to each message before
// the processing callback.
func WithFilters(filters ...Filter) Option {
	return func(c *Consumer) { c.filters = NewFilterChain(filters...) }
}

// WithListeners registers outcome observers.
func WithListeners(listeners ...Listener) Option {
	return func(c *Consumer) { c.listeners = append(c.listeners, listeners...) }
}

// WithValidator attaches a schema validator applied to accepted messages
// before the callback. Validation failures take the same error-reporting
// path as callback failures.
func WithValidator(v *jsonschema.Validator) Option {
	return func(c *Consumer) { c.validator = v }
}

// WithErrorQueue sets the queue URL that failed messages are reported to.
// The error queue must be distinct from the source queue.
func WithErrorQueue(url string) Option {
	return func(c *Consumer) { c.errorQueueURL = url }
}

// WithLogger replaces the default no-op logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Consumer) { c.logger = logger }
}

// WithMaxMessages sets how many messages one receive call may return (1-10).
func WithMaxMessages(n int32) Option {
	return func(c *Consumer) { c.maxMessages = n }
}

// WithWaitTime sets the long-polling wait per receive call.
func WithWaitTime(d time.Duration) Option {
	return func(c *Consumer) { c.waitTime = d }
}

// WithVisibilityTimeout overrides the queue's default visibility timeout for
// messages received by this consumer.
func WithVisibilityTimeout(d time.Duration) Option {
	return func(c *Consumer) { c.visibilityTimeout = d }
}

package sqsconsumer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// Message is the unit of data retrieved from a queue. It carries the raw
// content, the receipt handle required for deletion, and optional string
// attributes. A Message is immutable once received; filters that transform
// a message return a new value.
type Message struct {
	MessageID     string
	Body          string
	ReceiptHandle string
	Attributes    map[string]string
}

// messageFromSQS converts an SQS SDK message into a Message.
func messageFromSQS(m types.Message) Message {
	var msg Message
	if m.MessageId != nil {
		msg.MessageID = *m.MessageId
	}
	if m.Body != nil {
		msg.Body = *m.Body
	}
	if m.ReceiptHandle != nil {
		msg.ReceiptHandle = *m.ReceiptHandle
	}
	if len(m.MessageAttributes) > 0 {
		msg.Attributes = make(map[string]string, len(m.MessageAttributes))
		for k, v := range m.MessageAttributes {
			if v.StringValue != nil {
				msg.Attributes[k] = *v.StringValue
			}
		}
	}
	return msg
}

// SQSClient defines the interface for SQS operations needed by the Consumer
// and the Reporter. This allows for easier testing by mocking the SQS client.
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// ProcessFunc is the business logic boundary. Returning nil acknowledges the
// message and the consumer deletes it from the source queue. Returning an
// error marks the message failed: the consumer publishes an error record to
// the error queue and then deletes the original.
type ProcessFunc func(ctx context.Context, msg Message) error

// OutcomeKind classifies the terminal state of one message.
type OutcomeKind int

const (
	// OutcomeProcessed indicates the message passed every filter and the
	// callback handled it successfully.
	OutcomeProcessed OutcomeKind = iota
	// OutcomeRejected indicates a filter rejected the message. Not an error;
	// no error record is produced and the message is not deleted.
	OutcomeRejected
	// OutcomeFailed indicates validation or the callback failed and an error
	// record was published.
	OutcomeFailed
)

// Outcome carries the terminal state of one message together with the
// message and, for failures, the causing error.
type Outcome struct {
	Kind    OutcomeKind
	Message Message
	Err     error
}

// Listener observes message outcomes. Notifications are delivered
// synchronously on the consumer's processing goroutine, so implementations
// must not block.
type Listener interface {
	Notify(outcome Outcome)
}

// ListenerFunc adapts a plain function to the Listener interface.
type ListenerFunc func(Outcome)

// Notify implements Listener.
func (f ListenerFunc) Notify(o Outcome) { f(o) }

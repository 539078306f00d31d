package sqsconsumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
)

// publishTimeout sets a client-side timeout for the SendMessage API call.
const publishTimeout = 5 * time.Second

// ErrorRecord is the wire shape published to the error queue. Field names
// and nesting are a contract with downstream error consumers and must not
// change.
type ErrorRecord struct {
	ErrorMessage ErrorMessageBody `json:"error-message"`
}

// ErrorMessageBody embeds the original message content and the failure
// description.
type ErrorMessageBody struct {
	JSON            any             `json:"json"`
	Error           string          `json:"error"`
	ErrorStackTrace ErrorStackTrace `json:"errorStackTrace"`
}

// ErrorStackTrace summarizes where the failure came from.
type ErrorStackTrace struct {
	ErrorMessage string `json:"errorMessage"`
}

// NewErrorRecord builds the record for a failed message. The original body
// is embedded as parsed JSON when it parses, as a raw string otherwise.
func NewErrorRecord(cause error, msg Message) ErrorRecord {
	var parsed any
	if err := json.Unmarshal([]byte(msg.Body), &parsed); err != nil {
		parsed = msg.Body
	}
	return ErrorRecord{
		ErrorMessage: ErrorMessageBody{
			JSON:            parsed,
			Error:           cause.Error(),
			ErrorStackTrace: ErrorStackTrace{ErrorMessage: fmt.Sprintf("%+v", cause)},
		},
	}
}

// Reporter republishes processing failures as structured records on a
// dedicated error queue, using the same SQS client interface as the
// consumer.
type Reporter struct {
	client        SQSClient
	errorQueueURL string
	logger        zerolog.Logger
}

// NewReporter creates a Reporter publishing to errorQueueURL.
func NewReporter(client SQSClient, errorQueueURL string, logger zerolog.Logger) *Reporter {
	return &Reporter{
		client:        client,
		errorQueueURL: errorQueueURL,
		logger:        logger,
	}
}

// PublishError builds an ErrorRecord for cause and msg and publishes it to
// the error queue. A publish failure is returned to the caller: the original
// message must not be deleted until the record is durable, otherwise the
// failure would be lost.
//
// The publish runs on a detached context so that consumer shutdown never
// aborts an in-flight report.
func (r *Reporter) PublishError(_ context.Context, cause error, msg Message) error {
	record := NewErrorRecord(cause, msg)
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishErrorRecord, err)
	}

	pubCtx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	_, err = r.client.SendMessage(pubCtx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(r.errorQueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishErrorRecord, err)
	}

	r.logger.Debug().
		Str("message_id", msg.MessageID).
		Str("error", cause.Error()).
		Msg("Published error record")
	return nil
}

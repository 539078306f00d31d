package sqsconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewErrorRecord(t *testing.T) {
	t.Run("JSON body is embedded parsed", func(t *testing.T) {
		record := NewErrorRecord(errors.New("boom"), Message{Body: `{"input": 0}`})
		assert.Equal(t, map[string]any{"input": float64(0)}, record.ErrorMessage.JSON)
		assert.Equal(t, "boom", record.ErrorMessage.Error)
		assert.Equal(t, "boom", record.ErrorMessage.ErrorStackTrace.ErrorMessage)
	})

	t.Run("non-JSON body is embedded raw", func(t *testing.T) {
		record := NewErrorRecord(errors.New("boom"), Message{Body: "blah"})
		assert.Equal(t, "blah", record.ErrorMessage.JSON)
	})
}

// The serialized field names and nesting are a contract with downstream
// error consumers.
func TestErrorRecord_WireShape(t *testing.T) {
	record := NewErrorRecord(errors.New("boom"), Message{Body: `{"k":"v"}`})

	raw, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	outer, ok := decoded["error-message"].(map[string]any)
	require.True(t, ok, "top-level key must be error-message")
	assert.Contains(t, outer, "json")
	assert.Contains(t, outer, "error")

	stack, ok := outer["errorStackTrace"].(map[string]any)
	require.True(t, ok, "errorStackTrace must be a nested object")
	assert.Contains(t, stack, "errorMessage")
}

func TestReporter_PublishError(t *testing.T) {
	mockClient := new(MockSQSClient)
	r := NewReporter(mockClient, testErrorQueueURL, zerolog.Nop())

	var sentBody string
	mockClient.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		return *in.QueueUrl == testErrorQueueURL
	})).Run(func(args mock.Arguments) {
		sentBody = *args.Get(1).(*sqs.SendMessageInput).MessageBody
	}).Return(&sqs.SendMessageOutput{}, nil).Once()

	err := r.PublishError(context.Background(), errors.New("handler failed"), Message{
		MessageID: "m1",
		Body:      `{"input": "value"}`,
	})
	require.NoError(t, err)

	var record ErrorRecord
	require.NoError(t, json.Unmarshal([]byte(sentBody), &record))
	assert.Equal(t, map[string]any{"input": "value"}, record.ErrorMessage.JSON)
	assert.Equal(t, "handler failed", record.ErrorMessage.Error)
	mockClient.AssertExpectations(t)
}

func TestReporter_PublishError_TransportFailure(t *testing.T) {
	mockClient := new(MockSQSClient)
	r := NewReporter(mockClient, testErrorQueueURL, zerolog.Nop())

	mockClient.On("SendMessage", mock.Anything, mock.Anything).
		Return(nil, errors.New("queue unavailable")).Once()

	err := r.PublishError(context.Background(), errors.New("boom"), Message{Body: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPublishErrorRecord)
}

package sqsconsumer

import "errors"

var (
	ErrReceiveMessage     = errors.New("failed to receive messages")
	ErrDeleteMessage      = errors.New("failed to delete message")
	ErrPublishErrorRecord = errors.New("failed to publish error record")
	ErrErrorQueueUnset    = errors.New("error queue not configured")
)

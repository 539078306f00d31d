package sqsconsumer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func appendFilter(suffix string) Filter {
	return func(msg Message) (Message, bool) {
		msg.Body = msg.Body + suffix
		return msg, true
	}
}

func TestFilterChain_EmptyIsIdentity(t *testing.T) {
	chain := NewFilterChain()
	msg := Message{Body: "unchanged"}

	out, ok := chain.Apply(msg)
	assert.True(t, ok)
	assert.Equal(t, msg, out)
}

func TestFilterChain_AppliesLeftToRight(t *testing.T) {
	chain := NewFilterChain(appendFilter("-first"), appendFilter("-second"))

	out, ok := chain.Apply(Message{Body: "msg"})
	assert.True(t, ok)
	assert.Equal(t, "msg-first-second", out.Body)
}

func TestFilterChain_ShortCircuitsOnRejection(t *testing.T) {
	secondInvoked := false
	chain := NewFilterChain(
		func(msg Message) (Message, bool) { return msg, false },
		func(msg Message) (Message, bool) {
			secondInvoked = true
			return msg, true
		},
	)

	_, ok := chain.Apply(Message{Body: "msg"})
	assert.False(t, ok)
	assert.False(t, secondInvoked, "filters after a rejection must not run")
}

func TestFilterChain_RejectionAfterTransform(t *testing.T) {
	chain := NewFilterChain(
		appendFilter("-seen"),
		func(msg Message) (Message, bool) { return msg, strings.Contains(msg.Body, "accept") },
	)

	out, ok := chain.Apply(Message{Body: "drop"})
	assert.False(t, ok)
	assert.Equal(t, "drop-seen", out.Body, "result carries the last accepted form")

	out, ok = chain.Apply(Message{Body: "accept"})
	assert.True(t, ok)
	assert.Equal(t, "accept-seen", out.Body)
}

func TestFilterChain_Len(t *testing.T) {
	assert.Equal(t, 0, NewFilterChain().Len())
	assert.Equal(t, 2, NewFilterChain(appendFilter("a"), appendFilter("b")).Len())
}

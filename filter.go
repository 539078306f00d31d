package sqsconsumer

// Filter is a pure accept/reject/transform step applied to a message before
// the processing callback. It returns the (possibly transformed) message and
// true to accept, or false to reject. Filters must be stateless; a filter
// that panics is treated by the consumer as a processing failure for that
// message.
type Filter func(msg Message) (Message, bool)

// FilterChain applies an ordered sequence of filters left to right,
// short-circuiting on the first rejection. The zero value accepts every
// message unchanged.
type FilterChain struct {
	filters []Filter
}

// NewFilterChain builds a chain from the given filters in application order.
func NewFilterChain(filters ...Filter) FilterChain {
	return FilterChain{filters: filters}
}

// Apply runs msg through each filter in order. When every filter accepts,
// the fully transformed message is returned with ok=true. When some filter
// rejects, ok is false and the remaining filters are not invoked.
func (c FilterChain) Apply(msg Message) (Message, bool) {
	current := msg
	for _, f := range c.filters {
		next, ok := f(current)
		if !ok {
			return current, false
		}
		current = next
	}
	return current, true
}

// Len returns the number of filters in the chain.
func (c FilterChain) Len() int { return len(c.filters) }

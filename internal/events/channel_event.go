package events

// ChannelEvent delivers values to registered channels. Sends never block: a
// listener whose buffer is full misses that value. Listeners that only care
// about the latest state should treat a receive as a wake-up and re-read the
// state from its owner.
type ChannelEvent[T any] struct {
	registry[T, chan<- T]
}

// NewChannelEvent creates a ChannelEvent. With replay set, a channel
// registered after the first Notify is sent the latest value.
func NewChannelEvent[T any](replay bool) *ChannelEvent[T] {
	e := &ChannelEvent[T]{}
	e.setup(replay)
	return e
}

// Listen registers ch and returns its deregistration function
func (e *ChannelEvent[T]) Listen(ch chan<- T) func() {
	if ch == nil {
		panic("ChannelEvent: channel cannot be nil")
	}
	id, last, replay := e.add(ch)
	if replay {
		trySend(ch, last)
	}
	return e.remover(id)
}

// Notify sends value to every registered channel that has room
func (e *ChannelEvent[T]) Notify(value T) {
	for _, ch := range e.publish(value) {
		trySend(ch, value)
	}
}

func trySend[T any](ch chan<- T, value T) {
	select {
	case ch <- value:
	default:
	}
}

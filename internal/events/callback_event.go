package events

// CallbackEvent delivers values synchronously to registered callbacks, in
// registration order, on the notifying goroutine
type CallbackEvent[T any] struct {
	registry[T, func(T)]
}

// NewCallbackEvent creates a CallbackEvent. With replay set, a callback
// registered after the first Notify is immediately called with the latest
// value.
func NewCallbackEvent[T any](replay bool) *CallbackEvent[T] {
	e := &CallbackEvent[T]{}
	e.setup(replay)
	return e
}

// Listen registers callback and returns its deregistration function
func (e *CallbackEvent[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("CallbackEvent: callback cannot be nil")
	}
	id, last, replay := e.add(callback)
	if replay {
		callback(last)
	}
	return e.remover(id)
}

// Notify calls every registered callback with value
func (e *CallbackEvent[T]) Notify(value T) {
	for _, callback := range e.publish(value) {
		callback(value)
	}
}

package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCallbackEvent(t *testing.T) {
	event := NewCallbackEvent[string](false)
	require.NotNil(t, event)
	assert.Equal(t, 0, event.ListenerCount())
	assert.False(t, event.replay)

	replaying := NewCallbackEvent[int](true)
	assert.True(t, replaying.replay)
}

func TestCallbackEvent_ListenNotify(t *testing.T) {
	event := NewCallbackEvent[string](false)

	var received []string
	unregister := event.Listen(func(value string) {
		received = append(received, value)
	})
	assert.Equal(t, 1, event.ListenerCount())

	event.Notify("fill")
	event.Notify("smooth")
	assert.Equal(t, []string{"fill", "smooth"}, received)

	unregister()
	assert.Equal(t, 0, event.ListenerCount())

	event.Notify("undo")
	assert.Equal(t, []string{"fill", "smooth"}, received)
}

func TestCallbackEvent_RegistrationOrder(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var order []string
	defer event.Listen(func(int) { order = append(order, "first") })()
	defer event.Listen(func(int) { order = append(order, "second") })()
	defer event.Listen(func(int) { order = append(order, "third") })()

	event.Notify(1)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestCallbackEvent_Replay(t *testing.T) {
	event := NewCallbackEvent[string](true)

	var early []string
	defer event.Listen(func(v string) { early = append(early, v) })()
	assert.Empty(t, early, "nothing to replay before the first Notify")

	_, ok := event.Last()
	assert.False(t, ok)

	event.Notify("loaded")
	last, ok := event.Last()
	assert.True(t, ok)
	assert.Equal(t, "loaded", last)

	var late []string
	defer event.Listen(func(v string) { late = append(late, v) })()
	assert.Equal(t, []string{"loaded"}, late)

	event.Notify("edited")
	assert.Equal(t, []string{"loaded", "edited"}, early)
	assert.Equal(t, []string{"loaded", "edited"}, late)
}

func TestCallbackEvent_NoReplay(t *testing.T) {
	event := NewCallbackEvent[string](false)
	event.Notify("loaded")

	var received []string
	defer event.Listen(func(v string) { received = append(received, v) })()
	assert.Empty(t, received)

	_, ok := event.Last()
	assert.False(t, ok)
}

func TestCallbackEvent_ReentrantListener(t *testing.T) {
	event := NewCallbackEvent[int](false)

	var inner []int
	event.Listen(func(v int) {
		if v == 1 {
			event.Listen(func(v int) { inner = append(inner, v) })
			event.Notify(2)
		}
	})

	event.Notify(1)
	assert.Equal(t, []int{2}, inner)
	assert.Equal(t, 2, event.ListenerCount())
}

func TestCallbackEvent_NilCallbackPanics(t *testing.T) {
	event := NewCallbackEvent[int](false)
	assert.Panics(t, func() { event.Listen(nil) })
}

func TestCallbackEvent_ConcurrentAccess(t *testing.T) {
	event := NewCallbackEvent[int](true)

	var mu sync.Mutex
	total := 0
	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unregister := event.Listen(func(v int) {
				mu.Lock()
				total += v
				mu.Unlock()
			})
			event.Notify(i)
			unregister()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, event.ListenerCount())
}

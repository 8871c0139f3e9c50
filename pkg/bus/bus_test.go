package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnEmitOff(t *testing.T) {
	b := New()

	var got []any
	sub := b.On("ping", func(payload any) {
		got = append(got, payload)
	})

	b.Emit("ping", 1)
	b.Emit("ping", 2)
	assert.Equal(t, []any{1, 2}, got)

	b.Off(sub)
	b.Emit("ping", 3)
	assert.Equal(t, []any{1, 2}, got)
	assert.Zero(t, b.HandlerCount("ping"))
}

func TestEmitDispatchesToSnapshot(t *testing.T) {
	b := New()

	var calls []string
	var first Subscription
	first = b.On("tick", func(any) {
		calls = append(calls, "first")
		// Unsubscribing mid-dispatch must not affect the current emission.
		b.Off(first)
	})
	b.On("tick", func(any) {
		calls = append(calls, "second")
	})

	b.Emit("tick", nil)
	assert.Equal(t, []string{"first", "second"}, calls)

	b.Emit("tick", nil)
	assert.Equal(t, []string{"first", "second", "second"}, calls)
}

func TestHandlerPanicDoesNotStopSiblings(t *testing.T) {
	b := New()

	ran := false
	b.On("boom", func(any) { panic("handler bug") })
	b.On("boom", func(any) { ran = true })

	assert.NotPanics(t, func() { b.Emit("boom", nil) })
	assert.True(t, ran)
}

func TestOffUnknownSubscriptionIsNoop(t *testing.T) {
	b := New()
	b.On("x", func(any) {})

	b.Off(Subscription{Event: "x"})
	assert.Equal(t, 1, b.HandlerCount("x"))
}

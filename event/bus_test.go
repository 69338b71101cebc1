package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversInSubscriptionOrder(t *testing.T) {
	b := NewBus[int]()

	var order []string
	b.Subscribe(func(int) { order = append(order, "first") })
	b.Subscribe(func(int) { order = append(order, "second") })
	b.Subscribe(func(int) { order = append(order, "third") })

	b.Publish(1)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus[string]()

	var got []string
	unsub := b.Subscribe(func(v string) { got = append(got, "a:"+v) })
	b.Subscribe(func(v string) { got = append(got, "b:"+v) })

	b.Publish("one")
	unsub()
	unsub() // double removal is harmless
	b.Publish("two")

	assert.Equal(t, []string{"a:one", "b:one", "b:two"}, got)
	assert.Equal(t, 1, b.Len())
}

func TestBus_SubscribeDuringPublish(t *testing.T) {
	b := NewBus[int]()

	calls := 0
	b.Subscribe(func(int) {
		b.Subscribe(func(int) { calls += 10 })
	})

	// The listener added mid-publish only sees the next event.
	b.Publish(1)
	assert.Equal(t, 0, calls)
	b.Publish(2)
	assert.Equal(t, 10, calls)
}

func TestBus_NilListener(t *testing.T) {
	b := NewBus[int]()
	unsub := b.Subscribe(nil)
	unsub()
	assert.Equal(t, 0, b.Len())
	b.Publish(1)
}

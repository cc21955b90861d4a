package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishReachesSubscribers(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe("outbox-changed")
	defer cancel()

	b.Publish("outbox-changed")

	select {
	case topic := <-ch:
		assert.Equal(t, "outbox-changed", topic)
	case <-time.After(time.Second):
		t.Fatal("expected a signal")
	}
}

func TestPublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	b := New()
	done := make(chan struct{})
	go func() {
		b.Publish("nadie")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked with no subscribers")
	}
}

func TestBurstsCoalesce(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe("store-changed:outbox")
	defer cancel()

	for i := 0; i < 10; i++ {
		b.Publish("store-changed:outbox")
	}

	// A subscriber that was not draining sees one pending signal, not ten.
	<-ch
	select {
	case <-ch:
		t.Fatal("burst was queued instead of coalesced")
	default:
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	ch, cancel := b.Subscribe("auth-stable")

	cancel()
	cancel() // safe to call twice

	_, ok := <-ch
	assert.False(t, ok, "channel must be closed after unsubscribe")

	// Publishing afterwards must not send on the closed channel.
	b.Publish("auth-stable")
}

func TestSubscribersAreIndependent(t *testing.T) {
	b := New()
	a, cancelA := b.Subscribe("t")
	defer cancelA()
	c, cancelC := b.Subscribe("t")

	cancelC()
	b.Publish("t")

	select {
	case <-a:
	case <-time.After(time.Second):
		t.Fatal("remaining subscriber missed the signal")
	}
	_, ok := <-c
	assert.False(t, ok)
}

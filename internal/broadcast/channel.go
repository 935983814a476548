package broadcast

import (
	"sync"
)

// Channel is a hot topic that retains only its latest value.
// Publish replaces the retained value and notifies every current subscriber;
// a subscriber attaching later receives the retained value immediately.
//
// Each subscription owns a one-slot mailbox. When a subscriber has not yet
// consumed the previous value, the newer value replaces it, so publishing
// never blocks and observers always converge on the latest value.
type Channel[T any] struct {
	name string

	mu     sync.Mutex
	value  T
	has    bool
	closed bool
	subs   map[*Subscription[T]]struct{}

	published int64
	delivered int64
	replaced  int64
}

// Subscription receives values published to a Channel
type Subscription[T any] struct {
	// C yields published values. It is closed by Unsubscribe or Channel.Close.
	C <-chan T

	mailbox chan T
}

// Stats holds channel counters
type Stats struct {
	Name        string
	Subscribers int
	Published   int64
	Delivered   int64
	Replaced    int64 // undelivered values overwritten by a newer one
	Retained    bool
	Closed      bool
}

// New creates an empty channel. name is only used for diagnostics.
func New[T any](name string) *Channel[T] {
	return &Channel[T]{
		name: name,
		subs: make(map[*Subscription[T]]struct{}),
	}
}

// Name returns the diagnostic name of the channel
func (ch *Channel[T]) Name() string {
	return ch.name
}

// Publish retains v and delivers it to all current subscribers.
// It returns false when the channel is closed, in which case v is dropped.
func (ch *Channel[T]) Publish(v T) bool {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return false
	}

	ch.value = v
	ch.has = true
	ch.published++

	for sub := range ch.subs {
		ch.deliver(sub, v)
	}
	return true
}

// Observe returns the retained value, if any
func (ch *Channel[T]) Observe() (T, bool) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	return ch.value, ch.has
}

// Subscribe attaches a new observer. The retained value, if present,
// is placed in the subscription before Subscribe returns.
func (ch *Channel[T]) Subscribe() *Subscription[T] {
	mailbox := make(chan T, 1)
	sub := &Subscription[T]{C: mailbox, mailbox: mailbox}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		close(mailbox)
		return sub
	}

	ch.subs[sub] = struct{}{}
	if ch.has {
		ch.deliver(sub, ch.value)
	}
	return sub
}

// Unsubscribe detaches sub and closes its channel
func (ch *Channel[T]) Unsubscribe(sub *Subscription[T]) {
	if sub == nil {
		return
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()

	if _, ok := ch.subs[sub]; !ok {
		return
	}
	delete(ch.subs, sub)
	close(sub.mailbox)
}

// Close detaches all subscribers and rejects further publishes.
// The retained value stays observable.
func (ch *Channel[T]) Close() {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if ch.closed {
		return
	}
	ch.closed = true

	for sub := range ch.subs {
		close(sub.mailbox)
	}
	ch.subs = make(map[*Subscription[T]]struct{})
}

// Stats returns a snapshot of the channel counters
func (ch *Channel[T]) Stats() Stats {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	return Stats{
		Name:        ch.name,
		Subscribers: len(ch.subs),
		Published:   ch.published,
		Delivered:   ch.delivered,
		Replaced:    ch.replaced,
		Retained:    ch.has,
		Closed:      ch.closed,
	}
}

// deliver must be called with ch.mu held. Holding the lock makes this the
// only sender on the mailbox, so the final send cannot block.
func (ch *Channel[T]) deliver(sub *Subscription[T], v T) {
	select {
	case sub.mailbox <- v:
	default:
		select {
		case <-sub.mailbox:
			ch.replaced++
		default:
		}
		sub.mailbox <- v
	}
	ch.delivered++
}

package event

import (
	"errors"

	"github.com/rotisserie/eris"
)

// MaxEventsPerQueue bounds every receiver queue. Hitting it means a system
// stopped draining its queue or something is flooding it.
const MaxEventsPerQueue = 100

var (
	ErrAlreadyRegistered     = errors.New("receiver already registered")
	ErrReceiverNotRegistered = errors.New("receiver not registered")
	ErrQueueOverflow         = errors.New("receiver queue full")
)

// ReceiverID names a message destination, normally one system.
// The zero value is never a valid receiver.
type ReceiverID uint16

// Receiver is implemented by systems that read from the bus.
type Receiver interface {
	Receiver() ReceiverID
}

// queue is a fixed-capacity ring buffer.
type queue[M any] struct {
	buf  [MaxEventsPerQueue]M
	head int
	n    int
}

// push appends m, refusing when the queue is full.
func (q *queue[M]) push(m M) bool {
	if q.n >= MaxEventsPerQueue {
		return false
	}
	q.buf[(q.head+q.n)%MaxEventsPerQueue] = m
	q.n++
	return true
}

func (q *queue[M]) pop() (M, bool) {
	var zero M
	if q.n == 0 {
		return zero, false
	}
	m := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % MaxEventsPerQueue
	q.n--
	return m, true
}

// Bus holds one FIFO queue per registered receiver. Not safe for concurrent
// use; the world that owns it runs on a single goroutine.
type Bus[M any] struct {
	queues []*queue[M] // indexed by ReceiverID, nil when unregistered
	ids    []ReceiverID
}

func NewBus[M any]() *Bus[M] {
	return &Bus[M]{
		queues: make([]*queue[M], 0, 16),
		ids:    make([]ReceiverID, 0, 16),
	}
}

func (b *Bus[M]) lookup(r ReceiverID) *queue[M] {
	if int(r) >= len(b.queues) {
		return nil
	}
	return b.queues[r]
}

// Register creates the queue for r.
func (b *Bus[M]) Register(r ReceiverID) error {
	if r == 0 {
		return eris.Wrap(ErrReceiverNotRegistered, "register receiver 0")
	}
	if b.lookup(r) != nil {
		return eris.Wrapf(ErrAlreadyRegistered, "register receiver %d", r)
	}
	for len(b.queues) <= int(r) {
		b.queues = append(b.queues, nil)
	}
	b.queues[r] = &queue[M]{}
	b.ids = append(b.ids, r)
	return nil
}

func (b *Bus[M]) Registered(r ReceiverID) bool { return b.lookup(r) != nil }

// Broadcast pushes msg onto every registered queue. Nothing is delivered
// unless every queue has room.
func (b *Bus[M]) Broadcast(msg M) error {
	for _, r := range b.ids {
		if b.queues[r].n >= MaxEventsPerQueue {
			return eris.Wrapf(ErrQueueOverflow, "broadcast to receiver %d", r)
		}
	}
	for _, r := range b.ids {
		if !b.queues[r].push(msg) {
			return eris.Wrapf(ErrQueueOverflow, "broadcast to receiver %d", r)
		}
	}
	return nil
}

// SendTo pushes msg onto each named receiver's queue. All targets are
// checked before anything is pushed; a receiver named twice gets two copies
// and needs room for both.
func (b *Bus[M]) SendTo(msg M, receivers ...ReceiverID) error {
	for i, r := range receivers {
		q := b.lookup(r)
		if q == nil {
			return eris.Wrapf(ErrReceiverNotRegistered, "send to receiver %d", r)
		}
		want := 1
		for _, o := range receivers[:i] {
			if o == r {
				want++
			}
		}
		if q.n+want > MaxEventsPerQueue {
			return eris.Wrapf(ErrQueueOverflow, "send to receiver %d", r)
		}
	}
	for _, r := range receivers {
		if !b.queues[r].push(msg) {
			return eris.Wrapf(ErrQueueOverflow, "send to receiver %d", r)
		}
	}
	return nil
}

// Poll pops the oldest message for r. An unregistered receiver simply has
// nothing to read.
func (b *Bus[M]) Poll(r ReceiverID) (M, bool) {
	q := b.lookup(r)
	if q == nil {
		var zero M
		return zero, false
	}
	return q.pop()
}

// Drain polls r until its queue is empty, stopping at the first error fn returns.
func (b *Bus[M]) Drain(r ReceiverID, fn func(M) error) error {
	for {
		m, ok := b.Poll(r)
		if !ok {
			return nil
		}
		if err := fn(m); err != nil {
			return err
		}
	}
}

// Pending returns how many messages wait for r.
func (b *Bus[M]) Pending(r ReceiverID) int {
	if q := b.lookup(r); q != nil {
		return q.n
	}
	return 0
}

// Receivers lists registered receivers in registration order.
func (b *Bus[M]) Receivers() []ReceiverID {
	out := make([]ReceiverID, len(b.ids))
	copy(out, b.ids)
	return out
}

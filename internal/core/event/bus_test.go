package event

import (
	"testing"

	"gotest.tools/v3/assert"
)

const (
	recvA ReceiverID = iota + 1
	recvB
	recvC
)

func TestBusFIFO(t *testing.T) {
	b := NewBus[string]()
	assert.NilError(t, b.Register(recvA))
	assert.NilError(t, b.SendTo("m1", recvA))
	assert.NilError(t, b.SendTo("m2", recvA))

	m, ok := b.Poll(recvA)
	assert.Assert(t, ok)
	assert.Equal(t, m, "m1")
	m, ok = b.Poll(recvA)
	assert.Assert(t, ok)
	assert.Equal(t, m, "m2")
	_, ok = b.Poll(recvA)
	assert.Assert(t, !ok)
}

func TestBusRegister(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvB))
	assert.ErrorIs(t, b.Register(recvB), ErrAlreadyRegistered)
	assert.ErrorIs(t, b.Register(0), ErrReceiverNotRegistered)
	assert.Assert(t, b.Registered(recvB))
	assert.Assert(t, !b.Registered(recvA))
}

func TestBusUnregisteredReceiver(t *testing.T) {
	b := NewBus[int]()
	assert.ErrorIs(t, b.SendTo(1, recvA), ErrReceiverNotRegistered)

	_, ok := b.Poll(recvA)
	assert.Assert(t, !ok)
	assert.Equal(t, b.Pending(recvA), 0)
}

func TestBusCapacity(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvA))
	for i := 0; i < MaxEventsPerQueue; i++ {
		assert.NilError(t, b.SendTo(i, recvA))
	}
	assert.ErrorIs(t, b.SendTo(MaxEventsPerQueue, recvA), ErrQueueOverflow)
	assert.Equal(t, b.Pending(recvA), MaxEventsPerQueue)

	for i := 0; i < MaxEventsPerQueue; i++ {
		m, ok := b.Poll(recvA)
		assert.Assert(t, ok)
		assert.Equal(t, m, i)
	}
	_, ok := b.Poll(recvA)
	assert.Assert(t, !ok)
}

func TestBusRingWrapsAround(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvA))
	next := 0
	for round := 0; round < 3; round++ {
		for i := 0; i < 70; i++ {
			assert.NilError(t, b.SendTo(round*1000+i, recvA))
		}
		for i := 0; i < 70; i++ {
			m, ok := b.Poll(recvA)
			assert.Assert(t, ok)
			assert.Equal(t, m, round*1000+i)
			next++
		}
	}
	assert.Equal(t, next, 210)
}

func TestBusBroadcastAllOrNothing(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvA))
	assert.NilError(t, b.Register(recvB))
	for i := 0; i < MaxEventsPerQueue; i++ {
		assert.NilError(t, b.SendTo(i, recvB))
	}

	assert.ErrorIs(t, b.Broadcast(-1), ErrQueueOverflow)
	assert.Equal(t, b.Pending(recvA), 0)

	_, _ = b.Poll(recvB)
	assert.NilError(t, b.Broadcast(-1))
	assert.Equal(t, b.Pending(recvA), 1)
	assert.Equal(t, b.Pending(recvB), MaxEventsPerQueue)
}

func TestBusSendToMany(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvA))
	assert.NilError(t, b.Register(recvB))

	assert.ErrorIs(t, b.SendTo(1, recvA, recvC), ErrReceiverNotRegistered)
	assert.Equal(t, b.Pending(recvA), 0)

	assert.NilError(t, b.SendTo(1, recvA, recvB))
	assert.Equal(t, b.Pending(recvA), 1)
	assert.Equal(t, b.Pending(recvB), 1)
	assert.DeepEqual(t, b.Receivers(), []ReceiverID{recvA, recvB})
}

func TestBusDrainStopsOnError(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvA))
	for i := 1; i <= 3; i++ {
		assert.NilError(t, b.SendTo(i, recvA))
	}
	var got []int
	err := b.Drain(recvA, func(m int) error {
		got = append(got, m)
		if m == 2 {
			return ErrQueueOverflow
		}
		return nil
	})
	assert.ErrorIs(t, err, ErrQueueOverflow)
	assert.DeepEqual(t, got, []int{1, 2})
	assert.Equal(t, b.Pending(recvA), 1)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, GameTick.String(), "GameTick")
	assert.Equal(t, Kind(0).String(), "Unknown")
	assert.Equal(t, Kind(200).String(), "Unknown")
}

func TestBusSendToRepeatedReceiver(t *testing.T) {
	b := NewBus[int]()
	assert.NilError(t, b.Register(recvA))
	for i := 0; i < MaxEventsPerQueue-1; i++ {
		assert.NilError(t, b.SendTo(i, recvA))
	}

	assert.ErrorIs(t, b.SendTo(999, recvA, recvA), ErrQueueOverflow)
	assert.Equal(t, b.Pending(recvA), MaxEventsPerQueue-1)
	m, ok := b.Poll(recvA)
	assert.Assert(t, ok)
	assert.Equal(t, m, 0)

	assert.NilError(t, b.SendTo(999, recvA, recvA))
	assert.Equal(t, b.Pending(recvA), MaxEventsPerQueue)
	for i := 1; i < MaxEventsPerQueue-1; i++ {
		m, _ := b.Poll(recvA)
		assert.Equal(t, m, i)
	}
	m, _ = b.Poll(recvA)
	assert.Equal(t, m, 999)
	m, _ = b.Poll(recvA)
	assert.Equal(t, m, 999)
	assert.Equal(t, b.Pending(recvA), 0)
}

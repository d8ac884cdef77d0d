package ecs

import "github.com/rotisserie/eris"

// Command is a deferred structural change. Commands are applied by the World
// after every system has run for the tick.
type Command interface {
	Apply(entities *EntityManager, components *ComponentManager) error
}

// SpawnCommand attaches Component to Entity.
type SpawnCommand[C any] struct {
	Entity    EntityID
	Component C
}

func NewSpawn[C any](id EntityID, c C) *SpawnCommand[C] {
	return &SpawnCommand[C]{Entity: id, Component: c}
}

func (c *SpawnCommand[C]) Apply(entities *EntityManager, components *ComponentManager) error {
	if !entities.Alive(c.Entity) {
		return eris.Wrapf(ErrEntityNotAlive, "spawn %s on entity %d", TypeOf[C](), c.Entity)
	}
	l, err := List[C](components)
	if err != nil {
		return err
	}
	return l.Store(c.Entity, c.Component)
}

// KillCommand removes every component of Entity and frees its id.
// Killing an entity twice is harmless.
type KillCommand struct {
	Entity EntityID
}

func NewKill(id EntityID) *KillCommand {
	return &KillCommand{Entity: id}
}

func (c *KillCommand) Apply(entities *EntityManager, components *ComponentManager) error {
	if !entities.Alive(c.Entity) {
		return nil
	}
	components.RemoveAll(c.Entity)
	entities.Destroy(c.Entity)
	return nil
}

// CommandQueue buffers commands issued during a tick.
type CommandQueue struct {
	cmds []Command
}

func NewCommandQueue() *CommandQueue {
	return &CommandQueue{cmds: make([]Command, 0, 64)}
}

func (q *CommandQueue) Push(cmd Command) { q.cmds = append(q.cmds, cmd) }

// Spawn queues attaching c to id.
func Spawn[C any](q *CommandQueue, id EntityID, c C) {
	q.Push(NewSpawn(id, c))
}

// Kill queues destroying id.
func (q *CommandQueue) Kill(id EntityID) { q.Push(NewKill(id)) }

func (q *CommandQueue) Len() int { return len(q.cmds) }

// Reset drops every queued command.
func (q *CommandQueue) Reset() {
	clear(q.cmds)
	q.cmds = q.cmds[:0]
}

// Flush applies commands in the order they were queued and empties the
// queue. The first failing command stops the flush; the rest are dropped.
func (q *CommandQueue) Flush(entities *EntityManager, components *ComponentManager) (int, error) {
	defer q.Reset()
	for i, cmd := range q.cmds {
		if err := cmd.Apply(entities, components); err != nil {
			return i, err
		}
	}
	return len(q.cmds), nil
}

package ecs

import (
	"iter"
	"reflect"

	"github.com/rotisserie/eris"
)

// AnyList is the non-generic view of a ComponentList. The ComponentManager
// keeps every list behind it and KillCommand uses it to strip an entity
// from all lists at once.
type AnyList interface {
	Type() reflect.Type
	Has(id EntityID) bool
	Remove(id EntityID) error
	Len() int
}

// ComponentList is dense storage for every component of one type.
// lookup is indexed by entity index and holds the dense slot or -1;
// entities and data are parallel and always contiguous.
type ComponentList[C any] struct {
	lookup   []int32
	entities []EntityID
	data     []C
}

func NewComponentList[C any]() *ComponentList[C] {
	return &ComponentList[C]{
		lookup:   make([]int32, 0, 256),
		entities: make([]EntityID, 0, 64),
		data:     make([]C, 0, 64),
	}
}

func (l *ComponentList[C]) Type() reflect.Type { return reflect.TypeFor[C]() }

func (l *ComponentList[C]) slot(id EntityID) (int, bool) {
	idx := int(id.Index())
	if idx >= len(l.lookup) {
		return 0, false
	}
	i := l.lookup[idx]
	if i < 0 || l.entities[i] != id {
		return 0, false
	}
	return int(i), true
}

// Store attaches value to id. An entity holds at most one value per list.
func (l *ComponentList[C]) Store(id EntityID, value C) error {
	if _, ok := l.slot(id); ok {
		return eris.Wrapf(ErrDuplicateComponent, "store %s on entity %d", l.Type(), id)
	}
	idx := int(id.Index())
	for len(l.lookup) <= idx {
		l.lookup = append(l.lookup, -1)
	}
	l.lookup[idx] = int32(len(l.data))
	l.entities = append(l.entities, id)
	l.data = append(l.data, value)
	return nil
}

// Get returns a pointer into the dense slice. It stays valid until the next
// Store or Remove on this list.
func (l *ComponentList[C]) Get(id EntityID) (*C, error) {
	i, ok := l.slot(id)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "get %s on entity %d", l.Type(), id)
	}
	return &l.data[i], nil
}

func (l *ComponentList[C]) Has(id EntityID) bool {
	_, ok := l.slot(id)
	return ok
}

// First returns the first stored component. Meant for components that are
// singletons within a world, such as the snake head.
func (l *ComponentList[C]) First() (EntityID, *C, error) {
	if len(l.data) == 0 {
		return 0, nil, eris.Wrapf(ErrNoComponentAvailable, "first %s", l.Type())
	}
	return l.entities[0], &l.data[0], nil
}

// Remove swaps the last element into the freed slot and truncates.
func (l *ComponentList[C]) Remove(id EntityID) error {
	i, ok := l.slot(id)
	if !ok {
		return eris.Wrapf(ErrComponentNotFound, "remove %s on entity %d", l.Type(), id)
	}
	last := len(l.data) - 1
	moved := l.entities[last]
	l.data[i] = l.data[last]
	l.entities[i] = moved
	l.lookup[moved.Index()] = int32(i)
	l.lookup[id.Index()] = -1

	var zero C
	l.data[last] = zero
	l.data = l.data[:last]
	l.entities = l.entities[:last]
	return nil
}

func (l *ComponentList[C]) Len() int      { return len(l.data) }
func (l *ComponentList[C]) IsEmpty() bool { return len(l.data) == 0 }

// EntityAt returns the owner of dense slot i.
func (l *ComponentList[C]) EntityAt(i int) EntityID { return l.entities[i] }

// Each calls fn for every component in dense order.
func (l *ComponentList[C]) Each(fn func(EntityID, *C)) {
	for i := range l.data {
		fn(l.entities[i], &l.data[i])
	}
}

// All is the range-over-func form of Each.
func (l *ComponentList[C]) All() iter.Seq2[EntityID, *C] {
	return func(yield func(EntityID, *C) bool) {
		for i := range l.data {
			if !yield(l.entities[i], &l.data[i]) {
				return
			}
		}
	}
}

package ecs

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// TypeOf returns the key a component type is registered under.
func TypeOf[C any]() reflect.Type { return reflect.TypeFor[C]() }

// ComponentManager maps component types to their lists. Every list sits
// behind its own pointer, so handing out several lists at once never aliases.
type ComponentManager struct {
	stores map[reflect.Type]AnyList
	order  []reflect.Type
}

func NewComponentManager() *ComponentManager {
	return &ComponentManager{
		stores: make(map[reflect.Type]AnyList, 16),
		order:  make([]reflect.Type, 0, 16),
	}
}

// Register creates and registers an empty list for C.
func Register[C any](m *ComponentManager) error {
	return Store[C](m, NewComponentList[C]())
}

// Store registers list as the storage for C.
func Store[C any](m *ComponentManager, list *ComponentList[C]) error {
	t := TypeOf[C]()
	if _, ok := m.stores[t]; ok {
		return eris.Wrapf(ErrComponentTypeExists, "register %s", t)
	}
	m.stores[t] = list
	m.order = append(m.order, t)
	return nil
}

// List returns the typed list for C.
func List[C any](m *ComponentManager) (*ComponentList[C], error) {
	t := TypeOf[C]()
	s, ok := m.stores[t]
	if !ok {
		return nil, eris.Wrapf(ErrComponentTypeNotFound, "list %s", t)
	}
	l, ok := s.(*ComponentList[C])
	if !ok {
		return nil, eris.Wrapf(ErrDowncast, "list %s holds %T", t, s)
	}
	return l, nil
}

// Many returns the stores for several distinct types in one call.
// Asking for the same type twice is rejected.
func (m *ComponentManager) Many(types ...reflect.Type) ([]AnyList, error) {
	out := make([]AnyList, len(types))
	for i, t := range types {
		for _, prev := range types[:i] {
			if prev == t {
				return nil, eris.Wrapf(ErrDuplicateType, "many %s", t)
			}
		}
		s, ok := m.stores[t]
		if !ok {
			return nil, eris.Wrapf(ErrComponentTypeNotFound, "many %s", t)
		}
		out[i] = s
	}
	return out, nil
}

func cast[C any](s AnyList) (*ComponentList[C], error) {
	l, ok := s.(*ComponentList[C])
	if !ok {
		return nil, eris.Wrapf(ErrDowncast, "want %s, have %T", TypeOf[C](), s)
	}
	return l, nil
}

// Lists2 returns the lists for two distinct component types.
func Lists2[A, B any](m *ComponentManager) (*ComponentList[A], *ComponentList[B], error) {
	s, err := m.Many(TypeOf[A](), TypeOf[B]())
	if err != nil {
		return nil, nil, err
	}
	a, err := cast[A](s[0])
	if err != nil {
		return nil, nil, err
	}
	b, err := cast[B](s[1])
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Lists3 returns the lists for three distinct component types.
func Lists3[A, B, C any](m *ComponentManager) (*ComponentList[A], *ComponentList[B], *ComponentList[C], error) {
	if _, err := m.Many(TypeOf[A](), TypeOf[B](), TypeOf[C]()); err != nil {
		return nil, nil, nil, err
	}
	a, b, err := Lists2[A, B](m)
	if err != nil {
		return nil, nil, nil, err
	}
	c, err := List[C](m)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, c, nil
}

// Lists4 returns the lists for four distinct component types.
func Lists4[A, B, C, D any](m *ComponentManager) (*ComponentList[A], *ComponentList[B], *ComponentList[C], *ComponentList[D], error) {
	if _, err := m.Many(TypeOf[A](), TypeOf[B](), TypeOf[C](), TypeOf[D]()); err != nil {
		return nil, nil, nil, nil, err
	}
	a, b, c, err := Lists3[A, B, C](m)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	d, err := List[D](m)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return a, b, c, d, nil
}

// RemoveAll clears the given entity from every registered list and reports
// how many lists held it.
func (m *ComponentManager) RemoveAll(id EntityID) int {
	n := 0
	for _, t := range m.order {
		s := m.stores[t]
		if !s.Has(id) {
			continue
		}
		if err := s.Remove(id); err == nil {
			n++
		}
	}
	return n
}

// Types lists registered component types in registration order.
func (m *ComponentManager) Types() []reflect.Type {
	out := make([]reflect.Type, len(m.order))
	copy(out, m.order)
	return out
}

package ecs

import (
	"reflect"
	"testing"

	"gotest.tools/v3/assert"
)

func TestComponentManagerRegister(t *testing.T) {
	m := NewComponentManager()
	assert.NilError(t, Register[testPos](m))
	assert.ErrorIs(t, Register[testPos](m), ErrComponentTypeExists)

	l, err := List[testPos](m)
	assert.NilError(t, err)
	assert.NilError(t, l.Store(1, testPos{X: 1}))

	again, err := List[testPos](m)
	assert.NilError(t, err)
	assert.Equal(t, again.Len(), 1)
}

func TestComponentManagerUnknownType(t *testing.T) {
	m := NewComponentManager()
	_, err := List[testVel](m)
	assert.ErrorIs(t, err, ErrComponentTypeNotFound)
}

func TestComponentManagerLists(t *testing.T) {
	m := NewComponentManager()
	assert.NilError(t, Register[testPos](m))
	assert.NilError(t, Register[testVel](m))
	assert.NilError(t, Register[testTag](m))

	pos, vel, err := Lists2[testPos, testVel](m)
	assert.NilError(t, err)
	assert.NilError(t, pos.Store(1, testPos{}))
	assert.NilError(t, vel.Store(1, testVel{}))

	_, _, _, err = Lists3[testPos, testVel, testTag](m)
	assert.NilError(t, err)

	_, _, err = Lists2[testPos, testPos](m)
	assert.ErrorIs(t, err, ErrDuplicateType)

	_, _, _, _, err = Lists4[testPos, testVel, testTag, testVel](m)
	assert.ErrorIs(t, err, ErrDuplicateType)

	_, err = m.Many(TypeOf[testPos](), reflect.TypeFor[int]())
	assert.ErrorIs(t, err, ErrComponentTypeNotFound)
}

func TestComponentManagerDowncast(t *testing.T) {
	m := NewComponentManager()
	// a list registered under the wrong key
	m.stores[TypeOf[testVel]()] = NewComponentList[testPos]()
	_, err := List[testVel](m)
	assert.ErrorIs(t, err, ErrDowncast)
}

func TestComponentManagerRemoveAll(t *testing.T) {
	m := NewComponentManager()
	assert.NilError(t, Register[testPos](m))
	assert.NilError(t, Register[testVel](m))
	pos, vel, err := Lists2[testPos, testVel](m)
	assert.NilError(t, err)
	assert.NilError(t, pos.Store(1, testPos{}))
	assert.NilError(t, vel.Store(1, testVel{}))
	assert.NilError(t, pos.Store(2, testPos{}))

	assert.Equal(t, m.RemoveAll(1), 2)
	assert.Equal(t, pos.Len(), 1)
	assert.Equal(t, vel.Len(), 0)
	types := m.Types()
	assert.Equal(t, len(types), 2)
	assert.Assert(t, types[0] == TypeOf[testPos]())
	assert.Assert(t, types[1] == TypeOf[testVel]())
}

package ecs

import "errors"

var (
	ErrDuplicateComponent    = errors.New("entity already has a component of this type")
	ErrComponentNotFound     = errors.New("component not on entity")
	ErrNoComponentAvailable  = errors.New("no component available")
	ErrComponentTypeNotFound = errors.New("component type not registered")
	ErrComponentTypeExists   = errors.New("component type already registered")
	ErrDuplicateType         = errors.New("component type requested more than once")

	// ErrDowncast means a stored list did not have the type it was registered
	// under. Reaching it is a bug in the registry, not in the caller.
	ErrDowncast = errors.New("component list has unexpected type")
)

// ErrEntityNotAlive is returned when a spawn command targets an id that was
// never created or has already been destroyed.
var ErrEntityNotAlive = errors.New("entity not alive")

package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned by accessors given an entity that is not live.
	ErrEntityNotFound = eris.New("entity not found")
	// ErrComponentNotFound is returned when a live entity lacks the requested component.
	ErrComponentNotFound = eris.New("component not found")
	// ErrUnknownSystem is returned for system handles that are not registered.
	ErrUnknownSystem = eris.New("unknown system")
)

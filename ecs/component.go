package ecs

import (
	"errors"
	"sync/atomic"
)

var (
	ErrEntityNotAlive = errors.New("ecs: entity not alive")
	ErrInvalidHandle  = errors.New("ecs: invalid component handle")
)

// ComponentID identifies a registered component kind.
type ComponentID uint32

var nextComponentID atomic.Uint32

// Handle is a typed key into a World's component storage. Handles are
// allocated once at package init via NewComponent and shared by value.
type Handle[T any] struct {
	id ComponentID
}

// NewComponent registers a new component kind and returns its handle.
func NewComponent[T any]() Handle[T] {
	return Handle[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (h Handle[T]) ID() ComponentID {
	return h.id
}

func (h Handle[T]) Valid() bool {
	return h.id != 0
}

package ecs

import "math"

// Entity is an opaque identifier. It carries no data of its own; an entity
// exists exactly as long as a Registry holds a component container for it.
type Entity uint64

// Allocator issues entity identifiers. An allocator never returns the same
// value twice.
type Allocator interface {
	Create() Entity
	CreateMultiple(n int) []Entity
}

// SequentialAllocator hands out monotonically increasing identifiers starting at zero.
type SequentialAllocator struct {
	next uint64
}

// NewSequentialAllocator creates an allocator whose first identifier is 0.
func NewSequentialAllocator() *SequentialAllocator {
	return &SequentialAllocator{}
}

// Create returns a fresh identifier.
func (a *SequentialAllocator) Create() Entity {
	return a.CreateMultiple(1)[0]
}

// CreateMultiple returns n fresh identifiers as a contiguous ascending block.
// Exhausting the identifier space is fatal.
func (a *SequentialAllocator) CreateMultiple(n int) []Entity {
	if n < 0 {
		panic("ecs: cannot allocate a negative number of entities")
	}
	if uint64(n) > math.MaxUint64-a.next {
		panic("ecs: entity identifier space exhausted")
	}

	start := a.next
	a.next += uint64(n)

	entities := make([]Entity, n)
	for i := range entities {
		entities[i] = Entity(start + uint64(i))
	}
	return entities
}

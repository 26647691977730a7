package ecs

// Commands buffers registry changes requested during a sweep. The engine
// applies them after the last system has run, so every system in a tick
// observes the same entity population for deferred work.
type Commands struct {
	creates  [][]any
	removals []Entity
	adds     []addComponentCommand
	removes  []removeComponentCommand
	defers   []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type removeComponentCommand struct {
	entity Entity
	typ    ComponentType
}

// CreateEntity queues creation of an entity with the given components.
func (c *Commands) CreateEntity(components ...any) {
	c.creates = append(c.creates, components)
}

// RemoveEntity queues destruction of e.
func (c *Commands) RemoveEntity(e Entity) {
	c.removals = append(c.removals, e)
}

// Add queues adding component to e.
func (c *Commands) Add(e Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{entity: e, component: component})
}

// Remove queues removing the component of type t from e.
func (c *Commands) Remove(e Entity, t ComponentType) {
	c.removes = append(c.removes, removeComponentCommand{entity: e, typ: t})
}

// Defer queues fn to run after the other commands.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.creates) + len(c.removals) + len(c.adds) + len(c.removes) + len(c.defers)
}

// Flush applies queued commands to r and empties the buffer. Removals run
// first; component changes aimed at removed or unknown entities are dropped.
// Commands queued while flushing are kept for the next flush.
func (c *Commands) Flush(r *Registry) {
	creates, removals, adds, removes, defers := c.creates, c.removals, c.adds, c.removes, c.defers
	c.creates, c.removals, c.adds, c.removes, c.defers = nil, nil, nil, nil, nil

	r.RemoveEntities(removals...)

	for _, cmd := range removes {
		if comps, err := r.Components(cmd.entity); err == nil {
			comps.Remove(cmd.typ)
		}
	}

	for _, cmd := range adds {
		if comps, err := r.Components(cmd.entity); err == nil {
			comps.Add(cmd.component)
		}
	}

	for _, components := range creates {
		r.CreateEntity(components...)
	}

	for _, fn := range defers {
		fn()
	}
}

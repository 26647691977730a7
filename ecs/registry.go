package ecs

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Registry owns every entity, its component container and one membership
// cache per registered system. Caches are updated incrementally whenever a
// container changes. A Registry is not safe for concurrent use.
type Registry struct {
	allocator  Allocator
	logger     *zap.Logger
	components *intmap.Map[Entity, *Components]
	entities   *EntitySet

	queue   []*System
	byName  map[string]*System
	unnamed uint64
}

type RegistryOption func(*Registry)

// WithAllocator replaces the default sequential allocator.
func WithAllocator(a Allocator) RegistryOption {
	return func(r *Registry) {
		r.allocator = a
	}
}

// WithRegistryLogger sets the logger used for registry diagnostics.
func WithRegistryLogger(logger *zap.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		allocator:  NewSequentialAllocator(),
		logger:     zap.NewNop(),
		components: intmap.New[Entity, *Components](256),
		entities:   NewEntitySet(),
		byName:     make(map[string]*System),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CreateEntity creates an entity holding copies of the given components.
// Membership is evaluated once, after every component is attached.
func (r *Registry) CreateEntity(components ...any) Entity {
	e := r.allocator.Create()
	r.attach(e, components)
	return e
}

// CreateEntities creates n entities, each holding its own copy of the given
// components.
func (r *Registry) CreateEntities(n int, components ...any) []Entity {
	entities := r.allocator.CreateMultiple(n)
	for _, e := range entities {
		r.attach(e, components)
	}
	return entities
}

func (r *Registry) attach(e Entity, components []any) {
	c := newComponents(e, r.check)
	for _, comp := range components {
		c.store(comp)
	}
	r.components.Put(e, c)
	r.entities.Add(e)
	r.check(c)
}

// check re-evaluates c against every system. Containers that no longer
// belong to the registry are ignored.
func (r *Registry) check(c *Components) {
	if owned, ok := r.components.Get(c.entity); !ok || owned != c {
		return
	}
	for _, s := range r.queue {
		s.check(c)
	}
}

// RemoveEntity destroys e. Removing an unknown entity does nothing.
func (r *Registry) RemoveEntity(e Entity) {
	if !r.components.Has(e) {
		return
	}
	r.components.Del(e)
	r.entities.Delete(e)
	for _, s := range r.queue {
		s.cache.Delete(e)
	}
}

func (r *Registry) RemoveEntities(entities ...Entity) {
	for _, e := range entities {
		r.RemoveEntity(e)
	}
}

// RemoveAllEntities destroys every entity and empties every system cache.
func (r *Registry) RemoveAllEntities() {
	r.components.Clear()
	r.entities.Clear()
	for _, s := range r.queue {
		s.cache.Clear()
	}
}

// HasEntity reports whether e is live.
func (r *Registry) HasEntity(e Entity) bool {
	return r.components.Has(e)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.components.Len()
}

// Components returns the container of a live entity.
func (r *Registry) Components(e Entity) (*Components, error) {
	c, ok := r.components.Get(e)
	if !ok {
		return nil, eris.Wrapf(ErrEntityNotFound, "entity %d", e)
	}
	return c, nil
}

// Entities returns a live view over every entity.
func (r *Registry) Entities() *QuerySet {
	return newQuerySet(r, r.entities, nil)
}

// FilterEntities returns a live view over every entity matching p.
func (r *Registry) FilterEntities(p Predicate) *QuerySet {
	return newQuerySet(r, r.entities, p)
}

// SystemEntities returns a live view over the membership cache of s.
func (r *Registry) SystemEntities(s *System) (*QuerySet, error) {
	if err := r.owns(s); err != nil {
		return nil, err
	}
	return newQuerySet(r, s.cache, nil), nil
}

func (r *Registry) owns(s *System) error {
	if s == nil {
		return eris.Wrap(ErrUnknownSystem, "nil system")
	}
	if r.byName[s.name] != s {
		return eris.Wrapf(ErrUnknownSystem, "system %q", s.name)
	}
	return nil
}

// RegisterSystem adds a system to the execution queue and populates its cache
// from the entities that already exist. Registering a name twice returns the
// system registered first. A definition without a Name always registers a new
// system, named after its first callback plus a "#n" suffix.
func (r *Registry) RegisterSystem(def SystemDefinition) *System {
	name := def.Name
	if name == "" {
		for name == "" || r.byName[name] != nil {
			r.unnamed++
			name = def.baseName() + "#" + strconv.FormatUint(r.unnamed, 10)
		}
	} else if existing, ok := r.byName[name]; ok {
		return existing
	}
	s := newSystem(r, name, def)

	for _, c := range r.Entities().Components() {
		s.check(c)
	}

	i := sort.Search(len(r.queue), func(i int) bool {
		return r.queue[i].Priority() > s.Priority()
	})
	r.queue = slices.Insert(r.queue, i, s)
	r.byName[s.name] = s

	r.logger.Debug("registered system",
		zap.String("system", s.name),
		zap.Int("priority", s.Priority()),
		zap.Int("entities", s.Len()),
	)
	return s
}

// UnregisterSystem removes s from the execution queue and drops its cache.
func (r *Registry) UnregisterSystem(s *System) error {
	if err := r.owns(s); err != nil {
		return err
	}
	r.queue = slices.DeleteFunc(r.queue, func(other *System) bool { return other == s })
	delete(r.byName, s.name)
	s.cache.Clear()
	s.registry = nil

	r.logger.Debug("unregistered system", zap.String("system", s.name))
	return nil
}

// Systems returns the registered systems in execution order.
func (r *Registry) Systems() []*System {
	return slices.Clone(r.queue)
}

// System looks a system up by name.
func (r *Registry) System(name string) (*System, error) {
	s, ok := r.byName[name]
	if !ok {
		return nil, eris.Wrapf(ErrUnknownSystem, "system %q", name)
	}
	return s, nil
}

// ComponentTypes returns every type attached to at least one live entity,
// sorted by name.
func (r *Registry) ComponentTypes() []ComponentType {
	seen := make(map[ComponentID]ComponentType)
	r.components.ForEach(func(_ Entity, c *Components) bool {
		c.data.ForEach(func(id ComponentID, entry componentEntry) bool {
			seen[id] = entry.typ
			return true
		})
		return true
	})

	types := make([]ComponentType, 0, len(seen))
	for _, t := range seen {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b ComponentType) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}

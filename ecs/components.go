package ecs

import (
	"reflect"
	"slices"
	"strings"

	"github.com/kamstrup/intmap"
	"github.com/rotisserie/eris"
)

type componentEntry struct {
	typ ComponentType
	ptr any
}

// Components is the per-entity component container. It holds at most one
// instance of each component type and signals its owner after every
// mutation so membership caches stay current.
type Components struct {
	entity   Entity
	data     *intmap.Map[ComponentID, componentEntry]
	onChange func(*Components)
}

func newComponents(entity Entity, onChange func(*Components)) *Components {
	return &Components{
		entity:   entity,
		data:     intmap.New[ComponentID, componentEntry](4),
		onChange: onChange,
	}
}

// Entity returns the entity that owns this container.
func (c *Components) Entity() Entity {
	return c.entity
}

// Len returns the number of components held.
func (c *Components) Len() int {
	return c.data.Len()
}

// Add stores a copy of value, replacing any component of the same type, and
// returns a pointer to the stored copy. value may be a struct or a pointer to
// one; in both cases the container keeps its own instance.
func (c *Components) Add(value any) any {
	ptr := c.store(value)
	c.notify()
	return ptr
}

// store writes the component without notifying the owner.
func (c *Components) store(value any) any {
	if value == nil {
		panic("ecs: cannot add a nil component")
	}

	ct := TypeOfValue(value)
	src := reflect.ValueOf(value)
	if src.Kind() == reflect.Ptr {
		if src.IsNil() {
			panic("ecs: cannot add a nil component pointer of type " + ct.String())
		}
		src = src.Elem()
	}

	dst := reflect.New(ct.rtype)
	dst.Elem().Set(src)
	ptr := dst.Interface()

	c.data.Put(ct.id, componentEntry{typ: ct, ptr: ptr})
	return ptr
}

// Get returns a pointer to the component of type t.
func (c *Components) Get(t ComponentType) (any, error) {
	entry, ok := c.data.Get(t.id)
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "entity %d has no %s", c.entity, t)
	}
	return entry.ptr, nil
}

// GetAll returns the components for each type, in order. It fails on the first
// missing type.
func (c *Components) GetAll(types ...ComponentType) ([]any, error) {
	result := make([]any, len(types))
	for i, t := range types {
		ptr, err := c.Get(t)
		if err != nil {
			return nil, err
		}
		result[i] = ptr
	}
	return result, nil
}

// Remove deletes the component of type t if present. The owner is notified
// either way.
func (c *Components) Remove(t ComponentType) {
	c.data.Del(t.id)
	c.notify()
}

// Has reports whether a component of type t is present.
func (c *Components) Has(t ComponentType) bool {
	return c.data.Has(t.id)
}

// HasAll reports whether every type is present. It is true for no types.
func (c *Components) HasAll(types ...ComponentType) bool {
	for _, t := range types {
		if !c.data.Has(t.id) {
			return false
		}
	}
	return true
}

// HasOne reports whether at least one type is present. It is false for no types.
func (c *Components) HasOne(types ...ComponentType) bool {
	for _, t := range types {
		if c.data.Has(t.id) {
			return true
		}
	}
	return false
}

// Types returns the types of all held components sorted by name.
func (c *Components) Types() []ComponentType {
	types := make([]ComponentType, 0, c.data.Len())
	c.data.ForEach(func(_ ComponentID, entry componentEntry) bool {
		types = append(types, entry.typ)
		return true
	})
	slices.SortFunc(types, func(a, b ComponentType) int {
		return strings.Compare(a.String(), b.String())
	})
	return types
}

func (c *Components) notify() {
	if c.onChange != nil {
		c.onChange(c)
	}
}

// Add stores value on c and returns the stored instance. Like the other
// generic helpers it panics when T is a pointer, map, channel, function or
// interface type.
func Add[T any](c *Components, value T) *T {
	TypeOf[T]()
	return c.Add(value).(*T)
}

// Get returns the T held by c.
func Get[T any](c *Components) (*T, error) {
	ptr, err := c.Get(TypeOf[T]())
	if err != nil {
		return nil, err
	}
	return ptr.(*T), nil
}

// MustGet is like Get but panics if the component is missing.
func MustGet[T any](c *Components) *T {
	ptr, err := Get[T](c)
	if err != nil {
		panic(err)
	}
	return ptr
}

// Remove deletes the T held by c, if any.
func Remove[T any](c *Components) {
	c.Remove(TypeOf[T]())
}

// Has reports whether c holds a T.
func Has[T any](c *Components) bool {
	return c.Has(TypeOf[T]())
}

// Get2 fetches two components at once.
func Get2[A, B any](c *Components) (*A, *B, error) {
	a, err := Get[A](c)
	if err != nil {
		return nil, nil, err
	}
	b, err := Get[B](c)
	if err != nil {
		return nil, nil, err
	}
	return a, b, nil
}

// Get3 fetches three components at once.
func Get3[A, B, C any](c *Components) (*A, *B, *C, error) {
	a, b, err := Get2[A, B](c)
	if err != nil {
		return nil, nil, nil, err
	}
	cc, err := Get[C](c)
	if err != nil {
		return nil, nil, nil, err
	}
	return a, b, cc, nil
}

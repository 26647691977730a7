package ecs

import (
	"path/filepath"
	"reflect"
	"runtime"

	"go.uber.org/zap"
)

// Callback is a system lifecycle hook.
type Callback func(frame *UpdateFrame)

// SystemDefinition describes a system to register. Lower priorities run
// first; systems with equal priority run in registration order. A nil
// Predicate matches nothing.
type SystemDefinition struct {
	Name      string
	Predicate Predicate
	Priority  int

	OnStart  Callback
	OnUpdate Callback
	OnStop   Callback
	OnReset  Callback
}

// baseName returns the symbol name of the first defined callback, or "system"
// for a definition without callbacks.
func (d SystemDefinition) baseName() string {
	for _, cb := range []Callback{d.OnUpdate, d.OnStart, d.OnStop, d.OnReset} {
		if cb != nil {
			return filepath.Base(runtime.FuncForPC(reflect.ValueOf(cb).Pointer()).Name())
		}
	}
	return "system"
}

// System is a registered system. It owns its membership cache and a private
// event channel.
type System struct {
	name     string
	def      SystemDefinition
	cache    *EntitySet
	events   *Channel
	registry *Registry
}

func newSystem(r *Registry, name string, def SystemDefinition) *System {
	if def.Predicate == nil {
		def.Predicate = None()
	}
	return &System{
		name:     name,
		def:      def,
		cache:    NewEntitySet(),
		events:   NewChannel(),
		registry: r,
	}
}

func (s *System) Name() string {
	return s.name
}

func (s *System) Priority() int {
	return s.def.Priority
}

// Events returns the system's event channel.
func (s *System) Events() *Channel {
	return s.events
}

// Len returns the number of entities currently in the system's cache.
func (s *System) Len() int {
	return s.cache.Len()
}

// Has reports whether e is in the system's cache.
func (s *System) Has(e Entity) bool {
	return s.cache.Has(e)
}

func (s *System) check(c *Components) {
	if s.def.Predicate(c) {
		s.cache.Add(c.entity)
	} else {
		s.cache.Delete(c.entity)
	}
}

// UpdateFrame is handed to every system callback.
type UpdateFrame struct {
	Frame    uint64
	Registry *Registry
	// Entities is a live view over the system's membership cache.
	Entities *QuerySet
	Commands *Commands
	Logger   *zap.Logger

	system *System
}

// System returns the system the frame was built for.
func (f *UpdateFrame) System() *System {
	return f.system
}

// Emit publishes an event on the running system's channel. Subscribers run
// before Emit returns.
func (f *UpdateFrame) Emit(event string, payload any) {
	f.system.events.Emit(event, payload)
}

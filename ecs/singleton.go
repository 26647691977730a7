package ecs

import "github.com/rotisserie/eris"

// Singleton returns the T held by the oldest entity that has one. Use this
// for global state stored on a dedicated entity, such as game settings.
func Singleton[T any](r *Registry) (*T, error) {
	t := TypeOf[T]()
	e, ok := r.FilterEntities(HasAll(t)).First()
	if !ok {
		return nil, eris.Wrapf(ErrComponentNotFound, "no entity holds %s", t)
	}
	c, _ := r.components.Get(e)
	return MustGet[T](c), nil
}

// SingletonOrCreate returns the singleton T, creating an entity holding
// initial when none exists.
func SingletonOrCreate[T any](r *Registry, initial T) *T {
	if ptr, err := Singleton[T](r); err == nil {
		return ptr
	}
	e := r.CreateEntity(initial)
	c, _ := r.components.Get(e)
	return MustGet[T](c)
}

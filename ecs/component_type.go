package ecs

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ComponentID is a stable per-type identifier used to key component storage.
type ComponentID uint64

// ComponentType identifies one component type.
type ComponentType struct {
	id    ComponentID
	rtype reflect.Type
}

// ID returns the hashed identifier of the type.
func (t ComponentType) ID() ComponentID {
	return t.id
}

// Type returns the underlying reflect.Type.
func (t ComponentType) Type() reflect.Type {
	return t.rtype
}

func (t ComponentType) String() string {
	if t.rtype == nil {
		return "<nil>"
	}
	return t.rtype.String()
}

// typeTable maps Go types to component identifiers. Identifiers are derived
// from the qualified type name; distinct types that hash to the same value
// are probed onto the next free identifier.
var typeTable = struct {
	sync.Mutex
	byType map[reflect.Type]ComponentType
	byID   map[ComponentID]reflect.Type
}{
	byType: make(map[reflect.Type]ComponentType),
	byID:   make(map[ComponentID]reflect.Type),
}

// TypeOf returns the ComponentType for T. T must be a value type.
func TypeOf[T any]() ComponentType {
	return typeFor(reflect.TypeFor[T]())
}

// TypeOfValue returns the ComponentType of a component value. A pointer is
// resolved to the type it points to.
func TypeOfValue(component any) ComponentType {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("ecs: nil component")
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return typeFor(t)
}

// TypesOf returns the ComponentType of each given value.
func TypesOf(components ...any) []ComponentType {
	types := make([]ComponentType, len(components))
	for i, comp := range components {
		types[i] = TypeOfValue(comp)
	}
	return types
}

func typeFor(t reflect.Type) ComponentType {
	switch t.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		panic("components cannot be pointers, maps, channels, functions or interfaces: " + t.String())
	}

	typeTable.Lock()
	defer typeTable.Unlock()

	if ct, ok := typeTable.byType[t]; ok {
		return ct
	}

	name := qualifiedTypeName(t)
	id := ComponentID(xxhash.Sum64String(name))
	for probe := 1; ; probe++ {
		if _, taken := typeTable.byID[id]; !taken {
			break
		}
		id = ComponentID(xxhash.Sum64String(name + "#" + strconv.Itoa(probe)))
	}

	ct := ComponentType{id: id, rtype: t}
	typeTable.byType[t] = ct
	typeTable.byID[id] = t
	return ct
}

func qualifiedTypeName(t reflect.Type) string {
	if t.PkgPath() != "" && t.Name() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

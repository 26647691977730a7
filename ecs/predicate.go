package ecs

// Predicate decides whether an entity's components match a query. Predicates
// must be pure.
type Predicate func(c *Components) bool

// All matches every entity.
func All() Predicate {
	return func(*Components) bool { return true }
}

// None matches no entity.
func None() Predicate {
	return func(*Components) bool { return false }
}

// HasAll matches entities holding every one of types.
func HasAll(types ...ComponentType) Predicate {
	return func(c *Components) bool { return c.HasAll(types...) }
}

// HasOne matches entities holding at least one of types.
func HasOne(types ...ComponentType) Predicate {
	return func(c *Components) bool { return c.HasOne(types...) }
}

// And matches when every predicate matches, evaluated left to right.
func And(preds ...Predicate) Predicate {
	return func(c *Components) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate matches, evaluated left to right.
func Or(preds ...Predicate) Predicate {
	return func(c *Components) bool {
		for _, p := range preds {
			if p(c) {
				return true
			}
		}
		return false
	}
}

// Not inverts p.
func Not(p Predicate) Predicate {
	return func(c *Components) bool { return !p(c) }
}

package ecs

import "iter"

// QuerySet is a live, lazily filtered view over a set of entities. It never
// copies its source; every traversal observes current membership and skips
// entities that have been removed from the registry since they were cached.
type QuerySet struct {
	registry  *Registry
	source    *EntitySet
	predicate Predicate
}

func newQuerySet(r *Registry, source *EntitySet, predicate Predicate) *QuerySet {
	return &QuerySet{registry: r, source: source, predicate: predicate}
}

func (q *QuerySet) visit(entities iter.Seq[Entity], yield func(Entity, *Components) bool) {
	for e := range entities {
		c, ok := q.registry.components.Get(e)
		if !ok {
			continue
		}
		if q.predicate != nil && !q.predicate(c) {
			continue
		}
		if !yield(e, c) {
			return
		}
	}
}

// All iterates matching entities in insertion order.
func (q *QuerySet) All() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		q.visit(q.source.All(), func(e Entity, _ *Components) bool {
			return yield(e)
		})
	}
}

// Reversed iterates matching entities newest first.
func (q *QuerySet) Reversed() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		q.visit(q.source.Reversed(), func(e Entity, _ *Components) bool {
			return yield(e)
		})
	}
}

// Components iterates matching entities alongside their containers.
func (q *QuerySet) Components() iter.Seq2[Entity, *Components] {
	return func(yield func(Entity, *Components) bool) {
		q.visit(q.source.All(), yield)
	}
}

// Find returns the first matching entity that also satisfies p.
func (q *QuerySet) Find(p Predicate) (Entity, bool) {
	var (
		found Entity
		ok    bool
	)
	q.visit(q.source.All(), func(e Entity, c *Components) bool {
		if p(c) {
			found, ok = e, true
			return false
		}
		return true
	})
	return found, ok
}

// Filter narrows the view by p. The result is still live.
func (q *QuerySet) Filter(p Predicate) *QuerySet {
	predicate := p
	if q.predicate != nil {
		predicate = And(q.predicate, p)
	}
	return newQuerySet(q.registry, q.source, predicate)
}

// Partition splits the view into the entities that satisfy p and those that
// don't. Both halves are materialized.
func (q *QuerySet) Partition(p Predicate) (*EntitySet, *EntitySet) {
	matched, rest := NewEntitySet(), NewEntitySet()
	q.visit(q.source.All(), func(e Entity, c *Components) bool {
		if p(c) {
			matched.Add(e)
		} else {
			rest.Add(e)
		}
		return true
	})
	return matched, rest
}

// GroupBy buckets the view by key.
func (q *QuerySet) GroupBy(key func(*Components) string) map[string]*QuerySet {
	return GroupBy(q, key)
}

// GroupBy buckets a query set by an arbitrary comparable key. Every matching
// entity lands in exactly one group; groups keep insertion order.
func GroupBy[K comparable](q *QuerySet, key func(*Components) K) map[K]*QuerySet {
	buckets := make(map[K]*EntitySet)
	q.visit(q.source.All(), func(e Entity, c *Components) bool {
		k := key(c)
		set, ok := buckets[k]
		if !ok {
			set = NewEntitySet()
			buckets[k] = set
		}
		set.Add(e)
		return true
	})

	groups := make(map[K]*QuerySet, len(buckets))
	for k, set := range buckets {
		groups[k] = newQuerySet(q.registry, set, nil)
	}
	return groups
}

// First returns the oldest matching entity.
func (q *QuerySet) First() (Entity, bool) {
	return q.Find(All())
}

// Count walks the view and returns the number of matches.
func (q *QuerySet) Count() int {
	n := 0
	q.visit(q.source.All(), func(Entity, *Components) bool {
		n++
		return true
	})
	return n
}

// Slice materializes the view.
func (q *QuerySet) Slice() []Entity {
	var out []Entity
	q.visit(q.source.All(), func(e Entity, _ *Components) bool {
		out = append(out, e)
		return true
	})
	return out
}

package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/ecsloop/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicates(t *testing.T) {
	r := ecs.NewRegistry()
	c, _ := r.Components(r.CreateEntity(Position{}, Health{}))

	tests := []struct {
		name string
		pred ecs.Predicate
		want bool
	}{
		{"all", ecs.All(), true},
		{"none", ecs.None(), false},
		{"has all present", ecs.HasAll(positionType, healthType), true},
		{"has all missing", ecs.HasAll(positionType, velocityType), false},
		{"has all empty", ecs.HasAll(), true},
		{"has one present", ecs.HasOne(velocityType, healthType), true},
		{"has one missing", ecs.HasOne(velocityType, nameType), false},
		{"has one empty", ecs.HasOne(), false},
		{"and empty", ecs.And(), true},
		{"or empty", ecs.Or(), false},
		{"and", ecs.And(ecs.HasAll(positionType), ecs.HasAll(healthType)), true},
		{"and short", ecs.And(ecs.HasAll(positionType), ecs.HasAll(velocityType)), false},
		{"or", ecs.Or(ecs.HasAll(velocityType), ecs.HasAll(healthType)), true},
		{"not", ecs.Not(ecs.HasAll(velocityType)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pred(c))
		})
	}

	t.Run("and stops at the first false", func(t *testing.T) {
		called := false
		spy := func(*ecs.Components) bool { called = true; return true }
		assert.False(t, ecs.And(ecs.None(), spy)(c))
		assert.False(t, called)
		assert.True(t, ecs.Or(ecs.All(), spy)(c))
		assert.False(t, called)
	})
}

func TestQuerySet(t *testing.T) {
	t.Run("partition splits two from three", func(t *testing.T) {
		r := ecs.NewRegistry()
		tagged := r.CreateEntities(2, Position{}, Name{})
		r.CreateEntities(3, Position{})

		matched, rest := r.Entities().Partition(ecs.HasAll(nameType))
		assert.Equal(t, tagged, matched.Slice())
		assert.Equal(t, 3, rest.Len())
		for e := range matched.All() {
			assert.False(t, rest.Has(e))
		}
	})

	t.Run("views are live", func(t *testing.T) {
		r := ecs.NewRegistry()
		view := r.FilterEntities(ecs.HasAll(healthType))
		assert.Equal(t, 0, view.Count())

		e := r.CreateEntity(Health{})
		assert.Equal(t, 1, view.Count())

		r.RemoveEntity(e)
		assert.Equal(t, 0, view.Count())
		_, ok := view.First()
		assert.False(t, ok)
	})

	t.Run("filter layers predicates", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntity(Position{}, Velocity{})
		both := r.CreateEntity(Position{}, Velocity{}, Health{})
		r.CreateEntity(Health{})

		view := r.FilterEntities(ecs.HasAll(positionType)).Filter(ecs.HasAll(healthType))
		assert.Equal(t, []ecs.Entity{both}, view.Slice())
	})

	t.Run("find and first", func(t *testing.T) {
		r := ecs.NewRegistry()
		first := r.CreateEntity(Position{X: 1})
		r.CreateEntity(Position{X: 2})

		got, ok := r.Entities().First()
		require.True(t, ok)
		assert.Equal(t, first, got)

		found, ok := r.Entities().Find(func(c *ecs.Components) bool {
			return ecs.MustGet[Position](c).X == 2
		})
		require.True(t, ok)
		assert.Equal(t, first+1, found)

		_, ok = r.Entities().Find(ecs.None())
		assert.False(t, ok)
	})

	t.Run("reversed iteration", func(t *testing.T) {
		r := ecs.NewRegistry()
		entities := r.CreateEntities(4)

		got := slices.Collect(r.Entities().Reversed())
		slices.Reverse(entities)
		assert.Equal(t, entities, got)
	})

	t.Run("group by covers every entity once", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntities(3, Name{Value: "enemy"})
		r.CreateEntities(2, Name{Value: "player"})
		r.CreateEntity(Name{Value: "game"})

		groups := r.Entities().GroupBy(func(c *ecs.Components) string {
			return ecs.MustGet[Name](c).Value
		})
		require.Len(t, groups, 3)
		assert.Equal(t, 3, groups["enemy"].Count())
		assert.Equal(t, 2, groups["player"].Count())
		assert.Equal(t, 1, groups["game"].Count())

		total := 0
		for _, group := range groups {
			total += group.Count()
		}
		assert.Equal(t, r.Len(), total)
	})

	t.Run("group by arbitrary keys", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntities(2, Health{Current: 0})
		r.CreateEntities(5, Health{Current: 10})

		groups := ecs.GroupBy(r.Entities(), func(c *ecs.Components) bool {
			return ecs.MustGet[Health](c).Current > 0
		})
		assert.Equal(t, 5, groups[true].Count())
		assert.Equal(t, 2, groups[false].Count())
	})

	t.Run("removing during iteration skips the removed entity", func(t *testing.T) {
		r := ecs.NewRegistry()
		entities := r.CreateEntities(4, Position{})

		var visited []ecs.Entity
		for e := range r.Entities().All() {
			visited = append(visited, e)
			if e == entities[0] {
				r.RemoveEntity(entities[2])
				r.CreateEntity(Position{})
			}
		}
		assert.Equal(t, []ecs.Entity{entities[0], entities[1], entities[3]}, visited)
	})

	t.Run("components iterator", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntities(3, Health{Current: 1})

		total := 0
		for _, c := range r.Entities().Components() {
			total += ecs.MustGet[Health](c).Current
		}
		assert.Equal(t, 3, total)
	})
}

func TestEntitySet(t *testing.T) {
	s := ecs.NewEntitySet(5, 3, 9)

	assert.False(t, s.Add(3))
	assert.True(t, s.Add(1))
	assert.Equal(t, []ecs.Entity{5, 3, 9, 1}, s.Slice())

	assert.True(t, s.Delete(3))
	assert.False(t, s.Delete(3))
	assert.Equal(t, []ecs.Entity{5, 9, 1}, slices.Collect(s.All()))
	assert.True(t, s.Has(9))

	first, _ := s.First()
	last, _ := s.Last()
	assert.Equal(t, ecs.Entity(5), first)
	assert.Equal(t, ecs.Entity(1), last)

	s.Delete(5)
	assert.Equal(t, []ecs.Entity{1, 9}, slices.Collect(s.Reversed()))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok := s.First()
	assert.False(t, ok)
}

func TestEntitySetCompaction(t *testing.T) {
	var all []ecs.Entity
	for e := ecs.Entity(0); e < 100; e++ {
		all = append(all, e)
	}
	s := ecs.NewEntitySet(all...)

	// Deleting three of every four entities while iterating crosses the
	// compaction threshold mid-loop.
	visited := 0
	for e := range s.All() {
		visited++
		if e%4 != 3 {
			require.True(t, s.Delete(e))
		}
	}
	assert.Equal(t, 100, visited)
	assert.Equal(t, 25, s.Len())

	var kept []ecs.Entity
	for e := ecs.Entity(3); e < 100; e += 4 {
		kept = append(kept, e)
	}
	assert.Equal(t, kept, s.Slice())
	assert.Equal(t, kept, slices.Collect(s.All()))

	// A re-added entity moves to the end and is visited once.
	assert.True(t, s.Add(0))
	assert.False(t, s.Delete(2))
	assert.True(t, s.Delete(3))
	assert.True(t, s.Add(3))

	got := slices.Collect(s.All())
	assert.Len(t, got, 25)
	assert.Equal(t, []ecs.Entity{0, 3}, got[23:])

	first, _ := s.First()
	last, _ := s.Last()
	assert.Equal(t, ecs.Entity(7), first)
	assert.Equal(t, ecs.Entity(3), last)
	assert.Equal(t, ecs.Entity(3), slices.Collect(s.Reversed())[0])
}

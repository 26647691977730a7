package ecs_test

import (
	"testing"

	"github.com/plus3/ecsloop/ecs"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// recordingDef returns an unnamed system whose closures share one symbol for
// every call.
func recordingDef(id int, typ ecs.ComponentType, hits *[]int) ecs.SystemDefinition {
	return ecs.SystemDefinition{
		Predicate: ecs.HasAll(typ),
		Priority:  id,
		OnUpdate:  func(*ecs.UpdateFrame) { *hits = append(*hits, id) },
	}
}

func movingDef() ecs.SystemDefinition {
	return ecs.SystemDefinition{
		Name:      "moving",
		Predicate: ecs.HasAll(positionType, velocityType),
	}
}

// assertMembership checks that every system's cache agrees with its predicate
// for every live entity.
func assertMembership(t *testing.T, r *ecs.Registry, preds map[string]ecs.Predicate) {
	t.Helper()
	for _, s := range r.Systems() {
		pred, ok := preds[s.Name()]
		if !ok {
			continue
		}
		cached, err := r.SystemEntities(s)
		require.NoError(t, err)
		assert.ElementsMatch(t, r.FilterEntities(pred).Slice(), cached.Slice(), "system %s", s.Name())
	}
}

func TestRegistry(t *testing.T) {
	t.Run("create and remove entities", func(t *testing.T) {
		r := ecs.NewRegistry()
		a := r.CreateEntity(Position{})
		bulk := r.CreateEntities(3, Velocity{DX: 1})

		assert.Equal(t, 4, r.Len())
		assert.True(t, r.HasEntity(a))
		for _, e := range bulk {
			assert.True(t, r.HasEntity(e))
		}

		r.RemoveEntity(a)
		r.RemoveEntity(a)
		assert.False(t, r.HasEntity(a))
		assert.Equal(t, 3, r.Len())

		_, err := r.Components(a)
		assert.True(t, eris.Is(err, ecs.ErrEntityNotFound))

		r.RemoveEntities(bulk...)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("bulk entities get independent copies", func(t *testing.T) {
		r := ecs.NewRegistry()
		entities := r.CreateEntities(2, Position{X: 1})

		c0, _ := r.Components(entities[0])
		c1, _ := r.Components(entities[1])
		ecs.MustGet[Position](c0).X = 10

		assert.Equal(t, float32(1), ecs.MustGet[Position](c1).X)
	})

	t.Run("membership follows component changes", func(t *testing.T) {
		r := ecs.NewRegistry()
		moving := r.RegisterSystem(movingDef())
		named := r.RegisterSystem(ecs.SystemDefinition{Name: "named", Predicate: ecs.HasOne(nameType)})
		preds := map[string]ecs.Predicate{
			"moving": ecs.HasAll(positionType, velocityType),
			"named":  ecs.HasOne(nameType),
		}

		e := r.CreateEntity(Position{})
		assert.Equal(t, 0, moving.Len())

		c, _ := r.Components(e)
		c.Add(Velocity{})
		assert.Equal(t, 1, moving.Len())
		assertMembership(t, r, preds)

		c.Add(Name{Value: "x"})
		assert.Equal(t, 1, named.Len())

		c.Remove(positionType)
		assert.Equal(t, 0, moving.Len())
		assertMembership(t, r, preds)

		r.RemoveEntity(e)
		assert.Equal(t, 0, named.Len())
		assertMembership(t, r, preds)
	})

	t.Run("mutating a removed entity's container changes nothing", func(t *testing.T) {
		r := ecs.NewRegistry()
		moving := r.RegisterSystem(movingDef())

		e := r.CreateEntity(Position{})
		c, _ := r.Components(e)
		r.RemoveEntity(e)

		c.Add(Velocity{})
		assert.Equal(t, 0, moving.Len())
		assert.False(t, r.HasEntity(e))
	})

	t.Run("remove all entities empties every cache", func(t *testing.T) {
		r := ecs.NewRegistry()
		moving := r.RegisterSystem(movingDef())
		r.CreateEntities(5, Position{}, Velocity{})
		assert.Equal(t, 5, moving.Len())

		r.RemoveAllEntities()
		assert.Equal(t, 0, r.Len())
		assert.Equal(t, 0, moving.Len())
		assert.Equal(t, 0, r.Entities().Count())
	})

	t.Run("registration is idempotent", func(t *testing.T) {
		r := ecs.NewRegistry()
		first := r.RegisterSystem(movingDef())
		second := r.RegisterSystem(movingDef())

		assert.Same(t, first, second)
		assert.Len(t, r.Systems(), 1)
	})

	t.Run("unnamed systems are never merged", func(t *testing.T) {
		engine, _ := newTestEngine()
		r := engine.Registry()
		r.CreateEntity(Position{})
		r.CreateEntities(2, Velocity{})

		var hits []int
		var systems []*ecs.System
		for i, typ := range []ecs.ComponentType{positionType, velocityType} {
			systems = append(systems, engine.Register(recordingDef(i, typ, &hits)))
		}

		require.Len(t, r.Systems(), 2)
		assert.NotEqual(t, systems[0].Name(), systems[1].Name())
		assert.Regexp(t, `#\d+$`, systems[0].Name())
		assert.Equal(t, 1, systems[0].Len())
		assert.Equal(t, 2, systems[1].Len())

		engine.Once()
		assert.Equal(t, []int{0, 1}, hits)

		again := engine.Register(recordingDef(0, positionType, &hits))
		assert.NotSame(t, systems[0], again)
		assert.Len(t, r.Systems(), 3)
	})

	t.Run("callback-less unnamed system is a plain cache", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntities(2, Position{})
		r.CreateEntity(Velocity{})

		var s *ecs.System
		require.NotPanics(t, func() {
			s = r.RegisterSystem(ecs.SystemDefinition{Predicate: ecs.HasAll(positionType)})
		})
		other := r.RegisterSystem(ecs.SystemDefinition{Predicate: ecs.HasAll(velocityType)})
		assert.NotEqual(t, s.Name(), other.Name())

		q, err := r.SystemEntities(s)
		require.NoError(t, err)
		assert.Equal(t, 2, q.Count())

		found, err := r.System(s.Name())
		require.NoError(t, err)
		assert.Same(t, s, found)
	})

	t.Run("late registration sees existing entities", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntities(3, Position{}, Velocity{})
		r.CreateEntity(Position{})

		moving := r.RegisterSystem(movingDef())
		assert.Equal(t, 3, moving.Len())
	})

	t.Run("systems are ordered by priority then registration", func(t *testing.T) {
		r := ecs.NewRegistry()
		for _, def := range []ecs.SystemDefinition{
			{Name: "c", Priority: 3},
			{Name: "a", Priority: 1},
			{Name: "b1", Priority: 2},
			{Name: "b2", Priority: 2},
			{Name: "z", Priority: -1},
		} {
			r.RegisterSystem(def)
		}

		var names []string
		for _, s := range r.Systems() {
			names = append(names, s.Name())
		}
		assert.Equal(t, []string{"z", "a", "b1", "b2", "c"}, names)
	})

	t.Run("nil predicate matches nothing", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntity(Position{})
		s := r.RegisterSystem(ecs.SystemDefinition{Name: "idle"})
		assert.Equal(t, 0, s.Len())
	})

	t.Run("unregister system", func(t *testing.T) {
		r := ecs.NewRegistry()
		s := r.RegisterSystem(movingDef())

		require.NoError(t, r.UnregisterSystem(s))
		assert.Empty(t, r.Systems())

		err := r.UnregisterSystem(s)
		assert.True(t, eris.Is(err, ecs.ErrUnknownSystem))

		_, err = r.SystemEntities(s)
		assert.True(t, eris.Is(err, ecs.ErrUnknownSystem))

		_, err = r.System("moving")
		assert.True(t, eris.Is(err, ecs.ErrUnknownSystem))
	})

	t.Run("systems from another registry are unknown", func(t *testing.T) {
		other := ecs.NewRegistry().RegisterSystem(movingDef())
		r := ecs.NewRegistry()
		r.RegisterSystem(movingDef())

		_, err := r.SystemEntities(other)
		assert.True(t, eris.Is(err, ecs.ErrUnknownSystem))
	})

	t.Run("component types of live entities", func(t *testing.T) {
		r := ecs.NewRegistry()
		r.CreateEntity(Velocity{}, Position{})
		e := r.CreateEntity(Health{})
		r.RemoveEntity(e)

		assert.Equal(t, []ecs.ComponentType{positionType, velocityType}, r.ComponentTypes())
	})

	t.Run("custom allocator", func(t *testing.T) {
		alloc := ecs.NewSequentialAllocator()
		alloc.CreateMultiple(100)
		r := ecs.NewRegistry(ecs.WithAllocator(alloc))

		assert.Equal(t, ecs.Entity(100), r.CreateEntity())
	})

	t.Run("registration is logged", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		r := ecs.NewRegistry(ecs.WithRegistryLogger(zap.New(core)))
		r.RegisterSystem(ecs.SystemDefinition{Name: "render", Priority: 7})

		entries := logs.FilterMessage("registered system").All()
		require.Len(t, entries, 1)
		fields := entries[0].ContextMap()
		assert.Equal(t, "render", fields["system"])
		assert.Equal(t, int64(7), fields["priority"])
	})
}

func TestRegistryBatchedInitialCheck(t *testing.T) {
	r := ecs.NewRegistry()
	evaluations := 0
	r.RegisterSystem(ecs.SystemDefinition{
		Name: "counting",
		Predicate: func(c *ecs.Components) bool {
			evaluations++
			return c.HasAll(positionType, velocityType, healthType)
		},
	})

	r.CreateEntity(Position{}, Velocity{}, Health{})
	assert.Equal(t, 1, evaluations)

	r.CreateEntities(4, Position{}, Velocity{})
	assert.Equal(t, 5, evaluations)
}

func TestSingleton(t *testing.T) {
	r := ecs.NewRegistry()

	_, err := ecs.Singleton[GameConfig](r)
	assert.True(t, eris.Is(err, ecs.ErrComponentNotFound))

	cfg := ecs.SingletonOrCreate(r, GameConfig{MaxPlayers: 2})
	cfg.Difficulty = "Hard"

	again, err := ecs.Singleton[GameConfig](r)
	require.NoError(t, err)
	assert.Same(t, cfg, again)
	assert.Same(t, cfg, ecs.SingletonOrCreate(r, GameConfig{}))
	assert.Equal(t, 1, r.Len())
}

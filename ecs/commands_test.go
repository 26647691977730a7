package ecs_test

import (
	"testing"

	"github.com/plus3/ecsloop/ecs"
	"github.com/stretchr/testify/assert"
)

func TestCommands(t *testing.T) {
	t.Run("removals win over queued component changes", func(t *testing.T) {
		engine, _ := newTestEngine()
		r := engine.Registry()
		target := r.CreateEntity(Position{})

		engine.Register(ecs.SystemDefinition{
			Name: "mixed",
			OnUpdate: func(frame *ecs.UpdateFrame) {
				frame.Commands.CreateEntity(Position{X: 10, Y: 20})
				frame.Commands.Add(target, Velocity{DX: 1, DY: 1})
				frame.Commands.RemoveEntity(target)
				frame.Commands.CreateEntity(Health{Current: 100, Max: 100})
				assert.Equal(t, 4, frame.Commands.Len())
			},
		})

		engine.Once()

		assert.False(t, r.HasEntity(target))
		assert.Equal(t, 2, r.Len())
		assert.Equal(t, 1, r.FilterEntities(ecs.HasAll(healthType)).Count())
	})

	t.Run("add and remove are applied after the sweep", func(t *testing.T) {
		engine, _ := newTestEngine()
		r := engine.Registry()
		e := r.CreateEntity(Position{}, Velocity{})

		var seenDuring bool
		engine.Register(ecs.SystemDefinition{
			Name: "edit",
			OnUpdate: func(frame *ecs.UpdateFrame) {
				frame.Commands.Remove(e, velocityType)
				frame.Commands.Add(e, Health{Current: 50, Max: 100})
			},
		})
		engine.Register(ecs.SystemDefinition{
			Name:      "check",
			Priority:  1,
			Predicate: ecs.HasAll(velocityType),
			OnUpdate:  func(frame *ecs.UpdateFrame) { seenDuring = frame.Entities.Count() == 1 },
		})

		engine.Once()

		assert.True(t, seenDuring)
		c, _ := r.Components(e)
		assert.False(t, c.Has(velocityType))
		assert.Equal(t, 50, ecs.MustGet[Health](c).Current)
	})

	t.Run("deferred functions run last and commands queued during flush wait", func(t *testing.T) {
		engine, _ := newTestEngine()
		r := engine.Registry()

		var lenAtDefer int
		engine.Register(ecs.SystemDefinition{
			Name: "defer",
			OnUpdate: func(frame *ecs.UpdateFrame) {
				if frame.Frame > 0 {
					return
				}
				frame.Commands.CreateEntity(Position{})
				frame.Commands.Defer(func() {
					lenAtDefer = r.Len()
					frame.Commands.CreateEntity(Position{})
				})
			},
		})

		engine.Once()
		assert.Equal(t, 1, lenAtDefer)
		assert.Equal(t, 1, r.Len())

		engine.Once()
		assert.Equal(t, 2, r.Len())
	})
}

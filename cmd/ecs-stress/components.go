package main

import (
	"math/rand/v2"

	"github.com/plus3/ecsloop/ecs"
)

type Position struct{ X, Y float32 }
type Velocity struct{ DX, DY float32 }
type Health struct{ Current, Max int }
type Age struct{ Ticks uint64 }
type Energy struct{ Value float32 }
type Heat struct{ Kelvin float32 }
type Mass struct{ Kg float32 }
type Charge struct{ Coulombs float32 }

// componentKind pairs a component type with a constructor for random values
// and a mutation applied by generated systems.
type componentKind struct {
	typ    ecs.ComponentType
	random func(rng *rand.Rand) any
	touch  func(c *ecs.Components)
}

var componentKinds = []componentKind{
	{
		typ:    ecs.TypeOf[Position](),
		random: func(rng *rand.Rand) any { return Position{X: rng.Float32() * 1000, Y: rng.Float32() * 1000} },
		touch: func(c *ecs.Components) {
			p := ecs.MustGet[Position](c)
			p.X, p.Y = p.Y, p.X
		},
	},
	{
		typ:    ecs.TypeOf[Velocity](),
		random: func(rng *rand.Rand) any { return Velocity{DX: rng.Float32() - 0.5, DY: rng.Float32() - 0.5} },
		touch: func(c *ecs.Components) {
			v := ecs.MustGet[Velocity](c)
			v.DX *= 0.99
			v.DY *= 0.99
		},
	},
	{
		typ:    ecs.TypeOf[Health](),
		random: func(rng *rand.Rand) any { return Health{Current: 50 + rng.IntN(50), Max: 100} },
		touch: func(c *ecs.Components) {
			h := ecs.MustGet[Health](c)
			if h.Current < h.Max {
				h.Current++
			}
		},
	},
	{
		typ:    ecs.TypeOf[Age](),
		random: func(*rand.Rand) any { return Age{} },
		touch:  func(c *ecs.Components) { ecs.MustGet[Age](c).Ticks++ },
	},
	{
		typ:    ecs.TypeOf[Energy](),
		random: func(rng *rand.Rand) any { return Energy{Value: rng.Float32() * 100} },
		touch:  func(c *ecs.Components) { ecs.MustGet[Energy](c).Value *= 0.999 },
	},
	{
		typ:    ecs.TypeOf[Heat](),
		random: func(rng *rand.Rand) any { return Heat{Kelvin: 273 + rng.Float32()*100} },
		touch:  func(c *ecs.Components) { ecs.MustGet[Heat](c).Kelvin -= 0.01 },
	},
	{
		typ:    ecs.TypeOf[Mass](),
		random: func(rng *rand.Rand) any { return Mass{Kg: 1 + rng.Float32()*10} },
		touch:  func(c *ecs.Components) { ecs.MustGet[Mass](c).Kg += 0.001 },
	},
	{
		typ:    ecs.TypeOf[Charge](),
		random: func(rng *rand.Rand) any { return Charge{Coulombs: rng.Float32()*2 - 1} },
		touch:  func(c *ecs.Components) { ecs.MustGet[Charge](c).Coulombs *= -1 },
	},
}

// randomComponents returns between 1 and maxComponents distinct random components.
func randomComponents(rng *rand.Rand, maxComponents int) []any {
	n := 1 + rng.IntN(min(maxComponents, len(componentKinds)))
	components := make([]any, 0, n)
	for _, i := range rng.Perm(len(componentKinds))[:n] {
		components = append(components, componentKinds[i].random(rng))
	}
	return components
}

func populate(r *ecs.Registry, rng *rand.Rand, entities, maxComponents int) {
	for i := 0; i < entities; i++ {
		r.CreateEntity(randomComponents(rng, maxComponents)...)
	}
}

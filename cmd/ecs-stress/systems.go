package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync/atomic"
	"time"

	"github.com/plus3/ecsloop/ecs"
)

// generateSystems builds n systems over random component subsets. Every
// fourth system churns structure by moving a component between entities,
// which keeps membership caches busy.
func generateSystems(rng *rand.Rand, n int) []ecs.SystemDefinition {
	defs := make([]ecs.SystemDefinition, 0, n)
	for i := 0; i < n; i++ {
		perm := rng.Perm(len(componentKinds))[:1+rng.IntN(3)]
		kinds := make([]componentKind, len(perm))
		types := make([]ecs.ComponentType, len(perm))
		names := make([]string, len(perm))
		for j, k := range perm {
			kinds[j] = componentKinds[k]
			types[j] = kinds[j].typ
			names[j] = kinds[j].typ.Type().Name()
		}

		pred, op := ecs.HasAll(types...), "all"
		if rng.IntN(2) == 0 {
			pred, op = ecs.HasOne(types...), "one"
		}

		def := ecs.SystemDefinition{
			Name:      fmt.Sprintf("gen%03d_%s_%s", i, op, strings.Join(names, "_")),
			Predicate: pred,
			Priority:  rng.IntN(21) - 10,
		}
		if i%4 == 3 {
			def.OnUpdate = churn(kinds[0], rng.Uint64())
		} else {
			def.OnUpdate = touch(kinds)
		}
		defs = append(defs, def)
	}
	return defs
}

func touch(kinds []componentKind) ecs.Callback {
	return func(frame *ecs.UpdateFrame) {
		for _, c := range frame.Entities.Components() {
			for _, k := range kinds {
				if c.Has(k.typ) {
					k.touch(c)
				}
			}
		}
	}
}

// churn removes kind from one matching entity per tick and gives it to
// another random entity.
func churn(kind componentKind, seed uint64) ecs.Callback {
	rng := rand.New(rand.NewPCG(seed, seed))
	return func(frame *ecs.UpdateFrame) {
		if e, ok := frame.Entities.Find(ecs.HasAll(kind.typ)); ok {
			frame.Commands.Remove(e, kind.typ)
		}
		all := frame.Registry.Entities().Slice()
		if len(all) == 0 {
			return
		}
		frame.Commands.Add(all[rng.IntN(len(all))], kind.random(rng))
	}
}

// frameTimer measures whole sweeps with a system at each end of the queue.
type frameTimer struct {
	started time.Time
	samples []time.Duration
	frames  atomic.Uint64
}

func (ft *frameTimer) systems() []ecs.SystemDefinition {
	return []ecs.SystemDefinition{
		{
			Name:     "frame_begin",
			Priority: math.MinInt,
			OnUpdate: func(*ecs.UpdateFrame) { ft.started = time.Now() },
		},
		{
			Name:     "frame_end",
			Priority: math.MaxInt,
			OnUpdate: func(*ecs.UpdateFrame) {
				ft.samples = append(ft.samples, time.Since(ft.started))
				ft.frames.Add(1)
			},
		},
	}
}

package ecs

import (
	"time"

	"go.uber.org/zap"
)

// EngineStats summarizes system execution.
type EngineStats struct {
	Frames          uint64
	SystemCount     int
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Priority       int
	Entities       int
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

type systemState struct {
	stats  *systemStatsInternal
	logger *zap.Logger
}

// Engine runs the registry's systems once per tick in priority order. The
// ticker decides when ticks happen; the engine only ever has one pending.
type Engine struct {
	registry *Registry
	ticker   Ticker
	logger   *zap.Logger
	commands *Commands

	running  bool
	sweeping bool
	frame    uint64

	states map[*System]*systemState
}

type EngineOption func(*Engine)

// WithSystems registers definitions with the engine's registry.
func WithSystems(defs ...SystemDefinition) EngineOption {
	return func(e *Engine) {
		for _, def := range defs {
			e.registry.RegisterSystem(def)
		}
	}
}

// WithLogger sets the engine logger. Each system receives a child named after it.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a stopped engine over registry driven by ticker.
func NewEngine(registry *Registry, ticker Ticker, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: registry,
		ticker:   ticker,
		logger:   zap.NewNop(),
		commands: newCommands(),
		states:   make(map[*System]*systemState),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Running reports whether ticks are being scheduled.
func (e *Engine) Running() bool {
	return e.running
}

// Frame returns the number of completed sweeps.
func (e *Engine) Frame() uint64 {
	return e.frame
}

// Register adds a system to the engine's registry.
func (e *Engine) Register(def SystemDefinition) *System {
	return e.registry.RegisterSystem(def)
}

// Start runs every start callback, resets the systems and schedules the first
// tick. Starting a running engine does nothing.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.logger.Info("starting engine", zap.Int("systems", len(e.registry.queue)), zap.Uint64("frame", e.frame))
	e.lifecycle(func(def SystemDefinition) Callback { return def.OnStart })
	e.Reset()
	e.running = true
	e.ticker.Schedule(e.tick)
}

// Stop cancels the pending tick and runs every stop callback. A stop
// requested from inside a tick lets that tick finish but schedules no
// further ticks.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.ticker.Cancel()
	e.lifecycle(func(def SystemDefinition) Callback { return def.OnStop })
	e.running = false
	e.logger.Info("stopped engine", zap.Uint64("frame", e.frame))
}

// Reset runs every reset callback. The frame counter and running state are
// left untouched.
func (e *Engine) Reset() {
	e.logger.Debug("resetting systems")
	e.lifecycle(func(def SystemDefinition) Callback { return def.OnReset })
}

// Once runs a single sweep regardless of the running state.
func (e *Engine) Once() {
	e.sweep()
	e.frame++
}

// On subscribes handler to an event emitted by system.
func (e *Engine) On(system *System, event string, handler Handler) (*Subscription, error) {
	if err := e.registry.owns(system); err != nil {
		return nil, err
	}
	return system.events.On(event, handler), nil
}

func (e *Engine) tick() {
	if !e.running {
		return
	}
	e.sweep()
	e.frame++
	if e.running {
		e.ticker.Schedule(e.tick)
	}
}

func (e *Engine) sweep() {
	if e.sweeping {
		panic("ecs: engine sweep is not reentrant")
	}
	e.sweeping = true
	defer func() { e.sweeping = false }()

	for _, s := range e.registry.Systems() {
		if s.def.OnUpdate == nil || s.registry != e.registry {
			continue
		}
		state := e.state(s)
		frame := e.frameFor(s, state)

		start := time.Now()
		s.def.OnUpdate(frame)
		state.stats.record(time.Since(start))
	}

	e.commands.Flush(e.registry)
}

func (e *Engine) lifecycle(pick func(SystemDefinition) Callback) {
	for _, s := range e.registry.Systems() {
		cb := pick(s.def)
		if cb == nil || s.registry != e.registry {
			continue
		}
		cb(e.frameFor(s, e.state(s)))
	}
}

func (e *Engine) frameFor(s *System, state *systemState) *UpdateFrame {
	return &UpdateFrame{
		Frame:    e.frame,
		Registry: e.registry,
		Entities: newQuerySet(e.registry, s.cache, nil),
		Commands: e.commands,
		Logger:   state.logger,
		system:   s,
	}
}

func (e *Engine) state(s *System) *systemState {
	state, ok := e.states[s]
	if !ok {
		state = &systemState{
			stats:  &systemStatsInternal{minDuration: time.Duration(1<<63 - 1)},
			logger: e.logger.Named(s.name),
		}
		e.states[s] = state
	}
	return state
}

// Stats returns execution statistics for the registered systems in queue order.
func (e *Engine) Stats() *EngineStats {
	systems := e.registry.Systems()
	stats := &EngineStats{
		Frames:      e.frame,
		SystemCount: len(systems),
		Systems:     make([]SystemStats, 0, len(systems)),
	}

	for _, s := range systems {
		internal := e.state(s).stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems = append(stats.Systems, SystemStats{
			Name:           s.name,
			Priority:       s.Priority(),
			Entities:       s.Len(),
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		})
		stats.TotalExecutions += internal.executionCount
	}
	return stats
}

package ecs_test

import "github.com/plus3/ecsloop/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type AI struct {
	State int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

var (
	positionType = ecs.TypeOf[Position]()
	velocityType = ecs.TypeOf[Velocity]()
	healthType   = ecs.TypeOf[Health]()
	nameType     = ecs.TypeOf[Name]()
)

// newTestEngine returns an engine driven by a manual ticker.
func newTestEngine(opts ...ecs.EngineOption) (*ecs.Engine, *ecs.ManualTicker) {
	ticker := &ecs.ManualTicker{}
	return ecs.NewEngine(ecs.NewRegistry(), ticker, opts...), ticker
}

package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-sim/stride/world"
)

// EntityID is the stable opaque handle identifying a world entity. The
// registry re-keys proxies when an entity's handle changes; the proxy itself
// is never rebuilt.
type EntityID uint64

// Environment answers the per-entity and world queries the movement step
// needs. It is injected so the solver can run against synthetic state in
// tests instead of a live game world.
type Environment interface {
	// IsMobile reports whether the entity can move at all. Immobile entities
	// early-out of the solver with their position unchanged.
	IsMobile(id EntityID) bool
	IsFlying(id EntityID) bool
	// Rotation returns the entity's pitch and yaw in radians.
	Rotation(id EntityID) (pitch, yaw float32)
	// WaterLevel returns the water height of the entity's cell, and whether
	// the cell has water at all.
	WaterLevel(id EntityID) (level float32, ok bool)
	// WaterWalking reports whether a water-walking effect is active on the
	// entity, making the water plane solid for its sweeps.
	WaterWalking(id EntityID) bool
	// SlowFall returns the fall-rate factor from status effects, in (0, 1];
	// 1 means falling at full speed.
	SlowFall(id EntityID) float32
	// PureWaterCreature reports whether the entity may never leave water.
	PureWaterCreature(id EntityID) bool

	InStorm() bool
	StormDirection() mgl32.Vec3
}

// ShapeInstance is a loaded collision shape plus the half-extents derived
// from the source mesh's bounds. AnimatedNodes names the compound children
// that follow an animated visual node.
type ShapeInstance struct {
	Shape         world.Shape
	HalfExtents   mgl32.Vec3
	AnimatedNodes []string
}

// ShapeSource loads collision shapes by mesh identifier.
type ShapeSource interface {
	Load(mesh string) (*ShapeInstance, error)
}

// NodeSource resolves a named sub-node's current transform relative to its
// entity, for refreshing animated collision children. ok is false when the
// node cannot be found; the caller skips that child.
type NodeSource interface {
	NodeTransform(id EntityID, node string) (offset mgl32.Vec3, scale float32, ok bool)
}

// Sweeper is the narrow collision-query capability the solver depends on.
// *world.World satisfies it; tests substitute synthetic geometry.
type Sweeper interface {
	SweepBox(half, from, to mgl32.Vec3, mask uint32, ignore *world.Object) world.SweepResult
}

// MovementResult is the resolved new ground-base position for one actor,
// produced once per physics step per queued entity.
type MovementResult struct {
	ID       EntityID
	Position mgl32.Vec3
}

package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-sim/stride/world"
)

// Actor is the kinematic collision proxy for a mobile entity: a box volume
// swept through the world by the movement solver. The on-ground flag and the
// inertia vector are solver-owned state persisted across steps.
type Actor struct {
	id  EntityID
	obj *world.Object

	baseHalf    mgl32.Vec3
	halfExtents mgl32.Vec3
	scale       float32

	// position is the ground-base reference position; the collision object's
	// origin sits half the height above it.
	position mgl32.Vec3

	onGround         bool
	inertia          mgl32.Vec3
	collisionEnabled bool
	canWaterWalk     bool
	walkingOnWater   bool
}

func newActor(id EntityID, w *world.World, halfExtents mgl32.Vec3) *Actor {
	a := &Actor{
		id:               id,
		baseHalf:         halfExtents,
		halfExtents:      halfExtents,
		scale:            1,
		collisionEnabled: true,
	}
	a.obj = world.NewObject(world.BoxShape{Half: halfExtents})
	a.obj.User = a
	w.AddObject(a.obj, world.ColActor, world.ColSolid|world.ColWater)
	return a
}

func (a *Actor) HalfExtents() mgl32.Vec3 { return a.halfExtents }
func (a *Actor) Position() mgl32.Vec3    { return a.position }
func (a *Actor) OnGround() bool          { return a.onGround }
func (a *Actor) Inertia() mgl32.Vec3     { return a.inertia }
func (a *Actor) WalkingOnWater() bool    { return a.walkingOnWater }
func (a *Actor) CollisionEnabled() bool  { return a.collisionEnabled }

func (a *Actor) SetOnGround(onGround bool) { a.onGround = onGround }

func (a *Actor) SetInertia(inertia mgl32.Vec3) { a.inertia = inertia }

func (a *Actor) SetCollisionEnabled(on bool) { a.collisionEnabled = on }

func (a *Actor) SetCanWaterWalk(on bool) { a.canWaterWalk = on }

// sweepMask is what this actor's movement sweeps collide with. The water
// plane is only solid while a water-walking effect is active.
func (a *Actor) sweepMask() uint32 {
	mask := world.ColSolid
	if a.canWaterWalk {
		mask |= world.ColWater
	}
	return mask
}

func (a *Actor) updatePosition(base mgl32.Vec3) {
	a.position = base
	a.obj.SetOrigin(base.Add(mgl32.Vec3{0, a.halfExtents.Y(), 0}))
}

func (a *Actor) updateScale(scale float32) {
	a.scale = scale
	a.halfExtents = a.baseHalf.Mul(scale)
	a.obj.SetScale(scale)
	a.updatePosition(a.position)
}

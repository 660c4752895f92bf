package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Object is a single collision object: a shape placed in the world with a
// filter group and mask. Objects are registered with a World, which caches
// their world-space AABB for the broadphase.
type Object struct {
	shape Shape

	origin   mgl32.Vec3
	rotation mgl32.Quat
	scale    float32

	group, mask uint32

	aabb cube.BBox

	// User identifies the owning entity to callers. The physics layer stores
	// its proxy here so a sweep hit can be traced back.
	User any
}

// NewObject creates an unregistered collision object at the origin with
// identity rotation and scale 1.
func NewObject(shape Shape) *Object {
	o := &Object{shape: shape, rotation: mgl32.QuatIdent(), scale: 1}
	o.refreshAABB()
	return o
}

func (o *Object) Shape() Shape         { return o.shape }
func (o *Object) Origin() mgl32.Vec3   { return o.origin }
func (o *Object) Rotation() mgl32.Quat { return o.rotation }
func (o *Object) Scale() float32       { return o.scale }
func (o *Object) Group() uint32        { return o.group }
func (o *Object) AABB() cube.BBox      { return o.aabb }

func (o *Object) SetOrigin(origin mgl32.Vec3) {
	o.origin = origin
	o.refreshAABB()
}

func (o *Object) SetRotation(rot mgl32.Quat) {
	o.rotation = rot
	o.refreshAABB()
}

func (o *Object) SetScale(scale float32) {
	o.scale = scale
	o.refreshAABB()
}

// RefreshAABB recomputes the cached world AABB. Must be called after the
// shape itself changed, e.g. an animated child was re-posed.
func (o *Object) RefreshAABB() { o.refreshAABB() }

// refreshAABB bounds the scaled, rotated local box conservatively: each
// rotated axis extent contributes its absolute components, so the cached box
// always contains the shape regardless of orientation.
func (o *Object) refreshAABB() {
	local := o.shape.Bounds()
	min, max := local.Min().Mul(o.scale), local.Max().Mul(o.scale)
	center := min.Add(max).Mul(0.5)
	half := max.Sub(min).Mul(0.5)

	rot := o.rotation.Mat4().Mat3()
	worldCenter := rot.Mul3x1(center).Add(o.origin)
	var worldHalf mgl32.Vec3
	for i := 0; i < 3; i++ {
		worldHalf[i] = math32.Abs(rot.At(i, 0))*half.X() +
			math32.Abs(rot.At(i, 1))*half.Y() +
			math32.Abs(rot.At(i, 2))*half.Z()
	}

	lo, hi := worldCenter.Sub(worldHalf), worldCenter.Add(worldHalf)
	o.aabb = cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
}

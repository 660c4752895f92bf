package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// World holds every registered collision object and answers sweep and ray
// queries against them. It is not safe for concurrent use; the owning
// simulation thread mutates it between frames.
type World struct {
	objects []*Object
}

func New() *World {
	return &World{}
}

// AddObject registers an object under a filter group, colliding with the
// groups in mask. Re-adding a registered object is a no-op.
func (w *World) AddObject(o *Object, group, mask uint32) {
	for _, existing := range w.objects {
		if existing == o {
			return
		}
	}
	o.group, o.mask = group, mask
	w.objects = append(w.objects, o)
}

// RemoveObject unregisters an object. Unknown objects are ignored.
func (w *World) RemoveObject(o *Object) {
	for i, existing := range w.objects {
		if existing == o {
			w.objects[i] = w.objects[len(w.objects)-1]
			w.objects = w.objects[:len(w.objects)-1]
			return
		}
	}
}

// UpdateAABB refreshes the cached bounds of a moved or re-shaped object.
func (w *World) UpdateAABB(o *Object) {
	o.refreshAABB()
}

// SweepResult is the outcome of a box sweep. Fraction 1 with a nil Object
// means the path was clear.
type SweepResult struct {
	Fraction float32
	End      mgl32.Vec3
	Normal   mgl32.Vec3
	Object   *Object
}

// SweepBox casts a box of the given half extents, centred on the segment
// from->to, against every object whose group is in mask, and returns the
// nearest hit. ignore is excluded (the caster's own proxy).
func (w *World) SweepBox(half, from, to mgl32.Vec3, mask uint32, ignore *Object) SweepResult {
	result := SweepResult{Fraction: 1, End: to}
	delta := to.Sub(from)
	if delta.LenSqr() <= 1e-14 {
		result.End = from
		return result
	}

	path := boxAt(from, half).Extend(delta).Grow(0.01)
	for _, o := range w.objects {
		if o == ignore || o.group&mask == 0 {
			continue
		}
		if !path.IntersectsWith(o.aabb) {
			continue
		}
		hit, ok := sweepObject(o, half, from, to)
		if !ok || hit.Fraction >= result.Fraction {
			continue
		}
		result.Fraction = hit.Fraction
		result.Normal = hit.Normal
		result.Object = o
	}
	if result.Object != nil {
		result.End = from.Add(delta.Mul(result.Fraction))
	}
	return result
}

// RayResult is the outcome of a straight ray test.
type RayResult struct {
	Fraction float32
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Object   *Object
}

// RayTest casts an infinitely thin ray from->to against every object whose
// group is in mask and reports the nearest hit.
func (w *World) RayTest(from, to mgl32.Vec3, mask uint32) (RayResult, bool) {
	sweep := w.SweepBox(mgl32.Vec3{}, from, to, mask, nil)
	if sweep.Object == nil {
		return RayResult{}, false
	}
	return RayResult{
		Fraction: sweep.Fraction,
		Point:    sweep.End,
		Normal:   sweep.Normal,
		Object:   sweep.Object,
	}, true
}

func boxAt(center, half mgl32.Vec3) cube.BBox {
	lo, hi := center.Sub(half), center.Add(half)
	return cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z())
}

package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"
)

// Hit is a narrowphase result: the fraction of travel completed before
// contact and the contact surface normal.
type Hit struct {
	Fraction float32
	Normal   mgl32.Vec3
}

func faceNormal(f cube.Face) mgl32.Vec3 {
	switch f {
	case cube.FaceDown:
		return mgl32.Vec3{0, -1, 0}
	case cube.FaceUp:
		return mgl32.Vec3{0, 1, 0}
	case cube.FaceNorth:
		return mgl32.Vec3{0, 0, -1}
	case cube.FaceSouth:
		return mgl32.Vec3{0, 0, 1}
	case cube.FaceWest:
		return mgl32.Vec3{-1, 0, 0}
	}
	return mgl32.Vec3{1, 0, 0}
}

// sweepPointBox casts the segment from->to against a box and returns the
// entry hit. A segment starting inside the box hits at fraction 0 with the
// normal of the shallowest penetration axis, so callers can depenetrate.
func sweepPointBox(from, to mgl32.Vec3, box cube.BBox) (Hit, bool) {
	if box.Vec3Within(from) {
		best, depth := 0, float32(math32.MaxFloat32)
		sign := float32(1)
		for i := 0; i < 3; i++ {
			lo := from[i] - box.Min()[i]
			hi := box.Max()[i] - from[i]
			if lo < depth {
				best, depth, sign = i, lo, -1
			}
			if hi < depth {
				best, depth, sign = i, hi, 1
			}
		}
		n := mgl32.Vec3{}
		n[best] = sign
		return Hit{Fraction: 0, Normal: n}, true
	}

	res, ok := trace.BBoxIntercept(box, from, to)
	if !ok {
		return Hit{}, false
	}
	total := to.Sub(from).Len()
	if total <= 1e-7 {
		return Hit{}, false
	}
	return Hit{
		Fraction: res.Position().Sub(from).Len() / total,
		Normal:   faceNormal(res.Face()),
	}, true
}

// sweepMovingBox casts a moving box (half extents half, centred on the
// segment) against a stationary box via the Minkowski sum.
func sweepMovingBox(half, from, to mgl32.Vec3, box cube.BBox) (Hit, bool) {
	return sweepPointBox(from, to, box.GrowVec3(half))
}

// sweepObject casts a moving box against one collision object.
func sweepObject(o *Object, half, from, to mgl32.Vec3) (Hit, bool) {
	switch s := o.shape.(type) {
	case BoxShape:
		return sweepMovingBox(half, from, to, o.aabb)
	case *CompoundShape:
		best, found := Hit{Fraction: math32.MaxFloat32}, false
		rot := o.rotation.Mat4().Mat3()
		for _, ch := range s.Children {
			center := rot.Mul3x1(ch.Offset.Mul(o.scale)).Add(o.origin)
			chHalf := ch.Half.Mul(o.scale)
			lo, hi := center.Sub(chHalf), center.Add(chHalf)
			h, ok := sweepMovingBox(half, from, to, cube.Box(lo.X(), lo.Y(), lo.Z(), hi.X(), hi.Y(), hi.Z()))
			if ok && h.Fraction < best.Fraction {
				best, found = h, true
			}
		}
		return best, found
	case *HeightfieldShape:
		return sweepHeightfield(s, o.origin, half, from, to)
	case PlaneShape:
		return sweepPlane(o.origin.Y(), half, from, to)
	}
	return Hit{}, false
}

// sweepHeightfield marches the segment across the terrain grid and reports
// the first sample where the moving box's underside dips below the surface.
// The contact is refined by bisection; the normal comes from the height
// gradient at the contact point.
func sweepHeightfield(h *HeightfieldShape, origin, half, from, to mgl32.Vec3) (Hit, bool) {
	delta := to.Sub(from)
	length := delta.Len()
	steps := int(length/(h.TriSize*0.25)) + 1
	if steps > 256 {
		steps = 256
	}

	below := func(t float32) bool {
		p := from.Add(delta.Mul(t))
		ground, ok := h.HeightAt(p.X()-origin.X(), p.Z()-origin.Z())
		return ok && p.Y()-half.Y() <= ground+origin.Y()
	}

	if below(0) {
		p := from
		n := h.NormalAt(p.X()-origin.X(), p.Z()-origin.Z())
		return Hit{Fraction: 0, Normal: n}, true
	}

	prev := float32(0)
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps)
		if !below(t) {
			prev = t
			continue
		}
		lo, hi := prev, t
		for k := 0; k < 8; k++ {
			mid := (lo + hi) * 0.5
			if below(mid) {
				hi = mid
			} else {
				lo = mid
			}
		}
		p := from.Add(delta.Mul(lo))
		return Hit{
			Fraction: lo,
			Normal:   h.NormalAt(p.X()-origin.X(), p.Z()-origin.Z()),
		}, true
	}
	return Hit{}, false
}

// sweepPlane casts the moving box against a horizontal plane at height
// planeY. A box starting on the far side never hits: the plane only stops
// motion crossing it.
func sweepPlane(planeY float32, half, from, to mgl32.Vec3) (Hit, bool) {
	fromY, toY := from.Y()-half.Y(), to.Y()-half.Y()
	if fromY >= planeY && toY < planeY {
		return Hit{Fraction: (fromY - planeY) / (fromY - toY), Normal: mgl32.Vec3{0, 1, 0}}, true
	}
	fromTop, toTop := from.Y()+half.Y(), to.Y()+half.Y()
	if fromTop <= planeY && toTop > planeY {
		return Hit{Fraction: (planeY - fromTop) / (toTop - fromTop), Normal: mgl32.Vec3{0, -1, 0}}, true
	}
	return Hit{}, false
}

package physics

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-sim/stride/world"
)

// traceSkin is how far a blocked trace backs off along the hit normal, so
// the next sweep does not start re-penetrating the surface it just touched.
const traceSkin = float32(0.01)

// traceResult is one resolved sweep: Fraction 1 means unobstructed arrival
// at the requested end point, anything less is a hit at EndPos with the
// contact surface Normal and the struck object.
type traceResult struct {
	Fraction float32
	EndPos   mgl32.Vec3
	Normal   mgl32.Vec3
	Hit      *world.Object
}

// traceActor casts the actor's volume from one center position to another
// and stops at the first contact. One deterministic query, no retries,
// read-only against the collision world.
func traceActor(sw Sweeper, a *Actor, from, to mgl32.Vec3) traceResult {
	res := sw.SweepBox(a.HalfExtents(), from, to, a.sweepMask(), a.obj)
	if res.Object == nil {
		return traceResult{Fraction: 1, EndPos: to}
	}
	return traceResult{
		Fraction: res.Fraction,
		EndPos:   res.End.Add(res.Normal.Mul(traceSkin)),
		Normal:   res.Normal,
		Hit:      res.Object,
	}
}

// findGround is the ground-probe variant of traceActor: the start is lifted
// by a small skin so an actor already resting in light contact with the
// floor still produces a useful downward hit instead of an immediate
// fraction-0 stop.
func findGround(sw Sweeper, a *Actor, from, to mgl32.Vec3) traceResult {
	lifted := from.Add(mgl32.Vec3{0, 1, 0})
	res := sw.SweepBox(a.HalfExtents(), lifted, to, a.sweepMask(), a.obj)
	if res.Object == nil {
		return traceResult{Fraction: 1, EndPos: to}
	}

	// Report the fraction relative to the caller's segment so fraction>=1
	// still means "nothing within range".
	total := from.Sub(to).Len()
	fraction := float32(1)
	if total > 1e-7 {
		covered := from.Sub(res.End).Len()
		fraction = mgl32.Clamp(covered/total, 0, 1)
	}
	return traceResult{
		Fraction: fraction,
		EndPos:   res.End,
		Normal:   res.Normal,
		Hit:      res.Object,
	}
}

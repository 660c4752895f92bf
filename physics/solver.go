package physics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-sim/stride/game"
	"github.com/stride-sim/stride/world"
)

// fracEpsilon is the smallest sweep fraction treated as actual movement.
// Sweep fractions are approximate, so exact-zero comparisons are useless.
const fracEpsilon = float32(1.1920929e-07)

// StepConditions is the per-entity environment snapshot for one solver
// invocation. The accumulator assembles it from the Environment; tests fill
// it with synthetic values.
type StepConditions struct {
	Mobile bool
	Flying bool

	Pitch, Yaw float32

	// WaterLevel is the cell water height, or -MaxFloat32 for a dry cell.
	WaterLevel float32
	// SlowFall scales the fall rate while moving downward, in (0, 1].
	SlowFall float32
	// PureWaterCreature actors are never allowed to step out of water.
	PureWaterCreature bool

	InStorm  bool
	StormDir mgl32.Vec3
}

// Solver resolves a single actor's movement for one fixed step: sliding
// along obstructions, stepping over low ones, and snapping to the ground.
// It holds no per-actor state; everything persistent lives on the Actor.
type Solver struct {
	Sweeper Sweeper
	Opts    Opts
}

// Move resolves the desired local-space displacement over the elapsed time
// and returns the corrected ground-base position. Solver-owned actor state
// (on-ground, inertia, walking-on-water) is written back to the proxy.
func (s *Solver) Move(a *Actor, movement mgl32.Vec3, elapsed float32, cond StepConditions) mgl32.Vec3 {
	position := a.Position()
	if !cond.Mobile {
		return position
	}

	a.walkingOnWater = false
	if !a.CollisionEnabled() {
		// Pure kinematic fly-through: integrate the raw displacement.
		return position.Add(game.RotatePitchYaw(movement, cond.Pitch, cond.Yaw).Mul(elapsed))
	}

	half := a.HalfExtents()
	// The algorithm works with the capsule center; callers reference the
	// ground base.
	position[1] += half.Y()

	swimlevel := cond.WaterLevel + half.Y() - half.Y()*2*s.Opts.SwimHeightScale

	inertia := a.Inertia()
	var velocity mgl32.Vec3
	if position.Y() < swimlevel || cond.Flying {
		velocity = game.RotatePitchYaw(movement, cond.Pitch, cond.Yaw)
	} else {
		velocity = game.RotateYaw(movement, cond.Yaw)
		if velocity.Y() > 0 {
			// Jump: the takeoff velocity becomes the carried inertia.
			inertia = velocity
		}
		if !a.OnGround() {
			velocity = velocity.Add(a.Inertia())
		}
	}

	if cond.InStorm {
		angle := game.AngleBetween(cond.StormDir, velocity)
		velocity = velocity.Mul(1 - s.Opts.StormWalkMult*(angle/180))
	}

	origVelocity := velocity
	newPosition := position
	remainingTime := elapsed

	var tracer traceResult
	for iterations := 0; iterations < game.MaxIterations && remainingTime > game.MinRemainingTime; iterations++ {
		nextpos := newPosition.Add(velocity.Mul(remainingTime))

		// Don't let a swimmer launch itself out of the water: reflect off
		// the surface plane and slide along it instead. remainingTime is
		// deliberately left unchanged.
		if newPosition.Y() <= swimlevel && !cond.Flying && nextpos.Y() > swimlevel {
			down := mgl32.Vec3{0, -1, 0}
			dir, movelen := game.Normalized(velocity)
			reflectdir, _ := game.Normalized(game.Reflect(dir, down))
			velocity = game.Slide(reflectdir, down).Mul(movelen)
			continue
		}

		if newPosition.Sub(nextpos).LenSqr() <= 0.0001 {
			// Nearly identical positions; a sweep over a degenerate segment
			// tells us nothing, and accepting nextpos would let the actor
			// creep inside geometry.
			break
		}

		tracer = traceActor(s.Sweeper, a, newPosition, nextpos)
		if tracer.Fraction >= 1 {
			newPosition = tracer.EndPos
			break
		}

		// Obstructed. Try to step onto the obstacle first.
		oldPosition := newPosition
		result := s.stepMove(a, &newPosition, velocity.Mul(remainingTime), &remainingTime)
		if !result {
			// Retry with a fixed-magnitude probe so the maximum steppable
			// obstacle doesn't depend on frame rate or movement speed.
			probe, _ := game.Normalized(velocity)
			result = s.stepMove(a, &newPosition, probe.Mul(game.StepProbeDistance), &remainingTime)
		}
		if result {
			if cond.PureWaterCreature && newPosition.Y()+half.Y() > cond.WaterLevel {
				// The step would lift a water-bound creature into the air.
				newPosition = oldPosition
			}
			continue
		}

		// Stepping failed; slide along the obstruction's tangent plane,
		// preserving speed.
		dir, movelen := game.Normalized(velocity)
		reflectdir, _ := game.Normalized(game.Reflect(dir, tracer.Normal))
		newVelocity := game.Slide(reflectdir, tracer.Normal).Mul(movelen)
		if newVelocity.Sub(velocity).LenSqr() < 0.01 {
			// No progress possible along this plane.
			break
		}
		if velocity.Dot(origVelocity) <= 0 {
			// The slide has reversed past perpendicular; continuing would
			// oscillate back the way we came.
			break
		}
		velocity = newVelocity

		// Under gravity, stepping handles all upward motion; sliding must
		// not climb walls.
		if !(newPosition.Y() < swimlevel || cond.Flying) {
			velocity[1] = math32.Min(velocity.Y(), 0)
		}
	}

	isOnGround := false
	if inertia.Y() <= 0 && newPosition.Y() >= swimlevel {
		from := newPosition
		probe := game.GroundProbeShort
		if a.OnGround() {
			probe += game.StepSizeDown
		}
		to := from.Sub(mgl32.Vec3{0, probe, 0})
		tracer = traceActor(s.Sweeper, a, from, to)
		if tracer.Fraction < 1 && game.Slope(tracer.Normal) <= game.MaxSlope &&
			tracer.Hit != nil && tracer.Hit.Group() != world.ColActor {
			if tracer.Hit.Group() == world.ColWater {
				a.walkingOnWater = true
			}
			if !cond.Flying {
				newPosition[1] = tracer.EndPos.Y() + game.GroundOffset
			}
			isOnGround = true
		} else if tracer.Fraction < 1 && tracer.Hit != nil && tracer.Hit.Group() == world.ColActor {
			// Standing on other actors is not allowed; push away from the
			// supporting actor's center so we don't hang in the air on top
			// of them indefinitely.
			if game.HzLenSqr(velocity) < 100*100 {
				bounds := tracer.Hit.AABB()
				center := bounds.Min().Add(bounds.Max()).Mul(0.5)
				away := mgl32.Vec3{position.X() - center.X(), 0, position.Z() - center.Z()}
				if dir, l := game.Normalized(away); l > 0 {
					inertia = dir.Mul(100)
				}
			}
		}
	}

	if isOnGround || newPosition.Y() < swimlevel || cond.Flying {
		a.SetInertia(mgl32.Vec3{})
	} else {
		inertia[1] += elapsed * -game.Gravity
		if inertia.Y() < 0 {
			inertia[1] *= cond.SlowFall
		}
		a.SetInertia(inertia)
	}
	a.SetOnGround(isOnGround)

	newPosition[1] -= half.Y()
	return newPosition
}

// stepMove slides the actor up an incline or a stair in front of it: lift
// straight up by the step height, sweep forward by toMove, then settle back
// down by the (larger) step-down height. On success position is advanced and
// remainingTime shrinks proportionally to the distance actually covered.
//
// Fails when the actor can't lift off at all, can't move forward from the
// lifted position, lands on a slope steeper than the walkable limit, lands
// on another actor, or falls the whole step-down distance (treated as a
// failed step rather than a partial one).
func (s *Solver) stepMove(a *Actor, position *mgl32.Vec3, toMove mgl32.Vec3, remainingTime *float32) bool {
	stepper := traceActor(s.Sweeper, a, *position, position.Add(mgl32.Vec3{0, game.StepSizeUp, 0}))
	if stepper.Fraction < fracEpsilon {
		return false
	}

	tracer := traceActor(s.Sweeper, a, stepper.EndPos, stepper.EndPos.Add(toMove))
	// Traces back off contacts by a skin distance, so an actor flush against
	// a wall still reports a sliver of forward travel. Anything within that
	// sliver is no progress at all; fail the step so the slide path runs.
	if tracer.Fraction*toMove.Len() <= traceSkin*2 {
		return false
	}

	stepper = traceActor(s.Sweeper, a, tracer.EndPos, tracer.EndPos.Sub(mgl32.Vec3{0, game.StepSizeDown, 0}))
	if stepper.Fraction < 1 && game.Slope(stepper.Normal) <= game.MaxSlope {
		// Actors can't be stepped onto.
		if stepper.Hit != nil && stepper.Hit.Group() == world.ColActor {
			return false
		}
		*position = stepper.EndPos
		*remainingTime *= 1 - tracer.Fraction
		return true
	}

	// Landed on a slope too steep to stand on, or fell the full step-down
	// distance.
	return false
}

package game

const (
	// MaxSlope is the steepest surface angle, in degrees from world-up, that
	// an actor can stand on or step onto. Anything steeper is a wall.
	MaxSlope = float32(49.0)

	StepSizeUp   = float32(34.0)
	StepSizeDown = float32(62.0)

	// StepProbeDistance is the fixed-magnitude forward probe used to retry a
	// failed step, so that stepping does not depend on frame rate or speed.
	StepProbeDistance = float32(10.0)

	Gravity = float32(627.2)

	// GroundOffset keeps a snapped actor slightly above the contact surface.
	GroundOffset = float32(1.0)
	// GroundProbeShort is the downward probe length for an actor that was
	// airborne last step; on-ground actors probe StepSizeDown+GroundProbeShort
	// to bridge stairs on the way down.
	GroundProbeShort = float32(2.0)

	// MaxIterations bounds the sweep-and-slide loop. Collisions should
	// resolve in far fewer, but pathological geometry must still terminate.
	MaxIterations = 8

	// MinRemainingTime ends the sweep-and-slide loop once the unresolved
	// portion of the step is too small to matter.
	MinRemainingTime = float32(0.01)

	// PhysicsTimestep is the fixed quantum at which queued movement resolves.
	PhysicsTimestep = float32(1.0 / 60.0)
)

package physics

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/stride-sim/stride/game"
	"github.com/stride-sim/stride/world"
)

var actorHalf = mgl32.Vec3{20, 60, 20}

// dryConditions is a mobile, walking actor in a cell without water.
func dryConditions() StepConditions {
	return StepConditions{
		Mobile:     true,
		SlowFall:   1,
		WaterLevel: -math32.MaxFloat32,
	}
}

func addFloor(w *world.World) *world.Object {
	floor := world.NewObject(world.BoxShape{Half: mgl32.Vec3{1000, 10, 1000}})
	floor.SetOrigin(mgl32.Vec3{0, -10, 0})
	w.AddObject(floor, world.ColWorld, world.ColActor)
	return floor
}

func addBox(w *world.World, half, center mgl32.Vec3) *world.Object {
	o := world.NewObject(world.BoxShape{Half: half})
	o.SetOrigin(center)
	w.AddObject(o, world.ColWorld, world.ColActor)
	return o
}

func newTestSolver(w *world.World) *Solver {
	return &Solver{Sweeper: w, Opts: DefaultOpts()}
}

func TestMoveImmobile(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{3, 4, 5})

	cond := dryConditions()
	cond.Mobile = false
	pos := newTestSolver(w).Move(a, mgl32.Vec3{0, 0, 100}, game.PhysicsTimestep, cond)
	if !pos.ApproxEqual(mgl32.Vec3{3, 4, 5}) {
		t.Fatalf("immobile actor moved to %v", pos)
	}
}

func TestMoveCollisionDisabledMatchesUnobstructed(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	start := mgl32.Vec3{0, 500, 0}
	a.updatePosition(start)

	movement := mgl32.Vec3{30, 0, 300}
	cond := dryConditions()
	dt := game.PhysicsTimestep

	withCollision := newTestSolver(w).Move(a, movement, dt, cond)

	a.updatePosition(start)
	a.SetInertia(mgl32.Vec3{})
	a.SetCollisionEnabled(false)
	withoutCollision := newTestSolver(w).Move(a, movement, dt, cond)

	want := start.Add(game.RotateYaw(movement, 0).Mul(dt))
	if !withCollision.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("unobstructed move = %v, want %v", withCollision, want)
	}
	if !withoutCollision.ApproxEqualThreshold(want, 1e-3) {
		t.Errorf("no-collision move = %v, want %v", withoutCollision, want)
	}
}

func TestMoveAppliesYaw(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	start := mgl32.Vec3{0, 500, 0}
	a.updatePosition(start)

	cond := dryConditions()
	cond.Yaw = mgl32.DegToRad(90)
	pos := newTestSolver(w).Move(a, mgl32.Vec3{0, 0, 60}, game.PhysicsTimestep, cond)

	// Forward rotated 90 degrees about up becomes +X.
	delta := pos.Sub(start)
	if math32.Abs(delta.X()-1) > 1e-3 || math32.Abs(delta.Z()) > 1e-3 {
		t.Errorf("yawed move delta = %v, want ~(1, 0, 0)", delta)
	}
}

func TestGroundSnapIdempotent(t *testing.T) {
	w := world.New()
	addFloor(w)
	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, game.GroundOffset, 0})
	s := newTestSolver(w)

	pos := a.Position()
	for i := 0; i < 5; i++ {
		pos = s.Move(a, mgl32.Vec3{}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}
	if !a.OnGround() {
		t.Fatal("resting actor lost its ground flag")
	}
	if math32.Abs(pos.Y()-game.GroundOffset) > 0.1 {
		t.Errorf("resting actor drifted to y=%v", pos.Y())
	}
	if math32.Abs(pos.X()) > 1e-3 || math32.Abs(pos.Z()) > 1e-3 {
		t.Errorf("resting actor drifted horizontally: %v", pos)
	}
}

func TestWallStopsForwardProgress(t *testing.T) {
	w := world.New()
	addFloor(w)
	// Tall wall whose near face is the z=100 plane.
	addBox(w, mgl32.Vec3{1000, 500, 10}, mgl32.Vec3{0, 500, 110})

	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, game.GroundOffset, 0})
	s := newTestSolver(w)

	pos := a.Position()
	for i := 0; i < 20; i++ {
		pos = s.Move(a, mgl32.Vec3{0, 0, 600}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}

	front := pos.Z() + actorHalf.Z()
	if front > 100+1e-2 {
		t.Fatalf("actor penetrated the wall: front face at %v", front)
	}
	if front < 99 {
		t.Errorf("actor stopped well short of the wall: front face at %v", front)
	}
}

func TestWallSlideKeepsTangentMotion(t *testing.T) {
	w := world.New()
	addFloor(w)
	addBox(w, mgl32.Vec3{1000, 500, 10}, mgl32.Vec3{0, 500, 110})

	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, game.GroundOffset, 79})
	s := newTestSolver(w)

	// Move diagonally into the wall; the normal component must vanish while
	// tangential progress continues.
	pos := a.Position()
	for i := 0; i < 30; i++ {
		pos = s.Move(a, mgl32.Vec3{300, 0, 300}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}
	if pos.Z()+actorHalf.Z() > 100+1e-2 {
		t.Fatalf("actor penetrated the wall: %v", pos)
	}
	if pos.X() < 50 {
		t.Errorf("actor failed to slide along the wall: x=%v", pos.X())
	}
}

func TestStepUpOntoLowObstacle(t *testing.T) {
	w := world.New()
	addFloor(w)
	// A 30-high ledge against a 34 step limit, deep enough to land on.
	addBox(w, mgl32.Vec3{1000, 15, 200}, mgl32.Vec3{0, 15, 260})

	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, game.GroundOffset, 0})
	s := newTestSolver(w)

	pos := a.Position()
	for i := 0; i < 30; i++ {
		pos = s.Move(a, mgl32.Vec3{0, 0, 600}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}
	if pos.Z() < 60 {
		t.Fatalf("actor never climbed the ledge: %v", pos)
	}
	if math32.Abs(pos.Y()-(30+game.GroundOffset)) > 0.5 {
		t.Errorf("actor height on ledge = %v, want ~%v", pos.Y(), 30+game.GroundOffset)
	}
	if !a.OnGround() {
		t.Error("actor should be grounded on the ledge")
	}
}

func TestStepRejectsTallObstacle(t *testing.T) {
	w := world.New()
	addFloor(w)
	// 40-high ledge: above the 34 step limit, so it acts as a wall.
	addBox(w, mgl32.Vec3{1000, 20, 200}, mgl32.Vec3{0, 20, 260})

	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, game.GroundOffset, 0})
	s := newTestSolver(w)

	pos := a.Position()
	for i := 0; i < 30; i++ {
		pos = s.Move(a, mgl32.Vec3{0, 0, 600}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}
	if pos.Y() > 5 {
		t.Fatalf("actor climbed a too-tall ledge: %v", pos)
	}
	if pos.Z()+actorHalf.Z() > 60+1e-2 {
		t.Errorf("actor penetrated the ledge: %v", pos)
	}
}

func TestStepNeverClimbsActors(t *testing.T) {
	w := world.New()
	addFloor(w)

	// A blocking actor buried to chest height: its top sits at y=30, well
	// within step range, but actors must never be stepped onto.
	blocker := newActor(2, w, actorHalf)
	blocker.updatePosition(mgl32.Vec3{0, -90, 60})

	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, game.GroundOffset, 0})
	s := newTestSolver(w)

	pos := a.Position()
	for i := 0; i < 30; i++ {
		pos = s.Move(a, mgl32.Vec3{0, 0, 600}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}
	if pos.Y() > 5 {
		t.Fatalf("actor stepped onto another actor: %v", pos)
	}
}

func TestStandingOnActorPushesAway(t *testing.T) {
	w := world.New()
	addFloor(w)

	blocker := newActor(2, w, actorHalf)
	blocker.updatePosition(mgl32.Vec3{0, game.GroundOffset, 0})

	// Hovering just above the blocker's head, slightly off-center.
	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{5, 122, 0})
	s := newTestSolver(w)

	s.Move(a, mgl32.Vec3{}, game.PhysicsTimestep, dryConditions())
	if a.OnGround() {
		t.Fatal("actor counted another actor as ground")
	}
	inertia := a.Inertia()
	if inertia.X() < 50 {
		t.Errorf("expected outward inertia away from the blocker, got %v", inertia)
	}
	if inertia.Y() >= 0 {
		t.Errorf("expected gravity on stored inertia, got %v", inertia)
	}
}

func TestGravityAccumulatesInInertia(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, 1000, 0})
	s := newTestSolver(w)
	dt := game.PhysicsTimestep

	pos := s.Move(a, mgl32.Vec3{}, dt, dryConditions())
	want := -game.Gravity * dt
	if !game.ApproxEq(a.Inertia().Y(), want) {
		t.Fatalf("inertia after one step = %v, want %v", a.Inertia().Y(), want)
	}

	// The stored inertia feeds back into the next step's velocity.
	a.updatePosition(pos)
	pos2 := s.Move(a, mgl32.Vec3{}, dt, dryConditions())
	if pos2.Y() >= pos.Y() {
		t.Errorf("falling actor did not descend: %v -> %v", pos.Y(), pos2.Y())
	}
}

func TestSlowFallScalesDescent(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, 1000, 0})
	s := newTestSolver(w)

	cond := dryConditions()
	cond.SlowFall = 0.5
	s.Move(a, mgl32.Vec3{}, game.PhysicsTimestep, cond)
	want := -game.Gravity * game.PhysicsTimestep * 0.5
	if !game.ApproxEq(a.Inertia().Y(), want) {
		t.Errorf("slow-fall inertia = %v, want %v", a.Inertia().Y(), want)
	}
}

func TestSwimmerCannotLeaveWater(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	// Submerged: the center sits below the swim threshold for water at y=0.
	a.updatePosition(mgl32.Vec3{0, -120, 0})
	s := newTestSolver(w)

	cond := dryConditions()
	cond.WaterLevel = 0

	pos := a.Position()
	for i := 0; i < 10; i++ {
		pos = s.Move(a, mgl32.Vec3{0, 600, 0}, game.PhysicsTimestep, cond)
		a.updatePosition(pos)
	}
	swimlevel := cond.WaterLevel + actorHalf.Y() - actorHalf.Y()*2*s.Opts.SwimHeightScale
	if pos.Y()+actorHalf.Y() > swimlevel+1 {
		t.Errorf("swimmer rose above the swim threshold: center %v, threshold %v",
			pos.Y()+actorHalf.Y(), swimlevel)
	}
}

func TestFlyingMovesFreely(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	start := mgl32.Vec3{0, 500, 0}
	a.updatePosition(start)
	s := newTestSolver(w)

	cond := dryConditions()
	cond.Flying = true
	cond.Pitch = mgl32.DegToRad(-90)
	pos := s.Move(a, mgl32.Vec3{0, 0, 60}, game.PhysicsTimestep, cond)

	// Pitch straight up converts forward motion into climb, and flying
	// zeroes inertia instead of accumulating gravity.
	if pos.Y()-start.Y() < 0.9 {
		t.Errorf("flier failed to climb: %v", pos)
	}
	if a.Inertia() != (mgl32.Vec3{}) {
		t.Errorf("flier retained inertia: %v", a.Inertia())
	}
}

func TestStormSlowsOpposedMovement(t *testing.T) {
	w := world.New()
	a := newActor(1, w, actorHalf)
	start := mgl32.Vec3{0, 500, 0}
	a.updatePosition(start)
	s := newTestSolver(w)

	cond := dryConditions()
	cond.InStorm = true
	cond.StormDir = mgl32.Vec3{0, 0, -1}

	pos := s.Move(a, mgl32.Vec3{0, 0, 600}, game.PhysicsTimestep, cond)
	moved := pos.Sub(start).Z()
	want := 600 * game.PhysicsTimestep * (1 - s.Opts.StormWalkMult)
	if math32.Abs(moved-want) > 0.05 {
		t.Errorf("storm-opposed movement = %v, want %v", moved, want)
	}

	// Aligned with the storm there is no reduction.
	a.updatePosition(start)
	a.SetInertia(mgl32.Vec3{})
	cond.StormDir = mgl32.Vec3{0, 0, 1}
	pos = s.Move(a, mgl32.Vec3{0, 0, 600}, game.PhysicsTimestep, cond)
	if math32.Abs(pos.Sub(start).Z()-600*game.PhysicsTimestep) > 0.05 {
		t.Errorf("storm-aligned movement reduced: %v", pos.Sub(start))
	}
}

func TestSolverTerminatesInClosedGeometry(t *testing.T) {
	w := world.New()
	// A sealed box around the actor, tighter than one step of travel.
	addBox(w, mgl32.Vec3{10, 100, 100}, mgl32.Vec3{-40, 0, 0})
	addBox(w, mgl32.Vec3{10, 100, 100}, mgl32.Vec3{40, 0, 0})
	addBox(w, mgl32.Vec3{100, 100, 10}, mgl32.Vec3{0, 0, -40})
	addBox(w, mgl32.Vec3{100, 100, 10}, mgl32.Vec3{0, 0, 40})
	addBox(w, mgl32.Vec3{100, 10, 100}, mgl32.Vec3{0, -70, 0})
	addBox(w, mgl32.Vec3{100, 10, 100}, mgl32.Vec3{0, 130, 0})

	a := newActor(1, w, actorHalf)
	a.updatePosition(mgl32.Vec3{0, -60, 0})
	s := newTestSolver(w)

	// Termination is the property under test; any returned position will do.
	for i := 0; i < 50; i++ {
		pos := s.Move(a, mgl32.Vec3{200, 100, 200}, game.PhysicsTimestep, dryConditions())
		a.updatePosition(pos)
	}
}

package physics

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/stride-sim/stride/game"
	"github.com/stride-sim/stride/world"
)

// System owns the collision proxies for every live entity and resolves
// queued movement at a fixed 1/60 s step. It is single-threaded: all calls
// must come from the owning simulation thread.
type System struct {
	world  *world.World
	shapes ShapeSource
	nodes  NodeSource
	env    Environment
	solver Solver
	log    *logrus.Logger

	actors  map[EntityID]*Actor
	objects map[EntityID]*Object

	heightfields map[[2]int]*world.Object

	waterObject  *world.Object
	waterHeight  float32
	waterEnabled bool

	// queue holds at most one pending displacement per entity; a later
	// enqueue for the same entity overwrites the earlier one while keeping
	// its original slot in the iteration order.
	queue     *orderedmap.OrderedMap[EntityID, mgl32.Vec3]
	timeAccum float32
	results   []MovementResult
}

// NewSystem builds a movement system over the given collision world. nodes
// and log may be nil when no animated scenery or logging is wanted.
func NewSystem(w *world.World, shapes ShapeSource, nodes NodeSource, env Environment, opts Opts, log *logrus.Logger) *System {
	return &System{
		world:        w,
		shapes:       shapes,
		nodes:        nodes,
		env:          env,
		solver:       Solver{Sweeper: w, Opts: opts},
		log:          log,
		actors:       make(map[EntityID]*Actor),
		objects:      make(map[EntityID]*Object),
		heightfields: make(map[[2]int]*world.Object),
		queue:        orderedmap.NewOrderedMap[EntityID, mgl32.Vec3](),
	}
}

// AddActor registers a kinematic actor proxy sized from the mesh's bounds.
func (s *System) AddActor(id EntityID, mesh string, position mgl32.Vec3) error {
	if _, dup := s.actors[id]; dup {
		return fmt.Errorf("physics: actor %d already registered", id)
	}
	instance, err := s.shapes.Load(mesh)
	if err != nil {
		return fmt.Errorf("physics: actor %d: %w", id, err)
	}
	a := newActor(id, s.world, instance.HalfExtents)
	a.updatePosition(position)
	s.actors[id] = a
	return nil
}

// AddObject registers a static scenery proxy.
func (s *System) AddObject(id EntityID, mesh string, position mgl32.Vec3, rotation mgl32.Quat, scale float32) error {
	if _, dup := s.objects[id]; dup {
		return fmt.Errorf("physics: object %d already registered", id)
	}
	instance, err := s.shapes.Load(mesh)
	if err != nil {
		return fmt.Errorf("physics: object %d: %w", id, err)
	}
	o := newObject(id, s.world, instance)
	o.setScale(scale)
	o.setRotation(rotation)
	o.setOrigin(position)
	s.objects[id] = o
	return nil
}

// Remove unregisters and destroys the entity's proxy, whichever kind it is.
// Unknown entities are ignored.
func (s *System) Remove(id EntityID) {
	if o, ok := s.objects[id]; ok {
		s.world.RemoveObject(o.obj)
		delete(s.objects, id)
	}
	if a, ok := s.actors[id]; ok {
		s.world.RemoveObject(a.obj)
		delete(s.actors, id)
	}
}

// UpdateIdentity re-keys a proxy when the owning entity's handle changes,
// e.g. on a cell transition. The proxy and its solver state survive intact.
func (s *System) UpdateIdentity(old, updated EntityID) {
	if o, ok := s.objects[old]; ok {
		o.id = updated
		delete(s.objects, old)
		s.objects[updated] = o
	}
	if a, ok := s.actors[old]; ok {
		a.id = updated
		delete(s.actors, old)
		s.actors[updated] = a
	}
}

// Actor returns the live actor proxy, or nil if the entity has none.
func (s *System) Actor(id EntityID) *Actor {
	return s.actors[id]
}

func (s *System) UpdateScale(id EntityID, scale float32) {
	if o, ok := s.objects[id]; ok {
		o.setScale(scale)
		return
	}
	if a, ok := s.actors[id]; ok {
		a.updateScale(scale)
	}
}

func (s *System) UpdateRotation(id EntityID, rotation mgl32.Quat) {
	if o, ok := s.objects[id]; ok {
		o.setRotation(rotation)
	}
	// Actor volumes are symmetric about the up axis; their rotation only
	// matters to the solver, which reads it from the Environment.
}

func (s *System) UpdatePosition(id EntityID, position mgl32.Vec3) {
	if o, ok := s.objects[id]; ok {
		o.setOrigin(position)
		return
	}
	if a, ok := s.actors[id]; ok {
		a.updatePosition(position)
	}
}

// AddHeightfield registers a terrain tile at grid cell (x, y). heights is
// row-major with vertsPerSide entries per row; triSize is the world size of
// one cell.
func (s *System) AddHeightfield(x, y int, heights []float32, vertsPerSide int, triSize float32) {
	shape := &world.HeightfieldShape{Heights: heights, VertsPerSide: vertsPerSide, TriSize: triSize}
	o := world.NewObject(shape)
	side := float32(vertsPerSide-1) * triSize
	o.SetOrigin(mgl32.Vec3{float32(x) * side, 0, float32(y) * side})
	s.world.AddObject(o, world.ColTerrain, world.ColActor|world.ColProjectile)
	s.heightfields[[2]int{x, y}] = o
}

func (s *System) RemoveHeightfield(x, y int) {
	if o, ok := s.heightfields[[2]int{x, y}]; ok {
		s.world.RemoveObject(o)
		delete(s.heightfields, [2]int{x, y})
	}
}

// EnableWater places the water-surface plane at the given height. The plane
// collides with actors only; the solver decides per actor whether it is
// solid (water walking) or a swim boundary.
func (s *System) EnableWater(height float32) {
	s.waterEnabled = true
	s.waterHeight = height
	s.updateWater()
}

func (s *System) DisableWater() {
	s.waterEnabled = false
	s.updateWater()
}

func (s *System) SetWaterHeight(height float32) {
	if s.waterEnabled && s.waterHeight == height {
		return
	}
	s.waterHeight = height
	s.updateWater()
}

func (s *System) updateWater() {
	if s.waterObject != nil {
		s.world.RemoveObject(s.waterObject)
		s.waterObject = nil
	}
	if !s.waterEnabled {
		return
	}
	s.waterObject = world.NewObject(world.PlaneShape{})
	s.waterObject.SetOrigin(mgl32.Vec3{0, s.waterHeight, 0})
	s.world.AddObject(s.waterObject, world.ColWater, world.ColActor)
}

// QueueMovement stores the desired displacement for an entity. The last
// request before a resolved step wins; earlier ones in the same window are
// discarded, not summed.
func (s *System) QueueMovement(id EntityID, movement mgl32.Vec3) {
	s.queue.Set(id, movement)
}

// ClearQueuedMovement drops all pending requests without resolving them.
func (s *System) ClearQueuedMovement() {
	s.queue = orderedmap.NewOrderedMap[EntityID, mgl32.Vec3]()
}

// ApplyQueuedMovement advances the time accumulator and, once a full physics
// step has accumulated, resolves every queued actor using the entire
// accumulated time and publishes one result per actor. Below a full step the
// queue is dropped and the previous results are returned unchanged. Queued
// entities with no registered proxy are skipped.
func (s *System) ApplyQueuedMovement(dt float32) []MovementResult {
	s.timeAccum += dt
	if s.timeAccum >= game.PhysicsTimestep {
		s.results = s.results[:0]
		for el := s.queue.Front(); el != nil; el = el.Next() {
			id, movement := el.Key, el.Value
			a, ok := s.actors[id]
			if !ok {
				// Already removed from the scene.
				continue
			}
			a.SetCanWaterWalk(s.shouldWaterWalk(id))
			newPos := s.solver.Move(a, movement, s.timeAccum, s.stepConditions(id))
			s.results = append(s.results, MovementResult{ID: id, Position: newPos})
		}
		s.timeAccum = 0
	}
	s.queue = orderedmap.NewOrderedMap[EntityID, mgl32.Vec3]()
	return s.results
}

// shouldWaterWalk reports whether the water plane is solid for this actor's
// sweeps: the effect must be active, the cell must have water, and the actor
// must not already be underwater.
func (s *System) shouldWaterWalk(id EntityID) bool {
	if !s.env.WaterWalking(id) {
		return false
	}
	level, hasWater := s.env.WaterLevel(id)
	if !hasWater {
		return false
	}
	a := s.actors[id]
	return a.Position().Y() >= level-a.HalfExtents().Y()
}

func (s *System) stepConditions(id EntityID) StepConditions {
	pitch, yaw := s.env.Rotation(id)
	cond := StepConditions{
		Mobile:            s.env.IsMobile(id),
		Flying:            s.env.IsFlying(id),
		Pitch:             pitch,
		Yaw:               yaw,
		WaterLevel:        -math32.MaxFloat32,
		SlowFall:          s.env.SlowFall(id),
		PureWaterCreature: s.env.PureWaterCreature(id),
		InStorm:           s.env.InStorm(),
	}
	if level, ok := s.env.WaterLevel(id); ok {
		cond.WaterLevel = level
	}
	if cond.InStorm {
		cond.StormDir = s.env.StormDirection()
	}
	return cond
}

// StepShapes refreshes animated collision children from the visual scene and
// updates the bounds of everything that moved. Call once per simulation step
// before resolving movement.
func (s *System) StepShapes() {
	for _, o := range s.objects {
		if o.animateShapes(s.nodes, s.log) {
			s.world.UpdateAABB(o.obj)
		}
	}
}

// TraceDown probes straight down from the actor's current position for up to
// maxHeight and returns the landing position, for placement and respawn. The
// ground probe is cross-checked with a thin ray: where the two disagree
// badly (the volume snagged on nearby geometry) or the probed slope is too
// steep, the ray hit wins.
func (s *System) TraceDown(id EntityID, maxHeight float32) mgl32.Vec3 {
	a, ok := s.actors[id]
	if !ok {
		return mgl32.Vec3{}
	}
	position := a.Position()

	tracer := findGround(s.world, a, position, position.Sub(mgl32.Vec3{0, maxHeight, 0}))
	if tracer.Fraction >= 1 {
		a.SetOnGround(false)
		return position
	}

	if ray, hit := s.world.RayTest(position, position.Sub(mgl32.Vec3{0, maxHeight, 0}), world.ColWorld|world.ColTerrain); hit {
		if ray.Point.Sub(tracer.EndPos).Len() > 30 || game.Slope(tracer.Normal) > game.MaxSlope {
			a.SetOnGround(game.Slope(ray.Normal) <= game.MaxSlope)
			return ray.Point.Add(mgl32.Vec3{0, 1, 0})
		}
	}

	a.SetOnGround(game.Slope(tracer.Normal) <= game.MaxSlope)
	return tracer.EndPos
}

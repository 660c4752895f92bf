package main

import (
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/stride-sim/stride/game"
	"github.com/stride-sim/stride/physics"
	"github.com/stride-sim/stride/world"
)

// The following program drops a single actor onto a terrain tile with a low
// ledge in its path and walks it forward for a few seconds, logging the
// resolved position each step.
func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{ForceColors: true})

	opts := physics.DefaultOpts()
	if len(os.Args) > 1 {
		var err error
		if opts, err = physics.LoadOpts(os.Args[1]); err != nil {
			log.WithError(err).Fatal("loading balance settings")
		}
	}

	w := world.New()
	sys := physics.NewSystem(w, boxShapes{}, nil, flatEnv{}, opts, log)

	// A flat 4x4 cell terrain tile and a ledge the solver has to step onto.
	sys.AddHeightfield(0, 0, make([]float32, 25), 5, 1024)
	ledge := world.NewObject(world.BoxShape{Half: mgl32.Vec3{512, 15, 64}})
	ledge.SetOrigin(mgl32.Vec3{1024, 15, 1024})
	w.AddObject(ledge, world.ColWorld, world.ColActor)
	sys.EnableWater(-64)

	const hero physics.EntityID = 1
	if err := sys.AddActor(hero, "base_anim.nif", mgl32.Vec3{1024, 10, 256}); err != nil {
		log.WithError(err).Fatal("registering actor")
	}

	for frame := 0; frame < 300; frame++ {
		sys.StepShapes()
		sys.QueueMovement(hero, mgl32.Vec3{0, 0, 160})
		for _, res := range sys.ApplyQueuedMovement(game.PhysicsTimestep) {
			if frame%30 == 0 {
				log.WithFields(logrus.Fields{
					"entity": res.ID,
					"pos":    res.Position,
					"ground": sys.Actor(res.ID).OnGround(),
				}).Info("step resolved")
			}
		}
	}
}

// boxShapes stands in for a real mesh loader: every mesh becomes a box sized
// like a humanoid.
type boxShapes struct{}

func (boxShapes) Load(string) (*physics.ShapeInstance, error) {
	half := mgl32.Vec3{22, 64, 22}
	return &physics.ShapeInstance{Shape: world.BoxShape{Half: half}, HalfExtents: half}, nil
}

// flatEnv is a minimal world state: one walking actor, calm weather.
type flatEnv struct{}

func (flatEnv) IsMobile(physics.EntityID) bool               { return true }
func (flatEnv) IsFlying(physics.EntityID) bool               { return false }
func (flatEnv) Rotation(physics.EntityID) (float32, float32) { return 0, 0 }
func (flatEnv) WaterLevel(physics.EntityID) (float32, bool)  { return -64, true }
func (flatEnv) WaterWalking(physics.EntityID) bool           { return false }
func (flatEnv) SlowFall(physics.EntityID) float32            { return 1 }
func (flatEnv) PureWaterCreature(physics.EntityID) bool      { return false }
func (flatEnv) InStorm() bool                                { return false }
func (flatEnv) StormDirection() mgl32.Vec3                   { return mgl32.Vec3{} }

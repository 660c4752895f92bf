package physics

import (
	"github.com/sirupsen/logrus"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stride-sim/stride/world"
)

// Object is the static collision proxy for a scenery entity: an immutable
// shape instance placed at the entity's transform. Shapes with animated
// children follow the entity's visual skeleton and are re-posed each step.
type Object struct {
	id       EntityID
	obj      *world.Object
	instance *ShapeInstance
}

func newObject(id EntityID, w *world.World, instance *ShapeInstance) *Object {
	o := &Object{id: id, instance: instance}
	o.obj = world.NewObject(instance.Shape)
	o.obj.User = o
	w.AddObject(o.obj, world.ColWorld, world.ColActor|world.ColTerrain|world.ColProjectile)
	return o
}

// animateShapes refreshes the animated compound children from the entity's
// visual nodes. A missing node is logged and skipped; the remaining children
// still update. Reports whether anything changed.
func (o *Object) animateShapes(nodes NodeSource, log *logrus.Logger) bool {
	if len(o.instance.AnimatedNodes) == 0 {
		return false
	}
	compound, ok := o.instance.Shape.(*world.CompoundShape)
	if !ok {
		return false
	}

	changed := false
	for _, name := range o.instance.AnimatedNodes {
		offset, scale, found := nodes.NodeTransform(o.id, name)
		if !found {
			if log != nil {
				log.WithField("node", name).Warn("animateShapes: node not found")
			}
			continue
		}
		if compound.SetChildTransform(name, offset, scale) {
			changed = true
		}
	}
	return changed
}

func (o *Object) setOrigin(origin mgl32.Vec3) { o.obj.SetOrigin(origin) }
func (o *Object) setRotation(rot mgl32.Quat)  { o.obj.SetRotation(rot) }
func (o *Object) setScale(scale float32)      { o.obj.SetScale(scale) }

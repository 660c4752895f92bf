package world

import (
	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Shape is the collision geometry of an object, expressed in local space at
// scale 1. World placement (origin, rotation, scale) lives on the Object.
type Shape interface {
	// Bounds returns the local-space AABB enclosing the shape.
	Bounds() cube.BBox
}

// BoxShape is a solid box centred on the object origin.
type BoxShape struct {
	Half mgl32.Vec3
}

func (b BoxShape) Bounds() cube.BBox {
	return cube.Box(-b.Half.X(), -b.Half.Y(), -b.Half.Z(), b.Half.X(), b.Half.Y(), b.Half.Z())
}

// CompoundChild is one named box inside a CompoundShape. Children carrying a
// name can be re-posed each step from an animated visual node.
type CompoundChild struct {
	Name   string
	Offset mgl32.Vec3
	Half   mgl32.Vec3
}

// CompoundShape is a set of child boxes, used for scenery whose collision
// follows a skeleton.
type CompoundShape struct {
	Children []CompoundChild

	// authored half extents, captured on first re-pose so scale always
	// applies to the original size.
	base []mgl32.Vec3
}

func (c *CompoundShape) Bounds() cube.BBox {
	if len(c.Children) == 0 {
		return cube.Box(0, 0, 0, 0, 0, 0)
	}
	min := mgl32.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32}
	max := min.Mul(-1)
	for _, ch := range c.Children {
		lo, hi := ch.Offset.Sub(ch.Half), ch.Offset.Add(ch.Half)
		for i := 0; i < 3; i++ {
			min[i] = math32.Min(min[i], lo[i])
			max[i] = math32.Max(max[i], hi[i])
		}
	}
	return cube.Box(min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
}

// SetChildTransform re-poses the named child. scale is relative to the
// authored child size; pass 0 to leave the size untouched. It reports
// whether a child with that name exists.
func (c *CompoundShape) SetChildTransform(name string, offset mgl32.Vec3, scale float32) bool {
	if c.base == nil {
		for _, ch := range c.Children {
			c.base = append(c.base, ch.Half)
		}
	}
	for i := range c.Children {
		if c.Children[i].Name != name {
			continue
		}
		c.Children[i].Offset = offset
		if scale > 0 {
			c.Children[i].Half = c.base[i].Mul(scale)
		}
		return true
	}
	return false
}

// HeightfieldShape is a square grid of terrain heights. Heights is row-major
// with stride VertsPerSide; cell size in world units is TriSize. The shape's
// local origin sits at the grid's (0, 0) corner.
type HeightfieldShape struct {
	Heights      []float32
	VertsPerSide int
	TriSize      float32
}

func (h *HeightfieldShape) Bounds() cube.BBox {
	minH, maxH := h.Heights[0], h.Heights[0]
	for _, v := range h.Heights[1:] {
		minH = math32.Min(minH, v)
		maxH = math32.Max(maxH, v)
	}
	side := float32(h.VertsPerSide-1) * h.TriSize
	return cube.Box(0, minH, 0, side, maxH, side)
}

// HeightAt bilinearly interpolates the terrain height at a local-space
// (x, z). The second return is false outside the grid.
func (h *HeightfieldShape) HeightAt(x, z float32) (float32, bool) {
	fx, fz := x/h.TriSize, z/h.TriSize
	if fx < 0 || fz < 0 || fx > float32(h.VertsPerSide-1) || fz > float32(h.VertsPerSide-1) {
		return 0, false
	}
	x0 := int(math32.Floor(fx))
	z0 := int(math32.Floor(fz))
	if x0 >= h.VertsPerSide-1 {
		x0 = h.VertsPerSide - 2
	}
	if z0 >= h.VertsPerSide-1 {
		z0 = h.VertsPerSide - 2
	}
	tx, tz := fx-float32(x0), fz-float32(z0)

	at := func(ix, iz int) float32 { return h.Heights[iz*h.VertsPerSide+ix] }
	h00, h10 := at(x0, z0), at(x0+1, z0)
	h01, h11 := at(x0, z0+1), at(x0+1, z0+1)
	return mgl32.Vec2{h00*(1-tx) + h10*tx, h01*(1-tx) + h11*tx}.Dot(mgl32.Vec2{1 - tz, tz}), true
}

// NormalAt returns the terrain surface normal at a local-space (x, z),
// derived from the height gradient.
func (h *HeightfieldShape) NormalAt(x, z float32) mgl32.Vec3 {
	const d = 0.5
	hx0, ok0 := h.HeightAt(x-d, z)
	hx1, ok1 := h.HeightAt(x+d, z)
	hz0, ok2 := h.HeightAt(x, z-d)
	hz1, ok3 := h.HeightAt(x, z+d)
	if !ok0 || !ok1 || !ok2 || !ok3 {
		return mgl32.Vec3{0, 1, 0}
	}
	return mgl32.Vec3{(hx0 - hx1) / (2 * d), 1, (hz0 - hz1) / (2 * d)}.Normalize()
}

// PlaneShape is an infinite horizontal plane at the object's origin height,
// used for the cell water surface.
type PlaneShape struct{}

func (PlaneShape) Bounds() cube.BBox {
	const ext = math32.MaxFloat32 / 4
	return cube.Box(-ext, -0.1, -ext, ext, 0.1, ext)
}

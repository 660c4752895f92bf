package world

// Collision filter groups. Every collision object belongs to exactly one
// group; queries carry a mask of the groups they collide with.
const (
	ColWorld uint32 = 1 << iota
	ColTerrain
	ColActor
	ColWater
	ColProjectile
)

// ColSolid is what an actor's movement sweep collides with.
const ColSolid = ColWorld | ColTerrain | ColActor

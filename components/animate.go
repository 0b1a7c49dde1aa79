package components

import "github.com/go-gl/mathgl/mgl32"

// AnimateKind selects an Animate behaviour.
type AnimateKind uint8

const (
	AnimateNone AnimateKind = iota
	AnimateMoveToward
	AnimateResizeTo
)

// Animate eases an entity's local transform toward a target.
// MoveToward moves Translation at Speed units per second without overshooting.
// ResizeTo lerps Scale by Speed*dt each tick.
type Animate struct {
	Kind   AnimateKind
	Target mgl32.Vec3
	Speed  float32
}

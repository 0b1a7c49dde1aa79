package components

// BodyState is the role an entity currently plays in the agglomeration lifecycle.
type BodyState uint8

const (
	BodyScenery   BodyState = iota // Static level geometry
	BodyCandidate                  // Free, absorbable rigid body
	BodyLimb                       // Collider attached to the klod
	BodyVisual                     // Stripped visual parented under the klod
	BodyDynamic                    // Released debris after a shatter
	BodyAccessory                  // Decorative part parented under the klod
)

var bodyStateNames = [...]string{"Scenery", "Candidate", "Limb", "Visual", "Dynamic", "Accessory"}

// String returns the display name for a BodyState.
func (s BodyState) String() string {
	if int(s) < len(bodyStateNames) {
		return bodyStateNames[s]
	}
	return "Unknown"
}

// Body tracks an entity's lifecycle state.
type Body struct {
	State BodyState `inspect:"label"`
}

// BodyKind selects how the physics step treats a body.
type BodyKind uint8

const (
	Dynamic BodyKind = iota
	Fixed
)

// RigidBody marks an entity as an independent physics body.
type RigidBody struct {
	Kind BodyKind
}

// Collider attaches a collision shape to an entity.
type Collider struct {
	Shape Shape
}

// Mass is the mass a collider contributes.
type Mass struct {
	Value float32 `inspect:"label,fmt:%.2f"`
}

// Material holds contact response coefficients.
type Material struct {
	Friction    float32 `inspect:"bar"`
	Restitution float32 `inspect:"bar"`
}

// DefaultMaterial is used when a level object leaves friction and restitution unset.
func DefaultMaterial() Material {
	return Material{Friction: 0.5, Restitution: 0}
}

// Package level reads, writes and instantiates level files.
//
// A level file is YAML. Older layouts (versions 1 and 2) are upgraded on load;
// files ending in .zst are zstd-compressed.
package level

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/klod/components"
)

// CurrentVersion is the layout written by Save.
const CurrentVersion = 3

var (
	// ErrUnknownVersion is returned for a version field no upgrade path handles.
	ErrUnknownVersion = errors.New("unknown level version")
	// ErrInvalid is returned when a level fails schema or value validation.
	ErrInvalid = errors.New("invalid level")
)

// Defaults filled in when upgrading older layouts.
const (
	DefaultTimerSeconds  = 90
	DefaultRequiredScore = 1000
	defaultFinishHalf    = 5
)

// Vec3 is a YAML-friendly [x, y, z].
type Vec3 [3]float32

// Quat is a YAML-friendly [x, y, z, w]. The zero value decodes as identity.
type Quat [4]float32

// IsZero lets omitempty drop unset vectors.
func (v Vec3) IsZero() bool { return v == Vec3{} }

// IsZero lets omitempty drop unset rotations.
func (q Quat) IsZero() bool { return q == Quat{} }

// Transform is a serialized pose. A zero scale decodes as one.
type Transform struct {
	Translation Vec3 `yaml:"translation"`
	Rotation    Quat `yaml:"rotation,omitempty"`
	Scale       Vec3 `yaml:"scale,omitempty"`
}

// Collider is a serialized collision shape.
type Collider struct {
	Shape        string  `yaml:"shape"`
	Radius       float32 `yaml:"radius,omitempty"`
	HalfExtents  Vec3    `yaml:"half_extents,omitempty"`
	HalfHeight   float32 `yaml:"half_height,omitempty"`
	BorderRadius float32 `yaml:"border_radius,omitempty"`
}

// Kind is what an object becomes when spawned.
type Kind string

const (
	KindScenery      Kind = "scenery"
	KindAgglomerable Kind = "agglomerable"
)

// Object is one placed physics object.
type Object struct {
	Name           string    `yaml:"name"`
	AssetPath      string    `yaml:"asset_path,omitempty"`
	Transform      Transform `yaml:"transform"`
	Collider       Collider  `yaml:"collider"`
	Friction       float32   `yaml:"friction"`
	Restitution    float32   `yaml:"restitution"`
	Kind           Kind      `yaml:"kind"`
	Mass           float32   `yaml:"mass,omitempty"`
	Power          string    `yaml:"power,omitempty"`
	RequiredPowers []string  `yaml:"required_powers,omitempty"`
}

// FinishZone is the sensor volume that ends the level.
type FinishZone struct {
	Collider  Collider  `yaml:"collider"`
	Transform Transform `yaml:"transform"`
}

// Level is a decoded level file.
type Level struct {
	Version          int        `yaml:"version"`
	KlodSpawn        Transform  `yaml:"klod_spawn"`
	FinishZone       FinishZone `yaml:"finish_zone"`
	GameTimerSeconds float32    `yaml:"game_timer_seconds"`
	RequiredScore    float32    `yaml:"required_score"`
	Objects          []Object   `yaml:"objects"`
}

// New returns an empty level with default timer, score and finish zone.
func New() *Level {
	return &Level{
		Version:          CurrentVersion,
		KlodSpawn:        Transform{Translation: Vec3{0, 2, 0}},
		FinishZone:       defaultFinishZone(),
		GameTimerSeconds: DefaultTimerSeconds,
		RequiredScore:    DefaultRequiredScore,
	}
}

func defaultFinishZone() FinishZone {
	return FinishZone{
		Collider: Collider{Shape: "cuboid", HalfExtents: Vec3{defaultFinishHalf, defaultFinishHalf, defaultFinishHalf}},
	}
}

// ToComponent converts the serialized pose.
func (t Transform) ToComponent() components.Transform {
	rot := mgl32.Quat{W: t.Rotation[3], V: mgl32.Vec3{t.Rotation[0], t.Rotation[1], t.Rotation[2]}}
	if t.Rotation == (Quat{}) {
		rot = mgl32.QuatIdent()
	}
	scale := mgl32.Vec3(t.Scale)
	if t.Scale == (Vec3{}) {
		scale = mgl32.Vec3{1, 1, 1}
	}
	return components.Transform{
		Translation: mgl32.Vec3(t.Translation),
		Rotation:    rot.Normalize(),
		Scale:       scale,
	}
}

// TransformFrom serializes a pose.
func TransformFrom(t components.Transform) Transform {
	return Transform{
		Translation: Vec3(t.Translation),
		Rotation:    Quat{t.Rotation.V.X(), t.Rotation.V.Y(), t.Rotation.V.Z(), t.Rotation.W},
		Scale:       Vec3(t.Scale),
	}
}

// ToShape converts the serialized collider.
func (c Collider) ToShape() (components.Shape, error) {
	kind, err := components.ParseShapeKind(c.Shape)
	if err != nil {
		return components.Shape{}, err
	}
	return components.Shape{
		Kind:         kind,
		Radius:       c.Radius,
		HalfExtents:  mgl32.Vec3(c.HalfExtents),
		HalfHeight:   c.HalfHeight,
		BorderRadius: c.BorderRadius,
	}, nil
}

// ColliderFrom serializes a shape, keeping only the fields its kind uses.
func ColliderFrom(s components.Shape) Collider {
	c := Collider{Shape: s.Kind.String()}
	switch s.Kind {
	case components.ShapeBall:
		c.Radius = s.Radius
	case components.ShapeCuboid:
		c.HalfExtents = Vec3(s.HalfExtents)
	case components.ShapeRoundCuboid:
		c.HalfExtents = Vec3(s.HalfExtents)
		c.BorderRadius = s.BorderRadius
	case components.ShapeCapsule, components.ShapeCylinder, components.ShapeCone:
		c.HalfHeight = s.HalfHeight
		c.Radius = s.Radius
	case components.ShapeRoundCylinder, components.ShapeRoundCone:
		c.HalfHeight = s.HalfHeight
		c.Radius = s.Radius
		c.BorderRadius = s.BorderRadius
	}
	return c
}

// Required parses the object's obstacle requirement.
func (o Object) Required() (components.PowerSet, error) {
	var set components.PowerSet
	for _, name := range o.RequiredPowers {
		p, err := components.ParsePower(name)
		if err != nil {
			return 0, err
		}
		set = set.Add(p)
	}
	return set, nil
}

// check validates values the schema cannot express.
func (l *Level) check() error {
	if _, err := l.FinishZone.Collider.ToShape(); err != nil {
		return fmt.Errorf("%w: finish zone: %v", ErrInvalid, err)
	}
	for i, o := range l.Objects {
		if _, err := o.Collider.ToShape(); err != nil {
			return fmt.Errorf("%w: object %d (%s): %v", ErrInvalid, i, o.Name, err)
		}
		if _, err := components.ParsePower(o.Power); err != nil {
			return fmt.Errorf("%w: object %d (%s): %v", ErrInvalid, i, o.Name, err)
		}
		if _, err := o.Required(); err != nil {
			return fmt.Errorf("%w: object %d (%s): %v", ErrInvalid, i, o.Name, err)
		}
		if o.Kind == KindAgglomerable && o.Mass <= 0 {
			return fmt.Errorf("%w: object %d (%s): agglomerable mass must be positive", ErrInvalid, i, o.Name)
		}
	}
	return nil
}

// CopyName names a duplicate of an object: a trailing number is
// incremented ("Box3" becomes "Box4"), anything else becomes "Copy of <name>".
func CopyName(name string) string {
	prefix := strings.TrimRightFunc(name, func(r rune) bool { return r >= '0' && r <= '9' })
	if n, err := strconv.Atoi(name[len(prefix):]); err == nil {
		return prefix + strconv.Itoa(n+1)
	}
	return "Copy of " + name
}

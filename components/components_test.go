package components

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRelativeToRoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		reference Transform
		target    Transform
	}{
		{
			name:      "identity reference",
			reference: Identity(),
			target:    FromTranslation(mgl32.Vec3{1, 2, 3}),
		},
		{
			name: "rotated reference",
			reference: Transform{
				Translation: mgl32.Vec3{5, 0, -2},
				Rotation:    mgl32.QuatRotate(1.1, mgl32.Vec3{0, 1, 0}),
				Scale:       mgl32.Vec3{1, 1, 1},
			},
			target: Transform{
				Translation: mgl32.Vec3{6, 1, -1},
				Rotation:    mgl32.QuatRotate(0.4, mgl32.Vec3{1, 0, 0}),
				Scale:       mgl32.Vec3{0.7, 0.7, 0.7},
			},
		},
		{
			name: "uniformly scaled reference",
			reference: Transform{
				Translation: mgl32.Vec3{-3, 2, 0},
				Rotation:    mgl32.QuatRotate(-0.6, mgl32.Vec3{0, 0, 1}),
				Scale:       mgl32.Vec3{2, 2, 2},
			},
			target: FromTranslation(mgl32.Vec3{0, 0, 0}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := tt.target.RelativeTo(tt.reference)
			back := tt.reference.Compose(rel)
			if !back.ApproxEqual(tt.target, 1e-4) {
				t.Errorf("compose(relative) = %+v, want %+v", back, tt.target)
			}
		})
	}
}

func TestRelativeToTranslation(t *testing.T) {
	klod := FromTranslation(mgl32.Vec3{10, 0, 0})
	candidate := FromTranslation(mgl32.Vec3{12, 1, 0})

	rel := candidate.RelativeTo(klod)
	want := mgl32.Vec3{2, 1, 0}
	if rel.Translation.Sub(want).Len() > 1e-4 {
		t.Errorf("Translation = %v, want %v", rel.Translation, want)
	}
}

func TestFromMat4NegativeDeterminant(t *testing.T) {
	m := mgl32.Scale3D(-1, 1, 1)
	tr := FromMat4(m)
	if tr.Scale.X() >= 0 {
		t.Errorf("Scale.X = %v, want negative", tr.Scale.X())
	}
}

func TestBoundingRadius(t *testing.T) {
	tests := []struct {
		name  string
		shape Shape
		want  float64
	}{
		{"ball", Ball(1.5), 1.5},
		{"cuboid", Cuboid(1, 2, 2), 3},
		{"capsule", Capsule(1, 0.5), 1.5},
		{"cylinder", Cylinder(3, 4), 5},
		{"round cuboid", Shape{Kind: ShapeRoundCuboid, HalfExtents: mgl32.Vec3{1, 2, 2}, BorderRadius: 0.5}, 3.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := float64(tt.shape.BoundingRadius())
			if math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("BoundingRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseShapeKind(t *testing.T) {
	for k := ShapeBall; k <= ShapeRoundCone; k++ {
		got, err := ParseShapeKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseShapeKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseShapeKind("torus"); err == nil {
		t.Error("expected error for unknown shape")
	}
}

func TestPowerSetContainment(t *testing.T) {
	present := PowerSetOf(PowerFire, PowerWater, PowerSaw)

	tests := []struct {
		name     string
		required PowerSet
		want     bool
	}{
		{"empty required", 0, true},
		{"subset", PowerSetOf(PowerFire), true},
		{"equal", PowerSetOf(PowerFire, PowerWater, PowerSaw), true},
		{"missing one", PowerSetOf(PowerFire, PowerDig), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := present.ContainsAll(tt.required); got != tt.want {
				t.Errorf("ContainsAll(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestPowerSetIgnoresNone(t *testing.T) {
	s := PowerSetOf(PowerNone)
	if !s.Empty() {
		t.Errorf("set with only PowerNone = %v, want empty", s)
	}
	if s.Has(PowerNone) {
		t.Error("PowerNone must never be a member")
	}
}

func TestParsePower(t *testing.T) {
	tests := []struct {
		in   string
		want Power
		ok   bool
	}{
		{"", PowerNone, true},
		{"Fire", PowerFire, true},
		{"amberrod", PowerAmberRod, true},
		{"Lightning", PowerNone, false},
	}

	for _, tt := range tests {
		got, err := ParsePower(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParsePower(%q) = %v, %v", tt.in, got, err)
		}
	}
}

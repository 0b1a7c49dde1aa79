package inspector

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/systems"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag     string
		widget  Widget
		options map[string]string
	}{
		{"", WidgetAuto, map[string]string{}},
		{"bar", WidgetBar, map[string]string{}},
		{"bar,max:200", WidgetBar, map[string]string{"max": "200"}},
		{"label,fmt:%.1f", WidgetLabel, map[string]string{"fmt": "%.1f"}},
		{"skip", WidgetSkip, map[string]string{}},
		{"vec", WidgetVec, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			w, opts := ParseTag(tt.tag)
			if w != tt.widget {
				t.Errorf("widget = %v, want %v", w, tt.widget)
			}
			if len(opts) != len(tt.options) {
				t.Fatalf("options = %v, want %v", opts, tt.options)
			}
			for k, v := range tt.options {
				if opts[k] != v {
					t.Errorf("option %s = %q, want %q", k, opts[k], v)
				}
			}
		})
	}
}

func TestExtractFields(t *testing.T) {
	limb := &components.Limb{HasVisual: true}
	fields := ExtractFields(limb)
	if len(fields) != 1 || fields[0].Name != "HasVisual" || fields[0].Widget != WidgetBool {
		t.Errorf("Limb fields = %+v, want only HasVisual as bool", fields)
	}

	klod := &components.Klod{Mass: 6.5}
	fields = ExtractFields(klod)
	if len(fields) != 1 || FormatValue(fields[0].Value, fields[0].Options["fmt"]) != "6.50" {
		t.Errorf("Klod fields = %+v", fields)
	}

	vel := &components.Velocity{Linear: mgl32.Vec3{1, 2, 3}}
	fields = ExtractFields(vel)
	if len(fields) != 2 || fields[0].Widget != WidgetVec {
		t.Errorf("Velocity fields = %+v", fields)
	}

	power := components.PowerFire
	fields = ExtractFields(&power)
	if len(fields) != 1 || FormatValue(fields[0].Value, "") != "Fire" {
		t.Errorf("Power fields = %+v", fields)
	}

	if fields := ExtractFields(&components.Sensor{}); len(fields) != 0 {
		t.Errorf("marker component produced fields %+v", fields)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		fmt   string
		want  string
	}{
		{"float", float32(1.234), "", "1.23"},
		{"custom fmt", float32(1.234), "%.1f", "1.2"},
		{"vec", mgl32.Vec3{1, 0, -2}, "", "(1.00, 0.00, -2.00)"},
		{"stringer", components.BodyCandidate, "", "Candidate"},
		{"power set", components.PowerSetOf(components.PowerFire, components.PowerWater), "", "{Fire,Water}"},
		{"int", 3, "", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatValue(tt.value, tt.fmt); got != tt.want {
				t.Errorf("FormatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRaySphere(t *testing.T) {
	tests := []struct {
		name   string
		origin mgl32.Vec3
		center mgl32.Vec3
		want   float32
		hit    bool
	}{
		{"straight hit", mgl32.Vec3{0, 0, -10}, mgl32.Vec3{0, 0, 0}, 9, true},
		{"miss", mgl32.Vec3{0, 5, -10}, mgl32.Vec3{0, 0, 0}, 0, false},
		{"behind", mgl32.Vec3{0, 0, 10}, mgl32.Vec3{0, 0, 0}, 0, false},
		{"inside", mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 0}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := raySphere(tt.origin, mgl32.Vec3{0, 0, 1}, tt.center, 1)
			if ok != tt.hit {
				t.Fatalf("hit = %v, want %v", ok, tt.hit)
			}
			if ok && math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("t = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPickAndSections(t *testing.T) {
	m := systems.NewMaps(ecs.NewWorld())

	near := m.Spawn(components.FromTranslation(mgl32.Vec3{0, 0, 5}))
	m.Collider.Add(near, &components.Collider{Shape: components.Ball(1)})
	m.Name.Add(near, &components.Name{Value: "near"})
	m.Agglomerable.Add(near, &components.Agglomerable{Weight: 0.3})

	far := m.Spawn(components.FromTranslation(mgl32.Vec3{0, 0, 20}))
	m.Collider.Add(far, &components.Collider{Shape: components.Ball(3)})

	got, ok := Pick(m, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1})
	if !ok || got != near {
		t.Fatalf("Pick() = %v, %v, want the near ball", got, ok)
	}
	if _, ok := Pick(m, mgl32.Vec3{0, 10, 0}, mgl32.Vec3{0, 0, 1}); ok {
		t.Error("ray above everything should miss")
	}

	ins := NewInspector(1280)
	if ins.Sections(m) != nil {
		t.Error("no selection should have no sections")
	}
	ins.Select(got)
	names := map[string]bool{}
	for _, s := range ins.Sections(m) {
		names[s.Name] = true
	}
	for _, want := range []string{"Name", "Agglomerable", "Collider", "Transform"} {
		if !names[want] {
			t.Errorf("missing section %s in %v", want, names)
		}
	}
	if names["Klod"] {
		t.Error("candidate should not show a Klod section")
	}

	m.Despawn(near)
	if ins.Sections(m) != nil {
		t.Error("despawned selection should have no sections")
	}
}

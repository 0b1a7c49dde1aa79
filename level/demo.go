package level

import (
	"fmt"
	"math"
	"math/rand"
)

// Demo layout constants.
const (
	demoRings        = 5
	demoFirstRadius  = 6
	demoRingSpacing  = 5
	demoFirstWeight  = 0.15
	demoWeightGrowth = 1.6
	demoFinishZ      = 45
)

// Demo builds a playground level: rings of candidates that get heavier
// further from the spawn, a few powered pickups, and a fire-sealed wall in
// front of the finish zone. The same rng seed always builds the same level.
func Demo(rng *rand.Rand) *Level {
	l := New()
	l.KlodSpawn = Transform{Translation: Vec3{0, 1.5, 0}}
	l.FinishZone = FinishZone{
		Collider:  Collider{Shape: "cuboid", HalfExtents: Vec3{4, 3, 4}},
		Transform: Transform{Translation: Vec3{0, 3, demoFinishZ}},
	}

	weight := float32(demoFirstWeight)
	for ring := 0; ring < demoRings; ring++ {
		radius := float64(demoFirstRadius + ring*demoRingSpacing)
		count := 8 + 3*ring
		offset := rng.Float64() * 2 * math.Pi
		for i := 0; i < count; i++ {
			angle := offset + float64(i)*2*math.Pi/float64(count)
			jitter := (rng.Float64() - 0.5) * 1.5
			x := float32(math.Cos(angle) * (radius + jitter))
			z := float32(math.Sin(angle) * (radius + jitter))
			l.Objects = append(l.Objects, demoCandidate(rng, ring, i, weight, x, z))
		}
		weight *= demoWeightGrowth
	}

	l.Objects = append(l.Objects, Object{
		Name:           "Fire wall",
		Transform:      Transform{Translation: Vec3{0, 2.5, demoFinishZ - 8}},
		Collider:       Collider{Shape: "cuboid", HalfExtents: Vec3{5, 2.5, 0.5}},
		Friction:       0.5,
		Kind:           KindScenery,
		RequiredPowers: []string{"Fire"},
	}, Object{
		Name:      "Ramp",
		Transform: Transform{Translation: Vec3{-20, 0.5, 20}},
		Collider:  Collider{Shape: "cuboid", HalfExtents: Vec3{4, 0.5, 8}},
		Friction:  0.5,
		Kind:      KindScenery,
	})
	return l
}

// demoCandidate sizes a candidate so its volume tracks its weight.
func demoCandidate(rng *rand.Rand, ring, i int, weight, x, z float32) Object {
	size := 0.2 * float32(math.Cbrt(float64(weight/demoFirstWeight)))
	o := Object{
		Name:        fmt.Sprintf("Pebble %d-%d", ring, i),
		Transform:   Transform{Translation: Vec3{x, size, z}},
		Friction:    0.5,
		Restitution: 0.1,
		Kind:        KindAgglomerable,
		Mass:        weight,
	}
	if rng.Intn(2) == 0 {
		o.Collider = Collider{Shape: "ball", Radius: size}
	} else {
		o.Name = fmt.Sprintf("Crate %d-%d", ring, i)
		o.Collider = Collider{Shape: "cuboid", HalfExtents: Vec3{size, size, size}}
	}
	// One powered pickup per ring from the second ring outward.
	if ring > 0 && i == 0 {
		powers := []string{"Fire", "Water", "Cat", "Dig"}
		o.Power = powers[(ring-1)%len(powers)]
		o.Name = fmt.Sprintf("%s relic %d", o.Power, ring)
	}
	return o
}

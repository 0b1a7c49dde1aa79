package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/systems"
)

// steerDeadZone is the share of the target direction an axis needs before
// its key is pressed.
const steerDeadZone = 0.3

// autopilotSteer heads for the finish when the klod would win now, and
// otherwise for the nearest candidate it could absorb.
func (g *Game) autopilotSteer() systems.Steer {
	klod, ok := g.roster.Klod()
	if !ok {
		return systems.Steer{}
	}
	m := g.maps
	pos := m.WorldTransform(klod).Translation
	mass := m.Klod.Get(klod).Mass
	var vel mgl32.Vec3
	if m.Velocity.Has(klod) {
		vel = m.Velocity.Get(klod).Linear
	}

	target, found := g.finishPosition()
	if !g.currentScore().Won() {
		if c, ok := g.nearestAbsorbable(pos, mass, vel); ok {
			target, found = c, true
		}
	}
	if !found {
		return systems.Steer{}
	}
	return steerToward(target.Sub(pos), g.cam.Forward())
}

// finishPosition returns the finish zone's center.
func (g *Game) finishPosition() (mgl32.Vec3, bool) {
	if !g.hasFinish || !g.maps.Alive(g.finish) {
		return mgl32.Vec3{}, false
	}
	return g.maps.WorldTransform(g.finish).Translation, true
}

// nearestAbsorbable returns the closest candidate light enough to absorb at
// the klod's current speed.
func (g *Game) nearestAbsorbable(pos mgl32.Vec3, mass float32, vel mgl32.Vec3) (mgl32.Vec3, bool) {
	best := float32(math.MaxFloat32)
	var at mgl32.Vec3
	found := false

	query := ecs.NewFilter1[components.Agglomerable](g.world).Query()
	for query.Next() {
		if !systems.CanAbsorbWeight(mass, query.Get().Weight, vel, g.tuning) {
			continue
		}
		p := g.maps.WorldTransform(query.Entity()).Translation
		if d := p.Sub(pos).Len(); d < best {
			best, at, found = d, p, true
		}
	}
	return at, found
}

// steerToward converts a world-space direction into key presses for a camera
// facing forward.
func steerToward(dir, forward mgl32.Vec3) systems.Steer {
	dir[1] = 0
	n := dir.Len()
	if n < 1e-4 {
		return systems.Steer{}
	}
	dir = dir.Mul(1 / n)
	left := mgl32.Vec3{forward.Z(), 0, -forward.X()}
	f := dir.Dot(forward)
	l := dir.Dot(left)
	return systems.Steer{
		Forward: f > steerDeadZone,
		Back:    f < -steerDeadZone,
		Left:    l > steerDeadZone,
		Right:   l < -steerDeadZone,
	}
}

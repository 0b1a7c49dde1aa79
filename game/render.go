package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/config"
	"github.com/pthm-cable/klod/inspector"
	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/ui"
)

// Scene colors by body role
var (
	colorSky       = rl.Color{R: 34, G: 30, B: 38, A: 255}
	colorGround    = rl.Color{R: 58, G: 52, B: 46, A: 255}
	colorLimb      = rl.Color{R: 235, G: 220, B: 190, A: 255}
	colorCore      = rl.Color{R: 255, G: 245, B: 225, A: 255}
	colorCandidate = rl.Color{R: 120, G: 190, B: 110, A: 255}
	colorTooHeavy  = rl.Color{R: 120, G: 120, B: 130, A: 255}
	colorScenery   = rl.Color{R: 150, G: 120, B: 90, A: 255}
	colorObstacle  = rl.Color{R: 230, G: 90, B: 50, A: 255}
	colorFinish    = rl.Color{R: 250, G: 210, B: 90, A: 255}
	colorDebris    = rl.Color{R: 190, G: 190, B: 200, A: 255}
	colorAccessory = rl.Color{R: 200, G: 170, B: 140, A: 255}
	colorSelected  = rl.Color{R: 90, G: 200, B: 255, A: 255}
)

// view holds the windowed-mode UI.
type view struct {
	width, height int32

	hud       *ui.HUD
	perf      *ui.PerfPanel
	controls  *ui.ControlsPanel
	overlays  *ui.OverlayRegistry
	results   *ui.ResultsPanel
	menu      *ui.MainMenu
	inspector *inspector.Inspector

	pending ui.Action
}

func newView(cfg *config.Config) *view {
	w, h := int32(cfg.Screen.Width), int32(cfg.Screen.Height)
	return &view{
		width:     w,
		height:    h,
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(w-310, 10),
		controls:  ui.NewControlsPanel(10, 260, 240),
		overlays:  ui.NewOverlayRegistry(),
		results:   ui.NewResultsPanel(),
		menu:      ui.NewMainMenu(),
		inspector: inspector.NewInspector(w),
	}
}

// resize re-docks panels after a window resize.
func (v *view) resize(w, h int32) {
	v.width, v.height = w, h
	v.perf.SetPosition(w-310, 10)
	v.inspector.Resize(w)
}

func vec(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v[0], v[1], v[2])
}

// rlCamera converts the orbit camera for raylib.
func (g *Game) rlCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec(g.cam.Position()),
		Target:     vec(g.cam.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       g.cam.Fovy,
		Projection: rl.CameraPerspective,
	}
}

// Draw renders the current frame.
func (g *Game) Draw() {
	if g.view == nil {
		return
	}
	v := g.view

	rl.BeginDrawing()
	rl.ClearBackground(colorSky)

	rl.BeginMode3D(g.rlCamera())
	g.drawScene()
	rl.EndMode3D()

	switch g.state {
	case StateMainMenu:
		v.pending = v.menu.Draw(g.levelName, v.width, v.height)
	case StatePlaying, StateTimeUp:
		g.drawPanels()
	case StateGameComplete:
		v.pending = v.results.Draw(g.result, g.best, v.width, v.height)
	}

	rl.EndDrawing()
}

// drawPanels renders the in-game HUD and enabled panels.
func (g *Game) drawPanels() {
	v := g.view
	if v.overlays.IsEnabled(ui.OverlayHUD) {
		v.hud.Draw(g.hudData(), v.width, v.height)
	}
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(g.perfCollector.Stats(), g.registry)
	}
	if v.overlays.IsEnabled(ui.OverlayInspector) {
		v.inspector.Draw(g.maps)
	}
	v.controls.Draw(v.overlays)
	v.hud.DrawControls(v.width, v.height,
		"WASD: roll | Q/E or right drag: turn | Space: to spawn | R: set spawn, hold to give up | T: autopilot | Tab: overlays | P: pause")
}

// hudData gathers the HUD's values.
func (g *Game) hudData() ui.HUDData {
	sc := g.currentScore()
	data := ui.HUDData{
		Level:        g.levelName,
		State:        g.state.String(),
		Tick:         g.tick,
		FPS:          rl.GetFPS(),
		Paused:       g.paused,
		Mass:         g.klodMass(),
		BoneMass:     sc.BoneMass,
		Powers:       g.powersLabel(),
		TimeLeft:     sc.TimeRemaining,
		TimeTotal:    g.timer,
		Mana:         sc.Mana(),
		RequiredMana: g.required,
		GiveUpHeld:   g.countdown.Held(),
		GiveUpHold:   float32(g.cfg.Scoring.GiveUpHold),
		Autopilot:    g.autopilot,
	}
	if klod, ok := g.roster.Klod(); ok {
		data.Limbs = len(g.roster.Limbs(klod))
		data.Falling = g.maps.FreeFall.Has(klod) && g.maps.FreeFall.Get(klod).Falling
	}
	return data
}

// drawScene renders every collider as a wireframe.
func (g *Game) drawScene() {
	v := g.view
	m := g.maps
	rl.DrawPlane(rl.NewVector3(0, g.tuning.GroundHeight, 0), rl.NewVector2(400, 400), colorGround)
	rl.DrawGrid(100, 4)

	mass := g.klodMass()
	var vel mgl32.Vec3
	klod, hasKlod := g.roster.Klod()
	if hasKlod && m.Velocity.Has(klod) {
		vel = m.Velocity.Get(klod).Linear
	}
	selected, hasSelected := v.inspector.Selected()
	showAll := v.overlays.IsEnabled(ui.OverlayColliders)
	reach := v.overlays.IsEnabled(ui.OverlayReach)

	query := ecs.NewFilter1[components.Collider](g.world).Query()
	for query.Next() {
		e := query.Entity()
		shape := query.Get().Shape
		color, solid := g.colorOf(e, mass, vel, reach)
		if hasSelected && e == selected {
			color = colorSelected
		}
		drawShape(m.WorldTransform(e), shape, color, solid && !showAll)
	}

	accQuery := ecs.NewFilter1[components.Accessory](g.world).Query()
	for accQuery.Next() {
		wt := m.WorldTransform(accQuery.Entity())
		half := g.tuning.AccessoryHalf
		drawShape(wt, components.Cuboid(half[0], half[1], half[2]), colorAccessory, false)
	}

	if !hasKlod {
		return
	}
	center := m.WorldTransform(klod).Translation
	if v.overlays.IsEnabled(ui.OverlayVelocity) {
		rl.DrawLine3D(vec(center), vec(center.Add(vel)), rl.Yellow)
	}
	if reach {
		rl.DrawSphereWires(vec(center), mass/g.tuning.BaselineMass, 8, 16, colorCandidate)
	}
	if v.overlays.IsEnabled(ui.OverlayContacts) {
		for _, c := range g.physics.Contacts() {
			if m.Alive(c.A) && m.Alive(c.B) {
				a := m.WorldTransform(c.A).Translation
				b := m.WorldTransform(c.B).Translation
				rl.DrawLine3D(vec(a), vec(b), rl.Red)
			}
		}
	}
}

// colorOf picks a collider's color and whether it is drawn filled. Sensors
// are only drawn as wireframes.
func (g *Game) colorOf(e ecs.Entity, mass float32, vel mgl32.Vec3, reach bool) (rl.Color, bool) {
	m := g.maps
	switch {
	case m.FinishLine.Has(e):
		return colorFinish, false
	case m.KlodBall.Has(e):
		return colorCore, true
	case m.Limb.Has(e):
		return colorLimb, true
	case m.Obstacle.Has(e):
		return colorObstacle, true
	case m.Agglomerable.Has(e):
		if reach && !systems.CanAbsorbWeight(mass, m.Agglomerable.Get(e).Weight, vel, g.tuning) {
			return colorTooHeavy, true
		}
		return colorCandidate, true
	case m.Body.Has(e) && m.Body.Get(e).State == components.BodyDynamic:
		return colorDebris, true
	}
	return colorScenery, true
}

// drawShape draws a shape at a world pose. Solid shapes get a darker outline.
func drawShape(wt components.Transform, shape components.Shape, color rl.Color, solid bool) {
	angle, axis := axisAngle(wt.Rotation)
	s := wt.Scale

	rl.PushMatrix()
	rl.Translatef(wt.Translation[0], wt.Translation[1], wt.Translation[2])
	rl.Rotatef(angle*180/math.Pi, axis[0], axis[1], axis[2])
	rl.Scalef(s[0], s[1], s[2])

	origin := rl.NewVector3(0, 0, 0)
	outline := rl.ColorBrightness(color, -0.4)
	switch shape.Kind {
	case components.ShapeBall:
		if solid {
			rl.DrawSphere(origin, shape.Radius, color)
		}
		rl.DrawSphereWires(origin, shape.Radius, 8, 12, outline)
	case components.ShapeCuboid, components.ShapeRoundCuboid:
		h := shape.HalfExtents.Mul(2)
		if solid {
			rl.DrawCube(origin, h[0], h[1], h[2], color)
		}
		rl.DrawCubeWires(origin, h[0], h[1], h[2], outline)
	case components.ShapeCapsule:
		top := rl.NewVector3(0, shape.HalfHeight, 0)
		bottom := rl.NewVector3(0, -shape.HalfHeight, 0)
		rl.DrawCapsuleWires(bottom, top, shape.Radius, 12, 4, outline)
	case components.ShapeCylinder, components.ShapeRoundCylinder:
		base := rl.NewVector3(0, -shape.HalfHeight, 0)
		rl.DrawCylinderWires(base, shape.Radius, shape.Radius, 2*shape.HalfHeight, 12, outline)
	case components.ShapeCone, components.ShapeRoundCone:
		base := rl.NewVector3(0, -shape.HalfHeight, 0)
		rl.DrawCylinderWires(base, 0, shape.Radius, 2*shape.HalfHeight, 12, outline)
	}

	rl.PopMatrix()
}

// axisAngle splits a rotation into an angle in radians and a unit axis.
func axisAngle(q mgl32.Quat) (float32, mgl32.Vec3) {
	q = q.Normalize()
	w := math.Max(-1, math.Min(1, float64(q.W)))
	angle := 2 * math.Acos(w)
	sinHalf := float32(math.Sqrt(1 - w*w))
	if sinHalf < 1e-5 {
		return 0, mgl32.Vec3{0, 1, 0}
	}
	return float32(angle), q.V.Mul(1 / sinHalf)
}

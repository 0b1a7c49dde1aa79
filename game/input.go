package game

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/klod/inspector"
	"github.com/pthm-cable/klod/level"
	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/ui"
)

// Mouse look sensitivity in radians per pixel.
const mouseLookSpeed = 0.01

// Update handles input and runs the simulation for one frame.
func (g *Game) Update() {
	if g.view == nil {
		g.UpdateHeadless()
		return
	}
	g.perfCollector.RecordFrame()
	g.applyAction()
	g.handleInput()

	if g.paused {
		return
	}
	ctl := g.readControls()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.simulationStep(ctl)
		// Edge-triggered keys act once per frame.
		ctl.SnapToSpawn = false
		ctl.RecordSpawn = false
	}
}

// applyAction carries out the menu button clicked during the last Draw.
func (g *Game) applyAction() {
	act := g.view.pending
	g.view.pending = ui.ActionNone
	switch act {
	case ui.ActionPlay:
		g.Play()
	case ui.ActionRetry:
		g.Retry()
	case ui.ActionMainMenu:
		g.MainMenu()
	case ui.ActionQuit:
		g.quit = true
	}
	if act != ui.ActionNone {
		slog.Info("menu action", "action", act.String(), "state", g.state.String())
	}
}

// handleInput processes window, overlay and camera keys.
func (g *Game) handleInput() {
	v := g.view
	if rl.IsWindowResized() {
		v.resize(int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if g.state != StatePlaying {
		return
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.autopilot = !g.autopilot
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		g.saveLevel()
	}
	if rl.IsKeyPressed(rl.KeyBackspace) {
		g.MainMenu()
		return
	}
	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < 10 {
		g.stepsPerUpdate++
	}
	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := v.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", string(id), "enabled", on)
		}
	}

	g.handleCameraInput()

	if v.overlays.IsEnabled(ui.OverlayInspector) && rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		ray := rl.GetMouseRay(rl.GetMousePosition(), g.rlCamera())
		origin := mgl32.Vec3{ray.Position.X, ray.Position.Y, ray.Position.Z}
		dir := mgl32.Vec3{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}.Normalize()
		if e, ok := inspector.Pick(g.maps, origin, dir); ok {
			v.inspector.Select(e)
		} else {
			v.inspector.Deselect()
		}
	}
}

// handleCameraInput turns the orbit camera with Q/E or a right-button drag
// and zooms with the wheel.
func (g *Game) handleCameraInput() {
	dt := rl.GetFrameTime()
	var yaw float32
	if rl.IsKeyDown(rl.KeyQ) {
		yaw++
	}
	if rl.IsKeyDown(rl.KeyE) {
		yaw--
	}
	g.cam.Rotate(yaw, 0, dt)

	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		if g.cam.YawSpeed > 0 && dt > 0 {
			g.cam.Rotate(-d.X*mouseLookSpeed/(g.cam.YawSpeed*dt), -d.Y*mouseLookSpeed, dt)
		}
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.cam.ZoomBy(1 - wheel*0.1)
	}
}

// readControls samples the steering and spawn keys.
func (g *Game) readControls() Controls {
	if g.state != StatePlaying {
		return Controls{}
	}
	ctl := Controls{
		SnapToSpawn: rl.IsKeyPressed(rl.KeySpace),
		RecordSpawn: rl.IsKeyPressed(rl.KeyR),
		GiveUp:      rl.IsKeyDown(rl.KeyR),
	}
	if g.autopilot {
		ctl.Steer = g.autopilotSteer()
		return ctl
	}
	ctl.Steer = systems.Steer{
		Forward: rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp),
		Back:    rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown),
		Left:    rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft),
		Right:   rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight),
	}
	return ctl
}

// saveLevel writes the current world back out as a level file.
func (g *Game) saveLevel() {
	l := level.FromWorld(g.maps, g.level)
	l.KlodSpawn = level.TransformFrom(g.spawn)
	if err := l.Save(g.savePath); err != nil {
		slog.Error("failed to save level", "path", g.savePath, "error", err)
		return
	}
	slog.Info("level saved", "path", g.savePath, "objects", len(l.Objects))
}

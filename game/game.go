// Package game owns the world, runs the fixed-order simulation step and
// drives the level state machine for both headless and windowed runs.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/camera"
	"github.com/pthm-cable/klod/components"
	"github.com/pthm-cable/klod/config"
	"github.com/pthm-cable/klod/level"
	"github.com/pthm-cable/klod/score"
	"github.com/pthm-cable/klod/systems"
	"github.com/pthm-cable/klod/telemetry"
)

// State is the game's top-level mode.
type State uint8

const (
	StateMainMenu State = iota
	StatePlaying
	StateTimeUp
	StateGameComplete
)

var stateNames = [...]string{"MainMenu", "Playing", "TimeUp", "GameComplete"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Options holds configuration for game initialization.
type Options struct {
	Seed           int64
	LevelPath      string  // empty = generated demo level
	TimerSeconds   float32 // overrides the level timer when > 0
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	ResultsDB      string
	SavePath       string // where the windowed save key writes the level
	Headless       bool
	Autopilot      bool
	StepsPerUpdate int
	Config         *config.Config // nil = config.Cfg()
}

// Game holds the complete game state.
type Game struct {
	world  *ecs.World
	maps   *systems.Maps
	roster *systems.Roster
	rng    *rand.Rand
	seed   int64

	cfg    *config.Config
	tuning systems.Tuning
	dt     float32

	// Systems, in tick order
	input     *systems.InputSystem
	physics   *systems.PhysicsSystem
	freeFall  *systems.FreeFallSystem
	absorb    *systems.AbsorbSystem
	obstacles *systems.ObstacleSystem
	shatter   *systems.ShatterSystem
	animate   *systems.AnimateSystem
	klods     *systems.KlodSystem
	registry  *systems.SystemRegistry

	cam *camera.Camera

	// Level
	level      *level.Level
	levelName  string
	spawn      components.Transform
	finish     ecs.Entity
	hasFinish  bool
	countdown  *score.Countdown
	timer      float32
	required   float32
	boneFactor float32

	// Results
	store     *score.Store
	result    score.Score
	hasResult bool
	best      []score.Result

	// State
	state          State
	tick           int32
	paused         bool
	headless       bool
	autopilot      bool
	stepsPerUpdate int
	done           bool
	quit           bool
	savePath       string

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	events           []telemetry.Event
	logStats         bool

	// Windowed mode only
	view *view
}

// NewGameWithOptions creates a game with the given options. config.Init must
// have been called unless opts.Config is set.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	world := ecs.NewWorld()
	maps := systems.NewMaps(world)
	roster := systems.NewRoster(maps)
	tuning := systems.TuningFromConfig(cfg)

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		world:          world,
		maps:           maps,
		roster:         roster,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		seed:           opts.Seed,
		cfg:            cfg,
		tuning:         tuning,
		dt:             cfg.Derived.DT32,
		input:          systems.NewInputSystem(maps, roster, tuning),
		physics:        systems.NewPhysicsSystem(maps, tuning),
		freeFall:       systems.NewFreeFallSystem(maps, roster),
		absorb:         systems.NewAbsorbSystem(maps, roster, tuning),
		obstacles:      systems.NewObstacleSystem(maps, roster),
		shatter:        systems.NewShatterSystem(maps, roster, tuning),
		animate:        systems.NewAnimateSystem(world),
		klods:          systems.NewKlodSystem(maps, roster, tuning),
		registry:       systems.NewSystemRegistry(),
		cam:            camera.New(float32(cfg.Camera.Distance), float32(cfg.Camera.Height), float32(cfg.Camera.YawSpeed), float32(cfg.Camera.Fovy)),
		boneFactor:     float32(cfg.Scoring.BoneMassPerMass),
		headless:       opts.Headless,
		autopilot:      opts.Autopilot || (opts.Headless && cfg.Input.Autopilot),
		stepsPerUpdate: steps,
		savePath:       opts.SavePath,
		logStats:       opts.LogStats,

		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(5, float64(tuning.BaselineMass)*2),
	}

	if err := g.loadLevel(opts.LevelPath); err != nil {
		return nil, err
	}
	g.timer = g.level.GameTimerSeconds
	if g.timer <= 0 {
		g.timer = float32(cfg.Scoring.TimerSeconds)
	}
	if opts.TimerSeconds > 0 {
		g.timer = opts.TimerSeconds
	}
	g.required = g.level.RequiredScore
	if g.required <= 0 {
		g.required = float32(cfg.Scoring.RequiredScore)
	}
	g.countdown = score.NewCountdown(g.timer, float32(cfg.Scoring.GiveUpHold))
	if g.savePath == "" {
		g.savePath = strings.TrimSuffix(filepath.Base(g.levelName), filepath.Ext(g.levelName)) + "-saved.klodlvl"
	}

	if opts.ResultsDB != "" {
		store, err := score.OpenStore(context.Background(), opts.ResultsDB)
		if err != nil {
			return nil, err
		}
		g.store = store
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, err
	}
	g.outputManager = om
	if om != nil {
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	// The level stays in the world as the menu backdrop.
	if _, err := g.level.Spawn(maps); err != nil {
		g.Unload()
		return nil, fmt.Errorf("spawning level: %w", err)
	}
	g.findFinish()

	if !opts.Headless {
		g.view = newView(cfg)
	}

	if opts.Headless {
		g.setState(StatePlaying)
	} else {
		g.setState(StateMainMenu)
	}

	slog.Info("game created",
		"level", g.levelName,
		"seed", opts.Seed,
		"timer", g.timer,
		"required", g.required,
		"objects", len(g.level.Objects),
		"autopilot", g.autopilot,
	)
	return g, nil
}

// loadLevel reads the level file, or builds the demo level when path is empty.
func (g *Game) loadLevel(path string) error {
	if path == "" {
		g.level = level.Demo(rand.New(rand.NewSource(g.seed)))
		g.levelName = "demo"
	} else {
		l, err := level.Load(path)
		if err != nil {
			return err
		}
		g.level = l
		g.levelName = filepath.Base(path)
	}
	g.spawn = g.level.KlodSpawn.ToComponent()
	return nil
}

// findFinish caches the finish zone spawned by the level.
func (g *Game) findFinish() {
	g.hasFinish = false
	query := ecs.NewFilter1[components.FinishLine](g.world).Query()
	for query.Next() {
		g.finish = query.Entity()
		g.hasFinish = true
	}
}

// setState leaves the current state and enters s.
func (g *Game) setState(s State) {
	prev := g.state
	g.exitState(prev)
	g.state = s
	g.enterState(s)
	slog.Info("state changed", "from", prev.String(), "to", s.String(), "tick", g.tick)
}

func (g *Game) exitState(s State) {
	if s == StatePlaying {
		g.cam.Lock()
	}
}

func (g *Game) enterState(s State) {
	switch s {
	case StateMainMenu:
		g.klods.Despawn()
		g.cam.Unfollow()
		g.cam.Update(g.spawn.Translation)
		g.cam.Lock()
	case StatePlaying:
		g.done = false
		g.startLevel()
		g.cam.Unlock()
	case StateGameComplete:
		if g.headless {
			g.done = true
		}
	}
}

// startLevel puts the klod at the spawn point and rebuilds the level.
func (g *Game) startLevel() {
	// The klod goes first: its visuals are level entities that Clear would
	// otherwise remove from under it.
	klod, ok := g.roster.Klod()
	if ok {
		g.klods.Reset(g.spawn)
	} else {
		klod, ok = g.klods.Spawn(g.cam, g.spawn)
	}
	g.clearDebris()
	if _, err := g.level.Spawn(g.maps); err != nil {
		slog.Error("failed to respawn level", "error", err)
	}
	g.findFinish()

	g.countdown.Reset(g.timer)
	g.hasResult = false
	g.result = score.Score{}

	if ok {
		g.cam.Update(g.maps.WorldTransform(klod).Translation)
		g.record(telemetry.NewSpawnEvent(g.tick, klod.ID(), g.tuning.BaselineMass))
	}
}

// clearDebris removes shattered accessories, the only debris that is not a
// level entity.
func (g *Game) clearDebris() int {
	var doomed []ecs.Entity
	query := ecs.NewFilter1[components.Body](g.world).Query()
	for query.Next() {
		e := query.Entity()
		if query.Get().State == components.BodyDynamic && !g.maps.LevelObject.Has(e) {
			doomed = append(doomed, e)
		}
	}
	for _, e := range doomed {
		g.maps.DespawnRecursive(e)
	}
	return len(doomed)
}

// Retry restarts the level from the results screen.
func (g *Game) Retry() {
	if g.state == StateGameComplete {
		g.setState(StatePlaying)
	}
}

// MainMenu returns to the title screen. A level abandoned mid-play shatters
// the klod first, unscored.
func (g *Game) MainMenu() {
	if g.state == StatePlaying {
		if res, ok := g.shatter.Shatter(systems.ShatterLevelReset); ok {
			g.recordShatter(res)
		}
	}
	g.setState(StateMainMenu)
}

// Play starts the level from the title screen.
func (g *Game) Play() {
	if g.state == StateMainMenu {
		g.setState(StatePlaying)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 { return g.tick }

// State returns the current game state.
func (g *Game) State() State { return g.state }

// Done reports whether a headless run has finished its level.
func (g *Game) Done() bool { return g.done }

// Quit reports whether the player chose to quit from the menu.
func (g *Game) Quit() bool { return g.quit }

// Result returns the last level result, if the level has ended.
func (g *Game) Result() (score.Score, bool) { return g.result, g.hasResult }

// Maps exposes the world's component mappers.
func (g *Game) Maps() *systems.Maps { return g.maps }

// Unload releases resources. Safe to call more than once.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if len(g.events) > 0 {
			if err := g.outputManager.WriteEvents(g.events); err != nil {
				slog.Error("failed to write events", "error", err)
			}
			g.events = g.events[:0]
		}
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
	if g.store != nil {
		if err := g.store.Close(); err != nil {
			slog.Error("failed to close results store", "error", err)
		}
		g.store = nil
	}
}

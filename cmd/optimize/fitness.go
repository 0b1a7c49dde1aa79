package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/klod/config"
	"github.com/pthm-cable/klod/game"
)

// unfinishedPenalty is the fitness of a run that hit the tick cap without
// ending the level.
const unfinishedPenalty = 4.0

// FitnessEvaluator runs headless autopilot levels and scores how close the
// final mana lands to the target.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	levelPath  string
	targetRate float64 // target mana as a share of the required score
	baseConfig *config.Config

	mu       sync.Mutex
	lastMana float64 // mean mana from the most recent Evaluate call
	lastWins int
	required float64 // required score reported by the level
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, levelPath string, targetRate float64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		levelPath:  levelPath,
		targetRate: targetRate,
		baseConfig: baseCfg,
	}
}

// Last returns the mean mana and win count of the most recent evaluation.
func (fe *FitnessEvaluator) Last() (float64, int) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastMana, fe.lastWins
}

// runResult holds the outcome of a single level run.
type runResult struct {
	finished bool
	mana     float64
	required float64
	won      bool
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runLevel(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total, mana float64
	wins := 0
	required := 0.0
	for _, r := range results {
		if r.finished {
			required = r.required
		}
		total += fe.computeFitness(r)
		mana += r.mana
		if r.won {
			wins++
		}
	}
	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastMana = mana / n
	fe.lastWins = wins
	if required > 0 {
		fe.required = required
	}
	fe.mu.Unlock()

	return total / n
}

// computeFitness is the squared miss from the target mana, relative to the
// required score.
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	if !r.finished || r.required <= 0 {
		return unfinishedPenalty
	}
	miss := (r.mana - fe.targetRate*r.required) / r.required
	return miss * miss
}

// runLevel plays one level with the autopilot until it ends or the tick cap.
func (fe *FitnessEvaluator) runLevel(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		LevelPath:      fe.levelPath,
		Headless:       true,
		Autopilot:      true,
		StepsPerUpdate: 60,
		Config:         cfg,
	})
	if err != nil {
		slog.Error("failed to create game", "seed", seed, "error", err)
		return runResult{}
	}
	defer g.Unload()

	for !g.Done() && g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}

	res, ok := g.Result()
	if !ok {
		return runResult{}
	}
	return runResult{
		finished: true,
		mana:     float64(res.Mana()),
		required: float64(res.RequiredMana),
		won:      res.Won(),
	}
}

// copyConfig returns a copy of the base config. Config holds only values, so
// a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// Required returns the level's required score, or 0 before any run finished.
func (fe *FitnessEvaluator) Required() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.required
}

// meanAbsMiss is the relative distance of mana from the target.
func meanAbsMiss(mana, required, rate float64) float64 {
	if required <= 0 {
		return math.Inf(1)
	}
	return math.Abs(mana-rate*required) / required
}

// Package config provides configuration loading and access for the game.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all game configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Klod      KlodConfig      `yaml:"klod"`
	Input     InputConfig     `yaml:"input"`
	Camera    CameraConfig    `yaml:"camera"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds rigid-body stepper parameters.
type PhysicsConfig struct {
	DT                    float64 `yaml:"dt"`
	Gravity               float64 `yaml:"gravity"`                 // Downward acceleration (positive = down)
	LinearDamping         float64 `yaml:"linear_damping"`          // Velocity decay per second
	GroundHeight          float64 `yaml:"ground_height"`           // Y of the infinite ground plane
	GroundRestitution     float64 `yaml:"ground_restitution"`      // Bounce off the ground plane
	ContactForceThreshold float64 `yaml:"contact_force_threshold"` // Minimum force for a contact event
}

// KlodConfig holds the aggregate's growth and shatter tuning.
type KlodConfig struct {
	BaselineMass    float64 `yaml:"baseline_mass"`    // Starting and reset mass
	InitialRadius   float64 `yaml:"initial_radius"`   // Core ball radius
	MaxSpeed        float64 `yaml:"max_speed"`        // Speed used to normalize the absorption speed bonus
	PullIn          float64 `yaml:"pull_in"`          // Scale applied to a captured limb offset
	LimbRecoil      float64 `yaml:"limb_recoil"`      // Shatter velocity per unit of limb offset
	AccessoryRecoil float64 `yaml:"accessory_recoil"` // Shatter velocity per unit of accessory offset
	AccessoryMass   float64 `yaml:"accessory_mass"`   // Mass given to a shattered accessory
	AccessoryHalfX  float64 `yaml:"accessory_half_x"`
	AccessoryHalfY  float64 `yaml:"accessory_half_y"`
	AccessoryHalfZ  float64 `yaml:"accessory_half_z"`
	AccessoryScale  float64 `yaml:"accessory_scale"`
	AccessoryAsset  string  `yaml:"accessory_asset"`
	BallAsset       string  `yaml:"ball_asset"`
}

// InputConfig holds player impulse parameters.
type InputConfig struct {
	BaseImpulse    float64 `yaml:"base_impulse"`     // Impulse at baseline mass
	ImpulsePerMass float64 `yaml:"impulse_per_mass"` // Extra impulse per unit of absorbed mass
	Autopilot      bool    `yaml:"autopilot"`        // Steer toward the nearest candidate when headless
}

// CameraConfig holds orbit camera parameters.
type CameraConfig struct {
	Distance float64 `yaml:"distance"`
	Height   float64 `yaml:"height"`
	YawSpeed float64 `yaml:"yaw_speed"` // Radians per second
	Fovy     float64 `yaml:"fovy"`
}

// ScoringConfig holds countdown and scoring parameters.
type ScoringConfig struct {
	TimerSeconds     float64 `yaml:"timer_seconds"`      // Used when a level does not set one
	RequiredScore    float64 `yaml:"required_score"`     // Used when a level does not set one
	GiveUpHold       float64 `yaml:"give_up_hold"`       // Seconds the give-up key must be held
	BoneMassPerMass  float64 `yaml:"bone_mass_per_mass"` // Bone mass per unit of absorbed mass
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32 // Physics.DT as float32
	ScreenW32 float32 // Screen.Width as float32
	ScreenH32 float32 // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values the game loop cannot run with.
func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if c.Klod.BaselineMass <= 0 {
		return fmt.Errorf("klod.baseline_mass must be positive, got %v", c.Klod.BaselineMass)
	}
	if c.Klod.MaxSpeed <= 0 {
		return fmt.Errorf("klod.max_speed must be positive, got %v", c.Klod.MaxSpeed)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/klod/config"
)

// Tuning holds the float32 constants the systems read every tick.
type Tuning struct {
	// Klod growth and shatter
	BaselineMass    float32
	InitialRadius   float32
	MaxSpeed        float32
	PullIn          float32
	LimbRecoil      float32
	AccessoryRecoil float32
	AccessoryMass   float32
	AccessoryHalf   mgl32.Vec3
	AccessoryScale  float32
	AccessoryAsset  string
	BallAsset       string

	// Input
	BaseImpulse    float32
	ImpulsePerMass float32

	// Physics
	Gravity               float32
	LinearDamping         float32
	GroundHeight          float32
	GroundRestitution     float32
	ContactForceThreshold float32
}

// TuningFromConfig converts the loaded configuration into system tuning.
func TuningFromConfig(cfg *config.Config) Tuning {
	k := cfg.Klod
	return Tuning{
		BaselineMass:    float32(k.BaselineMass),
		InitialRadius:   float32(k.InitialRadius),
		MaxSpeed:        float32(k.MaxSpeed),
		PullIn:          float32(k.PullIn),
		LimbRecoil:      float32(k.LimbRecoil),
		AccessoryRecoil: float32(k.AccessoryRecoil),
		AccessoryMass:   float32(k.AccessoryMass),
		AccessoryHalf:   mgl32.Vec3{float32(k.AccessoryHalfX), float32(k.AccessoryHalfY), float32(k.AccessoryHalfZ)},
		AccessoryScale:  float32(k.AccessoryScale),
		AccessoryAsset:  k.AccessoryAsset,
		BallAsset:       k.BallAsset,

		BaseImpulse:    float32(cfg.Input.BaseImpulse),
		ImpulsePerMass: float32(cfg.Input.ImpulsePerMass),

		Gravity:               float32(cfg.Physics.Gravity),
		LinearDamping:         float32(cfg.Physics.LinearDamping),
		GroundHeight:          float32(cfg.Physics.GroundHeight),
		GroundRestitution:     float32(cfg.Physics.GroundRestitution),
		ContactForceThreshold: float32(cfg.Physics.ContactForceThreshold),
	}
}


package components

import "github.com/mlange-42/ark/ecs"

// Klod is the rolling aggregate. Its mass only grows while active and snaps
// back to the baseline on shatter or reset.
type Klod struct {
	Mass float32 `inspect:"label,fmt:%.2f"`
}

// Limb is a collider attached to a klod. Visual is the repurposed candidate
// entity that was absorbed to create it; the core ball limb has none.
type Limb struct {
	Klod      ecs.Entity `inspect:"skip"`
	Visual    ecs.Entity `inspect:"skip"`
	HasVisual bool       `inspect:"bool"`
}

// FreeFall records whether no limb touched anything during the last physics step.
type FreeFall struct {
	Falling bool `inspect:"bool"`
}

// Agglomerable marks a candidate that the klod may absorb.
type Agglomerable struct {
	Weight float32 `inspect:"label,fmt:%.2f"`
}

// ElementalObstacle is scenery that breaks when the touching klod carries
// every required power.
type ElementalObstacle struct {
	Required PowerSet
}

// KlodBall tags the core ball limb.
type KlodBall struct{}

// Accessory tags a decorative part parented to the klod.
type Accessory struct{}

// BallVisual tags the klod's ball mesh.
type BallVisual struct{}

// Package components defines ECS components for the game world.
package components

import "github.com/mlange-42/ark/ecs"

// Name is a human-readable entity label.
type Name struct {
	Value string
}

// SceneHandle is an opaque asset path for an entity's visual.
type SceneHandle struct {
	Path string
}

// Parent attaches an entity to another; the entity's Transform is then local
// to the parent.
type Parent struct {
	Entity ecs.Entity
}

// Sensor colliders report contacts but are never pushed apart.
type Sensor struct{}

// FinishLine tags the level's finish zone.
type FinishLine struct{}

// LevelObject tags entities created from a level file.
type LevelObject struct{}

// Package telemetry provides run statistics, bookmarks and performance tracking.
package telemetry

import "github.com/pthm-cable/klod/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventAbsorb EventType = iota
	EventReject
	EventShatter
	EventObstacleBreak
	EventSpawn
	EventFinish
)

var eventNames = [...]string{"absorb", "reject", "shatter", "obstacle_break", "spawn", "finish"}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "unknown"
}

// Event represents a single telemetry event.
type Event struct {
	Type     EventType
	Tick     int32
	EntityID uint32 // the klod

	// Optional fields depending on event type
	TargetID uint32  // candidate or obstacle
	Amount   float32 // weight absorbed, or mass before a shatter
	Mass     float32 // klod mass after the event
	Power    components.Power
	Detail   string
}

// NewAbsorbEvent creates an accepted absorption event.
func NewAbsorbEvent(tick int32, klodID, candidateID uint32, weight, newMass float32, power components.Power) Event {
	return Event{
		Type:     EventAbsorb,
		Tick:     tick,
		EntityID: klodID,
		TargetID: candidateID,
		Amount:   weight,
		Mass:     newMass,
		Power:    power,
	}
}

// NewRejectEvent creates a rejected absorption event.
func NewRejectEvent(tick int32, klodID, candidateID uint32, weight, mass float32) Event {
	return Event{
		Type:     EventReject,
		Tick:     tick,
		EntityID: klodID,
		TargetID: candidateID,
		Amount:   weight,
		Mass:     mass,
	}
}

// NewShatterEvent creates a shatter event.
func NewShatterEvent(tick int32, klodID uint32, massBefore, baseline float32, reason string) Event {
	return Event{
		Type:     EventShatter,
		Tick:     tick,
		EntityID: klodID,
		Amount:   massBefore,
		Mass:     baseline,
		Detail:   reason,
	}
}

// NewObstacleBreakEvent creates an obstacle event. Detail lists the powers used.
func NewObstacleBreakEvent(tick int32, obstacleID uint32, required components.PowerSet, mass float32) Event {
	return Event{
		Type:     EventObstacleBreak,
		Tick:     tick,
		TargetID: obstacleID,
		Mass:     mass,
		Detail:   required.String(),
	}
}

// NewSpawnEvent creates a klod spawn event.
func NewSpawnEvent(tick int32, klodID uint32, mass float32) Event {
	return Event{Type: EventSpawn, Tick: tick, EntityID: klodID, Mass: mass}
}

// NewFinishEvent creates a level-complete event. Detail is the result hint.
func NewFinishEvent(tick int32, klodID uint32, mass float32, hint string) Event {
	return Event{Type: EventFinish, Tick: tick, EntityID: klodID, Mass: mass, Detail: hint}
}

// EventRecord is the CSV row for an event.
type EventRecord struct {
	Tick     int32   `csv:"tick"`
	Type     string  `csv:"type"`
	EntityID uint32  `csv:"entity"`
	TargetID uint32  `csv:"target"`
	Amount   float32 `csv:"amount"`
	Mass     float32 `csv:"mass"`
	Power    string  `csv:"power"`
	Detail   string  `csv:"detail"`
}

// Record flattens the event for CSV output.
func (e Event) Record() EventRecord {
	r := EventRecord{
		Tick:     e.Tick,
		Type:     e.Type.String(),
		EntityID: e.EntityID,
		TargetID: e.TargetID,
		Amount:   e.Amount,
		Mass:     e.Mass,
		Detail:   e.Detail,
	}
	if e.Power != components.PowerNone {
		r.Power = e.Power.String()
	}
	return r
}

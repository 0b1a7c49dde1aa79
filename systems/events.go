package systems

import "github.com/mlange-42/ark/ecs"

// Queue is a per-tick FIFO. Producers Push during a tick and each consumer
// drains it once.
type Queue[T any] struct {
	items []T
}

// Push appends an event.
func (q *Queue[T]) Push(v T) {
	q.items = append(q.items, v)
}

// Drain returns all queued events in push order and empties the queue.
func (q *Queue[T]) Drain() []T {
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *Queue[T]) Len() int {
	return len(q.items)
}

// ContactEvent reports that two colliders touched during a physics step.
type ContactEvent struct {
	A, B  ecs.Entity
	Force float32
}

// Other returns the side of the contact that is not e.
func (c ContactEvent) Other(e ecs.Entity) ecs.Entity {
	if c.A == e {
		return c.B
	}
	return c.A
}

// AbsorbRequest asks the absorb system to try attaching Candidate to Klod.
type AbsorbRequest struct {
	Klod      ecs.Entity
	Candidate ecs.Entity
	Weight    float32
}

// ShatterReason records why the klod is being destroyed.
type ShatterReason uint8

const (
	ShatterTimeUp ShatterReason = iota
	ShatterGiveUp
	ShatterLevelReset
)

var shatterReasonNames = [...]string{"time_up", "give_up", "level_reset"}

func (r ShatterReason) String() string {
	if int(r) < len(shatterReasonNames) {
		return shatterReasonNames[r]
	}
	return "unknown"
}

// ShatterRequest asks the shatter system to atomize the klod.
type ShatterRequest struct {
	Reason ShatterReason
}

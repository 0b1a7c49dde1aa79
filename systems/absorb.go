package systems

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/klod/components"
)

// WithinRadius reports whether a candidate at rel (relative to the klod
// origin) is inside the absorption radius, which scales with mass/baseline.
func WithinRadius(klodMass float32, rel mgl32.Vec3, tuning Tuning) bool {
	return rel.Len() < klodMass/tuning.BaselineMass
}

// CanAbsorbWeight reports whether the klod can carry weight at its current
// velocity. The speed bonus is floored at 0.5 so a resting klod can still
// pick up small things.
func CanAbsorbWeight(klodMass, weight float32, velocity mgl32.Vec3, tuning Tuning) bool {
	factor := float32(math.Max(float64(velocity.Len()*1.2/tuning.MaxSpeed), 0.5))
	return weight < factor*(klodMass/10)
}

// MayAbsorb is the absorption predicate: both the radius and weight gates must pass.
func MayAbsorb(klodMass, weight float32, rel, velocity mgl32.Vec3, tuning Tuning) bool {
	return WithinRadius(klodMass, rel, tuning) && CanAbsorbWeight(klodMass, weight, velocity, tuning)
}

// AbsorbResult reports the outcome of one absorb request.
type AbsorbResult struct {
	Klod      ecs.Entity
	Candidate ecs.Entity
	Limb      ecs.Entity
	Weight    float32
	Power     components.Power
	Accepted  bool
	NewMass   float32
}

// AbsorbSystem turns contacts into absorb requests and applies them.
type AbsorbSystem struct {
	m      *Maps
	roster *Roster
	tuning Tuning
	queue  Queue[AbsorbRequest]
}

// NewAbsorbSystem creates an absorb system.
func NewAbsorbSystem(m *Maps, roster *Roster, tuning Tuning) *AbsorbSystem {
	return &AbsorbSystem{m: m, roster: roster, tuning: tuning}
}

// Pending returns the number of queued requests.
func (s *AbsorbSystem) Pending() int {
	return s.queue.Len()
}

// Detect enqueues a request for every contact between a klod limb and an
// agglomerable candidate. Other contacts are ignored.
func (s *AbsorbSystem) Detect(contacts []ContactEvent) {
	for _, c := range contacts {
		if !s.m.Alive(c.A) || !s.m.Alive(c.B) {
			continue
		}
		limb := c.A
		if !s.m.Limb.Has(limb) {
			limb = c.B
		}
		candidate := c.Other(limb)
		if !s.m.Limb.Has(limb) || s.m.Limb.Has(candidate) {
			continue
		}
		if !s.m.Agglomerable.Has(candidate) {
			continue
		}
		klod, ok := s.roster.KlodOf(limb)
		if !ok {
			continue
		}
		s.queue.Push(AbsorbRequest{
			Klod:      klod,
			Candidate: candidate,
			Weight:    s.m.Agglomerable.Get(candidate).Weight,
		})
	}
}

// Request enqueues an absorb request directly.
func (s *AbsorbSystem) Request(req AbsorbRequest) {
	s.queue.Push(req)
}

// Apply drains the queue in push order. Each accepted request strips the
// candidate into a visual under the klod, adds its weight to the klod and
// creates a limb carrying the candidate's collider, material and power.
func (s *AbsorbSystem) Apply() []AbsorbResult {
	var results []AbsorbResult
	for _, req := range s.queue.Drain() {
		res, ok := s.apply(req)
		if ok {
			results = append(results, res)
		}
	}
	return results
}

// apply handles one request. ok is false when the request was skipped
// because the klod or candidate no longer exists in the required form.
func (s *AbsorbSystem) apply(req AbsorbRequest) (AbsorbResult, bool) {
	m := s.m
	if !m.Alive(req.Klod) || !m.Klod.Has(req.Klod) {
		slog.Debug("absorb skipped: klod missing", "candidate", req.Candidate.ID())
		return AbsorbResult{}, false
	}
	if !m.Alive(req.Candidate) || !m.Agglomerable.Has(req.Candidate) || !m.Collider.Has(req.Candidate) {
		slog.Debug("absorb skipped: candidate missing", "candidate", req.Candidate.ID())
		return AbsorbResult{}, false
	}

	// Reads
	mass := m.Klod.Get(req.Klod).Mass
	var velocity mgl32.Vec3
	if m.Velocity.Has(req.Klod) {
		velocity = m.Velocity.Get(req.Klod).Linear
	}
	weight := m.Agglomerable.Get(req.Candidate).Weight
	collider := *m.Collider.Get(req.Candidate)
	material := components.DefaultMaterial()
	if m.Material.Has(req.Candidate) {
		material = *m.Material.Get(req.Candidate)
	}
	power := components.PowerNone
	if m.Power.Has(req.Candidate) {
		power = *m.Power.Get(req.Candidate)
	}

	local := m.WorldTransform(req.Candidate).RelativeTo(m.WorldTransform(req.Klod))
	local.Translation = local.Translation.Mul(s.tuning.PullIn)

	res := AbsorbResult{
		Klod:      req.Klod,
		Candidate: req.Candidate,
		Weight:    weight,
		Power:     power,
		NewMass:   mass,
	}
	if !MayAbsorb(mass, weight, local.Translation, velocity, s.tuning) {
		slog.Debug("absorb rejected", "candidate", req.Candidate.ID(), "weight", weight, "mass", mass)
		return res, true
	}

	// Writes
	m.becomeVisual(req.Candidate, req.Klod, local)

	klod := m.Klod.Get(req.Klod)
	klod.Mass += weight

	limb := m.Spawn(local)
	m.SetParent(limb, req.Klod)
	m.Limb.Add(limb, &components.Limb{Klod: req.Klod, Visual: req.Candidate, HasVisual: true})
	m.Collider.Add(limb, &collider)
	m.Mass.Add(limb, &components.Mass{Value: weight})
	m.Material.Add(limb, &material)
	m.Power.Add(limb, &power)
	m.Body.Add(limb, &components.Body{State: components.BodyLimb})

	res.Accepted = true
	res.Limb = limb
	res.NewMass = m.Klod.Get(req.Klod).Mass
	slog.Debug("absorbed", "candidate", req.Candidate.ID(), "weight", weight, "mass", res.NewMass)
	return res, true
}

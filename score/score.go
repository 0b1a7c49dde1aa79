// Package score computes level results, runs the level countdown and keeps a
// history of results.
package score

import "fmt"

// Hint texts shown on the results panel.
const (
	HintTimeUp   = "Ran out of time"
	HintLowMana  = "Not enough mana generated"
	HintFinished = "Congratulations!"
)

// Panel titles for a won and a lost attempt.
const (
	TitleWon  = "Ritual Completed!"
	TitleLost = "The bones die again"
)

// Score is the outcome of one level attempt.
type Score struct {
	BoneMass      float32
	TimeRemaining float32
	RequiredMana  float32
}

// BoneMass converts klod mass into score units: the mass gathered above the
// baseline, times perMass.
func BoneMass(mass, baseline, perMass float32) float32 {
	return (mass - baseline) * perMass
}

// Mana is bone mass weighted by the time left.
func (s Score) Mana() float32 {
	return s.BoneMass * s.TimeRemaining
}

// Won reports whether the attempt beat the level's requirement.
func (s Score) Won() bool {
	return s.Mana() > s.RequiredMana
}

// Hint explains the result.
func (s Score) Hint() string {
	switch {
	case s.TimeRemaining <= 0:
		return HintTimeUp
	case !s.Won():
		return HintLowMana
	}
	return HintFinished
}

// Title is the results panel heading.
func (s Score) Title() string {
	if s.Won() {
		return TitleWon
	}
	return TitleLost
}

func (s Score) TimeLabel() string {
	return fmt.Sprintf("Time left: %.0f seconds", s.TimeRemaining)
}

func (s Score) BoneMassLabel() string {
	return fmt.Sprintf("Bone mass: %.0f", s.BoneMass)
}

func (s Score) ManaLabel() string {
	return fmt.Sprintf("Mana generated: %.0f", s.Mana())
}

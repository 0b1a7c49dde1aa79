package components

import (
	"fmt"
	"strings"
)

// Power is an elemental capability a collider contributes to the klod.
// The zero value is PowerNone.
type Power uint8

const (
	PowerNone Power = iota
	PowerFire
	PowerWater
	PowerCat
	PowerAmberRod
	PowerDig
	PowerSaw

	powerCount
)

var powerNames = [...]string{"None", "Fire", "Water", "Cat", "AmberRod", "Dig", "Saw"}

// String returns the display name for a Power.
func (p Power) String() string {
	if p < powerCount {
		return powerNames[p]
	}
	return "Unknown"
}

// ParsePower converts a name into a Power. Matching is case-insensitive and
// the empty string maps to PowerNone.
func ParsePower(s string) (Power, error) {
	if s == "" {
		return PowerNone, nil
	}
	for i, name := range powerNames {
		if strings.EqualFold(name, s) {
			return Power(i), nil
		}
	}
	return PowerNone, fmt.Errorf("unknown power %q", s)
}

// PowerSet is a bit set of powers. PowerNone is never a member.
type PowerSet uint8

// PowerSetOf builds a set from the given powers.
func PowerSetOf(powers ...Power) PowerSet {
	var s PowerSet
	for _, p := range powers {
		s = s.Add(p)
	}
	return s
}

// Add returns the set with p included.
func (s PowerSet) Add(p Power) PowerSet {
	if p == PowerNone || p >= powerCount {
		return s
	}
	return s | 1<<p
}

// Has reports whether p is in the set.
func (s PowerSet) Has(p Power) bool {
	if p == PowerNone || p >= powerCount {
		return false
	}
	return s&(1<<p) != 0
}

// ContainsAll reports whether every member of other is also in s.
func (s PowerSet) ContainsAll(other PowerSet) bool {
	return s&other == other
}

// Empty reports whether the set has no members.
func (s PowerSet) Empty() bool {
	return s == 0
}

// Powers lists the members in declaration order.
func (s PowerSet) Powers() []Power {
	var out []Power
	for p := PowerFire; p < powerCount; p++ {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Names lists the member names in declaration order.
func (s PowerSet) Names() []string {
	var out []string
	for _, p := range s.Powers() {
		out = append(out, p.String())
	}
	return out
}

func (s PowerSet) String() string {
	return "{" + strings.Join(s.Names(), ",") + "}"
}

// Package chance turns an injectable dice roller into the probability
// primitives the simulation engines need. Every probabilistic branch in the
// engines (gossip spread, quest template draws, offline event selection) goes
// through a Chance so tests can script exact outcomes.
package chance

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// resolution of probability checks: 1/10000
const probabilityDie = 10000

// Chance wraps a dice.Roller with probability helpers
type Chance struct {
	roller dice.Roller
}

// New creates a Chance backed by the given roller
func New(roller dice.Roller) *Chance {
	return &Chance{roller: roller}
}

// NewDefault creates a Chance backed by the default roller
func NewDefault() *Chance {
	return New(dice.DefaultRoller)
}

// Happens reports whether an event with probability p occurred.
// p <= 0 never happens, p >= 1 always happens.
func (c *Chance) Happens(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}

	n, err := c.roller.Roll(probabilityDie)
	if err != nil {
		// the roller only errors on non-positive die sizes
		return false
	}
	return float64(n) <= p*probabilityDie
}

// Intn returns a value in [0, n). n must be positive.
func (c *Chance) Intn(n int) int {
	if n <= 1 {
		return 0
	}

	v, err := c.roller.Roll(n)
	if err != nil {
		return 0
	}
	return v - 1
}

// WeightedIndex picks an index proportionally to the given weights.
// Zero or negative weights are never picked; if no weight is positive the
// first index is returned.
func (c *Chance) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return 0
	}

	n, err := c.roller.Roll(probabilityDie)
	if err != nil {
		return 0
	}

	target := float64(n) / probabilityDie * total
	acc := 0.0
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		if target <= acc {
			return i
		}
	}
	return len(weights) - 1
}

package ga

import (
	"math/rand"

	"craftevo/internal/env"
)

// MutatedClone returns a fresh agent whose network is a mutated copy of a's
func MutatedClone(a *Agent, rate float64, rng *rand.Rand) *Agent {
	return &Agent{
		Craft: env.NewCraft(),
		Brain: a.Brain.Mutate(rate, rng),
	}
}

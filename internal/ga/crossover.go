package ga

import (
	"fmt"
	"math/rand"

	"craftevo/internal/env"
)

// CreateChild mixes the networks of two parents weight by weight
func CreateChild(p1, p2 *Agent, rng *rand.Rand) (*Agent, error) {
	brain, err := p1.Brain.Crossover(p2.Brain, rng)
	if err != nil {
		return nil, fmt.Errorf("crossover: %w", err)
	}
	return &Agent{Craft: env.NewCraft(), Brain: brain}, nil
}

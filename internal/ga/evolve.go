package ga

import (
	"math/rand"
)

// CrossoverP is the chance that an offspring mixes two mutated parents
// instead of being a single mutant.
const CrossoverP = 0.5

// Evolve replaces the population with the next generation.
//
// The best half is kept unchanged. Each remaining slot gets a mutated clone
// of a parent drawn with PowerIndex, crossed half the time with a second
// mutated parent. Every craft is then reset, with the given jitter.
func Evolve(p *Population, rate, jitter float64, rng *rand.Rand) error {
	p.SortByScore()

	n := len(p.Agents)
	next := make([]*Agent, 0, n)
	next = append(next, p.Agents[:n/2]...)

	for len(next) < n {
		child := MutatedClone(SelectParent(p.Agents, rng), rate, rng)
		if rng.Float64() < CrossoverP {
			other := MutatedClone(SelectParent(p.Agents, rng), rate, rng)
			mixed, err := CreateChild(child, other, rng)
			if err != nil {
				return err
			}
			child = mixed
		}
		next = append(next, child)
	}

	p.Agents = next
	p.ResetAll(jitter, rng)
	return nil
}

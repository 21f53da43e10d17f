package ga

import (
	"fmt"
	"math/rand"
	"sort"

	"craftevo/internal/env"
	"craftevo/internal/nn"
)

// Agent is one craft together with the network that flies it
type Agent struct {
	Craft env.Craft
	Brain *nn.Network
}

// NewAgent creates an agent at its starting pose with a random network
func NewAgent(layerSizes []int, rng *rand.Rand) (*Agent, error) {
	brain, err := nn.New(layerSizes, rng)
	if err != nil {
		return nil, err
	}
	return &Agent{Craft: env.NewCraft(), Brain: brain}, nil
}

// Score returns the agent's accumulated regret (lower is better)
func (a *Agent) Score() float64 {
	return a.Craft.Score()
}

// Clone creates a deep copy of an agent
func (a *Agent) Clone() *Agent {
	return &Agent{
		Craft: a.Craft,
		Brain: a.Brain.Clone(),
	}
}

// Population manages the collection of agents
type Population struct {
	Agents     []*Agent
	LayerSizes []int
}

// NewPopulation creates size agents with random networks of the given shape
func NewPopulation(size int, layerSizes []int, rng *rand.Rand) (*Population, error) {
	p := &Population{
		Agents:     make([]*Agent, size),
		LayerSizes: append([]int(nil), layerSizes...),
	}

	for i := 0; i < size; i++ {
		a, err := NewAgent(layerSizes, rng)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", i, err)
		}
		p.Agents[i] = a
	}

	return p, nil
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Agents)
}

// SortByScore sorts agents by score (ascending, best first). Ties keep their order.
func (p *Population) SortByScore() {
	sort.SliceStable(p.Agents, func(i, j int) bool {
		return p.Agents[i].Score() < p.Agents[j].Score()
	})
}

// TopK returns the k lowest-scoring agents
func (p *Population) TopK(k int) []*Agent {
	p.SortByScore()
	if k > len(p.Agents) {
		k = len(p.Agents)
	}
	return p.Agents[:k]
}

// Best returns the agent with the lowest score
func (p *Population) Best() *Agent {
	if len(p.Agents) == 0 {
		return nil
	}
	best := p.Agents[0]
	for _, a := range p.Agents[1:] {
		if a.Score() < best.Score() {
			best = a
		}
	}
	return best
}

// Truncate keeps only the first n agents
func (p *Population) Truncate(n int) {
	if n < len(p.Agents) {
		p.Agents = p.Agents[:n]
	}
}

// ResetAll puts every craft back at its starting pose
func (p *Population) ResetAll(jitter float64, rng *rand.Rand) {
	for _, a := range p.Agents {
		a.Craft.Reset(jitter, rng)
	}
}

// Shuffle permutes the agents uniformly at random
func (p *Population) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(p.Agents), func(i, j int) {
		p.Agents[i], p.Agents[j] = p.Agents[j], p.Agents[i]
	})
}

// Snapshots returns the drawable state of every agent, dead ones included
func (p *Population) Snapshots() []env.Snapshot {
	out := make([]env.Snapshot, len(p.Agents))
	for i, a := range p.Agents {
		out[i] = a.Craft.Snapshot()
	}
	return out
}

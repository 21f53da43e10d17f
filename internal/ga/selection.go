package ga

import (
	"math/rand"
)

// PowerIndex draws an index in [0, n) as floor(u^2 * n). On a population
// sorted best first this strongly favors the best agents.
func PowerIndex(n int, rng *rand.Rand) int {
	u := rng.Float64()
	i := int(u * u * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// SelectParent picks one agent from a sorted slice using PowerIndex
func SelectParent(sorted []*Agent, rng *rand.Rand) *Agent {
	if len(sorted) == 0 {
		return nil
	}
	return sorted[PowerIndex(len(sorted), rng)]
}

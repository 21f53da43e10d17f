package env

// Regret accumulates a cost from a stream of distances. Only a new best
// distance lowers it; any distance above the best so far raises it.
type Regret struct {
	Score   float64
	Best    float64
	HasBest bool
}

// Observe folds one distance into the score
func (r *Regret) Observe(distance float64) {
	switch {
	case !r.HasBest:
		r.Best = distance
		r.HasBest = true
	case distance < r.Best:
		r.Score -= r.Best - distance
		r.Best = distance
	default:
		r.Score += distance - r.Best
	}
}

// Reset clears the score and forgets the best distance
func (r *Regret) Reset() {
	*r = Regret{}
}

package ga

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary holds score statistics for one generation
type Summary struct {
	Size      int
	Best      float64
	Mean      float64
	Std       float64   // population standard deviation
	TopMean   float64   // mean of the best TopFraction of agents
	TopScores []float64 // best scores, ascending
	Dead      int
}

// TopFraction is the share of the population averaged into Summary.TopMean
const TopFraction = 0.1

// TopScoreCount is how many of the best scores a Summary keeps
const TopScoreCount = 8

// Summarize computes statistics over the current scores without reordering agents
func (p *Population) Summarize() Summary {
	n := len(p.Agents)
	if n == 0 {
		return Summary{}
	}

	scores := make([]float64, n)
	s := Summary{Size: n}
	for i, a := range p.Agents {
		scores[i] = a.Score()
		if a.Craft.Dead {
			s.Dead++
		}
	}
	sort.Float64s(scores)

	s.Best = scores[0]
	s.Mean, s.Std = stat.PopMeanStdDev(scores, nil)

	top := int(float64(n) * TopFraction)
	if top < 1 {
		top = 1
	}
	s.TopMean = stat.Mean(scores[:top], nil)

	k := TopScoreCount
	if k > n {
		k = n
	}
	s.TopScores = append([]float64(nil), scores[:k]...)
	return s
}

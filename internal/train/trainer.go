package train

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"craftevo/internal/env"
	"craftevo/internal/eval"
	"craftevo/internal/ga"
)

// Report describes one finished generation, taken after the rollout and
// before the population is evolved.
type Report struct {
	Generation int
	Stage      Stage
	Path       env.ScriptedPath
	Summary    ga.Summary
	BestMean   float64 // lowest mean score seen so far
	Elapsed    time.Duration
	Population *ga.Population // sorted best first; valid only during the callback
}

// Trainer runs generations of rollout and evolution
type Trainer struct {
	Evaluator    *eval.Evaluator
	Schedule     Schedule
	MutationRate float64
	Generations  int

	// OnGeneration, if set, is called once per generation
	OnGeneration func(Report)
}

// Run evolves pop for t.Generations generations. It stops early, between
// generations, when ctx is cancelled.
func (t *Trainer) Run(ctx context.Context, pop *ga.Population, rng *rand.Rand) error {
	bestMean := 0.0
	for gen := 0; gen < t.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		stage := t.Schedule(gen)
		path := env.ScriptedPath{
			Steps:       stage.Steps,
			Spread:      stage.Spread,
			Generation:  gen,
			Revolutions: stage.Revolutions,
		}

		start := time.Now()
		t.Evaluator.EvaluateGeneration(pop, path, rng)
		elapsed := time.Since(start)

		summary := pop.Summarize()
		if gen == 0 || summary.Mean < bestMean {
			bestMean = summary.Mean
		}

		if t.OnGeneration != nil {
			pop.SortByScore()
			t.OnGeneration(Report{
				Generation: gen,
				Stage:      stage,
				Path:       path,
				Summary:    summary,
				BestMean:   bestMean,
				Elapsed:    elapsed,
				Population: pop,
			})
		}

		if err := ga.Evolve(pop, t.MutationRate, stage.Jitter, rng); err != nil {
			return fmt.Errorf("generation %d: %w", gen, err)
		}
	}
	return nil
}

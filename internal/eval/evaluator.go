package eval

import (
	"math/rand"
	"runtime"

	"github.com/sourcegraph/conc/pool"

	"craftevo/internal/env"
	"craftevo/internal/ga"
)

// Step advances one agent by one frame: observe, infer, command, simulate
// and score. Dead agents are left untouched.
func Step(a *ga.Agent, target env.Vec, p env.Physics) {
	if a.Craft.Dead {
		return
	}
	a.Brain.SetInput(a.Craft.Observe(target))
	a.Brain.Infer()
	a.Craft.Command(a.Brain.Output())
	a.Craft.Simulate(p)
	a.Craft.UpdateScore()
}

// Evaluator runs population rollouts split across a fixed number of shards
type Evaluator struct {
	physics env.Physics
	workers int
}

// NewEvaluator creates an evaluator. workers <= 0 means one shard per CPU.
func NewEvaluator(physics env.Physics, workers int) *Evaluator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Evaluator{
		physics: physics,
		workers: workers,
	}
}

// Workers returns the shard count
func (e *Evaluator) Workers() int {
	return e.workers
}

// Physics returns the simulation constants
func (e *Evaluator) Physics() env.Physics {
	return e.physics
}

// Shard splits agents into n owned slices by index modulo n
func Shard(agents []*ga.Agent, n int) [][]*ga.Agent {
	shards := make([][]*ga.Agent, n)
	for i, a := range agents {
		shards[i%n] = append(shards[i%n], a)
	}
	return shards
}

// Rollout steps every agent in a shard through the whole path
func Rollout(shard []*ga.Agent, path env.ScriptedPath, p env.Physics) {
	for step := 0; step < path.Steps; step++ {
		target := path.Target(step)
		for _, a := range shard {
			Step(a, target, p)
		}
	}
}

// EvaluateGeneration shuffles the population, runs every shard concurrently
// and merges the shards back in shard order.
func (e *Evaluator) EvaluateGeneration(pop *ga.Population, path env.ScriptedPath, rng *rand.Rand) {
	pop.Shuffle(rng)
	shards := Shard(pop.Agents, e.workers)

	p := pool.New().WithMaxGoroutines(e.workers)
	for _, shard := range shards {
		shard := shard
		p.Go(func() {
			Rollout(shard, path, e.physics)
		})
	}
	p.Wait()

	merged := make([]*ga.Agent, 0, len(pop.Agents))
	for _, shard := range shards {
		merged = append(merged, shard...)
	}
	pop.Agents = merged
}

// RecordTrace replays a copy of agent against path and records every frame.
// The agent itself is not modified.
func (e *Evaluator) RecordTrace(agent *ga.Agent, path env.ScriptedPath) *env.Trace {
	a := agent.Clone()
	a.Craft = env.NewCraft()

	trace := env.NewTrace(path)
	for step := 0; step < path.Steps; step++ {
		target := path.Target(step)
		Step(a, target, e.physics)
		trace.Record(target, a.Craft.Snapshot())
	}
	trace.Score = a.Score()
	return trace
}

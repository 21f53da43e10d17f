package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"craftevo/internal/config"
	"craftevo/internal/env"
	"craftevo/internal/eval"
	"craftevo/internal/ga"
	"craftevo/internal/logging"
	"craftevo/internal/train"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "configs/default.yaml", "path to config file")
	generations := flag.Int("generations", 0, "number of generations to run (0 uses the config)")
	view := flag.Bool("view", false, "watch the best agents in the terminal after training")
	targetFlag := flag.String("target", "", "fixed viewer target as x,y in world units (default: scripted path)")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *generations > 0 {
		cfg.Schedule.Generations = *generations
	}

	fmt.Println("Craft Trainer")
	fmt.Printf("Config: %s\n", *configPath)
	fmt.Printf("Topology: %v, Population: %d, Workers: %d\n", cfg.LayerSizes(), cfg.Population, cfg.Eval.Workers)
	fmt.Printf("Generations: %d, Steps: %d+%d/gen, Spread: %.2f, Mutation: %.3f\n",
		cfg.Schedule.Generations, cfg.Schedule.BaseSteps, cfg.Schedule.StepIncrement,
		cfg.Schedule.Spread, cfg.GA.MutationRate)
	fmt.Println("---")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize RNG
	rng := rand.New(rand.NewSource(cfg.Seed))

	// Initialize population
	pop, err := ga.NewPopulation(cfg.Population, cfg.LayerSizes(), rng)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating population: %v\n", err)
		os.Exit(1)
	}
	pop.ResetAll(cfg.Schedule.Jitter, rng)
	fmt.Printf("Network size: %d weights per agent\n", pop.Agents[0].Brain.NumWeights())

	evaluator := eval.NewEvaluator(cfg.PhysicsParams(), cfg.Eval.Workers)

	// Create logger
	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	logger.SetConsole(cfg.PrintSummaries())

	exporter := logging.NewExporter()
	if cfg.Logging.MetricsAddr != "" {
		go serveMetrics(cfg.Logging.MetricsAddr, exporter)
	}

	schedule := train.LinearSchedule(
		cfg.Schedule.BaseSteps,
		cfg.Schedule.StepIncrement,
		cfg.Schedule.Spread,
		cfg.Schedule.Jitter,
		cfg.Schedule.Revolutions,
	)

	trainer := &train.Trainer{
		Evaluator:    evaluator,
		Schedule:     schedule,
		MutationRate: cfg.GA.MutationRate,
		Generations:  cfg.Schedule.Generations,
		OnGeneration: func(r train.Report) {
			summary := logging.NewGenerationSummary(r.Generation, r.Stage.Steps, r.Stage.Spread, r.Summary, r.Elapsed)
			logger.LogGeneration(summary)
			exporter.Observe(summary)

			// Debug: log top-N
			if r.Generation%10 == 0 && cfg.Logging.TopNDebug > 0 {
				logger.LogTopK(r.Population.Agents, cfg.Logging.TopNDebug)
			}

			// Save a snapshot trace of the best agent
			if cfg.Logging.TraceEvery > 0 && r.Generation%cfg.Logging.TraceEvery == 0 {
				trace := evaluator.RecordTrace(r.Population.Agents[0], r.Path)
				tracePath := filepath.Join(cfg.Logging.TraceDir, fmt.Sprintf("trace_gen%d.json", r.Generation))
				if err := trace.Save(tracePath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to save trace: %v\n", err)
				}
			}
		},
	}

	startTime := time.Now()

	// Main training loop
	err = trainer.Run(ctx, pop, rng)
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Println("Interrupted, stopping after the current generation")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error training: %v\n", err)
		os.Exit(1)
	}

	elapsed := time.Since(startTime)
	history := logger.History()
	fmt.Println("---")
	fmt.Printf("Training complete! %d generations in %v\n", len(history), elapsed)
	if n := len(history); n > 0 {
		var steps int64
		for _, h := range history {
			steps += int64(h.Steps) * int64(h.Population)
		}
		last := history[n-1]
		fmt.Printf("Simulated %s agent-steps. Last generation: Best=%.3f, Top10%%=%.3f, Mean=%.3f %s\n",
			humanize.Comma(steps), last.BestScore, last.TopMeanScore, last.MeanScore,
			logging.FormatScores(last.TopScores))

		if err := logging.PlotHistory(history, cfg.Logging.PlotPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to plot history: %v\n", err)
		}
	}

	if !*view || ctx.Err() != nil {
		return
	}

	// Hand a reduced elite population to the viewer
	pop.Truncate(cfg.View.Agents)
	var target env.TargetSource = env.ScriptedPath{
		Steps:       cfg.View.Steps,
		Spread:      cfg.Schedule.Spread,
		Revolutions: cfg.Schedule.Revolutions,
	}
	if *targetFlag != "" {
		pos, err := parsePoint(*targetFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -target: %v\n", err)
			os.Exit(1)
		}
		target = &env.Cursor{Pos: pos}
	}
	if err := runViewer(ctx, pop, target, cfg, rng); err != nil {
		fmt.Fprintf(os.Stderr, "Error viewing: %v\n", err)
		os.Exit(1)
	}
}

func serveMetrics(addr string, exporter *logging.Exporter) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", exporter.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: metrics server stopped: %v\n", err)
	}
}

// runViewer steps the population one frame at a time and keeps evolving it
// every cfg.View.Steps frames, without start pose jitter.
func runViewer(ctx context.Context, pop *ga.Population, target env.TargetSource, cfg *config.Config, rng *rand.Rand) error {
	display := NewDisplay(80, 30, cfg.View.Scale)
	physics := cfg.PhysicsParams()
	frameDelay := time.Duration(cfg.View.Delay) * time.Millisecond
	var best bestMean
	status := "---"

	for frame, step := 0, 0; frame < cfg.View.Frames; frame, step = frame+1, step+1 {
		if ctx.Err() != nil {
			return nil
		}

		goal := target.Target(step)
		for _, a := range pop.Agents {
			eval.Step(a, goal, physics)
		}
		display.Render(frame, goal, pop.Snapshots(), status)

		if step+1 == cfg.View.Steps {
			s := pop.Summarize()
			status = fmt.Sprintf("Mean: %.3f (best %.3f) %s", s.Mean, best.observe(s.Mean), logging.FormatScores(s.TopScores))
			if err := ga.Evolve(pop, cfg.GA.MutationRate, 0, rng); err != nil {
				return err
			}
			step = -1
		}
		time.Sleep(frameDelay)
	}
	return nil
}

// bestMean tracks the lowest population mean seen while viewing
type bestMean struct {
	value float64
	set   bool
}

func (b *bestMean) observe(mean float64) float64 {
	if !b.set || mean < b.value {
		b.value = mean
		b.set = true
	}
	return b.value
}

func parsePoint(s string) (env.Vec, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return env.Vec{}, fmt.Errorf("want x,y, got %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return env.Vec{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return env.Vec{}, err
	}
	return env.V(x, y), nil
}

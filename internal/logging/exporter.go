package logging

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter publishes training progress as Prometheus metrics
type Exporter struct {
	registry *prometheus.Registry

	generations    prometheus.Counter
	agentSteps     prometheus.Counter
	bestScore      prometheus.Gauge
	meanScore      prometheus.Gauge
	topMeanScore   prometheus.Gauge
	deadAgents     prometheus.Gauge
	rolloutSeconds prometheus.Histogram
}

// NewExporter creates an exporter with its own registry
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "craftevo_generations_total",
			Help: "Generations evaluated.",
		}),
		agentSteps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "craftevo_agent_steps_total",
			Help: "Single-agent simulation steps run during rollouts.",
		}),
		bestScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "craftevo_best_score",
			Help: "Lowest score in the last generation.",
		}),
		meanScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "craftevo_mean_score",
			Help: "Mean score in the last generation.",
		}),
		topMeanScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "craftevo_top_mean_score",
			Help: "Mean score of the best 10% in the last generation.",
		}),
		deadAgents: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "craftevo_dead_agents",
			Help: "Agents that left the play area in the last generation.",
		}),
		rolloutSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "craftevo_rollout_seconds",
			Help:    "Wall time of one generation's parallel rollout.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
	e.registry.MustRegister(
		e.generations, e.agentSteps, e.bestScore, e.meanScore,
		e.topMeanScore, e.deadAgents, e.rolloutSeconds,
	)
	return e
}

// Observe records one generation
func (e *Exporter) Observe(s GenerationSummary) {
	e.generations.Inc()
	e.agentSteps.Add(float64(s.Steps) * float64(s.Population))
	e.bestScore.Set(s.BestScore)
	e.meanScore.Set(s.MeanScore)
	e.topMeanScore.Set(s.TopMeanScore)
	e.deadAgents.Set(float64(s.Dead))
	e.rolloutSeconds.Observe(float64(s.RolloutMS) / 1000)
}

// Registry returns the registry backing the exporter
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// Handler serves the metrics in the Prometheus text format
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

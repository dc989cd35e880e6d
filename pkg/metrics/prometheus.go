package metrics

import (
	"errors"
	"fmt"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "statetree"
	subsystem = "mcts"
)

// Choice kinds, used as the 'kind' label of choices_total
const (
	ChoiceBest     = "best"
	ChoiceFallback = "fallback"
)

// Exports the tree counters as prometheus metrics.
// Safe for concurrent use, so a single collector may be shared by trees
// searched in parallel
type PrometheusCollector struct {
	Rollouts     prometheus.Counter
	RolloutDepth prometheus.Histogram
	PlayoutPlies prometheus.Histogram
	Expansions   prometheus.Counter
	Successors   prometheus.Histogram
	Choices      *prometheus.CounterVec
}

var _ mcts.Collector = (*PrometheusCollector)(nil)

// Create the collector and register its metrics on 'reg',
// metrics already registered by another collector are reused
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	c := &PrometheusCollector{
		Rollouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rollouts_total",
			Help:      "Total number of completed rollouts",
		}),
		RolloutDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "rollout_depth",
			Help:      "Depth of the leaf selected by a rollout",
			Buckets:   prometheus.LinearBuckets(0, 2, 16),
		}),
		PlayoutPlies: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "playout_plies",
			Help:      "Number of random transitions made by a playout",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "expansions_total",
			Help:      "Total number of expanded states",
		}),
		Successors: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "expansion_successors",
			Help:      "Number of distinct successors recorded on expansion",
			Buckets:   prometheus.LinearBuckets(0, 1, 10),
		}),
		Choices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "choices_total",
			Help:      "Total number of choices by kind",
		}, []string{"kind"}),
	}

	if reg == nil {
		return c, nil
	}

	var err error
	c.Rollouts, err = register(reg, c.Rollouts)
	if err != nil {
		return nil, err
	}
	c.RolloutDepth, err = register(reg, c.RolloutDepth)
	if err != nil {
		return nil, err
	}
	c.PlayoutPlies, err = register(reg, c.PlayoutPlies)
	if err != nil {
		return nil, err
	}
	c.Expansions, err = register(reg, c.Expansions)
	if err != nil {
		return nil, err
	}
	c.Successors, err = register(reg, c.Successors)
	if err != nil {
		return nil, err
	}
	c.Choices, err = register(reg, c.Choices)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("metrics: register: %w", err)
	}
	return c, nil
}

func (c *PrometheusCollector) AddRollout(depth, plies int) {
	c.Rollouts.Inc()
	c.RolloutDepth.Observe(float64(depth))
	c.PlayoutPlies.Observe(float64(plies))
}

func (c *PrometheusCollector) AddExpansion(successors int) {
	c.Expansions.Inc()
	c.Successors.Observe(float64(successors))
}

func (c *PrometheusCollector) AddChoice(fallback bool) {
	kind := ChoiceBest
	if fallback {
		kind = ChoiceFallback
	}
	c.Choices.WithLabelValues(kind).Inc()
}

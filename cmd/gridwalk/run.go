package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/IlikeChooros/statetree/internal/config"
	"github.com/IlikeChooros/statetree/pkg/bench"
	"github.com/IlikeChooros/statetree/pkg/gridwalk"
	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/IlikeChooros/statetree/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type runOptions struct {
	episodes    int
	rollouts    int
	exploration float64
	backprop    string
	trials      int
	workers     int
	seed        uint64
	metricsAddr string
	progress    bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the episodes and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cfg, opts.progress, newRenderer(cmd.OutOrStdout()))
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&opts.episodes, "episodes", "e", 0, "number of episodes")
	flags.IntVarP(&opts.rollouts, "rollouts", "r", 0, "rollouts before each step")
	flags.Float64Var(&opts.exploration, "exploration", 0, "exploration param of the UCB1 formula")
	flags.StringVar(&opts.backprop, "backprop", "", "backpropagation strategy (uniform, reference)")
	flags.IntVar(&opts.trials, "trials", 0, "number of independent trials, each with its own tree")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "trials run in parallel")
	flags.Uint64Var(&opts.seed, "seed", 0, "seed of the tree's random source")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address, e.g. :9090")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress line")
	return cmd
}

// Flags set on the command line override the config
func (o *runOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("episodes") {
		cfg.Episodes.Count = o.episodes
	}
	if flags.Changed("rollouts") {
		cfg.Search.Rollouts = o.rollouts
	}
	if flags.Changed("exploration") {
		cfg.Search.Exploration = o.exploration
	}
	if flags.Changed("backprop") {
		cfg.Search.Backprop = o.backprop
	}
	if flags.Changed("trials") {
		cfg.Trials.Count = o.trials
	}
	if flags.Changed("workers") {
		cfg.Trials.Workers = o.workers
	}
	if flags.Changed("seed") {
		cfg.Search.Seed = o.seed
	}
	if flags.Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = o.metricsAddr
	}
}

func run(ctx context.Context, cfg config.Config, progress bool, out *renderer) error {
	reg := prometheus.NewRegistry()
	collector, err := metrics.NewPrometheusCollector(reg)
	if err != nil {
		return err
	}
	if cfg.Observability.MetricsAddr != "" {
		srv := serveMetrics(cfg.Observability.MetricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	factory, err := newArenaFactory(cfg, collector, log.Logger)
	if err != nil {
		return err
	}

	listeners := bench.MultiListener[gridwalk.Board]{bench.LogListener[gridwalk.Board]{Log: log.Logger}}
	if progress {
		listeners = append(listeners, &bench.ProgressListener[gridwalk.Board]{
			W:        os.Stderr,
			Episodes: cfg.Episodes.Count * cfg.Trials.Count,
		})
	}

	start := time.Now()
	results, summary, err := bench.RunTrials(ctx, cfg.Trials.Count, cfg.Trials.Workers, factory, listeners)
	out.episodes(results)
	if err != nil {
		return err
	}
	out.summary(summary, time.Since(start))
	return nil
}

// Every trial gets a fresh tree, with the shared collector
func newArenaFactory(cfg config.Config, collector mcts.Collector, logger zerolog.Logger) (bench.ArenaFactory[gridwalk.Board], error) {
	root, err := gridwalk.NewBoard(cfg.Board.Rules, cfg.Board.Start, cfg.Board.Target)
	if err != nil {
		return nil, err
	}
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}

	return func(trial int) (*bench.Arena[gridwalk.Board], error) {
		opts := []mcts.Option{
			mcts.WithExplorationParam(cfg.Search.Exploration),
			mcts.WithStrategy(strategy),
			mcts.WithCollector(collector),
			mcts.WithLogger(logger.With().Int("trial", trial).Logger()),
		}
		if cfg.Search.Seed != 0 {
			opts = append(opts, mcts.WithSeed(cfg.Search.Seed+uint64(trial)))
		}

		arena := bench.NewArena(mcts.NewMCTS[gridwalk.Board](opts...), root).
			Setup(cfg.Episodes.Count, cfg.Search.Rollouts, cfg.Episodes.MaxSteps).
			WithLogger(logger.With().Int("trial", trial).Logger())
		arena.Seeds = cfg.Episodes.Seeds
		arena.Explorations = cfg.Episodes.Explorations
		return arena, nil
	}, nil
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", addr).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

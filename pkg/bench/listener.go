package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/IlikeChooros/statetree/pkg/mcts"
	"github.com/rs/zerolog"
)

// ANSI codes
const (
	ANSI_CLEAR_LINE  = "\033[2K"
	ANSI_CURSOR_HIDE = "\033[?25l"
	ANSI_CURSOR_SHOW = "\033[?25h"
)

// Receives the arena's progress. Calls come from the goroutine running the arena
type ListenerLike[S mcts.DecisionState[S]] interface {
	OnStep(info StepInfo[S])
	OnEpisode(result EpisodeResult[S])
	OnFinish(summary SummaryInfo)
}

type DefaultListener[S mcts.DecisionState[S]] struct{}

func (DefaultListener[S]) OnStep(StepInfo[S])         {}
func (DefaultListener[S]) OnEpisode(EpisodeResult[S]) {}
func (DefaultListener[S]) OnFinish(SummaryInfo)       {}

// Logs every step at trace level, episodes at info
type LogListener[S mcts.DecisionState[S]] struct {
	Log zerolog.Logger
}

func (l LogListener[S]) OnStep(info StepInfo[S]) {
	l.Log.Trace().
		Str("run_id", info.RunID.String()).
		Int("episode", info.Episode).
		Int("step", info.Step).
		Int("size", info.Size).
		Uint32("cps", info.Cps).
		Stringer("state", stringer(info.State)).
		Msg("step")
}

func (l LogListener[S]) OnEpisode(result EpisodeResult[S]) {
	l.Log.Info().
		Str("run_id", result.RunID.String()).
		Int("trial", result.Trial).
		Int("episode", result.Episode).
		Str("seed", result.Seed).
		Int("steps", result.Steps).
		Float64("reward", result.Reward).
		Bool("truncated", result.Truncated).
		Msg("episode finished")
}

func (l LogListener[S]) OnFinish(summary SummaryInfo) {
	l.Log.Info().
		Int("episodes", summary.Episodes).
		Float64("win_rate", summary.WinRate).
		Float64("mean_steps", summary.MeanSteps).
		Msg("arena finished")
}

// Rewrites a single status line on every step
type ProgressListener[S mcts.DecisionState[S]] struct {
	W        io.Writer
	Episodes int
	started  bool
}

func (p *ProgressListener[S]) OnStep(info StepInfo[S]) {
	if !p.started {
		fmt.Fprint(p.W, ANSI_CURSOR_HIDE)
		p.started = true
	}
	fmt.Fprintf(p.W, "\r%sepisode %d/%d, step %d, tree size %d, %d cps",
		ANSI_CLEAR_LINE, info.Episode+1, p.Episodes, info.Step, info.Size, info.Cps)
}

func (p *ProgressListener[S]) OnEpisode(EpisodeResult[S]) {}

func (p *ProgressListener[S]) OnFinish(SummaryInfo) {
	fmt.Fprintf(p.W, "\r%s%s", ANSI_CLEAR_LINE, ANSI_CURSOR_SHOW)
	p.started = false
}

// Calls every listener in order
type MultiListener[S mcts.DecisionState[S]] []ListenerLike[S]

func (m MultiListener[S]) OnStep(info StepInfo[S]) {
	for _, l := range m {
		l.OnStep(info)
	}
}

func (m MultiListener[S]) OnEpisode(result EpisodeResult[S]) {
	for _, l := range m {
		l.OnEpisode(result)
	}
}

func (m MultiListener[S]) OnFinish(summary SummaryInfo) {
	for _, l := range m {
		l.OnFinish(summary)
	}
}

// Serializes the calls, used when arenas run in parallel
type syncListener[S mcts.DecisionState[S]] struct {
	mu       sync.Mutex
	listener ListenerLike[S]
}

func (s *syncListener[S]) OnStep(info StepInfo[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener.OnStep(info)
}

func (s *syncListener[S]) OnEpisode(result EpisodeResult[S]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener.OnEpisode(result)
}

// Trials report their summaries through RunTrials' return value
func (s *syncListener[S]) OnFinish(SummaryInfo) {}

type valueStringer struct {
	v any
}

func (v valueStringer) String() string {
	return fmt.Sprint(v.v)
}

func stringer(v any) fmt.Stringer {
	if s, ok := v.(fmt.Stringer); ok {
		return s
	}
	return valueStringer{v}
}

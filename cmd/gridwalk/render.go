package main

import (
	"fmt"
	"io"
	"time"

	"github.com/IlikeChooros/statetree/pkg/bench"
	"github.com/IlikeChooros/statetree/pkg/gridwalk"
	"github.com/muesli/termenv"
)

// Prints the results, coloured if the output supports it
type renderer struct {
	w   io.Writer
	out *termenv.Output
}

func newRenderer(w io.Writer) *renderer {
	return &renderer{w: w, out: termenv.NewOutput(w)}
}

func (r *renderer) episodes(results []bench.EpisodeResult[gridwalk.Board]) {
	for _, res := range results {
		outcome := r.out.String("WIN").Foreground(termenv.ANSIGreen).Bold()
		switch {
		case res.Truncated:
			outcome = r.out.String("CUT").Foreground(termenv.ANSIYellow)
		case !res.Won():
			outcome = r.out.String("LOSS").Foreground(termenv.ANSIRed)
		}
		fmt.Fprintf(r.w, "%s trial %d, episode %d (%s, c=%.2f): %d steps, ended at %v, distance %.2f\n",
			outcome, res.Trial, res.Episode, res.Seed, res.Exploration,
			res.Steps, res.Final.Position, res.Final.Distance())
	}
}

func (r *renderer) summary(s bench.SummaryInfo, elapsed time.Duration) {
	title := r.out.String("Summary").Underline().Bold()
	rate := r.out.String(fmt.Sprintf("%.1f%%", 100*s.WinRate))
	if s.WinRate >= 0.5 {
		rate = rate.Foreground(termenv.ANSIGreen)
	} else {
		rate = rate.Foreground(termenv.ANSIRed)
	}

	fmt.Fprintf(r.w, "\n%s\n", title)
	fmt.Fprintf(r.w, "  trials:     %d (%d workers)\n", s.Trials, s.Workers)
	fmt.Fprintf(r.w, "  episodes:   %d, %d cut by the step limit\n", s.Episodes, s.Truncated)
	fmt.Fprintf(r.w, "  win rate:   %s\n", rate)
	fmt.Fprintf(r.w, "  steps:      %.2f ± %.2f\n", s.MeanSteps, s.StdSteps)
	fmt.Fprintf(r.w, "  reward:     %.3f\n", s.MeanReward)
	fmt.Fprintf(r.w, "  time:       %v\n", elapsed.Round(time.Millisecond))
}

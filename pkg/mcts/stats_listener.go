package mcts

type ListenerTreeStats[S DecisionState[S]] struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       int
	StopReason StopReason
	// Best successor of the searched root so far, valid if HasBest is true
	Best      S
	BestScore float64
	HasBest   bool
}

// Convert tree statistics to 'ListenerTreeStats' struct
func toListenerStats[S DecisionState[S]](tree *MCTS[S]) ListenerTreeStats[S] {
	stats := ListenerTreeStats[S]{
		Maxdepth:   tree.MaxDepth(),
		Cycles:     tree.Cycles(),
		TimeMs:     int(tree.Limiter.Elapsed()),
		Cps:        tree.Cps(),
		Size:       tree.Size(),
		StopReason: tree.Limiter.StopReason(),
	}
	best, score, ok := tree.BestChild(tree.root)
	stats.Best, stats.BestScore, stats.HasBest = best, float64(score), ok
	return stats
}

// Listener function callback, will recieve current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc[S DecisionState[S]] func(ListenerTreeStats[S])

type StatsListener[S DecisionState[S]] struct {
	// called when 'max depth' increases
	onDepth ListenerFunc[S]

	// called every N rollouts of a search
	onCycle ListenerFunc[S]
	nCycles int // call 'onCycle' every N cycles

	// called when the search stops (either by limiter or 'stop' signal)
	onStop ListenerFunc[S]
}

func NewStatsListener[S DecisionState[S]]() StatsListener[S] {
	return StatsListener[S]{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener[S]) OnDepth(onDepth ListenerFunc[S]) *StatsListener[S] {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this slows down the search,
// because the best successor is evaluated on every call
func (listener *StatsListener[S]) OnCycle(onCycle ListenerFunc[S]) *StatsListener[S] {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener[S]) invokeCycle(tree *MCTS[S]) {
	if listener.onCycle != nil && tree.Cycles()%listener.nCycles == 0 {
		listener.onCycle(toListenerStats(tree))
	}
}

func (listener *StatsListener[S]) SetCycleInterval(n int) *StatsListener[S] {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener[S]) OnStop(onStop ListenerFunc[S]) *StatsListener[S] {
	listener.onStop = onStop
	return listener
}

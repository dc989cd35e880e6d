package mcts

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

type TreeStats struct {
	maxdepth int
	cycles   int
	cps      uint32
}

type Option func(*options)

type options struct {
	explorationParam float64
	seed             uint64
	seeded           bool
	strategy         StrategyLike
	collector        Collector
	logger           zerolog.Logger
}

// Exploration parameter of the UCB1 formula, negative values are clamped to 0
func WithExplorationParam(c float64) Option {
	return func(o *options) {
		o.explorationParam = max(0, c)
	}
}

// Seed of the tree's random source, by default SeedGeneratorFn is used
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// Backpropagation strategy, UniformBackprop by default
func WithStrategy(strategy StrategyLike) Option {
	return func(o *options) {
		if strategy != nil {
			o.strategy = strategy
		}
	}
}

func WithCollector(collector Collector) Option {
	return func(o *options) {
		if collector != nil {
			o.collector = collector
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Monte Carlo tree searcher, keeping the statistics of every state it has seen.
// First rollout the tree, then choose a successor.
//
// The tables are owned by the tree and only grow: committing to a chosen state
// and searching from it reuses everything gathered so far.
// Not safe for concurrent use, apart from Stop.
type MCTS[S DecisionState[S]] struct {
	TreeStats
	Limiter          LimiterLike
	listener         *StatsListener[S]
	ucb              UCB1[S]
	selection_policy SelectionPolicy[S]
	strategy         StrategyLike
	collector        Collector
	log              zerolog.Logger
	rand             *rand.Rand
	root             S
	stats            map[S]*NodeStats
	children         map[S][]S
	path             []S
	unexplored       []S
}

// Create new, empty tree
func NewMCTS[S DecisionState[S]](opts ...Option) *MCTS[S] {
	o := options{
		explorationParam: DefaultExplorationParam,
		strategy:         UniformBackprop{},
		collector:        NoopCollector{},
		logger:           zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = SeedGeneratorFn()
	}

	mcts := &MCTS[S]{
		Limiter:   LimiterLike(NewLimiter()),
		listener:  &StatsListener[S]{nCycles: 1},
		ucb:       UCB1[S]{ExplorationParam: o.explorationParam},
		strategy:  o.strategy,
		collector: o.collector,
		log:       o.logger,
		rand:      rand.New(rand.NewSource(o.seed)),
		stats:     make(map[S]*NodeStats),
		children:  make(map[S][]S),
	}
	mcts.selection_policy = mcts.ucb.Select
	return mcts
}

func (mcts *MCTS[S]) invokeListener(f ListenerFunc[S]) {
	if f != nil {
		f(toListenerStats(mcts))
	}
}

func (mcts *MCTS[S]) ResetListener() {
	mcts.listener.OnCycle(nil).OnDepth(nil).OnStop(nil)
}

func (mcts *MCTS[S]) StatsListener() *StatsListener[S] {
	return mcts.listener
}

func (mcts *MCTS[S]) SetListener(listener StatsListener[S]) {
	*mcts.listener = listener
}

// Replace the UCB1 selection with a custom policy, nil restores UCB1
func (mcts *MCTS[S]) SetSelectionPolicy(policy SelectionPolicy[S]) {
	if policy == nil {
		policy = mcts.ucb.Select
	}
	mcts.selection_policy = policy
}

func (mcts *MCTS[S]) ExplorationParam() float64 {
	return mcts.ucb.ExplorationParam
}

// May be changed between decision points, negative values are clamped to 0
func (mcts *MCTS[S]) SetExplorationParam(c float64) {
	mcts.ucb.SetExplorationParam(c)
}

func (mcts *MCTS[S]) Strategy() StrategyLike {
	return mcts.strategy
}

// Reseed the random source used for playouts and tie-breaks
func (mcts *MCTS[S]) Seed(seed uint64) {
	mcts.rand.Seed(seed)
}

// Maximum depth of a selected leaf, since the last Search call
func (mcts *MCTS[S]) MaxDepth() int {
	return mcts.maxdepth
}

// Number of rollouts since the last Search call
func (mcts *MCTS[S]) Cycles() int {
	return mcts.cycles
}

// Get cycles per second statistic of the last search
func (mcts *MCTS[S]) Cps() uint32 {
	return mcts.cps
}

// Number of states with statistics
func (mcts *MCTS[S]) Size() int {
	return len(mcts.stats)
}

// Get the reason why the search was stopped, valid after search ends
func (mcts *MCTS[S]) StopReason() StopReason {
	return mcts.Limiter.StopReason()
}

func (mcts *MCTS[S]) SetLimits(limits *Limits) {
	mcts.Limiter.SetLimits(limits)
}

func (mcts *MCTS[S]) Limits() *Limits {
	return mcts.Limiter.Limits()
}

// Number of completed playouts that went through 'state'
func (mcts *MCTS[S]) N(state S) int32 {
	if stats, ok := mcts.stats[state]; ok {
		return stats.n
	}
	return 0
}

// Total reward credited to 'state'
func (mcts *MCTS[S]) Q(state S) Result {
	if stats, ok := mcts.stats[state]; ok {
		return Result(stats.q)
	}
	return 0
}

func (mcts *MCTS[S]) Stats(state S) NodeStats {
	if stats, ok := mcts.stats[state]; ok {
		return *stats
	}
	return NodeStats{}
}

// Whether the successors of 'state' are recorded
func (mcts *MCTS[S]) Expanded(state S) bool {
	_, ok := mcts.children[state]
	return ok
}

// Copy of the recorded successors of 'state', nil if it wasn't expanded
func (mcts *MCTS[S]) Children(state S) []S {
	children, ok := mcts.children[state]
	if !ok {
		return nil
	}
	return append(make([]S, 0, len(children)), children...)
}

// Calls 'f' for every state with statistics, in unspecified order, until 'f' returns false
func (mcts *MCTS[S]) Range(f func(state S, stats NodeStats) bool) {
	for state, stats := range mcts.stats {
		if !f(state, *stats) {
			return
		}
	}
}

func (mcts *MCTS[S]) String() string {
	return fmt.Sprintf("MCTS={Size=%d, Expanded=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d}, C=%.3f}",
		mcts.Size(), len(mcts.children), mcts.MaxDepth(), mcts.Cps(), mcts.Cycles(), mcts.ExplorationParam())
}

// Make the tree one layer better, by running a single simulated trajectory from 'root'
func (mcts *MCTS[S]) Rollout(root S) error {
	if root.Terminal() {
		return fmt.Errorf("rollout: %w", ErrTerminalState)
	}
	mcts.root = root

	path := mcts.selection(root)
	leaf := path[len(path)-1]

	result, plies, err := mcts.simulate(leaf)
	if err != nil {
		return fmt.Errorf("rollout: %w", err)
	}

	// Expansion is recorded only for finished playouts, so that every
	// expanded state has at least one visit
	mcts.expand(leaf)
	mcts.backpropagate(path, result, plies)

	mcts.cycles++
	depth := len(path) - 1
	mcts.collector.AddRollout(depth, plies)
	if depth > mcts.maxdepth {
		mcts.maxdepth = depth
		mcts.invokeListener(mcts.listener.onDepth)
	}
	return nil
}

// Choose the best successor of 'node', based on the average reward
func (mcts *MCTS[S]) Choose(node S) (S, error) {
	var zero S
	if node.Terminal() {
		return zero, fmt.Errorf("choose: %w", ErrTerminalState)
	}

	if !mcts.Expanded(node) {
		// No statistics yet
		next, err := node.RandomSuccessor(mcts.rand)
		if err != nil {
			return zero, fmt.Errorf("choose: %w", err)
		}
		mcts.collector.AddChoice(true)
		return next, nil
	}

	best, _, ok := mcts.BestChild(node)
	if !ok {
		return zero, fmt.Errorf("choose: %w", ErrNoSuccessors)
	}
	mcts.collector.AddChoice(false)
	return best, nil
}

// Return the recorded successor with the best average reward, unvisited successors
// are never preferred over visited ones. Ties are won by the first recorded successor.
// Returns false if 'node' has no recorded successors
func (mcts *MCTS[S]) BestChild(node S) (S, Result, bool) {
	var best S
	children := mcts.children[node]
	if len(children) == 0 {
		return best, Result(math.NaN()), false
	}

	best = children[0]
	bestScore := math.Inf(-1)
	for _, child := range children {
		stats, ok := mcts.stats[child]
		if !ok || stats.n == 0 {
			continue
		}
		if score := stats.q / float64(stats.n); score > bestScore {
			bestScore = score
			best = child
		}
	}

	return best, Result(bestScore), true
}

// Find an unexplored descendant of 'root', returns the path from the root to it
func (mcts *MCTS[S]) selection(root S) []S {
	path := mcts.path[:0]
	node := root

	for {
		path = append(path, node)
		children, ok := mcts.children[node]
		if !ok || len(children) == 0 {
			// node is either unexplored or terminal
			break
		}

		// Pick the unexplored one
		if child, found := mcts.pickUnexplored(children); found {
			path = append(path, child)
			break
		}

		// Descend a layer deeper
		node = mcts.selection_policy(mcts, node)
	}

	mcts.path = path
	return path
}

// Uniformly pick one of the successors that weren't expanded yet
func (mcts *MCTS[S]) pickUnexplored(children []S) (S, bool) {
	unexplored := mcts.unexplored[:0]
	for _, child := range children {
		if _, ok := mcts.children[child]; !ok {
			unexplored = append(unexplored, child)
		}
	}
	mcts.unexplored = unexplored

	var child S
	if len(unexplored) == 0 {
		return child, false
	}
	return unexplored[mcts.rand.Intn(len(unexplored))], true
}

// Record the successors of 'leaf', does nothing if it's already expanded
func (mcts *MCTS[S]) expand(leaf S) {
	if _, ok := mcts.children[leaf]; ok {
		return
	}

	successors := leaf.Successors()
	children := make([]S, 0, len(successors))
	seen := make(map[S]struct{}, len(successors))
	for _, s := range successors {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		children = append(children, s)
	}

	mcts.children[leaf] = children
	mcts.collector.AddExpansion(len(children))
	mcts.log.Trace().Int("successors", len(children)).Int("expanded", len(mcts.children)).Msg("expanded state")
}

// Play random transitions from 'node' until a terminal state is reached,
// returns its reward and the number of transitions made
func (mcts *MCTS[S]) simulate(node S) (Result, int, error) {
	plies := 0
	for !node.Terminal() {
		next, err := node.RandomSuccessor(mcts.rand)
		if err != nil {
			return 0, plies, fmt.Errorf("simulate: %w", err)
		}
		node = next
		plies++
	}

	result, err := node.Reward()
	if err != nil {
		return 0, plies, fmt.Errorf("simulate: %w", err)
	}
	if !(result >= 0 && result <= 1) {
		return 0, plies, fmt.Errorf("simulate: %w: %v", ErrInvalidReward, result)
	}
	return result, plies, nil
}

// Send the reward back up, from the leaf to the root
func (mcts *MCTS[S]) backpropagate(path []S, result Result, plies int) {
	credit := mcts.strategy.Leaf(result, plies)
	for i := len(path) - 1; i >= 0; i-- {
		stats, ok := mcts.stats[path[i]]
		if !ok {
			stats = &NodeStats{}
			mcts.stats[path[i]] = stats
		}
		stats.add(credit)
		credit = mcts.strategy.Parent(credit)
	}
}

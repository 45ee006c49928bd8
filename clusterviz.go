package clusterviz

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/clusterviz/distance"
	"github.com/hupe1980/clusterviz/internal/kmeans"
	"github.com/hupe1980/clusterviz/internal/membership"
)

// DefaultMaxIterations caps a full run when neither the Clusterer nor the
// request sets a limit.
const DefaultMaxIterations = kmeans.DefaultMaxIterations

// Convergence tolerances applied element-wise between consecutive centroid sets.
const (
	AbsoluteTolerance = kmeans.AbsoluteTolerance
	RelativeTolerance = kmeans.RelativeTolerance
)

// Strategy identifies a centroid seeding method.
type Strategy = kmeans.Strategy

const (
	StrategyRandom         = kmeans.StrategyRandom
	StrategyKMeansPlusPlus = kmeans.StrategyKMeansPlusPlus
	StrategyFarthestFirst  = kmeans.StrategyFarthestFirst
	StrategyManual         = kmeans.StrategyManual
)

// Init is a closed initialization spec built by Random, KMeansPlusPlus,
// FarthestFirst, Manual or ParseStrategy.
type Init = kmeans.Init

// Mode selects how far a run iterates.
type Mode = kmeans.Mode

const (
	ModeFull = kmeans.ModeFull
	ModeStep = kmeans.ModeStep
)

// Outcome is the terminal condition of a run.
type Outcome = kmeans.Outcome

const (
	OutcomeConverged     = kmeans.OutcomeConverged
	OutcomeMaxIterations = kmeans.OutcomeMaxIterations
	OutcomeSingleStep    = kmeans.OutcomeSingleStep
)

// History is the replayable record of one run.
type History = kmeans.History

// Random seeds with k distinct dataset points chosen uniformly without replacement.
func Random() Init { return kmeans.Random() }

// KMeansPlusPlus seeds with D² weighted sampling.
func KMeansPlusPlus() Init { return kmeans.KMeansPlusPlus() }

// FarthestFirst seeds with a farthest-first traversal.
func FarthestFirst() Init { return kmeans.FarthestFirst() }

// Manual seeds with the given centroids, used verbatim.
func Manual(centroids [][]float64) Init { return kmeans.Manual(centroids) }

// ParseStrategy maps a user-supplied strategy name to an Init.
// Unknown names fail with ErrInvalidInitializationStrategy.
func ParseStrategy(name string, manual [][]float64) (Init, error) {
	init, err := kmeans.ParseStrategy(name, manual)
	return init, translateError(err)
}

// Request describes one clustering run.
type Request struct {
	// Dataset is read, never modified.
	Dataset [][]float64
	// K is the cluster count.
	K int
	// Init selects the seeding strategy.
	Init Init
	// MaxIterations caps a full run. Zero uses the Clusterer default.
	MaxIterations int
	// Mode selects a full run or a single step.
	Mode Mode
}

// IterationStats summarizes one recorded label assignment.
type IterationStats struct {
	// ClusterSizes holds the member count of each cluster.
	ClusterSizes []int
	// EmptyClusters lists clusters without members. Their centroids kept
	// their previous position.
	EmptyClusters []int
	// Reassigned counts points whose cluster changed since the previous
	// recorded assignment. Always zero for the first one.
	Reassigned int
	// Inertia is the sum of squared distances from each point to the
	// centroid its cluster moved to in the same iteration.
	Inertia float64
}

// Result is a completed run.
type Result struct {
	History
	// Stats holds one entry per Labels entry.
	Stats []IterationStats
	// Duration is the wall time of the run.
	Duration time.Duration
}

// Clusterer runs k-means requests. It is safe for concurrent use; each run
// draws its own random stream from the Clusterer's source.
type Clusterer struct {
	opts options

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Clusterer.
func New(optFns ...Option) *Clusterer {
	opts := options{
		maxIterations:    DefaultMaxIterations,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.metricsCollector == nil {
		opts.metricsCollector = NoopMetricsCollector{}
	}
	if opts.logger == nil {
		opts.logger = NoopLogger()
	}

	rng := opts.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Clusterer{
		opts: opts,
		rng:  rng,
	}
}

// forkRand returns a generator seeded from the Clusterer's source.
func (c *Clusterer) forkRand() *rand.Rand {
	c.mu.Lock()
	defer c.mu.Unlock()
	return rand.New(rand.NewSource(c.rng.Int63()))
}

// Initialize produces the starting centroid set for dataset without iterating.
func (c *Clusterer) Initialize(ctx context.Context, dataset [][]float64, k int, init Init) ([][]float64, error) {
	start := time.Now()

	centroids, err := kmeans.Initialize(c.forkRand(), dataset, k, init)
	err = translateError(err)

	c.opts.metricsCollector.RecordInitialize(init.Strategy(), k, time.Since(start), err)
	c.opts.logger.LogInitialize(ctx, init.Strategy(), k, err)

	if err != nil {
		return nil, err
	}
	return centroids, nil
}

// Run seeds and iterates per req. Either a complete Result or an error is returned.
func (c *Clusterer) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()

	res, err := c.run(ctx, req)
	if res != nil {
		res.Duration = time.Since(start)
	}

	var (
		iterations int
		outcome    Outcome
	)
	if res != nil {
		iterations, outcome = res.Iterations, res.Outcome
	}
	c.opts.metricsCollector.RecordRun(req.Init.Strategy(), req.K, iterations, outcome, time.Since(start), err)
	c.opts.logger.LogRun(ctx, req.Init.Strategy(), req.Mode, req.K, res, err)

	return res, err
}

func (c *Clusterer) run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	maxIter := req.MaxIterations
	if maxIter == 0 {
		maxIter = c.opts.maxIterations
	}

	e, err := kmeans.New(req.Dataset, req.K, req.Init, maxIter, c.forkRand())
	if err != nil {
		return nil, translateError(err)
	}
	c.opts.logger.WithK(e.K()).WithDimension(e.Dimension()).WithCount(e.Len()).
		DebugContext(ctx, "run started", "strategy", req.Init.String(), "mode", req.Mode.String(), "max_iterations", maxIter)

	h, err := e.Run(req.Mode)
	if err != nil {
		return nil, translateError(err)
	}

	return &Result{
		History: *h,
		Stats:   Summarize(req.Dataset, h),
	}, nil
}

// Summarize derives per-iteration statistics from a history over dataset.
//
// Labels[i] pairs with Centroids[len(Centroids)-len(Labels)+i], the set its
// iteration produced, which holds for both full and step histories.
func Summarize(dataset [][]float64, h *History) []IterationStats {
	if len(h.Labels) == 0 {
		return nil
	}

	offset := len(h.Centroids) - len(h.Labels)
	stats := make([]IterationStats, len(h.Labels))

	var prev *membership.Partition
	for i, labels := range h.Labels {
		centroids := h.Centroids[offset+i]
		part := membership.FromLabels(labels, len(centroids))

		s := IterationStats{
			ClusterSizes:  part.Sizes(),
			EmptyClusters: part.Empty(),
		}
		if prev != nil {
			s.Reassigned = part.Moved(prev)
			prev.Release()
		}
		for c := range part.K() {
			for j := range part.Members(c) {
				s.Inertia += distance.SquaredEuclidean(dataset[j], centroids[c])
			}
		}

		stats[i] = s
		prev = part
	}
	prev.Release()

	return stats
}

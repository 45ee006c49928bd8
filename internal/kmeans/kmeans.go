package kmeans

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/hupe1980/clusterviz/distance"
)

// DefaultMaxIterations caps a full run when the caller does not choose a limit.
const DefaultMaxIterations = 100

// Mode selects how far Run iterates.
type Mode int

const (
	// ModeFull iterates until convergence or the iteration cap.
	ModeFull Mode = iota
	// ModeStep runs a single iteration and keeps only its snapshot.
	ModeStep
)

func (m Mode) String() string {
	switch m {
	case ModeFull:
		return "full"
	case ModeStep:
		return "step"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Outcome is the terminal condition of a run.
type Outcome int

const (
	// OutcomeConverged means two consecutive centroid sets were AllClose.
	OutcomeConverged Outcome = iota
	// OutcomeMaxIterations means the iteration cap was hit first.
	OutcomeMaxIterations
	// OutcomeSingleStep means a step-mode run finished its iteration without converging.
	OutcomeSingleStep
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConverged:
		return "converged"
	case OutcomeMaxIterations:
		return "max_iterations"
	case OutcomeSingleStep:
		return "single_step"
	default:
		return fmt.Sprintf("Unknown(%d)", int(o))
	}
}

// History is the replayable record of one run.
//
// Centroids holds the initial set followed by one set per iteration;
// Labels holds one assignment per iteration. In step mode both collapse
// to the most recent entry.
type History struct {
	Centroids  [][][]float64
	Labels     [][]int
	Outcome    Outcome
	Iterations int // iterations executed, including a collapsed step
}

// Engine runs Lloyd's algorithm over a private copy of a dataset.
// An Engine is not safe for concurrent use.
type Engine struct {
	data          [][]float64
	k             int
	init          Init
	maxIterations int
	rng           *rand.Rand
}

// New validates the configuration and copies the dataset.
// A nil rng is replaced by a time-seeded source.
func New(dataset [][]float64, k int, init Init, maxIterations int, rng *rand.Rand) (*Engine, error) {
	if err := validate(dataset, k, init); err != nil {
		return nil, err
	}
	if maxIterations < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMaxIterations, maxIterations)
	}
	if rng == nil {
		rng = newRand()
	}
	return &Engine{
		data:          copyDataset(dataset),
		k:             k,
		init:          init,
		maxIterations: maxIterations,
		rng:           rng,
	}, nil
}

// K returns the cluster count.
func (e *Engine) K() int { return e.k }

// Dimension returns the point dimension.
func (e *Engine) Dimension() int { return len(e.data[0]) }

// Len returns the number of dataset points.
func (e *Engine) Len() int { return len(e.data) }

// Run seeds the centroids and iterates according to mode.
// On error no history is returned.
func (e *Engine) Run(mode Mode) (*History, error) {
	centroids, err := initialize(e.rng, e.data, e.k, e.init)
	if err != nil {
		return nil, err
	}

	h := &History{
		Centroids: [][][]float64{clonePoints(centroids)},
	}

	for iter := 0; iter < e.maxIterations; iter++ {
		labels := assign(e.data, centroids)
		h.Labels = append(h.Labels, labels)

		next := update(e.data, labels, centroids)
		h.Centroids = append(h.Centroids, next)
		h.Iterations++

		converged := AllClose(next, centroids)
		centroids = next

		if mode == ModeStep {
			// Only the stepped centroids are kept, even when this step converged.
			h.Centroids = [][][]float64{next}
			h.Labels = [][]int{labels}
			h.Outcome = OutcomeSingleStep
			if converged {
				h.Outcome = OutcomeConverged
			}
			return h, nil
		}
		if converged {
			h.Outcome = OutcomeConverged
			return h, nil
		}
	}

	h.Outcome = OutcomeMaxIterations
	return h, nil
}

// assign labels each point with the index of its nearest centroid.
func assign(data, centroids [][]float64) []int {
	labels := make([]int, len(data))
	for i, p := range data {
		labels[i], _ = distance.Nearest(p, centroids)
	}
	return labels
}

// update recomputes each centroid as the mean of its members.
// A cluster without members keeps its previous centroid.
func update(data [][]float64, labels []int, prev [][]float64) [][]float64 {
	members := make([][][]float64, len(prev))
	for i, l := range labels {
		members[l] = append(members[l], data[i])
	}

	next := make([][]float64, len(prev))
	for j := range prev {
		if len(members[j]) == 0 {
			next[j] = clonePoint(prev[j])
			continue
		}
		next[j] = distance.Mean(members[j])
	}
	return next
}

func validate(dataset [][]float64, k int, init Init) error {
	if len(dataset) == 0 {
		return ErrEmptyDataset
	}
	dim := len(dataset[0])
	if dim == 0 {
		return fmt.Errorf("kmeans: %w", &ErrDimensionMismatch{Expected: 1, Actual: 0})
	}
	for _, p := range dataset {
		if len(p) != dim {
			return fmt.Errorf("kmeans: dataset point: %w", &ErrDimensionMismatch{Expected: dim, Actual: len(p)})
		}
	}
	if k < 1 {
		return fmt.Errorf("%w: k=%d", ErrInvalidClusterCount, k)
	}

	switch init.strategy {
	case StrategyManual:
		if len(init.centroids) != k {
			return fmt.Errorf("%w: got %d centroids for k=%d", ErrInvalidCentroidCount, len(init.centroids), k)
		}
		for _, c := range init.centroids {
			if len(c) != dim {
				return fmt.Errorf("kmeans: manual centroid: %w", &ErrDimensionMismatch{Expected: dim, Actual: len(c)})
			}
		}
	case StrategyRandom, StrategyKMeansPlusPlus, StrategyFarthestFirst:
		if k > len(dataset) {
			return fmt.Errorf("%w: k=%d exceeds %d points", ErrInvalidClusterCount, k, len(dataset))
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInitializationStrategy, init.strategy)
	}
	return nil
}

// copyDataset copies points into a single backing array.
func copyDataset(dataset [][]float64) [][]float64 {
	dim := len(dataset[0])
	backing := make([]float64, len(dataset)*dim)
	out := make([][]float64, len(dataset))
	for i, p := range dataset {
		row := backing[i*dim : (i+1)*dim : (i+1)*dim]
		copy(row, p)
		out[i] = row
	}
	return out
}

func clonePoint(p []float64) []float64 {
	return append([]float64(nil), p...)
}

func clonePoints(points [][]float64) [][]float64 {
	if points == nil {
		return nil
	}
	out := make([][]float64, len(points))
	for i, p := range points {
		out[i] = clonePoint(p)
	}
	return out
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

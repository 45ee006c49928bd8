package kmeans

import (
	"fmt"
	"strings"
)

// Strategy identifies a centroid seeding method.
type Strategy int

const (
	StrategyRandom Strategy = iota
	StrategyKMeansPlusPlus
	StrategyFarthestFirst
	StrategyManual
)

func (s Strategy) String() string {
	switch s {
	case StrategyRandom:
		return "random"
	case StrategyKMeansPlusPlus:
		return "k-means++"
	case StrategyFarthestFirst:
		return "farthest"
	case StrategyManual:
		return "manual"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// Init is a closed initialization spec. Only the constructors below produce
// valid values; the zero value is Random.
type Init struct {
	strategy  Strategy
	centroids [][]float64
}

// Random seeds with k distinct dataset points chosen uniformly without replacement.
func Random() Init { return Init{strategy: StrategyRandom} }

// KMeansPlusPlus seeds with D² weighted sampling.
func KMeansPlusPlus() Init { return Init{strategy: StrategyKMeansPlusPlus} }

// FarthestFirst seeds with a farthest-first traversal.
func FarthestFirst() Init { return Init{strategy: StrategyFarthestFirst} }

// Manual seeds with the given centroids, used verbatim. The points are copied.
func Manual(centroids [][]float64) Init {
	return Init{strategy: StrategyManual, centroids: clonePoints(centroids)}
}

// Strategy returns the seeding method.
func (i Init) Strategy() Strategy { return i.strategy }

// Centroids returns a copy of the manual centroids (nil for other strategies).
func (i Init) Centroids() [][]float64 { return clonePoints(i.centroids) }

func (i Init) String() string { return i.strategy.String() }

// ParseStrategy maps a strategy name to an Init. Names are case-insensitive:
// "random", "k-means++", "farthest" (or "farthest-first") and "manual".
// manual is only consulted for the manual strategy.
func ParseStrategy(name string, manual [][]float64) (Init, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return Random(), nil
	case "k-means++", "kmeans++":
		return KMeansPlusPlus(), nil
	case "farthest", "farthest-first":
		return FarthestFirst(), nil
	case "manual":
		return Manual(manual), nil
	default:
		return Init{}, fmt.Errorf("%w: %q", ErrInvalidInitializationStrategy, name)
	}
}

package kmeans

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInitializationStrategy is returned for an unrecognized strategy name.
	ErrInvalidInitializationStrategy = errors.New("invalid initialization strategy")

	// ErrInvalidCentroidCount is returned when a manual centroid list does not hold exactly k points.
	ErrInvalidCentroidCount = errors.New("invalid centroid count")

	// ErrInvalidClusterCount is returned when k < 1, or k > n for a sampling strategy.
	ErrInvalidClusterCount = errors.New("invalid cluster count")

	// ErrEmptyDataset is returned when the dataset holds no points.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInvalidMaxIterations is returned when the iteration cap is below one.
	ErrInvalidMaxIterations = errors.New("max iterations must be positive")

	// ErrDegenerateSeeding is returned by k-means++ when every remaining point
	// coincides with an already chosen centroid.
	ErrDegenerateSeeding = errors.New("degenerate k-means++ distribution: all distances are zero")
)

// ErrDimensionMismatch indicates a point whose dimension differs from the dataset's.
type ErrDimensionMismatch struct {
	Expected int // Expected dimension
	Actual   int // Actual dimension
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

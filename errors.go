package clusterviz

import (
	"errors"
	"fmt"

	"github.com/hupe1980/clusterviz/internal/kmeans"
)

var (
	// ErrInvalidInitializationStrategy is returned for an unrecognized strategy name.
	ErrInvalidInitializationStrategy = errors.New("invalid initialization strategy")

	// ErrInvalidCentroidCount is returned when a manual centroid list does not hold exactly k points.
	ErrInvalidCentroidCount = errors.New("invalid centroid count")

	// ErrInvalidClusterCount is returned when k < 1, or k exceeds the number of points
	// for a sampling strategy.
	ErrInvalidClusterCount = errors.New("invalid cluster count")

	// ErrEmptyDataset is returned when a run is requested with zero points.
	ErrEmptyDataset = errors.New("empty dataset")

	// ErrInvalidMaxIterations is returned when the iteration cap is below one.
	ErrInvalidMaxIterations = errors.New("max iterations must be positive")

	// ErrDegenerateSeeding is returned when k-means++ cannot find a point
	// away from the centroids chosen so far.
	ErrDegenerateSeeding = errors.New("degenerate k-means++ seeding")
)

// ErrDimensionMismatch indicates a point whose dimension differs from the dataset's.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }

// IsRequestError reports whether err was caused by invalid caller input,
// as opposed to an internal failure.
func IsRequestError(err error) bool {
	var dm *ErrDimensionMismatch
	return errors.Is(err, ErrInvalidInitializationStrategy) ||
		errors.Is(err, ErrInvalidCentroidCount) ||
		errors.Is(err, ErrInvalidClusterCount) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrInvalidMaxIterations) ||
		errors.Is(err, ErrDegenerateSeeding) ||
		errors.As(err, &dm)
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var dm *kmeans.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return &ErrDimensionMismatch{Expected: dm.Expected, Actual: dm.Actual, cause: err}
	}

	switch {
	case errors.Is(err, kmeans.ErrInvalidInitializationStrategy):
		return fmt.Errorf("%w: %w", ErrInvalidInitializationStrategy, err)
	case errors.Is(err, kmeans.ErrInvalidCentroidCount):
		return fmt.Errorf("%w: %w", ErrInvalidCentroidCount, err)
	case errors.Is(err, kmeans.ErrInvalidClusterCount):
		return fmt.Errorf("%w: %w", ErrInvalidClusterCount, err)
	case errors.Is(err, kmeans.ErrEmptyDataset):
		return fmt.Errorf("%w: %w", ErrEmptyDataset, err)
	case errors.Is(err, kmeans.ErrInvalidMaxIterations):
		return fmt.Errorf("%w: %w", ErrInvalidMaxIterations, err)
	case errors.Is(err, kmeans.ErrDegenerateSeeding):
		return fmt.Errorf("%w: %w", ErrDegenerateSeeding, err)
	}

	return err
}

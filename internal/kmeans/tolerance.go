package kmeans

import "math"

// Convergence tolerances, pinned so runs are reproducible across implementations.
const (
	AbsoluteTolerance = 1e-8
	RelativeTolerance = 1e-5
)

// AllClose reports whether every coordinate of next is within
// AbsoluteTolerance + RelativeTolerance*|prev| of the matching coordinate of prev.
// Sets of different shapes are never close.
func AllClose(next, prev [][]float64) bool {
	if len(next) != len(prev) {
		return false
	}
	for i := range next {
		if len(next[i]) != len(prev[i]) {
			return false
		}
		for j, v := range next[i] {
			old := prev[i][j]
			if !(math.Abs(v-old) <= AbsoluteTolerance+RelativeTolerance*math.Abs(old)) {
				return false
			}
		}
	}
	return true
}

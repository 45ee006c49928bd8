// Package clusterviz provides interactive k-means clustering for visualization.
//
// A Clusterer seeds centroids with one of four strategies and runs Lloyd's
// algorithm, returning the full history of centroid sets and label
// assignments so a client can animate the run.
//
// # Quick Start
//
//	c := clusterviz.New(clusterviz.WithSeed(42))
//	res, err := c.Run(ctx, clusterviz.Request{
//	    Dataset: points,                 // [][]float64, all the same dimension
//	    K:       3,
//	    Init:    clusterviz.KMeansPlusPlus(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Outcome, len(res.Centroids), len(res.Labels))
//
// # Strategies
//
//   - Random: k distinct dataset points chosen uniformly
//   - KMeansPlusPlus: D² weighted seeding
//   - FarthestFirst: greedy farthest-point traversal
//   - Manual: caller-supplied centroids used verbatim
//
// Strategy names from user input are parsed with ParseStrategy.
//
// # Modes
//
// ModeFull iterates until the centroids stop moving (within
// AbsoluteTolerance/RelativeTolerance) or the iteration cap is reached.
// ModeStep runs exactly one iteration and keeps only its snapshot, which is
// what a client needs to draw a single animation frame.
//
// # History Shape
//
// For a full run of t iterations, Centroids holds t+1 sets (the initial one
// first) and Labels holds t assignments. Every set has exactly k centroids and
// every assignment has exactly one label per point. A cluster that receives no
// points keeps its previous centroid.
//
// # Observability
//
// Plug in structured logging with WithLogger and operation metrics with
// WithMetricsCollector.
package clusterviz

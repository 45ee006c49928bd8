// Package kmeans implements the interactive k-means clustering engine.
//
// An Engine runs Lloyd's algorithm over a copied dataset and records the full
// history of centroid sets and label assignments so callers can replay the
// run step by step. Four seeding strategies are supported: random,
// k-means++, farthest-first traversal and caller-supplied (manual) centroids.
//
// The package holds no global state and performs no I/O. Randomness comes
// only from the *rand.Rand handed to New or Initialize.
package kmeans

// Package membership tracks which dataset points belong to which cluster.
//
// A Partition stores one Roaring bitmap per cluster, built from a label
// assignment. Partitions answer size, membership and reassignment queries
// without rescanning the labels.
package membership

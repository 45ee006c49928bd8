// Package resource provides admission control for the clustering service.
//
// A Controller bounds three things: the memory held by session datasets,
// the number of clustering runs executing at once, and the rate of incoming
// requests.
package resource

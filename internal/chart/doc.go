// Package chart renders datasets and clustering results as interactive
// go-echarts scatter plots.
package chart

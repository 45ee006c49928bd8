package chart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var points = [][]float64{{-1, -1}, {-1.5, -0.5}, {4, 4}, {5, 3}}

func TestRender_Dataset(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Plot{
		Title:  "Generated Data",
		Points: points,
		Min:    []float64{-10, -10},
		Max:    []float64{10, 10},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Generated Data")
	assert.Contains(t, out, "points")
}

func TestRender_Clusters(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Plot{
		Title:     "K-Means",
		Points:    points,
		Labels:    []int{0, 0, 1, 1},
		Centroids: [][]float64{{-1.25, -0.75}, {4.5, 3.5}},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Cluster 0")
	assert.Contains(t, out, "Cluster 1")
	assert.Contains(t, out, "centroids")
}

func TestBuild_GroupsByLabel(t *testing.T) {
	s, err := build(Plot{Points: points, Labels: []int{1, 1, 1, 0}})
	require.NoError(t, err)

	require.Len(t, s.MultiSeries, 2)
	assert.Len(t, s.MultiSeries[0].Data, 1)
	assert.Len(t, s.MultiSeries[1].Data, 3)
}

func TestBuild_CentroidSeriesStyle(t *testing.T) {
	s, err := build(Plot{
		Title:     "K-Means",
		Points:    points,
		Labels:    []int{0, 0, 1, 1},
		Centroids: [][]float64{{-1.25, -0.75}, {4.5, 3.5}},
	})
	require.NoError(t, err)

	assert.True(t, s.Tooltip.Show)
	assert.True(t, s.Legend.Show)

	require.Len(t, s.MultiSeries, 3)
	for _, cluster := range s.MultiSeries[:2] {
		assert.Nil(t, cluster.ItemStyle, cluster.Name)
	}

	centroids := s.MultiSeries[2]
	assert.Equal(t, "centroids", centroids.Name)
	require.NotNil(t, centroids.ItemStyle)
	assert.Equal(t, "black", centroids.ItemStyle.Color)
	require.NotNil(t, centroids.Label)
	assert.False(t, centroids.Label.Show)
	assert.Len(t, centroids.Data, 2)
}

func TestRender_LabelMismatch(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Plot{Points: points, Labels: []int{0}})
	assert.ErrorIs(t, err, ErrLabelCount)
}

func TestScatterPoint_OneDimensional(t *testing.T) {
	assert.Equal(t, []interface{}{3.0, 0.0}, scatterPoint([]float64{3}).Value)
}

package chart

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// ErrLabelCount is returned when labels do not cover every point.
var ErrLabelCount = errors.New("chart: label count does not match point count")

// Plot is the content of one scatter chart. Only the first two coordinates
// of each point are drawn; one-dimensional points are placed on y = 0.
type Plot struct {
	Title string
	// Points is the dataset.
	Points [][]float64
	// Labels assigns each point to a cluster. Nil draws a single series.
	Labels []int
	// Centroids are drawn as a separate series when non-empty.
	Centroids [][]float64
	// Min and Max fix the axis ranges when both have two entries.
	Min, Max []float64
}

// Render writes p as a standalone HTML page.
func Render(w io.Writer, p Plot) error {
	scatter, err := build(p)
	if err != nil {
		return err
	}
	return scatter.Render(w)
}

func build(p Plot) (*charts.Scatter, error) {
	if p.Labels != nil && len(p.Labels) != len(p.Points) {
		return nil, fmt.Errorf("%w: %d labels for %d points", ErrLabelCount, len(p.Labels), len(p.Points))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: p.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithLegendOpts(opts.Legend{Show: true, Bottom: "0"}),
	)
	if len(p.Min) >= 2 && len(p.Max) >= 2 {
		scatter.SetGlobalOptions(
			charts.WithXAxisOpts(opts.XAxis{Min: p.Min[0], Max: p.Max[0]}),
			charts.WithYAxisOpts(opts.YAxis{Min: p.Min[1], Max: p.Max[1]}),
		)
	}

	if p.Labels == nil {
		scatter.AddSeries("points", toScatterData(p.Points))
	} else {
		k := 0
		for _, l := range p.Labels {
			k = max(k, l+1)
		}
		groups := make([][]opts.ScatterData, k)
		for i, point := range p.Points {
			groups[p.Labels[i]] = append(groups[p.Labels[i]], scatterPoint(point))
		}
		for c, data := range groups {
			scatter.AddSeries(fmt.Sprintf("Cluster %d", c), data)
		}
	}

	if len(p.Centroids) > 0 {
		// Options go on AddSeries; SetSeriesOptions would restyle every series.
		scatter.AddSeries("centroids", toScatterData(p.Centroids),
			charts.WithLabelOpts(opts.Label{Show: false, Position: "top"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "black"}),
		)
	}

	return scatter, nil
}

func toScatterData(points [][]float64) []opts.ScatterData {
	out := make([]opts.ScatterData, len(points))
	for i, p := range points {
		out[i] = scatterPoint(p)
	}
	return out
}

func scatterPoint(p []float64) opts.ScatterData {
	var x, y float64
	if len(p) > 0 {
		x = p[0]
	}
	if len(p) > 1 {
		y = p[1]
	}
	return opts.ScatterData{Value: []interface{}{x, y}}
}

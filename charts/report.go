// Package charts renders a static html report of a solve: the value function as
// a heatmap over the board, plus convergence over sweeps and over an episode.
package charts

import (
	"fmt"
	"io"
	"math"

	"gridmdp/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Render writes a page for the final snapshot of an episode. sweeps holds the
// number of sweeps each decision of the episode took.
func Render(w io.Writer, snap models.Snapshot, sweeps []int) error {
	if snap.Grid == nil {
		return fmt.Errorf("render: snapshot has no grid")
	}

	page := components.NewPage()
	page.AddCharts(
		valueHeatMap(snap),
		residualLine(snap.Residuals),
		sweepsLine(sweeps),
	)
	return page.Render(w)
}

func valueHeatMap(snap models.Snapshot) *charts.HeatMap {
	grid := snap.Grid
	cols := make([]string, grid.Width())
	for x := range cols {
		cols[x] = fmt.Sprint(x)
	}
	rows := make([]string, grid.Height())
	for y := range rows {
		rows[y] = fmt.Sprint(y)
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	items := make([]opts.HeatMapData, 0, len(snap.Values))
	for _, c := range grid.Traversable() {
		v := snap.Values[c]
		lo, hi = math.Min(lo, v), math.Max(hi, v)
		items = append(items, opts.HeatMapData{
			Name:  c.String(),
			Value: [3]interface{}{c.X, c.Y, math.Round(v*1000) / 1000},
		})
	}
	if len(items) == 0 {
		lo, hi = 0, 0
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Value function",
			Subtitle: fmt.Sprintf("step %d, agent %v, action %v", snap.Step, snap.Agent, snap.Action),
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: cols}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: rows}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Min: float32(lo),
			Max: float32(hi),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#313695", "#ffffbf", "#a50026"},
			},
		}),
	)
	hm.SetXAxis(cols).AddSeries("value", items)
	return hm
}

func residualLine(residuals []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Residual per sweep"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	xs := make([]string, len(residuals))
	items := make([]opts.LineData, len(residuals))
	for i, r := range residuals {
		xs[i] = fmt.Sprint(i + 1)
		items[i] = opts.LineData{Value: r}
	}
	line.SetXAxis(xs).AddSeries("max |dV|", items)
	return line
}

func sweepsLine(sweeps []int) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Sweeps per decision"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)

	xs := make([]string, len(sweeps))
	items := make([]opts.LineData, len(sweeps))
	for i, n := range sweeps {
		xs[i] = fmt.Sprint(i)
		items[i] = opts.LineData{Value: n}
	}
	line.SetXAxis(xs).AddSeries("sweeps", items)
	return line
}

// Package render draws report results as SVG charts and HTML pages.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"math"
	"time"

	"github.com/naka-gawa/repo-metrics/internal/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 1024
	chartHeight = 512
	barWidth    = 40
	barSpacing  = 24
)

var (
	// ErrNoData is returned for results without any data point.
	ErrNoData = errors.New("result has no data to chart")
	// ErrNoChart is returned for textual results.
	ErrNoChart = errors.New("result is not a chart")
)

var (
	colorAdditions = drawing.ColorFromHex("2ca02c")
	colorDeletions = drawing.ColorFromHex("d62728")
	colorLine      = drawing.ColorFromHex("1f77b4")
)

// bucketLabels are the display names of partition buckets.
var bucketLabels = map[string]string{
	"open":            "Open",
	"closed":          "Closed",
	"closed_unmerged": "Closed (Not Merged)",
	"merged":          "Merged",
}

// SVG draws a result as an SVG document.
func SVG(res *domain.Result) ([]byte, error) {
	if res.Kind == domain.ChartText {
		return nil, ErrNoChart
	}
	if res.Empty() {
		return nil, ErrNoData
	}

	var buf bytes.Buffer
	var err error
	switch res.Kind {
	case domain.ChartLine:
		err = lineChart(res).Render(chart.SVG, &buf)
	case domain.ChartArea:
		err = areaChart(res).Render(chart.SVG, &buf)
	case domain.ChartBar:
		err = barChart(res).Render(chart.SVG, &buf)
	case domain.ChartStackedBar:
		err = stackedBarChart(res).Render(chart.SVG, &buf)
	case domain.ChartPie:
		var pie chart.PieChart
		if pie, err = pieChart(res); err == nil {
			err = pie.Render(chart.SVG, &buf)
		}
	default:
		return nil, fmt.Errorf("unsupported chart kind %q", res.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", res.Name, err)
	}
	return buf.Bytes(), nil
}

// lineChart draws the running total of a timeline.
func lineChart(res *domain.Result) chart.Chart {
	xs := make([]time.Time, len(res.Timeline))
	ys := make([]float64, len(res.Timeline))
	for i, b := range res.Timeline {
		xs[i] = b.Key
		ys[i] = float64(b.Total)
	}
	graph := timeChart(res, xs, ys)
	graph.Series = []chart.Series{
		chart.TimeSeries{
			Name:    res.YLabel,
			Style:   chart.Style{StrokeColor: colorLine, StrokeWidth: 2},
			XValues: xs,
			YValues: ys,
		},
	}
	return graph
}

// areaChart draws additions above and deletions below the axis.
func areaChart(res *domain.Result) chart.Chart {
	var allX []time.Time
	var allY []float64
	var series []chart.Series
	for _, col := range res.Columns {
		points := res.Series[col]
		xs := make([]time.Time, len(points))
		ys := make([]float64, len(points))
		for i, p := range points {
			xs[i] = p.Time
			ys[i] = float64(p.Value)
		}
		allX = append(allX, xs...)
		allY = append(allY, ys...)

		color := colorAdditions
		if col == "deletions" {
			color = colorDeletions
		}
		series = append(series, chart.TimeSeries{
			Name:    col,
			Style:   chart.Style{StrokeColor: color, FillColor: color.WithAlpha(128)},
			XValues: xs,
			YValues: ys,
		})
	}
	graph := timeChart(res, allX, allY)
	graph.Series = series
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph
}

// timeChart sets up axes for time series. go-chart refuses zero-width ranges,
// so a single timestamp or a flat series gets padded explicit ranges.
func timeChart(res *domain.Result, xs []time.Time, ys []float64) chart.Chart {
	graph := chart.Chart{
		Title:  res.Title,
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: res.XLabel, ValueFormatter: chart.TimeDateValueFormatter},
		YAxis: chart.YAxis{Name: res.YLabel},
	}

	minX, maxX := xs[0], xs[0]
	for _, x := range xs {
		if x.Before(minX) {
			minX = x
		}
		if x.After(maxX) {
			maxX = x
		}
	}
	if minX.Equal(maxX) {
		graph.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(minX.Add(-24 * time.Hour)),
			Max: chart.TimeToFloat64(maxX.Add(24 * time.Hour)),
		}
	}

	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, y := range ys {
		minY = math.Min(minY, y)
		maxY = math.Max(maxY, y)
	}
	if minY == maxY {
		graph.YAxis.Range = &chart.ContinuousRange{Min: math.Min(0, minY) - 1, Max: math.Max(0, maxY) + 1}
	}
	return graph
}

func barChart(res *domain.Result) chart.BarChart {
	bars := make([]chart.Value, len(res.Entries))
	maxV := 0.0
	for i, e := range res.Entries {
		bars[i] = chart.Value{Label: entryLabel(e.Key), Value: float64(e.Value)}
		maxV = math.Max(maxV, float64(e.Value))
	}
	if maxV == 0 {
		maxV = 1
	}
	return chart.BarChart{
		Title:    res.Title,
		Width:    max(chartWidth/2, len(bars)*(barWidth+barSpacing)+120),
		Height:   chartHeight,
		BarWidth: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 50},
		},
		YAxis: chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: maxV}},
		Bars:  bars,
	}
}

// stackedBarChart draws one bar per key with one segment per column. Values
// are drawn as magnitudes.
func stackedBarChart(res *domain.Result) chart.StackedBarChart {
	bars := make([]chart.StackedBar, 0, len(res.Stacks))
	for _, s := range res.Stacks {
		values := make([]chart.Value, 0, len(s.Values))
		for c, v := range s.Values {
			color := colorAdditions
			if c < len(res.Columns) && res.Columns[c] == "deletions" {
				color = colorDeletions
			}
			values = append(values, chart.Value{
				Label: html.EscapeString(columnLabel(res, c)),
				Value: math.Abs(float64(v)),
				Style: chart.Style{FillColor: color, StrokeColor: color},
			})
		}
		bars = append(bars, chart.StackedBar{Name: html.EscapeString(s.Key), Values: values})
	}
	return chart.StackedBarChart{
		Title:      res.Title,
		Width:      max(chartWidth/2, len(bars)*(50+barSpacing)+120),
		Height:     chartHeight,
		BarSpacing: barSpacing,
		Background: chart.Style{
			Padding: chart.Box{Top: 50},
		},
		Bars: bars,
	}
}

// entryLabel is the display label of an aggregate key. go-chart writes labels
// into the SVG verbatim, so keys such as author names are escaped here.
func entryLabel(key string) string {
	if l, ok := bucketLabels[key]; ok {
		return l
	}
	return html.EscapeString(key)
}

func columnLabel(res *domain.Result, c int) string {
	if c < len(res.Columns) {
		return res.Columns[c]
	}
	return fmt.Sprintf("column %d", c)
}

// pieChart draws positive entries only; a pie of zeros has no slices.
func pieChart(res *domain.Result) (chart.PieChart, error) {
	values := make([]chart.Value, 0, len(res.Entries))
	for _, e := range res.Entries {
		if e.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{Label: html.EscapeString(e.Key), Value: float64(e.Value)})
	}
	if len(values) == 0 {
		return chart.PieChart{}, ErrNoData
	}
	return chart.PieChart{
		Title:  res.Title,
		Width:  chartHeight,
		Height: chartHeight,
		Values: values,
	}, nil
}

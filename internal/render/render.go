// Package render draws chart series produced by core.BuildSeries.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"healthlog/internal/core"
)

// SeriesRenderer draws one metric's ordered labels and values. A nil value
// marks a date without data.
type SeriesRenderer interface {
	RenderSeries(w io.Writer, labels []string, values []*float64, metric core.Metric) error
}

// Render is a convenience wrapper that feeds a core.Series to r.
func Render(w io.Writer, r SeriesRenderer, s core.Series) error {
	return r.RenderSeries(w, s.Labels, s.Values, s.Metric)
}

// JSONRenderer emits the payload consumed by the browser chart.
type JSONRenderer struct{}

type jsonSeries struct {
	Metric core.Metric `json:"metric"`
	Unit   string      `json:"unit"`
	Labels []string    `json:"labels"`
	Values []*float64  `json:"values"`
}

func (JSONRenderer) RenderSeries(w io.Writer, labels []string, values []*float64, metric core.Metric) error {
	if len(labels) != len(values) {
		return fmt.Errorf("series length mismatch: %d labels, %d values", len(labels), len(values))
	}
	if labels == nil {
		labels = []string{}
	}
	if values == nil {
		values = []*float64{}
	}
	return json.NewEncoder(w).Encode(jsonSeries{
		Metric: metric,
		Unit:   Unit(metric),
		Labels: labels,
		Values: values,
	})
}

// TextRenderer draws horizontal bars scaled between the series min and max.
type TextRenderer struct {
	Width int
}

func (t TextRenderer) RenderSeries(w io.Writer, labels []string, values []*float64, metric core.Metric) error {
	if len(labels) != len(values) {
		return fmt.Errorf("series length mismatch: %d labels, %d values", len(labels), len(values))
	}
	width := t.Width
	if width <= 0 {
		width = 40
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if v == nil {
			continue
		}
		lo = math.Min(lo, *v)
		hi = math.Max(hi, *v)
	}

	if _, err := fmt.Fprintf(w, "%s (%s)\n", metric, Unit(metric)); err != nil {
		return err
	}
	for i, label := range labels {
		line := label + " "
		if v := values[i]; v == nil {
			line += "  " + core.NoData
		} else {
			n := width
			if hi > lo {
				// Keep at least one cell so the smallest value stays visible.
				n = 1 + int(math.Round((*v-lo)/(hi-lo)*float64(width-1)))
			}
			line += strings.Repeat("#", n) + " " + formatValue(*v, metric)
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Unit is the display unit of a metric.
func Unit(metric core.Metric) string {
	if metric == core.MetricCalorie {
		return "kcal"
	}
	return "kg"
}

func formatValue(v float64, metric core.Metric) string {
	if metric == core.MetricCalorie {
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
	return core.FormatWeight(v)
}

package core

import "fmt"

// Metric selects which record field a chart series is drawn from.
type Metric string

const (
	MetricWeight  Metric = "weight"
	MetricCalorie Metric = "calorie"
)

// ParseMetric maps a query value to a Metric.
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricWeight, MetricCalorie:
		return Metric(s), nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

// Series is the ordered (labels, values) pair handed to a renderer.
// Values holds nil where the record lacks the metric.
type Series struct {
	Metric Metric
	Labels []string
	Values []*float64
}

// BuildSeries turns an ascending record sequence into a chart series.
func BuildSeries(records []Record, metric Metric) Series {
	s := Series{
		Metric: metric,
		Labels: make([]string, 0, len(records)),
		Values: make([]*float64, 0, len(records)),
	}
	for _, r := range records {
		s.Labels = append(s.Labels, r.Date)
		var v *float64
		switch metric {
		case MetricWeight:
			if r.Weight != nil {
				v = Float64(*r.Weight)
			}
		case MetricCalorie:
			if r.TotalCalorie != nil {
				v = Float64(float64(*r.TotalCalorie))
			}
		}
		s.Values = append(s.Values, v)
	}
	return s
}

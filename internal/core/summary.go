package core

import (
	"math"
	"strconv"
)

// NoData is the display value of a statistic computed over an empty set.
const NoData = "-"

// WeightSummary aggregates present, positive weights.
type WeightSummary struct {
	Count   int
	Average float64
	Min     float64
	Max     float64
}

// CalorieSummary aggregates present, positive total calories.
type CalorieSummary struct {
	Count   int
	Average float64
}

// Summary is a compact statistic block for a filtered record set.
type Summary struct {
	Weight  WeightSummary
	Calorie CalorieSummary
}

// Summarize computes count/average/min/max over records. Missing and
// non-positive values are excluded from every statistic.
func Summarize(records []Record) Summary {
	var s Summary
	var weightSum float64
	var calorieSum int64
	for _, r := range records {
		if r.Weight != nil && *r.Weight > 0 {
			w := *r.Weight
			if s.Weight.Count == 0 || w < s.Weight.Min {
				s.Weight.Min = w
			}
			if s.Weight.Count == 0 || w > s.Weight.Max {
				s.Weight.Max = w
			}
			s.Weight.Count++
			weightSum += w
		}
		if r.TotalCalorie != nil && *r.TotalCalorie > 0 {
			s.Calorie.Count++
			calorieSum += *r.TotalCalorie
		}
	}
	if s.Weight.Count > 0 {
		s.Weight.Average = weightSum / float64(s.Weight.Count)
	}
	if s.Calorie.Count > 0 {
		s.Calorie.Average = float64(calorieSum) / float64(s.Calorie.Count)
	}
	return s
}

// AverageDisplay is the mean weight rounded to one decimal, or NoData.
func (w WeightSummary) AverageDisplay() string {
	if w.Count == 0 {
		return NoData
	}
	return FormatWeight(w.Average)
}

// MinDisplay is the lightest weight, or NoData.
func (w WeightSummary) MinDisplay() string {
	if w.Count == 0 {
		return NoData
	}
	return FormatWeight(w.Min)
}

// MaxDisplay is the heaviest weight, or NoData.
func (w WeightSummary) MaxDisplay() string {
	if w.Count == 0 {
		return NoData
	}
	return FormatWeight(w.Max)
}

// AverageDisplay is the mean calorie rounded to the nearest integer, or NoData.
func (c CalorieSummary) AverageDisplay() string {
	if c.Count == 0 {
		return NoData
	}
	return strconv.FormatInt(int64(math.Round(c.Average)), 10)
}

package core

import "strconv"

// Trend classifies a day-over-day weight change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
	TrendFlat Trend = "flat"
)

// DiffRow pairs a record with the change from the last earlier present weight.
// Delta is nil for records without weight and for the first weighed record.
type DiffRow struct {
	Record Record
	Delta  *float64
}

// Diffs walks an ascending sequence and computes the signed weight delta of
// each weighed record from the previous weighed one. Records without weight
// do not reset the previous value.
func Diffs(records []Record) []DiffRow {
	rows := make([]DiffRow, 0, len(records))
	var prev *float64
	for _, r := range records {
		row := DiffRow{Record: r}
		if r.Weight != nil {
			if prev != nil {
				row.Delta = Float64(RoundTenth(*r.Weight - *prev))
			}
			prev = Float64(*r.Weight)
		}
		rows = append(rows, row)
	}
	return rows
}

// Trend returns the direction of Delta. Rows without a delta report "".
func (d DiffRow) Trend() Trend {
	switch {
	case d.Delta == nil:
		return ""
	case *d.Delta > 0:
		return TrendUp
	case *d.Delta < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}

// DeltaDisplay renders the delta with an explicit sign: "+0.3", "-0.5" or "±0.0".
func (d DiffRow) DeltaDisplay() string {
	if d.Delta == nil {
		return ""
	}
	switch d.Trend() {
	case TrendUp:
		return "+" + strconv.FormatFloat(*d.Delta, 'f', 1, 64)
	case TrendDown:
		return strconv.FormatFloat(*d.Delta, 'f', 1, 64)
	default:
		return "±0.0"
	}
}

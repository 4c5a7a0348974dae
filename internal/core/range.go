package core

import "sort"

// FilterRange returns the records with start <= date <= end, sorted ascending
// by date. ISO-8601 dates order lexically the same way they order in time.
// The result is never nil.
func FilterRange(records []Record, start, end string) []Record {
	out := make([]Record, 0, len(records))
	if start > end {
		return out
	}
	for _, r := range records {
		if r.Date >= start && r.Date <= end {
			out = append(out, r.Clone())
		}
	}
	SortByDate(out)
	return out
}

// SortByDate orders records ascending by date in place.
func SortByDate(records []Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

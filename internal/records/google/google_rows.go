package google

import (
	"healthlog/internal/core"
)

// recordRows converts records to a values matrix: a header row, then one row
// per record sorted by date. Absent fields become empty cells.
func recordRows(recs []core.Record) [][]interface{} {
	sorted := make([]core.Record, len(recs))
	copy(sorted, recs)
	core.SortByDate(sorted)

	rows := make([][]interface{}, 0, len(sorted)+1)
	rows = append(rows, []interface{}{"date", "weight", "total_calorie"})
	for _, r := range sorted {
		var weight, calorie interface{} = "", ""
		if r.Weight != nil {
			weight = *r.Weight
		}
		if r.TotalCalorie != nil {
			calorie = *r.TotalCalorie
		}
		rows = append(rows, []interface{}{r.Date, weight, calorie})
	}
	return rows
}

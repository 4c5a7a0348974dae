package http

import (
	"strconv"

	"healthlog/internal/core"
	"healthlog/internal/services"
)

// IndexView is the data bound to index.html.
type IndexView struct {
	State   core.AppState
	Entry   EntryView
	Records RecordsView
}

// EntryView describes the entry form for the selected mode and date.
type EntryView struct {
	Mode      core.Mode
	Date      string
	Today     string
	Label     string
	Unit      string
	Step      string
	Max       string
	Value     string
	Morning   bool
	OtherMode core.Mode
}

// RecordsView is the data bound to records.html.
type RecordsView struct {
	Start   string
	End     string
	Metric  core.Metric
	Rows    []RecordRow
	Summary SummaryView
}

// RecordRow is one table line. Absent values are empty strings.
type RecordRow struct {
	Date    string
	Weight  string
	Calorie string
	Delta   string
	Trend   core.Trend
}

type SummaryView struct {
	WeightCount  int
	WeightAvg    string
	WeightMin    string
	WeightMax    string
	CalorieCount int
	CalorieAvg   string
}

// NoticeView is the data bound to notice.html.
type NoticeView struct {
	Kind    core.NoticeKind
	Message string
}

func newEntryView(state core.AppState, rec core.Record, found bool) EntryView {
	v := EntryView{
		Mode:  state.Mode,
		Date:  state.Date,
		Today: state.Today,
	}
	if state.Mode == core.ModeNight {
		v.Label = "Total calories"
		v.Unit = "kcal"
		v.Step = "1"
		v.Max = strconv.Itoa(core.MaxTotalCalorie)
		v.OtherMode = core.ModeMorning
		if found && rec.TotalCalorie != nil {
			v.Value = strconv.FormatInt(*rec.TotalCalorie, 10)
		}
		return v
	}
	v.Morning = true
	v.Label = "Weight"
	v.Unit = "kg"
	v.Step = "0.1"
	v.Max = strconv.FormatFloat(core.MaxWeight, 'f', -1, 64)
	v.OtherMode = core.ModeNight
	if found && rec.Weight != nil {
		v.Value = core.FormatWeight(*rec.Weight)
	}
	return v
}

// newRecordsView lists rows newest first, the way a log is read.
func newRecordsView(report services.RangeReport, metric core.Metric) RecordsView {
	v := RecordsView{
		Start:  report.Range.Start,
		End:    report.Range.End,
		Metric: metric,
		Rows:   make([]RecordRow, 0, len(report.Diffs)),
		Summary: SummaryView{
			WeightCount:  report.Summary.Weight.Count,
			WeightAvg:    report.Summary.Weight.AverageDisplay(),
			WeightMin:    report.Summary.Weight.MinDisplay(),
			WeightMax:    report.Summary.Weight.MaxDisplay(),
			CalorieCount: report.Summary.Calorie.Count,
			CalorieAvg:   report.Summary.Calorie.AverageDisplay(),
		},
	}
	for i := len(report.Diffs) - 1; i >= 0; i-- {
		d := report.Diffs[i]
		row := RecordRow{
			Date:  d.Record.Date,
			Delta: d.DeltaDisplay(),
			Trend: d.Trend(),
		}
		if d.Record.Weight != nil {
			row.Weight = core.FormatWeight(*d.Record.Weight)
		}
		if d.Record.TotalCalorie != nil {
			row.Calorie = strconv.FormatInt(*d.Record.TotalCalorie, 10)
		}
		v.Rows = append(v.Rows, row)
	}
	return v
}

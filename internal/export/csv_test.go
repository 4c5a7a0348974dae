package export

import (
	"strings"
	"testing"

	"healthlog/internal/core"
)

func TestWriteCSV(t *testing.T) {
	recs := []core.Record{
		{Date: "2024-01-03", TotalCalorie: core.Int64(2000)},
		{Date: "2024-01-01", Weight: core.Float64(70.0)},
		{Date: "2024-01-02", Weight: core.Float64(69.5), TotalCalorie: core.Int64(1800)},
	}
	var sb strings.Builder
	if err := WriteCSV(&sb, recs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "date,weight,total_calorie\n2024-01-01,70,\n2024-01-02,69.5,1800\n2024-01-03,,2000"
	if sb.String() != want {
		t.Fatalf("csv =\n%q\nwant\n%q", sb.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if sb.String() != "date,weight,total_calorie" {
		t.Fatalf("unexpected output %q", sb.String())
	}
}

func TestWriteCSVDoesNotReorderInput(t *testing.T) {
	recs := []core.Record{{Date: "2024-01-02"}, {Date: "2024-01-01"}}
	var sb strings.Builder
	_ = WriteCSV(&sb, recs)
	if recs[0].Date != "2024-01-02" {
		t.Fatalf("input slice was reordered")
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("2024-01-01", "2024-01-31"); got != "healthlog_2024-01-01_2024-01-31.csv" {
		t.Fatalf("FileName = %q", got)
	}
	if got := FileName("", ""); got != "healthlog.csv" {
		t.Fatalf("FileName = %q", got)
	}
}

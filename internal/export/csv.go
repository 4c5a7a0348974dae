// Package export writes record snapshots in interchange formats.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"healthlog/internal/core"
)

// Header is the first CSV row.
var Header = []string{"date", "weight", "total_calorie"}

// WriteCSV writes the header and one row per record in ascending date order.
// Absent fields are empty strings and weights use their shortest decimal
// form. Rows are separated by LF and the last row has no trailing newline.
func WriteCSV(w io.Writer, recs []core.Record) error {
	sorted := make([]core.Record, len(recs))
	copy(sorted, recs)
	core.SortByDate(sorted)

	lines := make([][]string, 0, len(sorted)+1)
	lines = append(lines, Header)
	for _, r := range sorted {
		lines = append(lines, row(r))
	}

	for i, line := range lines {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
		}
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeLine encodes one record with encoding/csv and strips its terminator.
func writeLine(w io.Writer, fields []string) error {
	var buf lineBuffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(fields); err != nil {
		return fmt.Errorf("encode csv row: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode csv row: %w", err)
	}
	b := buf.b
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

type lineBuffer struct{ b []byte }

func (l *lineBuffer) Write(p []byte) (int, error) {
	l.b = append(l.b, p...)
	return len(p), nil
}

func row(r core.Record) []string {
	weight, calorie := "", ""
	if r.Weight != nil {
		weight = core.FormatWeightShort(*r.Weight)
	}
	if r.TotalCalorie != nil {
		calorie = strconv.FormatInt(*r.TotalCalorie, 10)
	}
	return []string{r.Date, weight, calorie}
}

// FileName is the suggested download name for a range export.
func FileName(start, end string) string {
	if start == "" && end == "" {
		return "healthlog.csv"
	}
	return fmt.Sprintf("healthlog_%s_%s.csv", start, end)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	"healthlog/internal/core"
	"healthlog/internal/export"
	"healthlog/internal/records"
	"healthlog/internal/render"
	"healthlog/internal/services"
)

const usage = `usage: healthlog-cli <command> [flags] [args]

commands:
  add-weight  [-date YYYY-MM-DD] KG        record the morning weight
  add-calorie [-date YYYY-MM-DD] KCAL      record the night total calories
  show        [-start D] [-end D] [-days N]  table, summary and day-over-day change
  chart       [-metric weight|calorie] [-start D] [-end D] [-days N] [-width N]
  export      [-start D] [-end D] [-o FILE]  CSV of a range, or of everything
  import      FILE                           upsert records from a YAML file
`

// errUsage marks command line mistakes; the message was already printed.
var errUsage = errors.New("usage")

// errReadOnly rejects writes against a store that does not outlive the process.
var errReadOnly = errors.New("the memory backend is not persisted; set DATA_BACKEND=sqlite to record entries")

type app struct {
	svc       *services.RecordService
	now       func() time.Time
	rangeDays int
	stdout    io.Writer
	stderr    io.Writer
	open      func(path string) (io.ReadCloser, error)
	create    func(path string) (io.WriteCloser, error)
	// readOnly refuses add-weight, add-calorie and import.
	readOnly bool
}

// run executes one command and returns the process exit code: 0 on success,
// 2 for usage and validation errors, 1 for anything else.
func (a *app) run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprint(a.stderr, usage)
		return 2
	}

	cmd, rest := args[0], args[1:]
	if a.readOnly && isWriteCommand(cmd) {
		return a.exitCode(errReadOnly)
	}

	var err error
	switch cmd {
	case "add-weight":
		err = a.addEntry(ctx, cmd, rest, core.ModeMorning)
	case "add-calorie":
		err = a.addEntry(ctx, cmd, rest, core.ModeNight)
	case "show":
		err = a.show(ctx, rest)
	case "chart":
		err = a.chart(ctx, rest)
	case "export":
		err = a.export(ctx, rest)
	case "import":
		err = a.importFile(ctx, rest)
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return 0
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n%s", cmd, usage)
		return 2
	}
	return a.exitCode(err)
}

func isWriteCommand(cmd string) bool {
	switch cmd {
	case "add-weight", "add-calorie", "import":
		return true
	}
	return false
}

func (a *app) exitCode(err error) int {
	var ve *core.ValidationError
	var se *services.StorageError
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	case errors.As(err, &ve):
		fmt.Fprintln(a.stderr, "invalid input:", ve.Error())
		return 2
	case errors.As(err, &se):
		fmt.Fprintln(a.stderr, "storage error:", se.Error())
		return 1
	default:
		fmt.Fprintln(a.stderr, "error:", err)
		return 1
	}
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

func (a *app) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

func (a *app) addEntry(ctx context.Context, name string, args []string, mode core.Mode) error {
	fs := a.flagSet(name)
	date := fs.String("date", core.FormatDate(a.now()), "entry date (YYYY-MM-DD)")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "%s needs exactly one value\n", name)
		return errUsage
	}

	var (
		rec core.Record
		err error
	)
	if mode == core.ModeNight {
		var c int64
		if c, err = core.ParseCalorie(fs.Arg(0)); err != nil {
			return err
		}
		rec, err = a.svc.SaveCalorie(ctx, *date, c)
	} else {
		var w float64
		if w, err = core.ParseWeight(fs.Arg(0)); err != nil {
			return err
		}
		rec, err = a.svc.SaveWeight(ctx, *date, w)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "saved %s: weight %s, total calories %s\n",
		rec.Date, weightCell(rec.Weight, core.NoData), calorieCell(rec.TotalCalorie, core.NoData))
	return nil
}

// rangeFlags registers -start, -end and -days and resolves them after parsing.
// Explicit bounds win over -days.
func (a *app) rangeFlags(fs *flag.FlagSet) func() (core.DateRange, error) {
	start := fs.String("start", "", "first date (YYYY-MM-DD)")
	end := fs.String("end", "", "last date (YYYY-MM-DD)")
	days := fs.Int("days", a.rangeDays, "window length ending today")
	return func() (core.DateRange, error) {
		rng := core.InitialState(a.now(), *days).Range
		if *start != "" {
			if err := core.ValidateDate(*start); err != nil {
				return rng, err
			}
			rng.Start = *start
		}
		if *end != "" {
			if err := core.ValidateDate(*end); err != nil {
				return rng, err
			}
			rng.End = *end
		}
		return rng, nil
	}
}

func (a *app) show(ctx context.Context, args []string) error {
	fs := a.flagSet("show")
	resolve := a.rangeFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	rng, err := resolve()
	if err != nil {
		return err
	}

	report, err := a.svc.Report(ctx, rng.Start, rng.End)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s .. %s\n", rng.Start, rng.End)
	if len(report.Records) == 0 {
		fmt.Fprintln(a.stdout, "no records")
	} else {
		table := tablewriter.NewWriter(a.stdout)
		table.SetHeader([]string{"Date", "Weight (kg)", "Change", "Calories (kcal)"})
		table.SetAutoFormatHeaders(false)
		table.SetColumnAlignment([]int{
			tablewriter.ALIGN_LEFT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
			tablewriter.ALIGN_RIGHT,
		})
		for _, d := range report.Diffs {
			table.Append([]string{
				d.Record.Date,
				weightCell(d.Record.Weight, ""),
				d.DeltaDisplay(),
				calorieCell(d.Record.TotalCalorie, ""),
			})
		}
		table.Render()
	}

	s := report.Summary
	fmt.Fprintf(a.stdout, "weight:   n=%d avg=%s min=%s max=%s\n",
		s.Weight.Count, s.Weight.AverageDisplay(), s.Weight.MinDisplay(), s.Weight.MaxDisplay())
	fmt.Fprintf(a.stdout, "calories: n=%d avg=%s\n", s.Calorie.Count, s.Calorie.AverageDisplay())
	return nil
}

func (a *app) chart(ctx context.Context, args []string) error {
	fs := a.flagSet("chart")
	metricName := fs.String("metric", string(core.MetricWeight), "weight or calorie")
	width := fs.Int("width", 40, "bar width in cells")
	resolve := a.rangeFlags(fs)
	if err := a.parse(fs, args); err != nil {
		return err
	}
	metric, err := core.ParseMetric(*metricName)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return errUsage
	}
	rng, err := resolve()
	if err != nil {
		return err
	}

	recs, err := a.svc.QueryRange(ctx, rng.Start, rng.End)
	if err != nil {
		return err
	}
	return render.Render(a.stdout, render.TextRenderer{Width: *width}, core.BuildSeries(recs, metric))
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := a.flagSet("export")
	start := fs.String("start", "", "first date (YYYY-MM-DD)")
	end := fs.String("end", "", "last date (YYYY-MM-DD)")
	out := fs.String("o", "", "output file (default stdout)")
	if err := a.parse(fs, args); err != nil {
		return err
	}

	var (
		recs []core.Record
		err  error
	)
	if *start == "" && *end == "" {
		recs, err = a.svc.GetAllRecords(ctx)
	} else {
		rng := core.DateRange{Start: *start, End: *end}
		if rng.Start == "" {
			rng.Start = "0000-01-01"
		} else if err := core.ValidateDate(rng.Start); err != nil {
			return err
		}
		if rng.End == "" {
			rng.End = "9999-12-31"
		} else if err := core.ValidateDate(rng.End); err != nil {
			return err
		}
		recs, err = a.svc.QueryRange(ctx, rng.Start, rng.End)
	}
	if err != nil {
		return err
	}

	if *out == "" {
		if err := export.WriteCSV(a.stdout, recs); err != nil {
			return err
		}
		_, err := io.WriteString(a.stdout, "\n")
		return err
	}

	f, err := a.create(*out)
	if err != nil {
		return fmt.Errorf("create %s: %w", *out, err)
	}
	if err := export.WriteCSV(f, recs); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", *out, err)
	}
	fmt.Fprintf(a.stderr, "exported %d records to %s\n", len(recs), *out)
	return nil
}

func (a *app) importFile(ctx context.Context, args []string) error {
	fs := a.flagSet("import")
	if err := a.parse(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(a.stderr, "import needs exactly one YAML file")
		return errUsage
	}

	f, err := a.open(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("open %s: %w", fs.Arg(0), err)
	}
	defer f.Close()

	recs, err := records.DecodeSeed(f)
	if err != nil {
		return err
	}
	n, err := a.svc.Import(ctx, recs)
	if err != nil {
		return fmt.Errorf("imported %d of %d records: %w", n, len(recs), err)
	}
	fmt.Fprintf(a.stdout, "imported %d records\n", n)
	return nil
}

func weightCell(w *float64, empty string) string {
	if w == nil {
		return empty
	}
	return core.FormatWeight(*w)
}

func calorieCell(c *int64, empty string) string {
	if c == nil {
		return empty
	}
	return strconv.FormatInt(*c, 10)
}

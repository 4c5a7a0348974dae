package core

import (
	"errors"
	"time"
)

// Mode selects which field the entry form records.
type Mode string

const (
	ModeMorning Mode = "morning" // weight
	ModeNight   Mode = "night"   // total calorie
)

// NoticeKind classifies the message shown after an event.
type NoticeKind string

const (
	NoticeNone    NoticeKind = ""
	NoticeSuccess NoticeKind = "success"
	NoticeInvalid NoticeKind = "validation"
	NoticeFailure NoticeKind = "failure"
)

// Notice is the user-facing outcome of the last save.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// DateRange is an inclusive window of calendar dates.
type DateRange struct {
	Start string
	End   string
}

// AppState is the immutable view state of the application. It only changes
// through Update.
type AppState struct {
	Today  string
	Date   string
	Mode   Mode
	Metric Metric
	Range  DateRange
	Notice Notice
}

// Event is something that happened in the UI.
type Event interface {
	apply(AppState) AppState
}

type (
	ModeSelected   struct{ Mode Mode }
	DateSelected   struct{ Date string }
	MetricSelected struct{ Metric Metric }
	RangeSelected  struct{ Start, End string }
	EntrySaved     struct{ Record Record }
	EntryFailed    struct{ Err error }
)

// InitialState builds the starting state: morning mode, weight chart and a
// window of rangeDays days ending today.
func InitialState(today time.Time, rangeDays int) AppState {
	if rangeDays < 1 {
		rangeDays = 1
	}
	t := FormatDate(today)
	return AppState{
		Today:  t,
		Date:   t,
		Mode:   defaultMode(today),
		Metric: MetricWeight,
		Range: DateRange{
			Start: FormatDate(today.AddDate(0, 0, -(rangeDays - 1))),
			End:   t,
		},
	}
}

// defaultMode picks night entry in the evening, morning entry otherwise.
func defaultMode(now time.Time) Mode {
	if now.Hour() >= 17 {
		return ModeNight
	}
	return ModeMorning
}

// Update applies e to s and returns the new state. s is never modified.
func Update(s AppState, e Event) AppState {
	if e == nil {
		return s
	}
	return e.apply(s)
}

func (e ModeSelected) apply(s AppState) AppState {
	if e.Mode == ModeMorning || e.Mode == ModeNight {
		s.Mode = e.Mode
	}
	s.Notice = Notice{}
	return s
}

func (e DateSelected) apply(s AppState) AppState {
	if ValidateDate(e.Date) == nil {
		s.Date = e.Date
	}
	return s
}

func (e MetricSelected) apply(s AppState) AppState {
	if e.Metric == MetricWeight || e.Metric == MetricCalorie {
		s.Metric = e.Metric
	}
	return s
}

// A range with an invalid bound is ignored. A reversed range is kept as
// given and simply matches nothing.
func (e RangeSelected) apply(s AppState) AppState {
	if ValidateDate(e.Start) != nil || ValidateDate(e.End) != nil {
		return s
	}
	s.Range = DateRange{Start: e.Start, End: e.End}
	return s
}

func (e EntrySaved) apply(s AppState) AppState {
	s.Date = e.Record.Date
	s.Notice = Notice{Kind: NoticeSuccess, Message: "Saved " + e.Record.Date}
	return s
}

func (e EntryFailed) apply(s AppState) AppState {
	var ve *ValidationError
	if errors.As(e.Err, &ve) {
		s.Notice = Notice{Kind: NoticeInvalid, Message: ve.Error()}
		return s
	}
	s.Notice = Notice{Kind: NoticeFailure, Message: "Could not save, please try again"}
	return s
}

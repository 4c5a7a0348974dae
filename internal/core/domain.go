// Package core holds the health log domain: dated records of morning weight
// and nightly total calories, their validation and merge rules, and the
// decimal parsing that keeps weights at one-decimal precision.
package core

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO-8601 calendar date format used as record key.
const DateLayout = "2006-01-02"

const (
	MaxWeight       = 500.0
	MaxTotalCalorie = 20000
)

type (
	// Record is one date's weight/calorie entry. Date is the primary key.
	Record struct {
		Date         string   `json:"date" yaml:"date"`
		Weight       *float64 `json:"weight" yaml:"weight,omitempty"`
		TotalCalorie *int64   `json:"total_calorie" yaml:"total_calorie,omitempty"`
	}

	// ValidationError reports user input that fails a range or type constraint.
	ValidationError struct {
		Field string
		Err   error
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidWeight  = errors.New("invalid weight")
	ErrInvalidCalorie = errors.New("invalid total calorie")
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field string, err error) *ValidationError {
	return &ValidationError{Field: field, Err: err}
}

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// ValidateDate checks that s is a real calendar date in YYYY-MM-DD form.
func ValidateDate(s string) error {
	t, err := time.Parse(DateLayout, s)
	if err != nil || t.Format(DateLayout) != s {
		return newValidationError("date", ErrInvalidDate)
	}
	return nil
}

// FormatDate renders t as a record key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidateWeight accepts 0 < w <= MaxWeight.
func ValidateWeight(w float64) error {
	if w <= 0 || w > MaxWeight {
		return newValidationError("weight", ErrInvalidWeight)
	}
	return nil
}

// ValidateCalorie accepts 0 <= c <= MaxTotalCalorie.
func ValidateCalorie(c int64) error {
	if c < 0 || c > MaxTotalCalorie {
		return newValidationError("total_calorie", ErrInvalidCalorie)
	}
	return nil
}

// Validate checks the date key and any present field.
func (r Record) Validate() error {
	if err := ValidateDate(r.Date); err != nil {
		return err
	}
	if r.Weight != nil {
		if err := ValidateWeight(*r.Weight); err != nil {
			return err
		}
	}
	if r.TotalCalorie != nil {
		if err := ValidateCalorie(*r.TotalCalorie); err != nil {
			return err
		}
	}
	return nil
}

// Normalized validates r and returns a copy whose weight is rounded to one
// decimal the way form and CLI input is.
func (r Record) Normalized() (Record, error) {
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	out := r.Clone()
	if out.Weight != nil {
		w, err := NormalizeWeight(*out.Weight)
		if err != nil {
			return Record{}, err
		}
		out.Weight = &w
	}
	return out, nil
}

// Clone returns a deep copy so callers cannot alias stored pointers.
func (r Record) Clone() Record {
	out := Record{Date: r.Date}
	if r.Weight != nil {
		out.Weight = Float64(*r.Weight)
	}
	if r.TotalCalorie != nil {
		out.TotalCalorie = Int64(*r.TotalCalorie)
	}
	return out
}

// MergeRecord returns next with every absent field filled from prev.
// prev may be nil when no record exists yet for the date.
func MergeRecord(prev *Record, next Record) Record {
	out := next.Clone()
	if prev == nil {
		return out
	}
	if out.Weight == nil && prev.Weight != nil {
		out.Weight = Float64(*prev.Weight)
	}
	if out.TotalCalorie == nil && prev.TotalCalorie != nil {
		out.TotalCalorie = Int64(*prev.TotalCalorie)
	}
	return out
}

package core

import (
	"errors"
	"testing"
)

func TestParseWeight(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"70", 70.0, true},
		{"69.5", 69.5, true},
		{"69,5", 69.5, true},
		{" 72.0 ", 72.0, true},
		{"69.54", 69.5, true},
		{"69.55", 69.6, true},
		{"69.95", 70.0, true},
		{".5", 0.5, true},
		{"0", 0, false},
		{"0.04", 0, false},
		{"-70", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"501", 0, false},
		{"", 0, false},
		{"70.٥", 0, false},
		{"70.５", 0, false},
		{"٧0", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseWeight(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if !errors.Is(err, ErrInvalidWeight) {
			t.Fatalf("%q expected weight validation error, got %v", tc.in, err)
		}
	}
}

func TestParseCalorie(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1800", 1800, true},
		{"0", 0, true},
		{" 2000 ", 2000, true},
		{"-1", 0, false},
		{"12.5", 0, false},
		{"20001", 0, false},
		{"", 0, false},
		{"１800", 0, false},
		{"18٠0", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCalorie(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestFormatWeight(t *testing.T) {
	if got := FormatWeight(70); got != "70.0" {
		t.Fatalf("FormatWeight(70) = %q", got)
	}
	if got := FormatWeightShort(70); got != "70" {
		t.Fatalf("FormatWeightShort(70) = %q", got)
	}
	if got := FormatWeightShort(69.5); got != "69.5" {
		t.Fatalf("FormatWeightShort(69.5) = %q", got)
	}
}

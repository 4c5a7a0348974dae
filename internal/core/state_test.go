package core

import (
	"errors"
	"testing"
	"time"
)

func TestInitialState(t *testing.T) {
	now := time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC)
	s := InitialState(now, 30)
	if s.Today != "2024-01-31" || s.Date != "2024-01-31" {
		t.Fatalf("unexpected today: %+v", s)
	}
	if s.Range.Start != "2024-01-02" || s.Range.End != "2024-01-31" {
		t.Fatalf("unexpected range: %+v", s.Range)
	}
	if s.Mode != ModeMorning || s.Metric != MetricWeight {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	evening := InitialState(time.Date(2024, 1, 31, 21, 0, 0, 0, time.UTC), 1)
	if evening.Mode != ModeNight || evening.Range.Start != evening.Range.End {
		t.Fatalf("unexpected evening state: %+v", evening)
	}
}

func TestUpdateIsPure(t *testing.T) {
	s0 := InitialState(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), 7)
	s1 := Update(s0, ModeSelected{Mode: ModeNight})
	if s0.Mode != ModeMorning {
		t.Fatalf("Update modified its input")
	}
	if s1.Mode != ModeNight {
		t.Fatalf("mode not applied")
	}
	if s2 := Update(s1, ModeSelected{Mode: "noon"}); s2.Mode != ModeNight {
		t.Fatalf("unknown mode must be ignored")
	}
	if s3 := Update(s1, nil); s3 != s1 {
		t.Fatalf("nil event must be a no-op")
	}
}

func TestUpdateRangeAndMetric(t *testing.T) {
	s := InitialState(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), 7)

	s = Update(s, RangeSelected{Start: "2024-01-01", End: "2024-01-10"})
	if s.Range != (DateRange{Start: "2024-01-01", End: "2024-01-10"}) {
		t.Fatalf("range not applied: %+v", s.Range)
	}
	if got := Update(s, RangeSelected{Start: "nope", End: "2024-01-10"}); got.Range != s.Range {
		t.Fatalf("invalid range must be ignored")
	}

	s = Update(s, MetricSelected{Metric: MetricCalorie})
	if s.Metric != MetricCalorie {
		t.Fatalf("metric not applied")
	}
	s = Update(s, DateSelected{Date: "2024-01-05"})
	if s.Date != "2024-01-05" {
		t.Fatalf("date not applied")
	}
}

func TestUpdateNotices(t *testing.T) {
	s := InitialState(time.Date(2024, 1, 31, 8, 0, 0, 0, time.UTC), 7)

	saved := Update(s, EntrySaved{Record: Record{Date: "2024-01-30"}})
	if saved.Notice.Kind != NoticeSuccess || saved.Date != "2024-01-30" {
		t.Fatalf("unexpected saved state: %+v", saved)
	}

	_, err := ParseWeight("abc")
	invalid := Update(s, EntryFailed{Err: err})
	if invalid.Notice.Kind != NoticeInvalid {
		t.Fatalf("expected validation notice, got %+v", invalid.Notice)
	}

	failed := Update(s, EntryFailed{Err: errors.New("disk full")})
	if failed.Notice.Kind != NoticeFailure || failed.Notice.Message == "disk full" {
		t.Fatalf("storage failures must surface a generic message: %+v", failed.Notice)
	}
}

package records

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"healthlog/internal/core"
)

func TestDecodeSeed(t *testing.T) {
	in := `
records:
  - date: "2024-01-01"
    weight: 70.0
  - date: "2024-01-02"
    weight: 69.5
    total_calorie: 1800
  - date: "2024-01-03"
    total_calorie: 2000
`
	recs, err := DecodeSeed(strings.NewReader(in))
	if err != nil {
		t.Fatalf("DecodeSeed: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}
	if recs[0].Weight == nil || *recs[0].Weight != 70 || recs[0].TotalCalorie != nil {
		t.Fatalf("unexpected first record: %+v", recs[0])
	}
	if recs[2].Weight != nil || *recs[2].TotalCalorie != 2000 {
		t.Fatalf("unexpected third record: %+v", recs[2])
	}
}

func TestDecodeSeedRoundsWeights(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"69.55", 69.6},
		{"69.54", 69.5},
		{"69.95", 70.0},
		{"72", 72.0},
	}
	for _, tc := range cases {
		recs, err := DecodeSeed(strings.NewReader("records:\n  - date: \"2024-01-01\"\n    weight: " + tc.in + "\n"))
		if err != nil {
			t.Fatalf("%s: DecodeSeed: %v", tc.in, err)
		}
		if got := *recs[0].Weight; got != tc.want {
			t.Errorf("weight %s decoded as %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDecodeSeedRejectsInvalid(t *testing.T) {
	_, err := DecodeSeed(strings.NewReader("records:\n  - date: \"2024-01-01\"\n    weight: -2\n"))
	if !errors.Is(err, core.ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
}

func TestLoadSeedFileMissing(t *testing.T) {
	recs, err := LoadSeedFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil || recs != nil {
		t.Fatalf("missing file expected no records, got %v, %v", recs, err)
	}
}

func TestLoadSeedFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	recs, err := LoadSeedFile(path)
	if err != nil || len(recs) != 0 {
		t.Fatalf("empty file expected no records, got %v, %v", recs, err)
	}
}

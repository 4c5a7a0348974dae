package records

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"healthlog/internal/core"
)

// SeedFile is the YAML layout used to seed or import records:
//
//	records:
//	  - date: 2024-01-01
//	    weight: 70.0
//	  - date: 2024-01-02
//	    weight: 69.5
//	    total_calorie: 1800
type SeedFile struct {
	Records []core.Record `yaml:"records"`
}

// DecodeSeed reads and validates records from YAML. Weights are rounded to
// one decimal.
func DecodeSeed(r io.Reader) ([]core.Record, error) {
	var f SeedFile
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed: %w", err)
	}
	for i, rec := range f.Records {
		norm, err := rec.Normalized()
		if err != nil {
			return nil, fmt.Errorf("seed record %d (%s): %w", i, rec.Date, err)
		}
		f.Records[i] = norm
	}
	return f.Records, nil
}

// LoadSeedFile reads records from a YAML file. A missing file yields no records.
func LoadSeedFile(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return DecodeSeed(f)
}

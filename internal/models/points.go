// points.go
package models

import (
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

// CalibrationSet holds the base set of calibration points for a session.
type CalibrationSet struct {
	Points []Geometry `yaml:"points"`
}

// LoadCalibrationSet reads and parses the calibration points file.
func LoadCalibrationSet(path string) (*CalibrationSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read calibration points file: %w", err)
	}

	var set CalibrationSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calibration points YAML: %w", err)
	}
	if len(set.Points) == 0 {
		return nil, fmt.Errorf("calibration points file %s contains no points", path)
	}

	return &set, nil
}

// BuildLocationList produces the ordered location list for one trial from the
// base set. With randomize off the order is the file order, identical across
// trials. With randomize on the result is a permutation of the same points,
// drawn from rng so a pinned seed reproduces the sequence. The base set is
// never modified; the returned slice is owned by the caller.
func BuildLocationList(base []Geometry, randomize bool, rng *rand.Rand) []Geometry {
	locs := make([]Geometry, len(base))
	copy(locs, base)
	if randomize {
		rng.Shuffle(len(locs), func(i, j int) {
			locs[i], locs[j] = locs[j], locs[i]
		})
	}
	return locs
}

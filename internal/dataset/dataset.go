// Package dataset loads, validates and splits labeled message datasets
// stored as JSON arrays of {"text", "label"} objects.
package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"triage/internal/model"
)

// ErrInvalidDataset is returned by Validate for malformed examples
var ErrInvalidDataset = errors.New("invalid dataset")

// Example is a single labeled message
type Example struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Load reads a dataset from a JSON file
func Load(path string) ([]Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	var examples []Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("failed to parse dataset %s: %w", path, err)
	}

	log.Info().Str("path", path).Int("examples", len(examples)).Msg("Loaded dataset")
	return examples, nil
}

// Save writes examples as indented JSON, creating parent directories
func Save(path string, examples []Example) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dataset directory: %w", err)
	}

	if examples == nil {
		examples = []Example{}
	}
	data, err := json.MarshalIndent(examples, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	log.Info().Str("path", path).Int("examples", len(examples)).Msg("Saved dataset")
	return nil
}

// Distribution counts examples per label. Empty labels count as "unknown".
func Distribution(examples []Example) map[string]int {
	dist := make(map[string]int)
	for _, ex := range examples {
		label := ex.Label
		if label == "" {
			label = "unknown"
		}
		dist[label]++
	}
	return dist
}

// Validate checks every example has text and a label. Labels outside the
// intent set are accepted with a warning.
func Validate(examples []Example) error {
	for i, ex := range examples {
		if ex.Text == "" {
			return fmt.Errorf("%w: example %d missing text", ErrInvalidDataset, i)
		}
		if ex.Label == "" {
			return fmt.Errorf("%w: example %d missing label", ErrInvalidDataset, i)
		}
		if !model.Label(ex.Label).Valid() {
			log.Warn().Int("example", i).Str("label", ex.Label).Msg("Unexpected label")
		}
	}

	log.Info().Int("examples", len(examples)).Msg("Dataset validation passed")
	return nil
}

// Split shuffles a copy of examples with seed and cuts it into train and
// test sets. testSize is the test fraction in [0, 1].
func Split(examples []Example, testSize float64, seed int64) (train, test []Example) {
	testSize = max(0, min(testSize, 1))

	shuffled := make([]Example, len(examples))
	copy(shuffled, examples)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	idx := int(float64(len(shuffled)) * (1 - testSize))
	train, test = shuffled[:idx:idx], shuffled[idx:]

	log.Info().Int("train", len(train)).Int("test", len(test)).Msg("Split dataset")
	return train, test
}

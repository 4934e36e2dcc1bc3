package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Example {
	return []Example{
		{Text: "How do I reset my password?", Label: "question"},
		{Text: "This is terrible!", Label: "complaint"},
		{Text: "Great update.", Label: "comment"},
		{Text: "Where is my order?", Label: "question"},
		{Text: "Love it", Label: "comment"},
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")

	require.NoError(t, Save(path, sample()))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sample(), loaded)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset not found")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"text": "not a list"}`), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestDistribution(t *testing.T) {
	dist := Distribution(append(sample(), Example{Text: "??"}))

	assert.Equal(t, map[string]int{
		"question":  2,
		"complaint": 1,
		"comment":   2,
		"unknown":   1,
	}, dist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		examples []Example
		wantErr  bool
	}{
		{name: "valid", examples: sample()},
		{name: "empty dataset", examples: nil},
		{name: "unknown label only warns", examples: []Example{{Text: "hi", Label: "praise"}}},
		{name: "missing text", examples: []Example{{Label: "question"}}, wantErr: true},
		{name: "missing label", examples: []Example{{Text: "hi"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.examples)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDataset)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	examples := make([]Example, 10)
	for i := range examples {
		examples[i] = Example{Text: string(rune('a' + i)), Label: "comment"}
	}

	train, test := Split(examples, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)
	assert.ElementsMatch(t, examples, append(append([]Example{}, train...), test...))

	train2, test2 := Split(examples, 0.2, 42)
	assert.Equal(t, train, train2, "same seed must give the same split")
	assert.Equal(t, test, test2)

	assert.Equal(t, "a", examples[0].Text, "input must not be reordered")

	firstTest := test[0]
	train = append(train, Example{Text: "extra", Label: "question"})
	assert.Equal(t, firstTest, test[0], "growing train must not overwrite test")
	assert.Len(t, train, 9)
}

func TestSplitBounds(t *testing.T) {
	train, test := Split(sample(), 0, 1)
	assert.Len(t, train, 5)
	assert.Empty(t, test)

	train, test = Split(sample(), 1.5, 1)
	assert.Empty(t, train)
	assert.Len(t, test, 5)
}

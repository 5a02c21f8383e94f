package artifacts

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"strings"
)

// tokenPattern mirrors the word tokenization the vectorizer was fitted with:
// runs of at least two word characters.
var tokenPattern = regexp.MustCompile(`[\pL\pN_]{2,}`)

// TFIDFVectorizer is a fitted term-frequency/inverse-document-frequency
// vectorizer loaded from a JSON artifact. Immutable after load.
type TFIDFVectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

// LoadTFIDFVectorizer reads a vectorizer artifact from disk.
func LoadTFIDFVectorizer(path string) (*TFIDFVectorizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vectorizer artifact %s: %w", path, err)
	}

	var v TFIDFVectorizer
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vectorizer artifact %s: %w", path, err)
	}

	if len(v.Vocabulary) == 0 {
		return nil, fmt.Errorf("vectorizer artifact %s has an empty vocabulary", path)
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return nil, fmt.Errorf("vectorizer artifact %s: term %q has index %d outside idf table of width %d",
				path, term, idx, len(v.IDF))
		}
	}

	return &v, nil
}

// Width returns the number of columns the vectorizer produces.
func (v *TFIDFVectorizer) Width() int {
	return len(v.IDF)
}

// Transform maps text to a dense tf-idf vector: term counts over the fitted
// vocabulary, weighted by idf, L2-normalized.
func (v *TFIDFVectorizer) Transform(text string) ([]float64, error) {
	dense := make([]float64, len(v.IDF))

	for _, token := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if idx, ok := v.Vocabulary[token]; ok {
			dense[idx]++
		}
	}

	var norm float64
	for idx := range dense {
		dense[idx] *= v.IDF[idx]
		norm += dense[idx] * dense[idx]
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for idx := range dense {
			dense[idx] /= norm
		}
	}

	return dense, nil
}

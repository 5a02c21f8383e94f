package core

import (
	"context"
)

// Classifier is a pre-trained binary classifier consumed as a black box.
type Classifier interface {
	// PredictProba returns [P(negative), P(positive)] for a feature vector.
	PredictProba(features []float64) ([2]float64, error)
}

// TextVectorizer maps raw text to a numeric vector of model-determined width.
type TextVectorizer interface {
	Transform(text string) ([]float64, error)
}

// ScanEngine drives an external vulnerability scanner against a target URL
// and collects its accumulated findings.
type ScanEngine interface {
	Scan(ctx context.Context, target string) (*ScanFindings, error)
}

// AssistantClient is a passthrough generative-text capability. It is never
// consulted on a scoring decision.
type AssistantClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// CacheRepository caches scan reports keyed by a request digest.
type CacheRepository interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)

	Set(ctx context.Context, entry *CacheEntry) error

	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}

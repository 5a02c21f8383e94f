package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestEmailVectorWidthIsConstant(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())
	keywords := []string{"verify", "account", "urgent"}

	cases := []struct {
		name  string
		dense []float64
	}{
		{"empty vectorization", []float64{}},
		{"narrow vectorization", []float64{0.5, 0.25}},
		{"exact vectorization", make([]float64, EmailVectorWidth)},
		{"wide vectorization", make([]float64, 450)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vec, _ := extractor.EmailVector(tc.dense, "hello", keywords)
			assert.Len(t, vec, EmailVectorWidth+len(keywords))
		})
	}
}

func TestEmailVectorKeepsLastColumns(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())

	dense := make([]float64, 150)
	for i := range dense {
		dense[i] = float64(i)
	}

	vec, _ := extractor.EmailVector(dense, "", nil)

	assert.Equal(t, float64(50), vec[0])
	assert.Equal(t, float64(149), vec[EmailVectorWidth-1])
}

func TestEmailVectorPadsNarrowInput(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())

	vec, _ := extractor.EmailVector([]float64{0.7, 0.3}, "", nil)

	assert.Equal(t, 0.7, vec[0])
	assert.Equal(t, 0.3, vec[1])
	for i := 2; i < EmailVectorWidth; i++ {
		assert.Zero(t, vec[i])
	}
}

func TestEmailVectorKeywordFlags(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())
	keywords := []string{"verify", "account", "urgent", "password"}

	lowered := "please verify your password immediately"
	vec, hits := extractor.EmailVector(make([]float64, EmailVectorWidth), lowered, keywords)

	flags := vec[EmailVectorWidth:]
	assert.Equal(t, []float64{1, 0, 0, 1}, flags)
	// Hits preserve keyword-list order, not text order
	assert.Equal(t, []string{"verify", "password"}, hits)
}

func TestEmailVectorNoHits(t *testing.T) {
	extractor := NewExtractor(zap.NewNop())

	vec, hits := extractor.EmailVector(nil, "nothing suspicious here", []string{"verify"})

	assert.Len(t, vec, EmailVectorWidth+1)
	assert.Empty(t, hits)
}

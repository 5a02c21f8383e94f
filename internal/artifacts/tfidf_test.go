package artifacts

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTFIDFVectorizer(t *testing.T) {
	path := writeArtifact(t, "vectorizer.json",
		`{"vocabulary":{"account":0,"verify":1},"idf":[1.2,2.5]}`)

	v, err := LoadTFIDFVectorizer(path)
	require.NoError(t, err)

	assert.Equal(t, 2, v.Width())
}

func TestLoadTFIDFVectorizerRejectsBadIndex(t *testing.T) {
	path := writeArtifact(t, "vectorizer.json",
		`{"vocabulary":{"account":5},"idf":[1.2]}`)

	_, err := LoadTFIDFVectorizer(path)
	assert.Error(t, err)
}

func TestLoadTFIDFVectorizerRejectsEmptyVocabulary(t *testing.T) {
	path := writeArtifact(t, "vectorizer.json", `{"vocabulary":{},"idf":[]}`)

	_, err := LoadTFIDFVectorizer(path)
	assert.Error(t, err)
}

func TestTransformWeightsAndNormalizes(t *testing.T) {
	v := &TFIDFVectorizer{
		Vocabulary: map[string]int{"verify": 0, "account": 1, "urgent": 2},
		IDF:        []float64{2.0, 1.0, 3.0},
	}

	dense, err := v.Transform("Verify your account, verify it")
	require.NoError(t, err)
	require.Len(t, dense, 3)

	// Two "verify" hits weighted twice as heavily per hit as one "account"
	assert.Greater(t, dense[0], dense[1])
	assert.Zero(t, dense[2])

	var norm float64
	for _, x := range dense {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-12)
}

func TestTransformUnknownTokensOnly(t *testing.T) {
	v := &TFIDFVectorizer{
		Vocabulary: map[string]int{"verify": 0},
		IDF:        []float64{2.0},
	}

	dense, err := v.Transform("completely unrelated words")
	require.NoError(t, err)

	assert.Equal(t, []float64{0}, dense)
}

func TestTransformIsDeterministic(t *testing.T) {
	v := &TFIDFVectorizer{
		Vocabulary: map[string]int{"verify": 0, "account": 1},
		IDF:        []float64{2.0, 1.0},
	}

	first, err := v.Transform("verify account")
	require.NoError(t, err)
	second, err := v.Transform("verify account")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestTransformSkipsSingleCharacterTokens(t *testing.T) {
	v := &TFIDFVectorizer{
		Vocabulary: map[string]int{"a": 0, "ab": 1},
		IDF:        []float64{1.0, 1.0},
	}

	dense, err := v.Transform("a ab a")
	require.NoError(t, err)

	// Single characters never tokenize; only "ab" registers
	assert.Zero(t, dense[0])
	assert.Greater(t, dense[1], 0.0)
}

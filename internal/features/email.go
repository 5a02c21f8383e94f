package features

import (
	"strings"
)

// EmailVectorWidth is the fixed number of vectorization columns kept in the
// composed email feature vector, before the keyword flags are appended.
const EmailVectorWidth = 100

// EmailVector composes the email classifier's input from a dense text
// vectorization and the keyword list. The vectorization is forced to exactly
// EmailVectorWidth columns: wider output keeps only the last columns, narrower
// output is zero-padded on the right. One substring-presence flag per keyword
// is appended, in keyword-list order. The second return value is the ordered
// list of keywords whose flag is set.
//
// The text must already be lower-cased; keyword matching is a plain substring
// test against it.
func (e *Extractor) EmailVector(dense []float64, lowered string, keywords []string) ([]float64, []string) {
	vec := make([]float64, 0, EmailVectorWidth+len(keywords))

	if len(dense) >= EmailVectorWidth {
		vec = append(vec, dense[len(dense)-EmailVectorWidth:]...)
	} else {
		vec = append(vec, dense...)
		for i := len(dense); i < EmailVectorWidth; i++ {
			vec = append(vec, 0)
		}
	}

	hits := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			vec = append(vec, 1)
			hits = append(hits, kw)
		} else {
			vec = append(vec, 0)
		}
	}

	return vec, hits
}

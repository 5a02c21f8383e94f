package features

import (
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// URLVectorWidth is the fixed width of the URL feature vector.
const URLVectorWidth = 10

// Extractor derives numeric feature vectors from raw inputs.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates a new feature extractor
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{
		logger: logger,
	}
}

// URLVector turns a raw URL string into the fixed-order feature vector the
// URL classifier was trained on. Parsing failures fall back to the all-zero
// vector so a malformed URL scores as minimum signal rather than erroring.
func (e *Extractor) URLVector(raw string) []float64 {
	normalized := raw
	if !strings.HasPrefix(raw, "http") {
		normalized = "http://" + raw
	}

	parsed, err := url.Parse(normalized)
	if err != nil {
		e.logger.Warn("URL failed to parse, scoring as zero vector",
			zap.String("url", raw),
			zap.Error(err))
		return make([]float64, URLVectorWidth)
	}

	// Host is measured as the full authority including userinfo, and the
	// path in its percent-encoded form. An @-trick URL must inflate the
	// host features, and encoded characters must count as written.
	host := parsed.Host
	if parsed.User != nil {
		host = parsed.User.String() + "@" + host
	}
	path := parsed.EscapedPath()

	return []float64{
		float64(len(raw)),
		float64(strings.Count(raw, ".")),
		boolFeature(strings.HasPrefix(raw, "http")),
		boolFeature(!strings.Contains(raw, "https")),
		float64(strings.Count(raw, "-")),
		float64(strings.Count(raw, "%")),
		float64(len(host)),
		float64(strings.Count(host, ".")),
		boolFeature(strings.Contains(raw, "@")),
		float64(len(path)),
	}
}

func boolFeature(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

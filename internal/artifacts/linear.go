package artifacts

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LinearModel is a pre-trained logistic-regression classifier loaded from a
// JSON artifact. It is immutable after load and safe for concurrent use.
type LinearModel struct {
	Name      string    `json:"name"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LoadLinearModel reads a classifier artifact from disk.
func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}

	var model LinearModel
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}

	if len(model.Coef) == 0 {
		return nil, fmt.Errorf("model artifact %s has no coefficients", path)
	}

	return &model, nil
}

// PredictProba returns [P(negative), P(positive)] for a feature vector via
// the logistic function. The vector width must match the trained
// coefficients.
func (m *LinearModel) PredictProba(features []float64) ([2]float64, error) {
	if len(features) != len(m.Coef) {
		return [2]float64{}, fmt.Errorf("feature vector width %d does not match model width %d",
			len(features), len(m.Coef))
	}

	z := m.Intercept
	for i, w := range m.Coef {
		z += w * features[i]
	}

	p := 1.0 / (1.0 + math.Exp(-z))
	return [2]float64{1 - p, p}, nil
}

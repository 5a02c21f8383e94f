package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadKeywords reads the phishing keyword list from a JSON artifact. Order is
// preserved; the composed email vector depends on it.
func LoadKeywords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read keyword artifact %s: %w", path, err)
	}

	var keywords []string
	if err := json.Unmarshal(data, &keywords); err != nil {
		return nil, fmt.Errorf("failed to parse keyword artifact %s: %w", path, err)
	}

	return keywords, nil
}

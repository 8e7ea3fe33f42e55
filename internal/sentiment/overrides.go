package sentiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// LoadOverrides reads a custom phrase table from a YAML file:
//
//	overrides:
//	  - phrase: "love you"
//	    score: 0.95
func LoadOverrides(path string) ([]Override, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read overrides file %s: %w", path, err)
	}

	var parsed struct {
		Overrides []Override `yaml:"overrides"`
	}
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse overrides file %s: %w", path, err)
	}

	for _, override := range parsed.Overrides {
		if override.Phrase == "" {
			return nil, fmt.Errorf("overrides file %s contains an entry with an empty phrase", path)
		}
	}

	return parsed.Overrides, nil
}

// Package analysis renders the structured analysis documents produced by the
// dataset profiling backends. Payloads are externally produced JSON; every
// field is optional and absent-safe, and unexpected keys are ignored.
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	TypeCategorical = "categorical_analysis"
	TypeNumerical   = "numerical_analysis"
)

type Payload struct {
	Type           string            `json:"type"`
	Summary        string            `json:"summary,omitempty"`
	DatasetPreview []json.RawMessage `json:"dataset_preview,omitempty"`
	ColumnTypes    *ColumnTypes      `json:"column_types,omitempty"`
	Analysis       *Details          `json:"analysis,omitempty"`
	Plots          json.RawMessage   `json:"plots,omitempty"`
}

type ColumnTypes struct {
	Categorical []string `json:"categorical,omitempty"`
	Numerical   []string `json:"numerical,omitempty"`
}

type Details struct {
	ValueCounts   json.RawMessage           `json:"value_counts,omitempty"`
	MissingValues json.RawMessage           `json:"missing_values,omitempty"`
	SummaryStats  map[string]map[string]any `json:"summary_stats,omitempty"`
	Outliers      json.RawMessage           `json:"outliers,omitempty"`
}

// Parse decodes an analysis payload. Only the type tag is validated; every
// other field may be absent or null.
func Parse(data []byte) (Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Payload{}, fmt.Errorf("unable to parse analysis payload: %w", err)
	}
	if payload.Type != TypeCategorical && payload.Type != TypeNumerical {
		return Payload{}, fmt.Errorf("unknown analysis type %q", payload.Type)
	}
	return payload, nil
}

// IsAnalysis reports whether data looks like an analysis payload, i.e. a JSON
// object carrying one of the known type tags. Plain chat text is not.
func IsAnalysis(data []byte) bool {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Type == TypeCategorical || probe.Type == TypeNumerical
}

type objectEntry struct {
	Key   string
	Value json.RawMessage
}

// objectEntries decodes the top-level fields of a JSON object preserving
// document order, which json.Unmarshal into a map would lose. Display order
// of value counts and plots follows the order the producer wrote.
func objectEntries(raw json.RawMessage) ([]objectEntry, error) {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	var entries []objectEntry
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", keyTok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		entries = append(entries, objectEntry{Key: key, Value: value})
	}

	return entries, nil
}

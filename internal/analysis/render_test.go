package analysis

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const categoricalDoc = `{
	"type": "categorical_analysis",
	"summary": "3 categorical columns profiled",
	"dataset_preview": [
		{"city": "Lahore", "team": "A"},
		{"city": "Karachi", "team": "B"},
		{"city": "Multan", "team": "A"},
		{"city": "Quetta", "team": "C"},
		{"city": "Lahore", "team": "B"},
		{"city": "Sialkot", "team": "A"}
	],
	"column_types": {"categorical": ["city", "team"]},
	"analysis": {
		"value_counts": {
			"city_counts": {"Lahore": 2, "Karachi": 1, "Multan": 1, "Quetta": 1, "Sialkot": 1},
			"team_counts": {"A": 3, "B": 2, "C": 1}
		},
		"missing_values": {"city": 0, "team": 2}
	},
	"plots": {
		"city_distribution": "aGVsbG8=",
		"team_distribution": "d29ybGQ="
	}
}`

const numericalDoc = `{
	"type": "numerical_analysis",
	"dataset_preview": [
		{"age": 31, "score": 88.5},
		{"age": 27, "score": 91}
	],
	"column_types": {"numerical": ["age", "score"]},
	"analysis": {
		"summary_stats": {
			"age": {"count": 2, "mean": 29, "std": 2.828, "min": 27, "25%": 28, "50%": 29, "75%": 30, "max": 31},
			"score": {"count": 2, "mean": 89.75, "std": 1.767, "min": 88.5, "25%": 89.125, "50%": 89.75, "75%": 90.375, "max": 91}
		},
		"missing_values": {"age": 0, "score": 1},
		"outliers": {"age": 0, "score": 1}
	}
}`

func sectionByKind(t *testing.T, sections []Section, kind string) Section {
	t.Helper()
	for _, s := range sections {
		if s.Kind == kind {
			return s
		}
	}
	t.Fatalf("no %s section in %v", kind, sections)
	return Section{}
}

func TestRenderCategorical(t *testing.T) {
	payload, err := Parse([]byte(categoricalDoc))
	require.NoError(t, err)

	sections := Render(payload)

	kinds := make([]string, 0, len(sections))
	for _, s := range sections {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []string{
		SectionColumnTypes,
		SectionPreview,
		SectionValueCounts,
		SectionValueCounts,
		SectionMissingValues,
		SectionPlots,
	}, kinds)

	types := sections[0]
	assert.Equal(t, "Column Types", types.Title)
	assert.Equal(t, []string{"city", "team"}, types.Badges)

	preview := sectionByKind(t, sections, SectionPreview)
	assert.Equal(t, []string{"city", "team"}, preview.Columns)
	assert.Len(t, preview.Rows, 5, "preview is capped at five rows")
	assert.Equal(t, []string{"Lahore", "A"}, preview.Rows[0])

	// Value count groups keep document order and drop the _counts suffix.
	assert.Equal(t, "city", sections[2].Title)
	assert.Equal(t, "team", sections[3].Title)
	assert.Equal(t, []string{"Lahore", "2"}, sections[2].Rows[0])
	assert.Equal(t, []string{"A", "3"}, sections[3].Rows[0])

	missing := sectionByKind(t, sections, SectionMissingValues)
	assert.Equal(t, [][]string{{"city", "0"}, {"team", "2"}}, missing.Rows)

	plots := sectionByKind(t, sections, SectionPlots)
	require.Len(t, plots.Plots, 2)
	assert.Equal(t, "city distribution", plots.Plots[0].Title)
	assert.Equal(t, "data:image/png;base64,aGVsbG8=", plots.Plots[0].ImageURL)
	assert.Equal(t, "team distribution", plots.Plots[1].Title)
}

func TestRenderValueCountsCapped(t *testing.T) {
	counts := "{"
	for i := 0; i < 15; i++ {
		if i > 0 {
			counts += ","
		}
		counts += fmt.Sprintf("%q: %d", fmt.Sprintf("v%02d", i), i)
	}
	counts += "}"

	doc := fmt.Sprintf(`{
		"type": "categorical_analysis",
		"analysis": {"value_counts": {"label_counts": %s}}
	}`, counts)

	payload, err := Parse([]byte(doc))
	require.NoError(t, err)

	sections := Render(payload)
	counted := sectionByKind(t, sections, SectionValueCounts)
	assert.Equal(t, "label", counted.Title)
	assert.Len(t, counted.Rows, 10, "value counts are capped at ten rows")
	assert.Equal(t, []string{"v00", "0"}, counted.Rows[0])
	assert.Equal(t, []string{"v09", "9"}, counted.Rows[9])
}

func TestRenderNumerical(t *testing.T) {
	payload, err := Parse([]byte(numericalDoc))
	require.NoError(t, err)

	sections := Render(payload)

	types := sectionByKind(t, sections, SectionColumnTypes)
	assert.Equal(t, "Numerical Columns", types.Title)
	assert.Equal(t, []string{"age", "score"}, types.Badges)

	preview := sectionByKind(t, sections, SectionPreview)
	assert.Equal(t, []string{"31.00", "88.50"}, preview.Rows[0], "numerical previews use two decimals")

	stats := sectionByKind(t, sections, SectionSummaryStats)
	assert.Equal(t, []string{"Metric", "age", "score"}, stats.Columns)
	require.Len(t, stats.Rows, 8)
	assert.Equal(t, []string{"count", "2.00", "2.00"}, stats.Rows[0])
	assert.Equal(t, []string{"mean", "29.00", "89.75"}, stats.Rows[1])
	assert.Equal(t, []string{"max", "31.00", "91.00"}, stats.Rows[7])

	outliers := sectionByKind(t, sections, SectionOutliers)
	assert.Equal(t, "Outliers Detected", outliers.Title)
	assert.Equal(t, [][]string{{"age", "0"}, {"score", "1"}}, outliers.Rows)
}

func TestRenderEmptySections(t *testing.T) {
	payload, err := Parse([]byte(`{"type": "categorical_analysis"}`))
	require.NoError(t, err)
	assert.Empty(t, Render(payload))

	payload, err = Parse([]byte(`{"type": "numerical_analysis", "analysis": {"value_counts": {"x_counts": {"a": 1}}}}`))
	require.NoError(t, err)
	assert.Empty(t, Render(payload), "value counts do not render for numerical analyses")
}

func TestParseRejectsUnknownType(t *testing.T) {
	_, err := Parse([]byte(`{"type": "prose"}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`not json`))
	assert.Error(t, err)
}

func TestIsAnalysis(t *testing.T) {
	assert.True(t, IsAnalysis([]byte(`{"type": "categorical_analysis"}`)))
	assert.True(t, IsAnalysis([]byte(numericalDoc)))
	assert.False(t, IsAnalysis([]byte(`hello there`)))
	assert.False(t, IsAnalysis([]byte(`{"type": "poem"}`)))
	assert.False(t, IsAnalysis([]byte(`Positive (Score: 0.92)`)))
}

func TestObjectEntriesPreservesOrder(t *testing.T) {
	entries, err := objectEntries(json.RawMessage(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

package analysis

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

const (
	previewRowCap    = 5
	valueCountRowCap = 10
)

// summaryStatOrder is the fixed row order of the summary statistics table.
var summaryStatOrder = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

const (
	SectionColumnTypes   = "column_types"
	SectionPreview       = "dataset_preview"
	SectionValueCounts   = "value_counts"
	SectionSummaryStats  = "summary_stats"
	SectionMissingValues = "missing_values"
	SectionOutliers      = "outliers"
	SectionPlots         = "plots"
)

// Section is one display block of a rendered analysis. Exactly one of
// Badges, Columns/Rows, or Plots is populated, depending on Kind.
type Section struct {
	Kind    string     `json:"kind"`
	Title   string     `json:"title"`
	Badges  []string   `json:"badges,omitempty"`
	Columns []string   `json:"columns,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
	Plots   []Plot     `json:"plots,omitempty"`
}

// Plot carries one named base64 PNG as a data URL.
type Plot struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url"`
}

// Render transforms a payload into its ordered display sections. Sections
// whose driving field is absent or empty are skipped; nothing is sorted, maps
// keep the order the producer wrote them in.
func Render(payload Payload) []Section {
	var sections []Section

	appendSection := func(s Section, ok bool) {
		if ok {
			sections = append(sections, s)
		}
	}

	numerical := payload.Type == TypeNumerical

	appendSection(renderColumnTypes(payload))
	appendSection(renderPreview(payload.DatasetPreview, numerical))

	if payload.Analysis != nil {
		if numerical {
			appendSection(renderSummaryStats(payload.Analysis.SummaryStats))
			appendSection(renderCountTable(payload.Analysis.MissingValues, SectionMissingValues, "Missing Values"))
			appendSection(renderCountTable(payload.Analysis.Outliers, SectionOutliers, "Outliers Detected"))
		} else {
			sections = append(sections, renderValueCounts(payload.Analysis.ValueCounts)...)
			appendSection(renderCountTable(payload.Analysis.MissingValues, SectionMissingValues, "Missing Values"))
		}
	}

	appendSection(renderPlots(payload.Plots))

	return sections
}

func renderColumnTypes(payload Payload) (Section, bool) {
	if payload.ColumnTypes == nil {
		return Section{}, false
	}

	title := "Column Types"
	badges := payload.ColumnTypes.Categorical
	if payload.Type == TypeNumerical {
		title = "Numerical Columns"
		badges = payload.ColumnTypes.Numerical
	}
	if len(badges) == 0 {
		return Section{}, false
	}

	return Section{Kind: SectionColumnTypes, Title: title, Badges: badges}, true
}

func renderPreview(rows []json.RawMessage, formatNumbers bool) (Section, bool) {
	if len(rows) == 0 {
		return Section{}, false
	}
	if len(rows) > previewRowCap {
		rows = rows[:previewRowCap]
	}

	header, err := objectEntries(rows[0])
	if err != nil || len(header) == 0 {
		return Section{}, false
	}

	columns := make([]string, len(header))
	for i, entry := range header {
		columns[i] = entry.Key
	}

	var table [][]string
	for _, raw := range rows {
		entries, err := objectEntries(raw)
		if err != nil {
			continue
		}
		byKey := make(map[string]json.RawMessage, len(entries))
		for _, entry := range entries {
			byKey[entry.Key] = entry.Value
		}

		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = formatCell(byKey[col], formatNumbers)
		}
		table = append(table, row)
	}

	return Section{
		Kind:    SectionPreview,
		Title:   "Dataset Preview",
		Columns: columns,
		Rows:    table,
	}, true
}

func renderValueCounts(raw json.RawMessage) []Section {
	groups, err := objectEntries(raw)
	if err != nil || len(groups) == 0 {
		return nil
	}

	var sections []Section
	for _, group := range groups {
		counts, err := objectEntries(group.Value)
		if err != nil || len(counts) == 0 {
			continue
		}
		if len(counts) > valueCountRowCap {
			counts = counts[:valueCountRowCap]
		}

		rows := make([][]string, 0, len(counts))
		for _, count := range counts {
			rows = append(rows, []string{count.Key, formatCell(count.Value, false)})
		}

		sections = append(sections, Section{
			Kind:    SectionValueCounts,
			Title:   strings.TrimSuffix(group.Key, "_counts"),
			Columns: []string{"Value", "Count"},
			Rows:    rows,
		})
	}

	return sections
}

func renderSummaryStats(stats map[string]map[string]any) (Section, bool) {
	if len(stats) == 0 {
		return Section{}, false
	}

	columns := make([]string, 0, len(stats))
	for col := range stats {
		columns = append(columns, col)
	}
	// Column order of summary stats is not producer-defined (it arrives as one
	// object per column); keep it stable instead.
	sort.Strings(columns)

	rows := make([][]string, 0, len(summaryStatOrder))
	for _, stat := range summaryStatOrder {
		row := make([]string, 0, len(columns)+1)
		row = append(row, stat)
		for _, col := range columns {
			row = append(row, formatValue(stats[col][stat], true))
		}
		rows = append(rows, row)
	}

	return Section{
		Kind:    SectionSummaryStats,
		Title:   "Summary Statistics",
		Columns: append([]string{"Metric"}, columns...),
		Rows:    rows,
	}, true
}

func renderCountTable(raw json.RawMessage, kind, title string) (Section, bool) {
	entries, err := objectEntries(raw)
	if err != nil || len(entries) == 0 {
		return Section{}, false
	}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{entry.Key, formatCell(entry.Value, false)})
	}

	return Section{
		Kind:    kind,
		Title:   title,
		Columns: []string{"Column", "Count"},
		Rows:    rows,
	}, true
}

func renderPlots(raw json.RawMessage) (Section, bool) {
	entries, err := objectEntries(raw)
	if err != nil || len(entries) == 0 {
		return Section{}, false
	}

	plots := make([]Plot, 0, len(entries))
	for _, entry := range entries {
		var b64 string
		if err := json.Unmarshal(entry.Value, &b64); err != nil || b64 == "" {
			continue
		}
		plots = append(plots, Plot{
			Name:     entry.Key,
			Title:    humanize(entry.Key),
			ImageURL: "data:image/png;base64," + b64,
		})
	}
	if len(plots) == 0 {
		return Section{}, false
	}

	return Section{Kind: SectionPlots, Title: "Visualizations", Plots: plots}, true
}

// formatCell stringifies one raw JSON value. Numbers are optionally fixed to
// two decimals; everything else renders as-is.
func formatCell(raw json.RawMessage, formatNumbers bool) string {
	if len(raw) == 0 {
		return ""
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return string(raw)
	}
	return formatValue(value, formatNumbers)
}

func formatValue(value any, formatNumbers bool) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if formatNumbers {
			return strconv.FormatFloat(v, 'f', 2, 64)
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func humanize(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

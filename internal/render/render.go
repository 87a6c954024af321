// Package render converts service results into the caller-facing reply text:
// markdown for humans, indented JSON for machines. It performs no validation;
// payloads are assumed well-formed by the time they arrive here.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gauthk/dataconsole/internal/files"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/internal/tabular"
	"github.com/gauthk/dataconsole/internal/weather"
)

// Mode selects the reply representation.
type Mode string

const (
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// ParseMode maps the caller's response_format argument to a Mode. Empty
// defaults to markdown; anything else is rejected.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", string(ModeMarkdown):
		return ModeMarkdown, nil
	case string(ModeJSON):
		return ModeJSON, nil
	}
	return "", fmt.Errorf("render: unknown response format %q", s)
}

// jsonBlock is the structured rendering for every payload kind: a lossless,
// re-parseable serialization.
func jsonBlock(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Payload shapes are fixed structs and scalar maps; this is a
		// programming error, not a runtime condition.
		panic(fmt.Sprintf("render: marshal payload: %v", err))
	}
	return string(b)
}

// Weather renders a weather report.
func Weather(r weather.Report, mode Mode) string {
	if mode == ModeJSON {
		return jsonBlock(r)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Weather for %s\n\n", r.City)
	fmt.Fprintf(&b, "**Temperature:** %.2f°C\n", r.TemperatureCelsius)
	fmt.Fprintf(&b, "**Humidity:** %d%%\n", r.Humidity)
	fmt.Fprintf(&b, "**Condition:** %s\n", r.Condition)
	return b.String()
}

// FileList renders the data-directory listing.
func FileList(names []string, mode Mode) string {
	if mode == ModeJSON {
		return jsonBlock(map[string]any{"files": names})
	}
	if len(names) == 0 {
		return "**No files found in data directory**"
	}
	var b strings.Builder
	b.WriteString("# Files in Data Directory\n\n")
	for _, n := range names {
		fmt.Fprintf(&b, "- %s\n", n)
	}
	fmt.Fprintf(&b, "\n**Total:** %d file(s)\n", len(names))
	return b.String()
}

// FileContent renders a file read with line and character counts.
func FileContent(c files.Content, mode Mode) string {
	if mode == ModeJSON {
		return jsonBlock(c)
	}
	lines := strings.Count(c.Content, "\n") + 1
	var b strings.Builder
	fmt.Fprintf(&b, "# File: %s\n\n", c.Filename)
	fmt.Fprintf(&b, "**Lines:** %d | **Characters:** %d\n\n---\n\n", lines, len(c.Content))
	b.WriteString(c.Content)
	return b.String()
}

// CSVSummary renders a tabular summary.
func CSVSummary(s tabular.Summary, mode Mode) string {
	if mode == ModeJSON {
		return jsonBlock(s)
	}
	var b strings.Builder
	b.WriteString("# CSV File Summary\n\n")
	fmt.Fprintf(&b, "**Total Rows:** %d\n\n", s.Rows)
	fmt.Fprintf(&b, "## Columns (%d)\n", len(s.Columns))
	for _, col := range s.Columns {
		fmt.Fprintf(&b, "  - %s\n", col)
	}
	b.WriteString("\n## Missing Values\n")
	for _, col := range s.Columns {
		fmt.Fprintf(&b, "  - **%s:** %d\n", col, s.MissingValues[col])
	}
	return b.String()
}

// CSVFilter renders filter results as a pipe table over the preview, laid
// out in the dataset's column order.
func CSVFilter(res tabular.FilterResult, mode Mode) string {
	if mode == ModeJSON {
		return jsonBlock(res)
	}
	var b strings.Builder
	b.WriteString("# Filter Results\n\n")
	fmt.Fprintf(&b, "**Rows Found:** %d\n\n", res.RowsFound)
	if len(res.Preview) == 0 {
		b.WriteString("No matching rows.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "## Preview (first %d rows)\n\n", len(res.Preview))
	b.WriteString(pipeTable(res.Columns, res.Preview))
	return b.String()
}

// Records renders stored records as a pipe table in schema column order.
func Records(table string, records []store.Record, mode Mode) string {
	if mode == ModeJSON {
		return jsonBlock(map[string]any{"table": table, "records": records})
	}
	if len(records) == 0 {
		return fmt.Sprintf("# %s\n\n**No records found**", table)
	}
	columns := []string{}
	if ts, ok := store.Schema(table); ok {
		columns = ts.Columns()
	}
	rows := make([]map[string]any, len(records))
	for i, r := range records {
		rows[i] = r
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Records\n\n", table)
	fmt.Fprintf(&b, "**Count:** %d record(s)\n\n", len(records))
	b.WriteString(pipeTable(columns, rows))
	return b.String()
}

// InsertReceipt renders the confirmation for a non-idempotent insert,
// echoing the caller's data.
func InsertReceipt(table string, id int64, data map[string]any) string {
	return fmt.Sprintf("Successfully inserted record into %s (id %d)\n\nData: %s", table, id, jsonBlock(data))
}

// DBSummary renders a table count summary. The summary tool always replies
// with the structured form, so no mode argument here.
func DBSummary(s store.Summary) string {
	return jsonBlock(s)
}

// pipeTable lays rows out as a markdown table under the given header.
func pipeTable(columns []string, rows []map[string]any) string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(columns)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = cellText(row[col])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		// Trim the mantissa for whole numbers so 10 does not print as 10.000000.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%g", x)
	default:
		return fmt.Sprintf("%v", v)
	}
}

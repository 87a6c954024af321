package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gauthk/dataconsole/internal/files"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/internal/tabular"
	"github.com/gauthk/dataconsole/internal/weather"
)

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	require.Equal(t, ModeMarkdown, m)

	m, err = ParseMode("json")
	require.NoError(t, err)
	require.Equal(t, ModeJSON, m)

	_, err = ParseMode("xml")
	require.Error(t, err)
}

func TestWeather_JSONIsLossless(t *testing.T) {
	r := weather.Report{City: "Chennai", TemperatureCelsius: 33.25, Humidity: 61, Condition: "Sunny"}

	var back weather.Report
	require.NoError(t, json.Unmarshal([]byte(Weather(r, ModeJSON)), &back))
	require.Equal(t, r, back)
}

func TestWeather_Markdown(t *testing.T) {
	out := Weather(weather.Report{City: "Chennai", TemperatureCelsius: 33.25, Humidity: 61, Condition: "Sunny"}, ModeMarkdown)
	require.Contains(t, out, "# Weather for Chennai")
	require.Contains(t, out, "**Temperature:** 33.25°C")
	require.Contains(t, out, "**Humidity:** 61%")
	require.Contains(t, out, "**Condition:** Sunny")
}

func TestFileList(t *testing.T) {
	out := FileList([]string{"a.csv", "b.txt"}, ModeMarkdown)
	require.Contains(t, out, "- a.csv")
	require.Contains(t, out, "**Total:** 2 file(s)")

	require.Contains(t, FileList(nil, ModeMarkdown), "No files found")

	var payload struct {
		Files []string `json:"files"`
	}
	require.NoError(t, json.Unmarshal([]byte(FileList([]string{"a.csv"}, ModeJSON)), &payload))
	require.Equal(t, []string{"a.csv"}, payload.Files)
}

func TestFileContent_Markdown(t *testing.T) {
	out := FileContent(files.Content{Filename: "notes.txt", Content: "one\ntwo"}, ModeMarkdown)
	require.Contains(t, out, "# File: notes.txt")
	require.Contains(t, out, "**Lines:** 2 | **Characters:** 7")
	require.Contains(t, out, "one\ntwo")
}

func TestCSVSummary_Markdown(t *testing.T) {
	out := CSVSummary(tabular.Summary{
		Rows:          5,
		Columns:       []string{"A", "B"},
		MissingValues: map[string]int{"A": 0, "B": 2},
	}, ModeMarkdown)
	require.Contains(t, out, "**Total Rows:** 5")
	require.Contains(t, out, "## Columns (2)")
	require.Contains(t, out, "**B:** 2")
}

func TestCSVFilter_PipeTableInColumnOrder(t *testing.T) {
	res := tabular.FilterResult{
		RowsFound: 2,
		Columns:   []string{"Category", "Amount"},
		Preview: []map[string]any{
			{"Category": "Food", "Amount": float64(10)},
			{"Category": "Food", "Amount": 12.5},
		},
	}
	out := CSVFilter(res, ModeMarkdown)
	require.Contains(t, out, "**Rows Found:** 2")
	require.Contains(t, out, "| Category | Amount |\n")
	require.Contains(t, out, "| Food | 10 |")
	require.Contains(t, out, "| Food | 12.5 |")
}

func TestCSVFilter_NoMatches(t *testing.T) {
	out := CSVFilter(tabular.FilterResult{RowsFound: 0, Columns: []string{"A"}, Preview: []map[string]any{}}, ModeMarkdown)
	require.Contains(t, out, "No matching rows.")
}

func TestCSVFilter_JSONOmitsColumnOrder(t *testing.T) {
	res := tabular.FilterResult{RowsFound: 1, Columns: []string{"A"}, Preview: []map[string]any{{"A": "x"}}}
	out := CSVFilter(res, ModeJSON)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	require.Equal(t, float64(1), payload["rows_found"])
	require.Contains(t, payload, "preview")
	require.NotContains(t, payload, "Columns")
}

func TestRecords(t *testing.T) {
	recs := []store.Record{
		{"id": int64(2), "city": "Delhi", "temperature": 30.0, "condition": "Rainy", "timestamp": "2026-08-31 10:00:00"},
		{"id": int64(1), "city": "Pune", "temperature": 28.0, "condition": "Sunny", "timestamp": "2026-08-31 09:00:00"},
	}
	out := Records("weather_logs", recs, ModeMarkdown)
	require.Contains(t, out, "# weather_logs Records")
	require.Contains(t, out, "**Count:** 2 record(s)")
	require.Contains(t, out, "| id | city | temperature | condition | timestamp |")
	require.Contains(t, out, "| 2 | Delhi | 30 | Rainy |")

	require.Contains(t, Records("weather_logs", nil, ModeMarkdown), "No records found")
}

func TestInsertReceipt(t *testing.T) {
	out := InsertReceipt("weather_logs", 7, map[string]any{"city": "Chennai"})
	require.Contains(t, out, "Successfully inserted record into weather_logs (id 7)")
	require.Contains(t, out, `"city": "Chennai"`)
}

func TestDBSummary(t *testing.T) {
	var back store.Summary
	require.NoError(t, json.Unmarshal([]byte(DBSummary(store.Summary{Table: "reports", TotalRecords: 3})), &back))
	require.Equal(t, store.Summary{Table: "reports", TotalRecords: 3}, back)
}

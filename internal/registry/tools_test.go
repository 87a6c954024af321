package registry

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/gauthk/dataconsole/internal/files"
	"github.com/gauthk/dataconsole/internal/runtime"
	"github.com/gauthk/dataconsole/internal/security"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/internal/tabular"
	"github.com/gauthk/dataconsole/internal/weather"
)

func newDeps(t *testing.T) (Deps, string) {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	sec, err := security.NewManager(root)
	require.NoError(t, err)

	ctx := context.Background()
	st, err := store.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.EnsureSchema(ctx))

	limits := runtime.NewLimits(1)
	return Deps{
		Security: sec,
		Weather:  weather.NewServiceWithSource(rand.NewPCG(3, 5)),
		Files:    files.NewService(sec, limits.MaxFileBytes),
		Tabular:  tabular.NewService(limits.MaxDatasetRows, limits.PreviewRows),
		Store:    st,
		Limits:   limits,
	}, root
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	return tc.Text
}

func TestGetWeather_Markdown(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleGetWeather(d)(context.Background(),
		callRequest("get_weather", map[string]any{"city": "Chennai"}),
		WeatherInput{City: "Chennai"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "# Weather for Chennai")
}

func TestGetWeather_JSONPayloadShape(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleGetWeather(d)(context.Background(),
		callRequest("get_weather", map[string]any{"city": "Mumbai", "response_format": "json"}),
		WeatherInput{City: "Mumbai", ResponseFormat: "json"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	require.Equal(t, "Mumbai", payload["city"])
	require.Contains(t, payload, "temperature_celsius")
	require.Contains(t, payload, "humidity")
	require.Contains(t, payload, "condition")
}

func TestGetWeather_RejectsUnknownParams(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleGetWeather(d)(context.Background(),
		callRequest("get_weather", map[string]any{"city": "Pune", "country": "IN"}),
		WeatherInput{City: "Pune"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "unknown parameter(s): country")
}

func TestGetWeather_BlankCityRejected(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleGetWeather(d)(context.Background(),
		callRequest("get_weather", map[string]any{"city": "   "}),
		WeatherInput{City: "   "})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.True(t, strings.HasPrefix(resultText(t, res), "VALIDATION:"))
}

func TestListFiles(t *testing.T) {
	d, root := newDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "sample.csv"), []byte("A\n1\n"), 0o644))

	res, err := handleListFiles(d)(context.Background(),
		callRequest("list_files", nil), FileListInput{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "sample.csv")
}

func TestReadFile_TraversalDenied(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleReadFile(d)(context.Background(),
		callRequest("read_file", map[string]any{"filename": "../escape.txt"}),
		FileReadInput{Filename: "../escape.txt"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.True(t, strings.HasPrefix(resultText(t, res), "VALIDATION:"))
}

func TestReadFile_NotFound(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleReadFile(d)(context.Background(),
		callRequest("read_file", map[string]any{"filename": "absent.txt"}),
		FileReadInput{Filename: "absent.txt"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.True(t, strings.HasPrefix(resultText(t, res), "NOT_FOUND:"))
}

func TestReadFile_Content(t *testing.T) {
	d, root := newDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("hello"), 0o644))

	res, err := handleReadFile(d)(context.Background(),
		callRequest("read_file", map[string]any{"filename": "notes.txt", "response_format": "json"}),
		FileReadInput{Filename: "notes.txt", ResponseFormat: "json"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var payload files.Content
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	require.Equal(t, files.Content{Filename: "notes.txt", Content: "hello"}, payload)
}

func TestSummarizeCSV_Scenario(t *testing.T) {
	d, root := newDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "data.csv"),
		[]byte("A,B\n1,x\n2,\n3,y\n4,\n5,z\n"), 0o644))

	res, err := handleSummarizeCSV(d)(context.Background(),
		callRequest("summarize_csv", map[string]any{"filename": "data.csv", "response_format": "json"}),
		CSVSummaryInput{Filename: "data.csv", ResponseFormat: "json"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var payload tabular.Summary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	require.Equal(t, 5, payload.Rows)
	require.Equal(t, []string{"A", "B"}, payload.Columns)
	require.Equal(t, map[string]int{"A": 0, "B": 2}, payload.MissingValues)
}

func TestSummarizeCSV_MalformedIsValidation(t *testing.T) {
	d, root := newDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad.csv"),
		[]byte("A,B\n1,2\n3,4,5\n"), 0o644))

	res, err := handleSummarizeCSV(d)(context.Background(),
		callRequest("summarize_csv", map[string]any{"filename": "bad.csv"}),
		CSVSummaryInput{Filename: "bad.csv"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.True(t, strings.HasPrefix(resultText(t, res), "VALIDATION:"))
}

func TestFilterCSV_Scenario(t *testing.T) {
	d, root := newDeps(t)
	content := "Category,Amount\n" +
		"Food,10\nTravel,20\nFood,30\nRent,40\nFood,50\n" +
		"Travel,60\nRent,70\nTravel,80\nRent,90\nUtil,100\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "sample.csv"), []byte(content), 0o644))

	res, err := handleFilterCSV(d)(context.Background(),
		callRequest("filter_csv", map[string]any{"filename": "sample.csv", "column": "Category", "value": "Food"}),
		CSVFilterInput{Filename: "sample.csv", Column: "Category", Value: "Food"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	require.Contains(t, text, "**Rows Found:** 3")
	require.Equal(t, 3, strings.Count(text, "| Food |"))
}

func TestFilterCSV_UnknownColumn(t *testing.T) {
	d, root := newDeps(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "s.csv"), []byte("A\n1\n"), 0o644))

	res, err := handleFilterCSV(d)(context.Background(),
		callRequest("filter_csv", map[string]any{"filename": "s.csv", "column": "Z", "value": "1"}),
		CSVFilterInput{Filename: "s.csv", Column: "Z", Value: "1"})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), `column "Z" not found`)
}

func TestInsertThenQuery_Scenario(t *testing.T) {
	d, _ := newDeps(t)
	ctx := context.Background()

	insertRes, err := handleInsertRecord(d)(ctx,
		callRequest("insert_database_record", map[string]any{
			"table": "weather_logs",
			"data":  map[string]any{"city": "Chennai", "temperature": float64(34), "condition": "Sunny"},
		}),
		DBInsertInput{Table: "weather_logs", Data: map[string]any{
			"city": "Chennai", "temperature": float64(34), "condition": "Sunny",
		}})
	require.NoError(t, err)
	require.False(t, insertRes.IsError)
	require.Contains(t, resultText(t, insertRes), "Successfully inserted record into weather_logs")

	queryRes, err := handleQueryRecords(d)(ctx,
		callRequest("query_database_records", map[string]any{
			"table": "weather_logs", "limit": float64(1), "response_format": "json",
		}),
		DBQueryInput{Table: "weather_logs", Limit: 1, ResponseFormat: "json"})
	require.NoError(t, err)
	require.False(t, queryRes.IsError)

	var payload struct {
		Table   string           `json:"table"`
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, queryRes)), &payload))
	require.Equal(t, "weather_logs", payload.Table)
	require.Len(t, payload.Records, 1)
	require.Equal(t, "Chennai", payload.Records[0]["city"])
	require.Equal(t, float64(34), payload.Records[0]["temperature"])
	require.NotNil(t, payload.Records[0]["id"])
	require.NotEmpty(t, payload.Records[0]["timestamp"])
}

func TestInsert_InvalidTableNeverReachesStorage(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleInsertRecord(d)(context.Background(),
		callRequest("insert_database_record", map[string]any{
			"table": "users", "data": map[string]any{"x": 1},
		}),
		DBInsertInput{Table: "users", Data: map[string]any{"x": 1}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "Invalid table name")
}

func TestInsert_ExtraColumnRejected(t *testing.T) {
	d, _ := newDeps(t)

	res, err := handleInsertRecord(d)(context.Background(),
		callRequest("insert_database_record", map[string]any{
			"table": "file_logs",
			"data":  map[string]any{"filename": "a.txt", "action": "read", "id": float64(9)},
		}),
		DBInsertInput{Table: "file_logs", Data: map[string]any{
			"filename": "a.txt", "action": "read", "id": float64(9),
		}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.True(t, strings.HasPrefix(resultText(t, res), "VALIDATION:"))
}

func TestQueryRecords_LimitBounds(t *testing.T) {
	d, _ := newDeps(t)
	ctx := context.Background()

	// Explicit zero is rejected before touching storage.
	res, err := handleQueryRecords(d)(ctx,
		callRequest("query_database_records", map[string]any{"table": "reports", "limit": float64(0)}),
		DBQueryInput{Table: "reports", Limit: 0})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "limit must be between 1 and 100")

	// Over-max rejected.
	res, err = handleQueryRecords(d)(ctx,
		callRequest("query_database_records", map[string]any{"table": "reports", "limit": float64(101)}),
		DBQueryInput{Table: "reports", Limit: 101})
	require.NoError(t, err)
	require.True(t, res.IsError)

	// Omitted limit uses the default and succeeds on an empty table.
	res, err = handleQueryRecords(d)(ctx,
		callRequest("query_database_records", map[string]any{"table": "reports"}),
		DBQueryInput{Table: "reports"})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "No records found")
}

func TestDBSummary(t *testing.T) {
	d, _ := newDeps(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := d.Store.Insert(ctx, "reports", map[string]any{"report_name": "r", "content": "c"})
		require.NoError(t, err)
	}

	res, err := handleDBSummary(d)(ctx,
		callRequest("get_database_summary", map[string]any{"table": "reports"}),
		DBSummaryInput{Table: "reports"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var payload store.Summary
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &payload))
	require.Equal(t, store.Summary{Table: "reports", TotalRecords: 2}, payload)
}

func TestRegistry_StableSortedTools(t *testing.T) {
	reg := New()
	reg.Register(mcp.NewTool("query_database_records"))
	reg.Register(mcp.NewTool("get_weather"))
	reg.Register(mcp.NewTool("list_files"))

	tools, err := reg.Tools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 3)
	require.Equal(t, "get_weather", tools[0].Name)
	require.Equal(t, "list_files", tools[1].Name)
	require.Equal(t, "query_database_records", tools[2].Name)
}

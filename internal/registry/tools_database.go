package registry

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gauthk/dataconsole/internal/render"
	"github.com/gauthk/dataconsole/internal/store"
	"github.com/gauthk/dataconsole/pkg/mcperr"
	"github.com/gauthk/dataconsole/pkg/validation"
)

// DBInsertInput defines parameters for appending a record.
type DBInsertInput struct {
	Table string         `json:"table" validate:"required,dbtable" jsonschema_description:"Table name. Must be one of: weather_logs, file_logs, reports"`
	Data  map[string]any `json:"data" validate:"required" jsonschema_description:"Column-value pairs to insert. weather_logs: {city, temperature, condition}; file_logs: {filename, action}; reports: {report_name, content}"`
}

// DBQueryInput defines parameters for querying recent records.
type DBQueryInput struct {
	Table          string `json:"table" validate:"required,dbtable" jsonschema_description:"Table name to query. Must be one of: weather_logs, file_logs, reports"`
	Limit          int    `json:"limit,omitempty" jsonschema_description:"Maximum number of records to return (1-100, default 10)"`
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=markdown json" jsonschema_description:"Output format: 'markdown' for human-readable or 'json' for structured data"`
}

// DBSummaryInput defines parameters for a table count summary.
type DBSummaryInput struct {
	Table string `json:"table" validate:"required,dbtable" jsonschema_description:"Table name to summarize. Must be one of: weather_logs, file_logs, reports"`
}

func registerDatabaseTools(s *server.MCPServer, reg *Registry, d Deps) {
	tableEnum := store.TableNames()

	insertTool := mcp.NewTool(
		"insert_database_record",
		mcp.WithDescription("Insert a new record into a whitelisted table. The record's keys must exactly match the table's columns; id and timestamp are assigned by the store. Each call appends a new record."),
		mcp.WithString("table", mcp.Required(), mcp.Enum(tableEnum...), mcp.Description("Table to insert into")),
		mcp.WithObject("data", mcp.Required(), mcp.Description("Column-value pairs to insert")),
		mcp.WithTitleAnnotation("Insert Record into Database"),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(insertTool, mcp.NewTypedToolHandler(handleInsertRecord(d)))
	reg.Register(insertTool)

	queryTool := mcp.NewTool(
		"query_database_records",
		mcp.WithDescription("Query the most recent records from a whitelisted table, newest first"),
		mcp.WithString("table", mcp.Required(), mcp.Enum(tableEnum...), mcp.Description("Table to query")),
		mcp.WithNumber("limit", mcp.DefaultNumber(float64(d.Limits.QueryLimitDefault)), mcp.Min(1), mcp.Max(float64(d.Limits.QueryLimitMax)), mcp.Description("Maximum number of records to return")),
		mcp.WithString("response_format", mcp.DefaultString("markdown"), mcp.Enum("markdown", "json"), mcp.Description("Output format")),
		mcp.WithTitleAnnotation("Query Database Records"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(queryTool, mcp.NewTypedToolHandler(handleQueryRecords(d)))
	reg.Register(queryTool)

	summaryTool := mcp.NewTool(
		"get_database_summary",
		mcp.WithDescription("Get the total record count for a whitelisted table"),
		mcp.WithString("table", mcp.Required(), mcp.Enum(tableEnum...), mcp.Description("Table to summarize")),
		mcp.WithTitleAnnotation("Get Database Table Summary"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(summaryTool, mcp.NewTypedToolHandler(handleDBSummary(d)))
	reg.Register(summaryTool)
}

func handleInsertRecord(d Deps) func(context.Context, mcp.CallToolRequest, DBInsertInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in DBInsertInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "table", "data"); res != nil {
			return res, nil
		}
		in.Table = strings.TrimSpace(in.Table)
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}

		id, err := d.Store.Insert(ctx, in.Table, in.Data)
		if err != nil {
			return storeErrorResult(err), nil
		}
		return mcp.NewToolResultText(render.InsertReceipt(in.Table, id, in.Data)), nil
	}
}

func handleQueryRecords(d Deps) func(context.Context, mcp.CallToolRequest, DBQueryInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in DBQueryInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "table", "limit", "response_format"); res != nil {
			return res, nil
		}
		in.Table = strings.TrimSpace(in.Table)
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}
		mode, err := render.ParseMode(in.ResponseFormat)
		if err != nil {
			return mcperr.New(mcperr.Validation, err.Error()), nil
		}

		// An omitted limit falls back to the default; an explicit zero or
		// out-of-range value is rejected before touching storage.
		limit := d.Limits.QueryLimitDefault
		if hasArg(req, "limit") {
			if in.Limit < 1 || in.Limit > d.Limits.QueryLimitMax {
				return mcperr.Wrapf(mcperr.Validation, "limit must be between 1 and %d", d.Limits.QueryLimitMax), nil
			}
			limit = in.Limit
		}

		records, err := d.Store.QueryRecent(ctx, in.Table, limit)
		if err != nil {
			return storeErrorResult(err), nil
		}
		return mcp.NewToolResultText(render.Records(in.Table, records, mode)), nil
	}
}

func handleDBSummary(d Deps) func(context.Context, mcp.CallToolRequest, DBSummaryInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in DBSummaryInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "table"); res != nil {
			return res, nil
		}
		in.Table = strings.TrimSpace(in.Table)
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}

		summary, err := d.Store.CountSummary(ctx, in.Table)
		if err != nil {
			return storeErrorResult(err), nil
		}
		return mcp.NewToolResultText(render.DBSummary(summary)), nil
	}
}

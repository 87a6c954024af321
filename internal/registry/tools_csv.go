package registry

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/gauthk/dataconsole/internal/render"
	"github.com/gauthk/dataconsole/pkg/mcperr"
	"github.com/gauthk/dataconsole/pkg/validation"
)

// CSVSummaryInput defines parameters for summarizing a tabular file.
type CSVSummaryInput struct {
	Filename       string `json:"filename" validate:"required,datafile" jsonschema_description:"Name of the CSV or XLSX file to analyze. Must be in the data directory."`
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=markdown json" jsonschema_description:"Output format: 'markdown' for human-readable or 'json' for structured data"`
}

// CSVFilterInput defines parameters for filtering tabular data.
type CSVFilterInput struct {
	Filename       string `json:"filename" validate:"required,datafile" jsonschema_description:"Name of the CSV or XLSX file to filter"`
	Column         string `json:"column" validate:"required,max=100" jsonschema_description:"Column name to filter by (e.g., 'Category', 'Status', 'Region')"`
	Value          string `json:"value" validate:"required" jsonschema_description:"Value to match in the column; numeric columns compare numerically"`
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=markdown json" jsonschema_description:"Output format: 'markdown' for human-readable or 'json' for structured data"`
}

func registerCSVTools(s *server.MCPServer, reg *Registry, d Deps) {
	summaryTool := mcp.NewTool(
		"summarize_csv",
		mcp.WithDescription("Get a statistical summary of a CSV or XLSX file: row count, column names, and missing values per column"),
		mcp.WithString("filename", mcp.Required(), mcp.MaxLength(255), mcp.Description("Name of the file to analyze; must be inside the data directory")),
		mcp.WithString("response_format", mcp.DefaultString("markdown"), mcp.Enum("markdown", "json"), mcp.Description("Output format")),
		mcp.WithTitleAnnotation("Analyze CSV File"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(summaryTool, mcp.NewTypedToolHandler(handleSummarizeCSV(d)))
	reg.Register(summaryTool)

	filterTool := mcp.NewTool(
		"filter_csv",
		mcp.WithDescription("Filter a CSV or XLSX file by column value; returns the match count and a preview of the first matching rows"),
		mcp.WithString("filename", mcp.Required(), mcp.MaxLength(255), mcp.Description("Name of the file to filter")),
		mcp.WithString("column", mcp.Required(), mcp.MaxLength(100), mcp.Description("Column name to filter by")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to match in the column")),
		mcp.WithString("response_format", mcp.DefaultString("markdown"), mcp.Enum("markdown", "json"), mcp.Description("Output format")),
		mcp.WithTitleAnnotation("Filter CSV Data"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(filterTool, mcp.NewTypedToolHandler(handleFilterCSV(d)))
	reg.Register(filterTool)
}

func handleSummarizeCSV(d Deps) func(context.Context, mcp.CallToolRequest, CSVSummaryInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in CSVSummaryInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "filename", "response_format"); res != nil {
			return res, nil
		}
		in.Filename = strings.TrimSpace(in.Filename)
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}
		mode, err := render.ParseMode(in.ResponseFormat)
		if err != nil {
			return mcperr.New(mcperr.Validation, err.Error()), nil
		}

		path, err := d.Security.Resolve(in.Filename)
		if err != nil {
			return errorResult(err), nil
		}
		summary, err := d.Tabular.Summarize(path)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(render.CSVSummary(summary, mode)), nil
	}
}

func handleFilterCSV(d Deps) func(context.Context, mcp.CallToolRequest, CSVFilterInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in CSVFilterInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "filename", "column", "value", "response_format"); res != nil {
			return res, nil
		}
		in.Filename = strings.TrimSpace(in.Filename)
		in.Column = strings.TrimSpace(in.Column)
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}
		mode, err := render.ParseMode(in.ResponseFormat)
		if err != nil {
			return mcperr.New(mcperr.Validation, err.Error()), nil
		}

		path, err := d.Security.Resolve(in.Filename)
		if err != nil {
			return errorResult(err), nil
		}
		result, err := d.Tabular.Filter(path, in.Column, in.Value)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(render.CSVFilter(result, mode)), nil
	}
}

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

// FileListInput defines parameters for listing data-directory files.
type FileListInput struct {
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=markdown json" jsonschema_description:"Output format: 'markdown' for human-readable or 'json' for structured data"`
}

// FileReadInput defines parameters for reading a file's contents.
type FileReadInput struct {
	Filename       string `json:"filename" validate:"required,datafile" jsonschema_description:"Name of the file to read (e.g., 'notes.txt'). Must be in the data directory."`
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=markdown json" jsonschema_description:"Output format: 'markdown' for human-readable or 'json' for structured data"`
}

func registerFileTools(s *server.MCPServer, reg *Registry, d Deps) {
	listTool := mcp.NewTool(
		"list_files",
		mcp.WithDescription("List all files available in the data directory"),
		mcp.WithString("response_format", mcp.DefaultString("markdown"), mcp.Enum("markdown", "json"), mcp.Description("Output format")),
		mcp.WithTitleAnnotation("List Files in Data Directory"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(listTool, mcp.NewTypedToolHandler(handleListFiles(d)))
	reg.Register(listTool)

	readTool := mcp.NewTool(
		"read_file",
		mcp.WithDescription("Read the contents of a file from the data directory"),
		mcp.WithString("filename", mcp.Required(), mcp.MaxLength(255), mcp.Description("Name of the file to read; must be inside the data directory")),
		mcp.WithString("response_format", mcp.DefaultString("markdown"), mcp.Enum("markdown", "json"), mcp.Description("Output format")),
		mcp.WithTitleAnnotation("Read File Contents"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(readTool, mcp.NewTypedToolHandler(handleReadFile(d)))
	reg.Register(readTool)
}

func handleListFiles(d Deps) func(context.Context, mcp.CallToolRequest, FileListInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in FileListInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "response_format"); res != nil {
			return res, nil
		}
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}
		mode, err := render.ParseMode(in.ResponseFormat)
		if err != nil {
			return mcperr.New(mcperr.Validation, err.Error()), nil
		}

		names, err := d.Files.List()
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(render.FileList(names, mode)), nil
	}
}

func handleReadFile(d Deps) func(context.Context, mcp.CallToolRequest, FileReadInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in FileReadInput) (*mcp.CallToolResult, error) {
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

		content, err := d.Files.Read(in.Filename)
		if err != nil {
			return errorResult(err), nil
		}
		return mcp.NewToolResultText(render.FileContent(content, mode)), nil
	}
}

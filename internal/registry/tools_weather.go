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

// WeatherInput defines parameters for the weather lookup tool.
type WeatherInput struct {
	City           string `json:"city" validate:"required,max=100" jsonschema_description:"City name to get weather for (e.g., 'Mumbai', 'Chennai', 'London')"`
	ResponseFormat string `json:"response_format,omitempty" validate:"omitempty,oneof=markdown json" jsonschema_description:"Output format: 'markdown' for human-readable or 'json' for structured data"`
}

func registerWeatherTools(s *server.MCPServer, reg *Registry, d Deps) {
	weatherTool := mcp.NewTool(
		"get_weather",
		mcp.WithDescription("Get current weather for a city: temperature, humidity, and condition. Data is synthetic, not fetched from a live API."),
		mcp.WithString("city", mcp.Required(), mcp.MaxLength(100), mcp.Description("City name to get weather for")),
		mcp.WithString("response_format", mcp.DefaultString("markdown"), mcp.Enum("markdown", "json"), mcp.Description("Output format")),
		mcp.WithTitleAnnotation("Get Weather Information"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)
	s.AddTool(weatherTool, mcp.NewTypedToolHandler(handleGetWeather(d)))
	reg.Register(weatherTool)
}

func handleGetWeather(d Deps) func(context.Context, mcp.CallToolRequest, WeatherInput) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest, in WeatherInput) (*mcp.CallToolResult, error) {
		if res := checkArgs(req, "city", "response_format"); res != nil {
			return res, nil
		}
		in.City = strings.TrimSpace(in.City)
		if msg := validation.ValidateStruct(in); msg != "" {
			return validationResult(msg), nil
		}
		mode, err := render.ParseMode(in.ResponseFormat)
		if err != nil {
			return mcperr.New(mcperr.Validation, err.Error()), nil
		}

		report := d.Weather.Current(in.City)
		return mcp.NewToolResultText(render.Weather(report, mode)), nil
	}
}

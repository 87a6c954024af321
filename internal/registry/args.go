package registry

import (
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gauthk/dataconsole/pkg/mcperr"
)

// checkArgs rejects unknown parameters instead of ignoring them, so a caller
// typo (or an injection attempt through an unexpected key) fails loudly. It
// returns a VALIDATION reply naming the offenders, or nil when clean.
func checkArgs(req mcp.CallToolRequest, allowed ...string) *mcp.CallToolResult {
	args := req.GetArguments()
	if len(args) == 0 {
		return nil
	}
	permitted := make(map[string]struct{}, len(allowed))
	for _, a := range allowed {
		permitted[a] = struct{}{}
	}
	var unknown []string
	for k := range args {
		if _, ok := permitted[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return mcperr.Wrapf(mcperr.Validation, "unknown parameter(s): %s; expected: %s",
		strings.Join(unknown, ", "), strings.Join(allowed, ", "))
}

// hasArg reports whether the caller supplied a parameter at all, regardless
// of value. Needed to distinguish an explicit zero from an omitted optional.
func hasArg(req mcp.CallToolRequest, name string) bool {
	_, ok := req.GetArguments()[name]
	return ok
}

// validationResult converts a pkg/validation message into a coded reply,
// dropping the message's own prefix so the code is not repeated.
func validationResult(msg string) *mcp.CallToolResult {
	return mcperr.New(mcperr.Validation, strings.TrimPrefix(msg, "VALIDATION: "))
}

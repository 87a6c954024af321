package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

// Validator returns a singleton validator with custom rules registered.
func Validator() *validator.Validate {
	if v == nil {
		v = validator.New()
		// Custom: filename inside the data directory. A fast reject for
		// traversal sequences; the security manager's canonical resolve is
		// the authoritative guard.
		_ = v.RegisterValidation("datafile", func(fl validator.FieldLevel) bool {
			s := strings.TrimSpace(fl.Field().String())
			if s == "" || len(s) > 255 {
				return false
			}
			if strings.ContainsRune(s, 0) {
				return false
			}
			for _, seg := range strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '\\' }) {
				if seg == ".." {
					return false
				}
			}
			return true
		})
		// Custom: table must be one of the whitelisted log tables.
		_ = v.RegisterValidation("dbtable", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "weather_logs", "file_logs", "reports":
				return true
			}
			return false
		})
	}
	return v
}

// ValidateStruct validates a struct and returns a user-friendly error string
// suitable for MCP tool errors. Returns empty string when valid.
func ValidateStruct(s any) string {
	if err := Validator().Struct(s); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			fe := ve[0]
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				return fmt.Sprintf("VALIDATION: %s is required", field)
			case "datafile":
				return fmt.Sprintf("VALIDATION: invalid %s; use a plain filename inside the data directory (max 255 chars, no '..')", field)
			case "dbtable":
				return "VALIDATION: Invalid table name; must be one of weather_logs, file_logs, reports"
			case "oneof":
				return fmt.Sprintf("VALIDATION: %s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
			case "min", "max", "gte", "lte":
				return fmt.Sprintf("VALIDATION: %s must satisfy %s=%s", field, fe.Tag(), fe.Param())
			}
			// Fallback generic
			return fmt.Sprintf("VALIDATION: invalid %s", field)
		}
		return "VALIDATION: invalid inputs"
	}
	return ""
}

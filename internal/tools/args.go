package tools

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"sdwan-mcp/internal/api"
)

func invalid(field, message string) *api.ValidationError {
	return &api.ValidationError{Field: field, Message: message}
}

// requiredString returns a non-empty string argument.
func requiredString(args map[string]interface{}, name string) (string, error) {
	value, err := optionalString(args, name, "")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(value) == "" {
		return "", api.NewRequiredError(name)
	}
	return value, nil
}

func optionalString(args map[string]interface{}, name, def string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", invalid(name, "must be a string")
	}
	return s, nil
}

func optionalInt(args map[string]interface{}, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	f, ok := number(raw)
	if !ok || f != math.Trunc(f) {
		return 0, invalid(name, "must be an integer")
	}
	return int(f), nil
}

func optionalFloat(args map[string]interface{}, name string, def float64) (float64, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	f, ok := number(raw)
	if !ok {
		return 0, invalid(name, "must be a number")
	}
	return f, nil
}

func optionalBool(args map[string]interface{}, name string, def bool) (bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, invalid(name, "must be a boolean")
		}
		return b, nil
	default:
		return false, invalid(name, "must be a boolean")
	}
}

func number(raw interface{}) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

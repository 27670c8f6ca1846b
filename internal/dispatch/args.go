package dispatch

import (
	"fmt"
	"strconv"
	"strings"
)

// Args wraps the raw argument bag of one tool invocation. Accessors
// coerce the loosely-typed JSON values (float64 for every number, and the
// occasional numeric string) into what handlers need; Require* variants
// fail with InvalidArgumentError instead of substituting a default.
type Args map[string]any

// String returns the named string argument, or def when absent or empty.
func (a Args) String(key, def string) string {
	if v, ok := a[key].(string); ok && v != "" {
		return v
	}
	return def
}

// RequireString returns the named string argument or fails.
func (a Args) RequireString(key string) (string, error) {
	v, ok := a[key].(string)
	if !ok || strings.TrimSpace(v) == "" {
		return "", &InvalidArgumentError{Reason: fmt.Sprintf("%s is required", key)}
	}
	return v, nil
}

// Int returns the named numeric argument, or def when absent or
// unparsable. Numeric strings are accepted.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// RequireInt64 returns the named numeric argument or fails.
func (a Args) RequireInt64(key string) (int64, error) {
	switch v := a[key].(type) {
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, &InvalidArgumentError{Reason: fmt.Sprintf("%s is required and must be a number", key)}
}

// Bool returns the named boolean argument, or def when absent.
func (a Args) Bool(key string, def bool) bool {
	switch v := a[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

// Enum returns the named string argument when it is one of allowed, def
// when absent, and an error when present but not a member.
func (a Args) Enum(key, def string, allowed ...string) (string, error) {
	v, ok := a[key].(string)
	if !ok || v == "" {
		return def, nil
	}
	for _, c := range allowed {
		if v == c {
			return v, nil
		}
	}
	return "", &InvalidArgumentError{
		Reason: fmt.Sprintf("%s must be one of: %s", key, strings.Join(allowed, ", ")),
	}
}

// Int64Slice returns the named array-of-number argument, or nil when absent.
func (a Args) Int64Slice(key string) ([]int64, error) {
	raw, ok := a[key]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &InvalidArgumentError{Reason: fmt.Sprintf("%s must be an array of numbers", key)}
	}
	out := make([]int64, 0, len(list))
	for _, item := range list {
		n, ok := item.(float64)
		if !ok {
			return nil, &InvalidArgumentError{Reason: fmt.Sprintf("%s must be an array of numbers", key)}
		}
		out = append(out, int64(n))
	}
	return out, nil
}

package dispatch

import (
	"fmt"
	"strings"
)

// UnknownToolError means the caller named a tool that is not in the
// advertised set.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// InvalidArgumentError means the caller supplied a value violating the
// tool's declared schema. The reason is surfaced verbatim.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// NotConfiguredError means the tool's backend has no URL/API key pair.
// This is the most common terminal condition and must read as a clear
// sentence, never as a transport error.
type NotConfiguredError struct {
	Service string
}

func (e *NotConfiguredError) Error() string {
	upper := strings.ToUpper(e.Service)
	return fmt.Sprintf("%s is not configured: set %s_URL and %s_API_KEY to enable it",
		e.Service, upper, upper)
}

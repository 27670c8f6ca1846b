// Package dispatch routes tool invocations to backend operations.
//
// The tool table is built once at startup. Every known tool is in the
// table; tools whose backend is not configured are withheld from the
// advertised list but still resolve on a direct call, so the caller gets
// a clear "not configured" sentence instead of "unknown tool".
package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/arrgate/arrgate/internal/guides"
	"github.com/arrgate/arrgate/internal/logging"
	"github.com/arrgate/arrgate/internal/mcp"
	"github.com/arrgate/arrgate/internal/registry"
)

// Handler executes one tool against its resolved backend. The dispatcher
// has already verified the backend is configured.
type Handler func(ctx context.Context, args Args) (any, error)

// toolDef binds a tool descriptor to its backend service and handler.
// service is empty for cross-service and reference-data tools.
type toolDef struct {
	tool    mcp.Tool
	service registry.Service
	handler Handler
}

// Dispatcher owns the tool table and the per-invocation error boundary.
type Dispatcher struct {
	reg    *registry.Registry
	guides *guides.Client
	log    *logging.Logger

	tools  []*toolDef
	byName map[string]*toolDef
}

// New builds the dispatcher and its tool table.
func New(reg *registry.Registry, g *guides.Client, log *logging.Logger) *Dispatcher {
	d := &Dispatcher{
		reg:    reg,
		guides: g,
		log:    log.Sub("dispatch"),
		byName: make(map[string]*toolDef),
	}
	d.registerStatic()
	d.registerArrTools()
	d.registerOverseerr()
	d.registerTautulli()
	return d
}

// register adds one tool to the table. Duplicate names are a programming
// error caught at startup.
func (d *Dispatcher) register(svc registry.Service, tool mcp.Tool, h Handler) {
	if _, dup := d.byName[tool.Name]; dup {
		panic(fmt.Sprintf("duplicate tool name: %s", tool.Name))
	}
	td := &toolDef{tool: tool, service: svc, handler: h}
	d.tools = append(d.tools, td)
	d.byName[tool.Name] = td
}

// Tools returns the advertised tool set: static tools plus the generated
// tools of each configured service, a pure function of the configured set.
func (d *Dispatcher) Tools() []mcp.Tool {
	out := make([]mcp.Tool, 0, len(d.tools))
	for _, td := range d.tools {
		if td.service != "" && !d.reg.Has(td.service) {
			continue
		}
		out = append(out, td.tool)
	}
	return out
}

// Call invokes a tool. It is the outermost boundary: every path settles
// into a ToolResult, success or flagged failure — nothing escapes to the
// transport layer.
func (d *Dispatcher) Call(ctx context.Context, name string, rawArgs map[string]any) (result mcp.ToolResult) {
	id := uuid.NewString()
	log := d.log.Zerolog().With().Str("invocation", id).Str("tool", name).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("tool handler panicked")
			result = mcp.ErrorResult(fmt.Sprintf("internal error handling %s: %v", name, r))
		}
	}()

	td, ok := d.byName[name]
	if !ok {
		return mcp.ErrorResult((&UnknownToolError{Name: name}).Error())
	}
	if td.service != "" && !d.reg.Has(td.service) {
		return mcp.ErrorResult((&NotConfiguredError{Service: string(td.service)}).Error())
	}

	log.Debug().Msg("invoking tool")
	payload, err := td.handler(ctx, Args(rawArgs))
	if err != nil {
		log.Warn().Err(err).Msg("tool failed")
		return mcp.ErrorResult(err.Error())
	}
	log.Debug().Msg("tool succeeded")
	return mcp.TextResult(payload)
}

// schema is a small helper keeping tool declarations readable.
func schema(required []string, props map[string]mcp.Property) mcp.InputSchema {
	return mcp.InputSchema{Type: "object", Properties: props, Required: required}
}

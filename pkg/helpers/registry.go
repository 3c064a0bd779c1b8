// Package helpers extends the template compiler with the storefront helper
// set: partial inclusion, section groups, widgets, data resolution, control
// flow, collections, commerce formatting and form markup.
//
// Block helpers are pongo2 tags registered once at init. They hold no state;
// everything a render call binds (ambient data, editor mode, partial source,
// compiler, group resolver) travels in a *Registry stored in the render
// context under ContextKey. Concurrent renders with different data never
// share mutable state.
package helpers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-storetheme/internal/ctxlog"
	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/settings"
)

// ContextKey is the reserved render context key holding the call's Registry.
const ContextKey = "_helpers"

// Compiler compiles and executes a template source.
type Compiler interface {
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}

// Source reads partial sources and section group documents.
type Source interface {
	Partial(category, name string) (string, error)
	Group(name string) (*settings.Document, error)
}

// GroupResolver renders a section group document with data as ambient
// context, compiling sections through reg.
type GroupResolver func(reg *Registry, name string, doc *settings.Document, data map[string]any) (string, error)

// Bindings is everything a render call binds into its helper registry.
type Bindings struct {
	// Data is the ambient per-request data.
	Data        map[string]any
	Mode        editor.Mode
	Development bool
	Source      Source
	Compiler    Compiler
	Resolve     GroupResolver
	Logger      *slog.Logger
}

// Registry is the per-call helper state.
type Registry struct {
	ctx      context.Context
	bindings Bindings
}

// New binds a registry for a single render call.
func New(ctx context.Context, bindings Bindings) *Registry {
	if ctx == nil {
		ctx = context.Background()
	}
	if bindings.Data == nil {
		bindings.Data = map[string]any{}
	}
	return &Registry{ctx: ctx, bindings: bindings}
}

// Context returns the call's context.Context.
func (r *Registry) Context() context.Context { return r.ctx }

// Data returns the ambient data. Callers must treat it as read-only.
func (r *Registry) Data() map[string]any { return r.bindings.Data }

// Mode reports the editor overlay mode of the call.
func (r *Registry) Mode() editor.Mode { return r.bindings.Mode }

// Editing reports whether the editor overlay is active.
func (r *Registry) Editing() bool { return r.bindings.Mode == editor.ModeEditor }

// Development reports whether helper diagnostics are rendered inline.
func (r *Registry) Development() bool { return r.bindings.Development }

func (r *Registry) logger() *slog.Logger {
	return ctxlog.FromContext(r.ctx, r.bindings.Logger)
}

// Attach returns a shallow copy of layers merged left to right (later keys
// win) with the registry stored under ContextKey.
func (r *Registry) Attach(layers ...map[string]any) map[string]any {
	size := 1
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(map[string]any, size)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	out[ContextKey] = r
	return out
}

// Render compiles source with data merged over the ambient data.
func (r *Registry) Render(source string, data map[string]any) (string, error) {
	if r.bindings.Compiler == nil {
		return "", errors.New("helpers: no compiler bound")
	}
	return r.bindings.Compiler.RenderString(source, r.Attach(r.bindings.Data, data))
}

// Partial loads and renders <category>/<name> with data.
func (r *Registry) Partial(category, name string, data map[string]any) (string, error) {
	if r.bindings.Source == nil {
		return "", errors.New("helpers: no partial source bound")
	}
	source, err := r.bindings.Source.Partial(category, name)
	if err != nil {
		return "", err
	}
	return r.Render(source, data)
}

// Group loads the named section group and renders it. In editor mode an
// unsaved override supplied in the ambient data under the group's name
// takes precedence over the stored document.
func (r *Registry) Group(name string, data map[string]any) (string, error) {
	if r.bindings.Resolve == nil {
		return "", errors.New("helpers: no group resolver bound")
	}
	doc, err := r.groupDocument(name)
	if err != nil {
		return "", err
	}
	return r.bindings.Resolve(r, name, doc, data)
}

func (r *Registry) groupDocument(name string) (*settings.Document, error) {
	if r.Editing() {
		if override, ok := r.bindings.Data[name].(map[string]any); ok {
			doc, err := settings.FromMap(override)
			if err != nil {
				return nil, fmt.Errorf("helpers: group override %q: %w", name, err)
			}
			doc.Name = name
			return doc, nil
		}
	}
	if r.bindings.Source == nil {
		return nil, errors.New("helpers: no partial source bound")
	}
	return r.bindings.Source.Group(name)
}

// HelperArgumentError reports a helper invoked with unusable arguments.
type HelperArgumentError struct {
	Helper  string
	Message string
}

func (e *HelperArgumentError) Error() string {
	return fmt.Sprintf("helpers: %s: %s", e.Helper, e.Message)
}

// argumentError applies the helper error policy: the problem is logged and
// rendered inline during development, silenced otherwise.
func (r *Registry) argumentError(helper, format string, args ...any) string {
	err := &HelperArgumentError{Helper: helper, Message: fmt.Sprintf(format, args...)}
	if r == nil {
		return ""
	}
	r.logger().Warn("helper argument error", "helper", helper, "error", err.Message)
	if r.bindings.Development {
		return err.Message
	}
	return ""
}

// FromExecutionContext returns the registry bound to a pongo2 execution.
func FromExecutionContext(ctx *pongo2.ExecutionContext) (*Registry, bool) {
	if ctx == nil {
		return nil, false
	}
	if value, ok := ctx.Public[ContextKey]; ok {
		if reg, isReg := unwrap(value).(*Registry); isReg && reg != nil {
			return reg, true
		}
	}
	return nil, false
}

// scope flattens the compiler's public and private contexts: the variables
// visible where a helper was invoked.
func scope(ctx *pongo2.ExecutionContext) map[string]any {
	out := make(map[string]any, len(ctx.Public)+len(ctx.Private))
	for key, value := range ctx.Public {
		if key == "pongo2" {
			continue
		}
		out[key] = unwrap(value)
	}
	for key, value := range ctx.Private {
		if key == "forloop" {
			continue
		}
		out[key] = unwrap(value)
	}
	return out
}

// forward is scope without unwrapping compiler values, so markup already
// marked safe stays safe when handed to a nested render.
func forward(ctx *pongo2.ExecutionContext) map[string]any {
	out := make(map[string]any, len(ctx.Public)+len(ctx.Private))
	for key, value := range ctx.Public {
		if key != "pongo2" {
			out[key] = value
		}
	}
	for key, value := range ctx.Private {
		if key != "forloop" {
			out[key] = value
		}
	}
	return out
}

// lookup reads a variable from the private then public context.
func lookup(ctx *pongo2.ExecutionContext, name string) any {
	if value, ok := ctx.Private[name]; ok {
		return unwrap(value)
	}
	return unwrap(ctx.Public[name])
}

func unwrap(value any) any {
	if v, ok := value.(*pongo2.Value); ok {
		if v == nil {
			return nil
		}
		return v.Interface()
	}
	return value
}

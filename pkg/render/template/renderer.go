package template

import (
	"io"
)

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract. Section, component and layout partials are compiled through
// RenderString; RenderTemplate serves files resolved by the engine loader.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// SafeHTML marks markup that was already produced by the renderer (a
// rendered body handed to a layout, a compiled section) so engines must not
// escape it again.
type SafeHTML string

// String returns the markup.
func (h SafeHTML) String() string { return string(h) }

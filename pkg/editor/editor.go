// Package editor instruments rendered storefront markup for the visual theme
// editor. Templates, section groups, sections and widgets are wrapped in
// addressable elements whose data-type/data-name attributes the parent
// editor frame uses to select and hot-patch fragments.
package editor

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

// Mode selects how a template body is instrumented.
type Mode int

const (
	// ModePlain wraps the body in a neutral template container.
	ModePlain Mode = iota
	// ModePreview adds query preserving navigation only.
	ModePreview
	// ModeEditor adds the full inspector overlay.
	ModeEditor
)

// ModeFor picks the overlay mode from the host flags. Editor wins when both
// flags are set; the modes are never combined.
func ModeFor(editorFlag, previewFlag bool) Mode {
	switch {
	case editorFlag:
		return ModeEditor
	case previewFlag:
		return ModePreview
	default:
		return ModePlain
	}
}

// ParseMode maps "editor", "preview" or "plain" to a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "plain":
		return ModePlain, nil
	case "preview":
		return ModePreview, nil
	case "editor":
		return ModeEditor, nil
	default:
		return ModePlain, fmt.Errorf("editor: unknown mode %q", value)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeEditor:
		return "editor"
	case ModePreview:
		return "preview"
	default:
		return "plain"
	}
}

// Attribute names and classes the parent editor frame relies on.
const (
	AttrType     = "data-type"
	AttrName     = "data-name"
	AttrSettings = "settings"

	ClassWrapper = "taojaa-editor-wrapper"
	ClassLabel   = "taojaa-editor-label"
	ClassContent = "taojaa-editor-inner-content"
	ClassGroup   = "taojaa-editor-group"
)

// Options configures the template level wrappers.
type Options struct {
	// Name is the template name written to the wrapper's data-name.
	Name string
	// Origin is the parent frame origin messages are posted to. Empty
	// means any origin.
	Origin string
}

// Apply wraps content using mode.
func Apply(mode Mode, content string, opts Options) (string, error) {
	switch mode {
	case ModeEditor:
		return EditorMode(content, opts)
	case ModePreview:
		return PreviewMode(content, opts), nil
	default:
		return PlainMode(content, opts), nil
	}
}

// EditorMode wraps a rendered template body with the inspector stylesheet
// and scripts.
func EditorMode(content string, opts Options) (string, error) {
	inspector, err := inspectorScript(opts.Origin)
	if err != nil {
		return "", fmt.Errorf("editor: inspector script: %w", err)
	}
	root := templateWrapper(opts).Append(
		markup.El("style", markup.A("type", "text/css")).Append(markup.Raw(editorCSS)),
		markup.Raw(content),
		script(controlsJS),
		script(navigationJS),
		script(inspector),
	)
	return root.String(), nil
}

// PreviewMode wraps a rendered template body with the navigation rewrite
// script only.
func PreviewMode(content string, opts Options) string {
	return templateWrapper(opts).Append(
		markup.Raw(content),
		script(navigationJS),
	).String()
}

// PlainMode wraps a rendered template body in a neutral container.
func PlainMode(content string, opts Options) string {
	return templateWrapper(opts).Append(markup.Raw(content)).String()
}

func templateWrapper(opts Options) *markup.Element {
	return markup.El("section", markup.A(AttrType, "template")).
		AttrIf(opts.Name != "", AttrName, opts.Name)
}

func script(body string) *markup.Element {
	return markup.El("script", markup.A("type", "text/javascript")).Append(markup.Raw(body))
}

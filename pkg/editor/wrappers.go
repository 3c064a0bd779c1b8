package editor

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

// Template expressions resolved by the compiler against the wrapped
// partial's own context.
const (
	sectionNameExpr     = `{% if group_name %}{{ group_name }}--{% endif %}{{ section_name }}`
	sectionSettingsExpr = `{{ section|json }}`
	sectionLabelExpr    = `{{ section_name|clean }}`
)

// SectionEditorMode wraps a section partial source before compilation. The
// wrapper's data-name resolves to "<group_name>--<section_name>", or just
// "<section_name>" outside a group.
func SectionEditorMode(content string) string {
	return wrapper("section", sectionNameExpr, sectionSettingsExpr, markup.Raw(sectionLabelExpr), content)
}

// GroupEditorMode wraps the concatenated output of a section group.
func GroupEditorMode(content, name string) string {
	return markup.El("section",
		markup.A("class", ClassGroup),
		markup.A(AttrType, "group"),
		markup.A(AttrName, name),
	).Append(markup.Raw(content)).String()
}

// Address locates a fragment for the parent editor.
type Address struct {
	Group   string
	Section string
	Widget  string
}

// Name formats the address as {group--}{section}{--widget}.
func (a Address) Name() string {
	var b strings.Builder
	if a.Group != "" {
		b.WriteString(a.Group)
		b.WriteString("--")
	}
	b.WriteString(a.Section)
	if a.Widget != "" {
		b.WriteString("--")
		b.WriteString(a.Widget)
	}
	return b.String()
}

// WidgetEditorMode wraps rendered widget output. Widgets are rendered inside
// their section's scope, so the address is known and written directly; the
// widget configuration is embedded as JSON in the settings attribute.
func WidgetEditorMode(content string, addr Address, widget any) (string, error) {
	encoded, err := json.Marshal(widget)
	if err != nil {
		return "", fmt.Errorf("editor: encode widget %q: %w", addr.Widget, err)
	}
	return wrapper("widget", addr.Name(), string(encoded), markup.Text(markup.Title(addr.Widget)), content), nil
}

func wrapper(kind, name, settings string, label markup.Node, content string) string {
	return markup.El("section",
		markup.A("class", ClassWrapper),
		markup.A(AttrType, kind),
		markup.A(AttrName, name),
		markup.A(AttrSettings, settings),
	).Append(
		markup.El("span",
			markup.A("class", ClassLabel),
			markup.A(AttrType, kind),
			markup.A(AttrName, name),
		).Append(label),
		markup.El("section", markup.A("class", ClassContent)).Append(markup.Raw(content)),
	).String()
}

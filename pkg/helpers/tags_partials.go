package helpers

import (
	"fmt"
	"strconv"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/settings"
)

// includeNode renders a partial of one category with the invoking scope
// plus the tag's key=value arguments.
type includeNode struct {
	tag      string
	category string
	args     *tagArgs
}

func includeTagParser(tag, category string) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		args, err := parseArgs(arguments)
		if err != nil {
			return nil, err
		}
		if err := args.expect(arguments, tag, 1, 1); err != nil {
			return nil, err
		}
		return &includeNode{tag: tag, category: category, args: args}, nil
	}
}

func (n *includeNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, n.tag)
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	name, ok := stringArg(positional[0])
	if !ok {
		return report(reg, writer, n.tag, "partial name must be a non-empty string, got %v", positional[0])
	}
	out, err := reg.Partial(n.category, name, merge(forward(ctx), named))
	if err != nil {
		return tagError(n.tag, err)
	}
	return write(writer, n.tag, out)
}

// sectionsNode renders a named section group.
type sectionsNode struct {
	args *tagArgs
}

func sectionsTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	args, err := parseArgs(arguments)
	if err != nil {
		return nil, err
	}
	if err := args.expect(arguments, "sections", 1, 1); err != nil {
		return nil, err
	}
	return &sectionsNode{args: args}, nil
}

func (n *sectionsNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, "sections")
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	name, ok := stringArg(positional[0])
	if !ok {
		return report(reg, writer, "sections", "group name must be a non-empty string, got %v", positional[0])
	}
	out, err := reg.Group(name, merge(forward(ctx), named))
	if err != nil {
		return tagError("sections", err)
	}
	return write(writer, "sections", out)
}

// widgetsNode iterates a section's widgets.
type widgetsNode struct {
	args  *tagArgs
	block *block
}

func widgetsTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	args, err := parseArgs(arguments)
	if err != nil {
		return nil, err
	}
	if err := args.expect(arguments, "widgets", 1, 1); err != nil {
		return nil, err
	}
	b, err := parseBlock(doc, "widgets", false)
	if err != nil {
		return nil, err
	}
	return &widgetsNode{args: args, block: b}, nil
}

func (n *widgetsNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, "widgets")
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	as := variableName(named, "widget")
	data := scope(ctx)

	var (
		names   []string
		widgets = map[string]any{}
	)
	switch collection := positional[0].(type) {
	case map[string]any:
		order := toStrings(named["order"])
		if order == nil {
			order = toStrings(Resolve(data, "section.widgets_order"))
		}
		names = settings.OrderedKeys(collection, order)
		widgets = collection
	case []any:
		for i, widget := range collection {
			key := strconv.Itoa(i)
			names = append(names, key)
			widgets[key] = widget
		}
	default:
		return report(reg, writer, "widgets", "invalid settings for section widgets %v", positional[0])
	}

	for i, name := range names {
		widget := enrichWidget(widgets[name], data)
		out, perr := n.block.capture(ctx, map[string]any{as: widget, "widget_name": name, "index": i})
		if perr != nil {
			return perr
		}
		if perr := writeWidget(reg, writer, "widgets", out, data, name, widget); perr != nil {
			return perr
		}
	}
	return nil
}

// widgetNode renders a single named widget of the current section.
type widgetNode struct {
	args  *tagArgs
	block *block
}

func widgetTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	args, err := parseArgs(arguments)
	if err != nil {
		return nil, err
	}
	if err := args.expect(arguments, "widget", 0, 1); err != nil {
		return nil, err
	}
	b, err := parseBlock(doc, "widget", false)
	if err != nil {
		return nil, err
	}
	return &widgetNode{args: args, block: b}, nil
}

func (n *widgetNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, "widget")
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	var name string
	if len(positional) > 0 {
		name, _ = stringArg(positional[0])
	} else {
		name, _ = stringArg(named["name"])
	}
	if name == "" {
		return report(reg, writer, "widget", "a widget name is required")
	}

	data := scope(ctx)
	widget, ok := named["widget"]
	if !ok {
		section, _ := Resolve(data, "section.widgets").(map[string]any)
		widget, ok = section[name]
	}
	if _, isMap := widget.(map[string]any); !ok || !isMap {
		return report(reg, writer, "widget", "invalid widget %q", name)
	}

	widget = enrichWidget(widget, data)
	out, perr := n.block.capture(ctx, map[string]any{variableName(named, "widget"): widget, "widget_name": name})
	if perr != nil {
		return perr
	}
	return writeWidget(reg, writer, "widget", out, data, name, widget)
}

func writeWidget(reg *Registry, writer pongo2.TemplateWriter, tag, out string, data map[string]any, name string, widget any) *pongo2.Error {
	if reg.Editing() {
		addr := editor.Address{
			Group:   stringValue(data["group_name"]),
			Section: stringValue(data["section_name"]),
			Widget:  name,
		}
		wrapped, err := editor.WidgetEditorMode(out, addr, widget)
		if err != nil {
			return tagError(tag, err)
		}
		out = wrapped
	}
	return write(writer, tag, out)
}

// enrichWidget attaches the navigation tree a navigation widget points at.
// The widget is copied, never mutated.
func enrichWidget(widget any, data map[string]any) any {
	w, ok := widget.(map[string]any)
	if !ok || w["type"] != "navigation" {
		return widget
	}
	var handle string
	for _, candidate := range []any{w["handle"], Resolve(w, "settings.handle"), Resolve(w, "settings.menu")} {
		if s, ok := stringArg(candidate); ok {
			handle = s
			break
		}
	}
	navigations, _ := data["navigations"].(map[string]any)
	tree, found := navigations[handle]
	if !found {
		return widget
	}
	out := make(map[string]any, len(w)+1)
	for key, value := range w {
		out[key] = value
	}
	out["navigation"] = tree
	return out
}

func variableName(named map[string]any, fallback string) string {
	if name, ok := stringArg(named["as"]); ok {
		return name
	}
	return fallback
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func toStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

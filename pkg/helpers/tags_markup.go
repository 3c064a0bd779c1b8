package helpers

import (
	"errors"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

type paginationNode struct {
	args *tagArgs
}

func paginationTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	args, err := parseArgs(arguments)
	if err != nil {
		return nil, err
	}
	if err := args.expect(arguments, "pagination", 1, 1); err != nil {
		return nil, err
	}
	return &paginationNode{args: args}, nil
}

func (n *paginationNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, "pagination")
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	p, ok := positional[0].(map[string]any)
	if !ok {
		return report(reg, writer, "pagination", "expected a pagination object, got %T", positional[0])
	}
	opts := PaginationOptions{
		Previous: stringValue(named["previous"]),
		Next:     stringValue(named["next"]),
		Collapse: stringValue(named["collapse"]),
	}
	if raw, has := named["limit"]; has {
		limit, isNum := toInt(raw)
		if !isNum {
			return report(reg, writer, "pagination", "limit %v is not a number", raw)
		}
		opts.Limit = limit
	}
	nav, ok := Pagination(p, opts)
	if !ok {
		return report(reg, writer, "pagination", "pagination object needs numeric page and pages")
	}
	if nav == nil {
		return nil
	}
	if err := markup.Render(writer, nav); err != nil {
		return tagError("pagination", err)
	}
	return nil
}

// formNode wraps its body in the form element for a fixed key.
type formNode struct {
	args  *tagArgs
	block *block
}

func formTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	args, err := parseArgs(arguments)
	if err != nil {
		return nil, err
	}
	if err := args.expect(arguments, "form", 1, 2); err != nil {
		return nil, err
	}
	b, err := parseBlock(doc, "form", false)
	if err != nil {
		return nil, err
	}
	return &formNode{args: args, block: b}, nil
}

func (n *formNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, "form")
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	key := stringValue(positional[0])
	props := stringValue(named["props"])
	if len(positional) > 1 {
		props = stringValue(positional[1])
	}

	body, perr := n.block.capture(ctx, nil)
	if perr != nil {
		return perr
	}

	el, hidden, err := Form(key, props, named, scope(ctx))
	if err != nil {
		var argErr *HelperArgumentError
		if !errors.As(err, &argErr) {
			return tagError("form", err)
		}
		if perr := report(reg, writer, "form", "%s", argErr.Message); perr != nil {
			return perr
		}
		return write(writer, "form", body)
	}

	out := markup.Open(el) + markup.String(markup.Group(hidden)) + body + markup.Close(el)
	return write(writer, "form", out)
}

// wrapNode wraps its body in a raw text element such as <style>.
type wrapNode struct {
	tag     string
	element string
	mime    string
	block   *block
}

func wrapTagParser(tag, element, mime string) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		if arguments.Count() > 0 {
			return nil, arguments.Error(tag+" takes no arguments", nil)
		}
		b, err := parseBlock(doc, tag, false)
		if err != nil {
			return nil, err
		}
		return &wrapNode{tag: tag, element: element, mime: mime, block: b}, nil
	}
}

func (n *wrapNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	body, perr := n.block.capture(ctx, nil)
	if perr != nil {
		return perr
	}
	el := markup.El(n.element, markup.A("type", n.mime)).Append(markup.Raw(body))
	if err := markup.Render(writer, el); err != nil {
		return tagError(n.tag, err)
	}
	return nil
}

// selectNode renders a country or state <select> from ambient options.
type selectNode struct {
	tag         string
	kind        string
	optionsKey  string
	placeholder string
	args        *tagArgs
}

func selectTagParser(tag, kind, optionsKey, placeholder string) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		args, err := parseArgs(arguments)
		if err != nil {
			return nil, err
		}
		if err := args.expect(arguments, tag, 0, 1); err != nil {
			return nil, err
		}
		return &selectNode{tag: tag, kind: kind, optionsKey: optionsKey, placeholder: placeholder, args: args}, nil
	}
}

func (n *selectNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, n.tag)
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	props := stringValue(named["props"])
	if len(positional) > 0 {
		props = stringValue(positional[0])
	}
	options, _ := named["options"].([]any)
	if options == nil {
		options, _ = scope(ctx)[n.optionsKey].([]any)
	}
	out := SelectField(n.kind, n.placeholder, stringValue(named["name"]), stringValue(named["selected"]), props, options, reg.Editing())
	return write(writer, n.tag, out)
}

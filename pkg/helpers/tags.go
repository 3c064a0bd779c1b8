package helpers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

func init() {
	for name, parser := range map[string]pongo2.TagParser{
		"render":               includeTagParser("render", categorySections),
		"component":            includeTagParser("component", categoryComponents),
		"sections":             sectionsTagParser,
		"widgets":              widgetsTagParser,
		"widget":               widgetTagParser,
		"ifCond":               ifCondTagParser,
		"unless":               unlessTagParser,
		"includes":             includesTagParser,
		"iterate":              iterateTagParser,
		"pagination":           paginationTagParser,
		"inCart":               inCartTagParser,
		"variations":           variationsTagParser,
		"variantOptions":       variantOptionsTagParser,
		"form":                 formTagParser,
		"styles":               wrapTagParser("styles", "style", "text/css"),
		"script":               wrapTagParser("script", "script", "text/javascript"),
		"country_select_field": selectTagParser("country_select_field", "country", "countries", "Select Country"),
		"state_select_field":   selectTagParser("state_select_field", "state", "states", "Select State"),
	} {
		if err := pongo2.RegisterTag(name, parser); err != nil {
			panic(fmt.Sprintf("helpers: register tag %s: %v", name, err))
		}
	}
	registerFilters()
}

// Partial categories used by the inclusion helpers.
const (
	categorySections   = "sections"
	categoryComponents = "components"
)

// errNoRegistry is returned when a helper runs outside a bound render call.
var errNoRegistry = errors.New("helpers: render context has no helper registry")

// tagArgs holds the parsed arguments of a helper tag: positional
// expressions followed by key=value pairs.
type tagArgs struct {
	positional []pongo2.IEvaluator
	keys       []string
	named      map[string]pongo2.IEvaluator
}

func parseArgs(arguments *pongo2.Parser) (*tagArgs, *pongo2.Error) {
	args := &tagArgs{named: map[string]pongo2.IEvaluator{}}
	for arguments.Remaining() > 0 {
		tok := arguments.Current()
		isName := tok.Typ == pongo2.TokenIdentifier || tok.Typ == pongo2.TokenKeyword
		if isName && arguments.PeekN(1, pongo2.TokenSymbol, "=") != nil {
			arguments.ConsumeN(2)
			expr, err := arguments.ParseExpression()
			if err != nil {
				return nil, err
			}
			if _, dup := args.named[tok.Val]; !dup {
				args.keys = append(args.keys, tok.Val)
			}
			args.named[tok.Val] = expr
			continue
		}
		if len(args.keys) > 0 {
			return nil, arguments.Error("positional argument after key=value argument", tok)
		}
		expr, err := arguments.ParseExpression()
		if err != nil {
			return nil, err
		}
		args.positional = append(args.positional, expr)
	}
	return args, nil
}

// values evaluates every argument against ctx.
func (a *tagArgs) values(ctx *pongo2.ExecutionContext) ([]any, map[string]any, *pongo2.Error) {
	positional := make([]any, 0, len(a.positional))
	for _, expr := range a.positional {
		value, err := expr.Evaluate(ctx)
		if err != nil {
			return nil, nil, err
		}
		positional = append(positional, value.Interface())
	}
	named := make(map[string]any, len(a.named))
	for _, key := range a.keys {
		value, err := a.named[key].Evaluate(ctx)
		if err != nil {
			return nil, nil, err
		}
		named[key] = value.Interface()
	}
	return positional, named, nil
}

func (a *tagArgs) expect(arguments *pongo2.Parser, tag string, min, max int) *pongo2.Error {
	n := len(a.positional)
	if n < min || (max >= 0 && n > max) {
		return arguments.Error(fmt.Sprintf("%s expects between %d and %d positional arguments, got %d", tag, min, max, n), nil)
	}
	return nil
}

// block wraps the body of a block tag, with an optional else branch.
type block struct {
	body    *pongo2.NodeWrapper
	inverse *pongo2.NodeWrapper
}

func parseBlock(doc *pongo2.Parser, name string, allowElse bool) (*block, *pongo2.Error) {
	end := "end" + name
	stops := []string{end}
	if allowElse {
		stops = append(stops, "else")
	}
	wrapper, endArgs, err := doc.WrapUntilTag(stops...)
	if err != nil {
		return nil, err
	}
	if endArgs.Count() > 0 {
		return nil, endArgs.Error("arguments not allowed here", nil)
	}
	b := &block{body: wrapper}
	if wrapper.Endtag == "else" {
		inverse, elseArgs, err := doc.WrapUntilTag(end)
		if err != nil {
			return nil, err
		}
		if elseArgs.Count() > 0 {
			return nil, elseArgs.Error("arguments not allowed here", nil)
		}
		b.inverse = inverse
	}
	return b, nil
}

// run executes the body (or the else branch when truth is false) in a child
// scope holding vars.
func (b *block) run(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter, truth bool, vars map[string]any) *pongo2.Error {
	wrapper := b.body
	if !truth {
		wrapper = b.inverse
	}
	if wrapper == nil {
		return nil
	}
	return wrapper.Execute(childContext(ctx, vars), writer)
}

// capture renders the body into a string.
func (b *block) capture(ctx *pongo2.ExecutionContext, vars map[string]any) (string, *pongo2.Error) {
	var buf strings.Builder
	if err := b.run(ctx, &buf, true, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func childContext(ctx *pongo2.ExecutionContext, vars map[string]any) *pongo2.ExecutionContext {
	child := pongo2.NewChildExecutionContext(ctx)
	for key, value := range vars {
		child.Private[key] = value
	}
	return child
}

func tagError(tag string, err error) *pongo2.Error {
	return &pongo2.Error{Sender: "tag:" + tag, OrigError: err}
}

func registryFor(ctx *pongo2.ExecutionContext, tag string) (*Registry, *pongo2.Error) {
	reg, ok := FromExecutionContext(ctx)
	if !ok {
		return nil, tagError(tag, errNoRegistry)
	}
	return reg, nil
}

// report writes the outcome of a helper argument problem according to the
// registry's error policy.
func report(reg *Registry, writer pongo2.TemplateWriter, tag, format string, args ...any) *pongo2.Error {
	if msg := reg.argumentError(tag, format, args...); msg != "" {
		return write(writer, tag, markup.String(markup.Text(msg)))
	}
	return nil
}

func write(writer pongo2.TemplateWriter, tag, s string) *pongo2.Error {
	if _, err := writer.WriteString(s); err != nil {
		return tagError(tag, err)
	}
	return nil
}

func stringArg(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok && strings.TrimSpace(s) != ""
}

func merge(layers ...map[string]any) map[string]any {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}
	out := make(map[string]any, size)
	for _, layer := range layers {
		for key, value := range layer {
			out[key] = value
		}
	}
	return out
}

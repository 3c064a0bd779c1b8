package helpers

import (
	"github.com/flosch/pongo2/v6"
)

// conditionNode is the shared shape of the branch helpers: arguments, a
// body and an optional else branch.
type conditionNode struct {
	tag   string
	args  *tagArgs
	block *block
	test  func(reg *Registry, ctx *pongo2.ExecutionContext, positional []any) (truth bool, vars map[string]any, problem string)
}

func conditionTagParser(tag string, arity int, test func(*Registry, *pongo2.ExecutionContext, []any) (bool, map[string]any, string)) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		args, err := parseArgs(arguments)
		if err != nil {
			return nil, err
		}
		if err := args.expect(arguments, tag, arity, arity); err != nil {
			return nil, err
		}
		b, err := parseBlock(doc, tag, true)
		if err != nil {
			return nil, err
		}
		return &conditionNode{tag: tag, args: args, block: b, test: test}, nil
	}
}

func (n *conditionNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, n.tag)
	if perr != nil {
		return perr
	}
	positional, _, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	truth, vars, problem := n.test(reg, ctx, positional)
	if problem != "" {
		return report(reg, writer, n.tag, "%s", problem)
	}
	return n.block.run(ctx, writer, truth, vars)
}

var (
	ifCondTagParser = conditionTagParser("ifCond", 3, func(_ *Registry, _ *pongo2.ExecutionContext, args []any) (bool, map[string]any, string) {
		op, _ := args[1].(string)
		result, known := Compare(args[0], op, args[2])
		return known && result, nil, ""
	})

	unlessTagParser = conditionTagParser("unless", 1, func(_ *Registry, _ *pongo2.ExecutionContext, args []any) (bool, map[string]any, string) {
		return !Truthy(args[0]), nil, ""
	})

	includesTagParser = conditionTagParser("includes", 2, func(_ *Registry, _ *pongo2.ExecutionContext, args []any) (bool, map[string]any, string) {
		found, err := Includes(args[0], args[1])
		if err != nil {
			return false, nil, "invalid collection: " + err.Error()
		}
		return found, nil, ""
	})

	inCartTagParser = conditionTagParser("inCart", 1, func(_ *Registry, ctx *pongo2.ExecutionContext, args []any) (bool, map[string]any, string) {
		line, found := FindCartItem(scope(ctx), args[0])
		if !found {
			return false, nil, ""
		}
		return true, map[string]any{"item": line}, ""
	})
)

// iterateNode binds each element of a collection, up to an optional limit.
type iterateNode struct {
	args  *tagArgs
	block *block
}

func iterateTagParser(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	args, err := parseArgs(arguments)
	if err != nil {
		return nil, err
	}
	if err := args.expect(arguments, "iterate", 1, 1); err != nil {
		return nil, err
	}
	b, err := parseBlock(doc, "iterate", false)
	if err != nil {
		return nil, err
	}
	return &iterateNode{args: args, block: b}, nil
}

func (n *iterateNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, "iterate")
	if perr != nil {
		return perr
	}
	positional, named, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	items, err := Items(positional[0])
	if err != nil {
		return report(reg, writer, "iterate", "invalid collection: %v", err)
	}
	limit := len(items)
	if raw, ok := named["limit"]; ok && raw != nil {
		l, isNum := toInt(raw)
		if !isNum {
			return report(reg, writer, "iterate", "limit %v is not a number", raw)
		}
		limit = max(0, min(l, limit))
	}
	as := variableName(named, "current")
	for i := 0; i < limit; i++ {
		if perr := n.block.run(ctx, writer, true, map[string]any{as: withIndex(items[i], i), "index": i}); perr != nil {
			return perr
		}
	}
	return nil
}

// variationsNode iterates product.variations; each body sees the
// variation's fields, the variation itself and the product.
type variationsNode struct {
	tag   string
	field string
	bind  string
	args  *tagArgs
	block *block
}

func nestedTagParser(tag, field, bind string) pongo2.TagParser {
	return func(doc *pongo2.Parser, start *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
		args, err := parseArgs(arguments)
		if err != nil {
			return nil, err
		}
		if err := args.expect(arguments, tag, 1, 1); err != nil {
			return nil, err
		}
		b, err := parseBlock(doc, tag, false)
		if err != nil {
			return nil, err
		}
		return &variationsNode{tag: tag, field: field, bind: bind, args: args, block: b}, nil
	}
}

var (
	variationsTagParser     = nestedTagParser("variations", "variations", "variation")
	variantOptionsTagParser = nestedTagParser("variantOptions", "values", "option")
)

func (n *variationsNode) Execute(ctx *pongo2.ExecutionContext, writer pongo2.TemplateWriter) *pongo2.Error {
	reg, perr := registryFor(ctx, n.tag)
	if perr != nil {
		return perr
	}
	positional, _, perr := n.args.values(ctx)
	if perr != nil {
		return perr
	}
	parent, ok := positional[0].(map[string]any)
	if !ok {
		return report(reg, writer, n.tag, "expected an object, got %T", positional[0])
	}
	product := parent
	if n.tag != "variations" {
		if p, has := parent["product"]; has {
			product, _ = p.(map[string]any)
		}
	}
	entries, err := Items(parent[n.field])
	if err != nil {
		return report(reg, writer, n.tag, "invalid %s: %v", n.field, err)
	}
	for i, raw := range entries {
		vars := map[string]any{"index": i}
		entry, isMap := raw.(map[string]any)
		if isMap {
			for key, value := range entry {
				if isVariable(key) {
					vars[key] = value
				}
			}
			bound := make(map[string]any, len(entry)+1)
			for key, value := range entry {
				bound[key] = value
			}
			bound["product"] = product
			raw = bound
		}
		vars[n.bind] = raw
		vars["product"] = product
		if perr := n.block.run(ctx, writer, true, vars); perr != nil {
			return perr
		}
	}
	return nil
}

func isVariable(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

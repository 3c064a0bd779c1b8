package helpers

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-storetheme/pkg/markup"
	"github.com/goliatone/go-storetheme/pkg/settings"
)

// Functions returns the helper functions callable from templates, suitable
// for gotemplate.WithTemplateFunc. Functions that need the ambient data read
// it from the invoking execution context.
func Functions() map[string]any {
	return map[string]any{
		"resolve": func(ctx *pongo2.ExecutionContext, path any) any {
			p, ok := path.(string)
			if !ok {
				return nil
			}
			return Resolve(scope(ctx), p)
		},
		"item": func(ctx *pongo2.ExecutionContext, list, index any) any {
			value, err := Item(list, index)
			if err != nil {
				reg, _ := FromExecutionContext(ctx)
				return reg.argumentError("item", "%v", err)
			}
			return value
		},
		"product_price": func(ctx *pongo2.ExecutionContext, product any) *pongo2.Value {
			return pongo2.AsSafeValue(ProductPrice(currencySymbol(scope(ctx)), product))
		},
		"money": func(ctx *pongo2.ExecutionContext, amount any) string {
			return Money(currencySymbol(scope(ctx)), amount)
		},
		"percentage": func(value any) string { return Percentage(value) },
		"add":        func(a, b any) any { return Add(a, b) },
		"subtract":   func(a, b any) any { return Subtract(a, b) },
		"json":       func(value any) string { return toJSON(value) },
		"clean":      func(value any) string { return markup.Title(stringValue(value)) },
		"lowercase":  func(value any) string { return strings.ToLower(stringValue(value)) },
		"uppercase":  func(value any) string { return strings.ToUpper(stringValue(value)) },
		"sanitize": func(value any) *pongo2.Value {
			return pongo2.AsSafeValue(settings.SanitizeHTML(stringValue(value)))
		},
	}
}

func registerFilters() {
	filters := map[string]pongo2.FilterFunction{
		"json": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(toJSON(in.Interface())), nil
		},
		"clean": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(markup.Title(in.String())), nil
		},
		"lowercase": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(strings.ToLower(in.String())), nil
		},
		"uppercase": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(strings.ToUpper(in.String())), nil
		},
		"sanitize": func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsSafeValue(settings.SanitizeHTML(in.String())), nil
		},
	}
	for name, fn := range filters {
		if pongo2.FilterExists(name) {
			continue
		}
		if err := pongo2.RegisterFilter(name, fn); err != nil {
			panic(fmt.Sprintf("helpers: register filter %s: %v", name, err))
		}
	}
}

func toJSON(value any) string {
	if value == nil {
		return "null"
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(data)
}

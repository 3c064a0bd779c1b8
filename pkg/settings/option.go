package settings

import "strings"

// Option is a configurable setting exposed to the theme editor. Theme files
// describe it as an object with a type tag plus a default and/or value:
//
//	{"type": "text", "default": "Shop now", "value": "Browse"}
//
// Value wins over Default when it is present and not null.
type Option struct {
	Type     string
	Default  any
	Value    any
	HasValue bool
}

// Resolve returns the concrete value theme partials should see. Nested plain
// objects inside the resolved value are normalised as well.
func (o Option) Resolve() any {
	resolved := o.Default
	if o.HasValue && o.Value != nil {
		resolved = o.Value
	}
	if isRichText(o.Type) {
		if text, ok := resolved.(string); ok {
			return SanitizeHTML(text)
		}
	}
	return NormalizeValue(resolved)
}

func isRichText(typ string) bool {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "richtext", "rich_text", "html":
		return true
	default:
		return false
	}
}

// optionFromMap reports whether raw is the serialised form of an Option: it
// must carry a string type tag together with a default or value key.
func optionFromMap(raw map[string]any) (Option, bool) {
	typ, hasType := raw["type"]
	if !hasType {
		return Option{}, false
	}
	tag, ok := typ.(string)
	if !ok {
		return Option{}, false
	}
	def, hasDefault := raw["default"]
	val, hasValue := raw["value"]
	if !hasDefault && !hasValue {
		return Option{}, false
	}
	return Option{
		Type:     tag,
		Default:  liftOptions(def),
		Value:    liftOptions(val),
		HasValue: hasValue,
	}, true
}

// liftOptions converts decoded JSON/YAML trees so that every object shaped
// like a configurable option becomes an Option. Other maps and slices are
// rebuilt with their children lifted.
func liftOptions(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if opt, ok := optionFromMap(v); ok {
			return opt
		}
		out := make(map[string]any, len(v))
		for key, child := range v {
			out[key] = liftOptions(child)
		}
		return out
	case map[any]any:
		converted := make(map[string]any, len(v))
		for key, child := range v {
			converted[toKey(key)] = child
		}
		return liftOptions(converted)
	case []any:
		out := make([]any, len(v))
		for idx, child := range v {
			out[idx] = liftOptions(child)
		}
		return out
	default:
		return value
	}
}

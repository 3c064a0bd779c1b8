package settings

import (
	"fmt"
	"sort"
)

// Document is a settings document describing a template or a section group.
type Document struct {
	// Name identifies the originating document (template or group name).
	Name     string
	Order    []string
	Sections map[string]*Section
	// Layout names the layout partial wrapping a template body. Empty means
	// the body is returned as-is.
	Layout string
}

// Section is a single entry of Document.Sections.
type Section struct {
	Type         string
	Settings     map[string]any
	Widgets      map[string]any
	WidgetsOrder []string
	// Extra keeps any additional keys theme authors attach to a section so
	// partials still see them through the raw section object.
	Extra map[string]any
}

// Hidden reports whether the section explicitly opted out of rendering via
// settings.show == false.
func (s *Section) Hidden() bool {
	if s == nil || s.Settings == nil {
		return false
	}
	show, ok := s.Settings["show"]
	if !ok {
		return false
	}
	if opt, isOpt := show.(Option); isOpt {
		show = opt.Resolve()
	}
	flag, isBool := show.(bool)
	return isBool && !flag
}

// Map exposes the section as the plain object partials receive under the
// `section` key.
func (s *Section) Map() map[string]any {
	out := make(map[string]any, len(s.Extra)+4)
	for key, value := range s.Extra {
		out[key] = value
	}
	out["type"] = s.Type
	settings := s.Settings
	if settings == nil {
		settings = map[string]any{}
	}
	out["settings"] = settings
	widgets := s.Widgets
	if widgets == nil {
		widgets = map[string]any{}
	}
	out["widgets"] = widgets
	order := make([]any, 0, len(s.WidgetsOrder))
	for _, key := range s.OrderedWidgets() {
		order = append(order, key)
	}
	out["widgets_order"] = order
	return out
}

// OrderedWidgets returns widget keys in display order: WidgetsOrder entries
// that exist first, then any remaining keys sorted.
func (s *Section) OrderedWidgets() []string {
	return OrderedKeys(s.Widgets, s.WidgetsOrder)
}

// OrderedKeys orders the keys of m following the preferred order and then
// alphabetically for keys the order does not mention.
func OrderedKeys(m map[string]any, preferred []string) []string {
	keys := make([]string, 0, len(m))
	seen := make(map[string]struct{}, len(m))
	for _, key := range preferred {
		if _, ok := m[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	rest := make([]string, 0, len(m))
	for key := range m {
		if _, ok := seen[key]; ok {
			continue
		}
		rest = append(rest, key)
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// FromMap builds a document from already decoded data such as an editor
// override supplied in the request context.
func FromMap(raw map[string]any) (*Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("settings: document is nil")
	}
	lifted, _ := liftOptions(raw).(map[string]any)
	return buildDocument(lifted)
}

func buildDocument(raw map[string]any) (*Document, error) {
	doc := &Document{Sections: map[string]*Section{}}

	order, err := stringList(raw["order"])
	if err != nil {
		return nil, fmt.Errorf("settings: order: %w", err)
	}
	doc.Order = order

	switch layout := raw["layout"].(type) {
	case nil, bool:
		// layout:false disables the layout explicitly.
	case string:
		doc.Layout = layout
	default:
		return nil, fmt.Errorf("settings: layout must be a string, got %T", layout)
	}

	if rawSections, ok := raw["sections"]; ok && rawSections != nil {
		sections, isMap := rawSections.(map[string]any)
		if !isMap {
			return nil, fmt.Errorf("settings: sections must be an object, got %T", rawSections)
		}
		for key, value := range sections {
			section, err := buildSection(value)
			if err != nil {
				return nil, fmt.Errorf("settings: section %q: %w", key, err)
			}
			doc.Sections[key] = section
		}
	}
	return doc, nil
}

func buildSection(value any) (*Section, error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", value)
	}
	section := &Section{}
	for key, field := range raw {
		switch key {
		case "type":
			typ, isString := field.(string)
			if !isString {
				return nil, fmt.Errorf("type must be a string, got %T", field)
			}
			section.Type = typ
		case "settings":
			if field == nil {
				continue
			}
			settings, isMap := field.(map[string]any)
			if !isMap {
				return nil, fmt.Errorf("settings must be an object, got %T", field)
			}
			section.Settings = settings
		case "widgets":
			if field == nil {
				continue
			}
			widgets, isMap := field.(map[string]any)
			if !isMap {
				return nil, fmt.Errorf("widgets must be an object, got %T", field)
			}
			section.Widgets = widgets
		case "widgets_order":
			order, err := stringList(field)
			if err != nil {
				return nil, fmt.Errorf("widgets_order: %w", err)
			}
			section.WidgetsOrder = order
		default:
			if section.Extra == nil {
				section.Extra = map[string]any{}
			}
			section.Extra[key] = field
		}
	}
	return section, nil
}

func stringList(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for idx, item := range v {
			text, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("entry %d must be a string, got %T", idx, item)
			}
			out = append(out, text)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of strings, got %T", value)
	}
}

func toKey(key any) string {
	if text, ok := key.(string); ok {
		return text
	}
	return fmt.Sprint(key)
}

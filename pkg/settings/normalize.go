package settings

// Normalize replaces every configurable Option inside the document's section
// settings and widgets with its resolved value. The document is modified in
// place and returned for convenience. Running Normalize on an already
// normalised document changes nothing.
func Normalize(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	for _, section := range doc.Sections {
		if section == nil {
			continue
		}
		normalizeMap(section.Settings)
		normalizeMap(section.Widgets)
		normalizeMap(section.Extra)
	}
	return doc
}

// NormalizeValue applies the same walk to an arbitrary value. Maps and
// slices are updated in place; an Option is replaced by its resolution.
func NormalizeValue(value any) any {
	switch v := value.(type) {
	case Option:
		return v.Resolve()
	case *Option:
		if v == nil {
			return nil
		}
		return v.Resolve()
	case map[string]any:
		normalizeMap(v)
		return v
	case []any:
		for idx, item := range v {
			v[idx] = NormalizeValue(item)
		}
		return v
	default:
		return value
	}
}

func normalizeMap(m map[string]any) {
	for key, value := range m {
		m[key] = NormalizeValue(value)
	}
}

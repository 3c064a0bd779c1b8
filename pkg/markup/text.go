package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Title turns a hyphen, underscore or space delimited identifier into a
// label: "featured-products" becomes "Featured Products".
func Title(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || unicode.IsSpace(r)
	})
	for idx, part := range parts {
		r, size := utf8.DecodeRuneInString(part)
		parts[idx] = string(unicode.ToUpper(r)) + part[size:]
	}
	return strings.Join(parts, " ")
}

// ParseAttrs reads attributes written as they would appear inside a start
// tag, e.g. `class='btn' id="buy" required`. Malformed input yields the
// attributes recognised before the problem.
func ParseAttrs(props string) []Attr {
	props = strings.TrimSpace(props)
	if props == "" {
		return nil
	}
	tokenizer := html.NewTokenizer(strings.NewReader("<x " + props + ">"))
	if tokenizer.Next() != html.StartTagToken {
		return nil
	}
	if _, hasAttr := tokenizer.TagName(); !hasAttr {
		return nil
	}
	var attrs []Attr
	for {
		key, val, more := tokenizer.TagAttr()
		if len(key) > 0 {
			attrs = append(attrs, Attr{Key: string(key), Val: string(val)})
		}
		if !more {
			break
		}
	}
	return attrs
}

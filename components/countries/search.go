package countries

import (
	"sort"
	"strings"
)

// Option is one select entry. Name doubles as the submitted value, which is
// what the select field tags write.
type Option struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Search returns the countries whose name or code contains query. Prefix
// matches rank first, then entries are ordered by name.
func Search(list []Country, query string, limit int, opts Options) []Country {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(list) > limit {
			list = list[:limit]
		}
		return clone(list)
	}

	q := strings.ToLower(query)
	matches := make([]matchedCountry, 0, 16)
	for _, entry := range list {
		name := strings.ToLower(entry.Name)
		code := strings.ToLower(entry.Code)
		if !strings.Contains(name, q) && code != q {
			continue
		}
		matches = append(matches, matchedCountry{
			country:  entry,
			isPrefix: code == q || strings.HasPrefix(name, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].country.Name < matches[j].country.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Country, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.country)
	}
	return out
}

// SearchOptions is Search projected to select options.
func SearchOptions(list []Country, query string, limit int, opts Options) []Option {
	results := Search(list, query, limit, opts)
	if len(results) == 0 {
		return nil
	}
	out := make([]Option, 0, len(results))
	for _, entry := range results {
		out = append(out, Option{Name: entry.Name, Code: entry.Code})
	}
	return out
}

// StateOptions lists the states of the country identified by key (code or
// name). Unknown countries and countries without states yield nil.
func StateOptions(list []Country, key string) []Option {
	entry, ok := Find(list, key)
	if !ok || len(entry.States) == 0 {
		return nil
	}
	out := make([]Option, 0, len(entry.States))
	for _, state := range entry.States {
		out = append(out, Option{Name: state})
	}
	return out
}

// TemplateOptions converts options to the []any of {name, code} maps the
// select field tags read from render data.
func TemplateOptions(options []Option) []any {
	out := make([]any, 0, len(options))
	for _, opt := range options {
		entry := map[string]any{"name": opt.Name}
		if opt.Code != "" {
			entry["code"] = opt.Code
		}
		out = append(out, entry)
	}
	return out
}

type matchedCountry struct {
	country  Country
	isPrefix bool
}

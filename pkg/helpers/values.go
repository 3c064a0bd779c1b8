package helpers

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Resolve walks a dotted path through nested maps (and list indexes). Any
// missing segment yields nil.
func Resolve(data map[string]any, path string) any {
	path = strings.TrimSpace(path)
	if path == "" || data == nil {
		return nil
	}
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		next, ok := child(current, segment)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func child(container any, key string) (any, bool) {
	switch c := container.(type) {
	case map[string]any:
		value, ok := c[key]
		return value, ok
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	}
	rv := reflect.ValueOf(container)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		value := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !value.IsValid() {
			return nil, false
		}
		return value.Interface(), true
	}
	return nil, false
}

// Truthy applies template truthiness: nil, false, zero numbers, empty
// strings and empty collections are false.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	if f, ok := toFloat(value); ok {
		return f != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Ptr, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Compare evaluates `a op b` for the comparison and logical operators
// == === != !== < <= > >= && ||. The boolean reports whether op is known.
// "==" compares loosely (numbers by value, otherwise by string form) while
// "===" also requires matching kinds.
func Compare(a any, op string, b any) (result bool, known bool) {
	switch op {
	case "==":
		return looseEqual(a, b), true
	case "===":
		return strictEqual(a, b), true
	case "!=":
		return !looseEqual(a, b), true
	case "!==":
		return !strictEqual(a, b), true
	case "<", "<=", ">", ">=":
		return ordered(a, op, b), true
	case "&&":
		return Truthy(a) && Truthy(b), true
	case "||":
		return Truthy(a) || Truthy(b), true
	default:
		return false, false
	}
}

func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum && bNum {
		return fa == fb
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return ab == bb
		}
	}
	if aNum || bNum {
		// "5" == 5
		if aNum {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(b)), 64); err == nil {
				return parsed == fa
			}
			return false
		}
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(fmt.Sprint(a)), 64); err == nil {
			return parsed == fb
		}
		return false
	}
	return reflect.DeepEqual(a, b) || fmt.Sprint(a) == fmt.Sprint(b)
}

func strictEqual(a, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && fa == fb
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func ordered(a any, op string, b any) bool {
	fa, aNum := toFloat(a)
	fb, bNum := toFloat(b)
	var cmp int
	switch {
	case aNum && bNum:
		switch {
		case fa < fb:
			cmp = -1
		case fa > fb:
			cmp = 1
		}
	default:
		sa, aStr := a.(string)
		sb, bStr := b.(string)
		if !aStr || !bStr {
			return false
		}
		cmp = strings.Compare(sa, sb)
	}
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// toNumber is toFloat extended to numeric strings.
func toNumber(value any) (float64, bool) {
	if f, ok := toFloat(value); ok {
		return f, true
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

func toInt(value any) (int, bool) {
	f, ok := toNumber(value)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// Items returns the elements of a collection. Lists are returned as-is,
// {data: [...]} wrappers are unwrapped and maps yield their values ordered
// by key. Anything else is an error.
func Items(collection any) ([]any, error) {
	if wrapper, ok := collection.(map[string]any); ok {
		if inner, has := wrapper["data"]; has {
			collection = inner
		}
	}
	switch c := collection.(type) {
	case nil:
		return nil, fmt.Errorf("collection is nil")
	case []any:
		return c, nil
	case map[string]any:
		keys := make([]string, 0, len(c))
		for key := range c {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		out := make([]any, 0, len(c))
		for _, key := range keys {
			out = append(out, c[key])
		}
		return out, nil
	}
	rv := reflect.ValueOf(collection)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make([]any, rv.Len())
		for idx := range out {
			out[idx] = rv.Index(idx).Interface()
		}
		return out, nil
	}
	return nil, fmt.Errorf("value of type %T is not a collection", collection)
}

// Includes reports whether collection (a list or {data: [...]}) contains
// item, comparing loosely.
func Includes(collection any, item any) (bool, error) {
	if wrapper, ok := collection.(map[string]any); ok {
		inner, has := wrapper["data"]
		if !has {
			return false, fmt.Errorf("object without data list")
		}
		collection = inner
	}
	items, err := Items(collection)
	if err != nil {
		return false, err
	}
	for _, candidate := range items {
		if looseEqual(candidate, item) {
			return true, nil
		}
	}
	return false, nil
}

// Item returns list[index], or nil when the index is out of range.
func Item(list any, index any) (any, error) {
	items, ok := list.([]any)
	if !ok {
		rv := reflect.ValueOf(list)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("value of type %T is not a list", list)
		}
		converted, _ := Items(list)
		items = converted
	}
	idx, ok := toInt(index)
	if !ok {
		return nil, fmt.Errorf("index %v is not a number", index)
	}
	if idx < 0 || idx >= len(items) {
		return nil, nil
	}
	return items[idx], nil
}

// withIndex returns a shallow copy of a map item carrying its position.
// Non-map items are returned unchanged.
func withIndex(item any, index int) any {
	m, ok := item.(map[string]any)
	if !ok {
		return item
	}
	out := make(map[string]any, len(m)+1)
	for key, value := range m {
		out[key] = value
	}
	out["index"] = index
	return out
}

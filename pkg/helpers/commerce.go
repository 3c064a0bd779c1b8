package helpers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

// FindCartItem returns the cart line matching product. Lines are matched by
// product id; when a line records a default or selected variant, the
// product's default_or_selected_variant_id must match the line's variant too.
func FindCartItem(data map[string]any, product any) (map[string]any, bool) {
	prod, ok := product.(map[string]any)
	if !ok {
		return nil, false
	}
	lines, ok := Resolve(data, "cart.items").([]any)
	if !ok {
		return nil, false
	}
	for _, raw := range lines {
		line, isMap := raw.(map[string]any)
		if !isMap {
			continue
		}
		if !looseEqual(prod["id"], line["product_id"]) {
			continue
		}
		if !Truthy(line["has_default_or_selected_variant"]) {
			return line, true
		}
		if looseEqual(prod["default_or_selected_variant_id"], Resolve(line, "variant.id")) {
			return line, true
		}
	}
	return nil, false
}

// Money formats amount with the currency symbol. Whole numbers get two
// decimals; amounts already carrying decimals are kept as written.
func Money(symbol string, amount any) string {
	switch v := amount.(type) {
	case string:
		if strings.Contains(v, ".") {
			return symbol + v
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return symbol + strconv.FormatFloat(f, 'f', 2, 64)
		}
		return symbol + v
	case nil:
		return symbol + "0.00"
	}
	f, ok := toFloat(amount)
	if !ok {
		return symbol + fmt.Sprint(amount)
	}
	if f == float64(int64(f)) {
		return symbol + strconv.FormatFloat(f, 'f', 2, 64)
	}
	return symbol + strconv.FormatFloat(f, 'f', -1, 64)
}

// ProductPrice renders the product price, followed by the struck-through
// original price when the two differ.
func ProductPrice(symbol string, product any) string {
	prod, ok := product.(map[string]any)
	if !ok {
		return ""
	}
	price := symbol + formatNumber(prod["price"])
	actual, hasActual := prod["actual_price"]
	if !hasActual || actual == nil || looseEqual(actual, prod["price"]) {
		return markup.String(markup.Text(price))
	}
	strike := markup.El("strike", markup.A("style", "margin-left:10px;")).
		Append(markup.Text(symbol + formatNumber(actual)))
	return markup.String(markup.Group{markup.Text(price), strike})
}

// Percentage appends a percent sign.
func Percentage(value any) string {
	return formatNumber(value) + "%"
}

// Add sums two numeric values (numeric strings included).
func Add(a, b any) any {
	fa, _ := toNumber(a)
	fb, _ := toNumber(b)
	return narrow(fa + fb)
}

// Subtract returns a - b.
func Subtract(a, b any) any {
	fa, _ := toNumber(a)
	fb, _ := toNumber(b)
	return narrow(fa - fb)
}

func narrow(f float64) any {
	if f == float64(int64(f)) {
		return int(f)
	}
	return f
}

func formatNumber(value any) string {
	if value == nil {
		return ""
	}
	if f, ok := toFloat(value); ok {
		return fmt.Sprint(narrow(f))
	}
	return fmt.Sprint(value)
}

func currencySymbol(data map[string]any) string {
	if symbol, ok := Resolve(data, "currency.symbol").(string); ok {
		return symbol
	}
	return ""
}

package helpers

import (
	"fmt"
	"io"
	"sort"

	"github.com/valyala/fasttemplate"

	"github.com/goliatone/go-storetheme/pkg/markup"
)

type formSpec struct {
	id     string
	action string
	method string
	// params lists the identifiers interpolated into action, with the hash
	// argument paths and route params they may come from.
	params []formParam
	hidden func(args map[string]any) ([]markup.Node, error)
}

type formParam struct {
	name    string
	sources []string
	route   []string
}

var (
	addressParam = formParam{name: "address_id", sources: []string{"address_id", "address.id"}, route: []string{"address_id", "id"}}
	orderParam   = formParam{name: "order_number", sources: []string{"order_number", "order.number", "order.order_number"}, route: []string{"order_number", "number", "id"}}
	tokenParam   = formParam{name: "token", sources: []string{"token"}, route: []string{"token"}}
)

var forms = map[string]formSpec{
	"newsletter":       {id: "newsletter_form", action: "/newsletter", method: "POST"},
	"search":           {id: "search_form", action: "/search", method: "GET"},
	"contact":          {id: "contact_form", action: "/contact", method: "POST"},
	"product":          {id: "product_form", action: "/cart/add", method: "POST", hidden: productHidden},
	"review":           {id: "review_form", action: "/review/add", method: "POST", hidden: productHidden},
	"remove-item":      {id: "remove_item_form", action: "/cart/update", method: "POST", hidden: removeItemHidden},
	"update-cart":      {id: "update_cart_form", action: "/cart/update", method: "POST"},
	"apply-coupon":     {id: "coupon_apply_form", action: "/discount/apply", method: "POST"},
	"remove-coupon":    {id: "coupon_remove_form", action: "/discount/remove", method: "POST"},
	"login":            {id: "login_form", action: "/account/login", method: "POST"},
	"register":         {id: "register_form", action: "/account/register", method: "POST"},
	"recover-password": {id: "recover_password_form", action: "/account/password/recover", method: "POST"},
	"reset-password":   {id: "reset_password_form", action: "/account/password/reset/{token}", method: "POST", params: []formParam{tokenParam}, hidden: tokenHidden},
	"logout":           {id: "logout_form", action: "/account/logout", method: "POST"},
	"create-address":   {id: "create_address_form", action: "/account/addresses", method: "POST"},
	"update-address":   {id: "update_address_form", action: "/account/addresses/{address_id}/update", method: "POST", params: []formParam{addressParam}},
	"delete-address":   {id: "delete_address_form", action: "/account/addresses/{address_id}/delete", method: "POST", params: []formParam{addressParam}},
	"cancel-order":     {id: "cancel_order_form", action: "/account/orders/{order_number}/cancel", method: "POST", params: []formParam{orderParam}},
}

// FormKeys lists the supported form keys.
func FormKeys() []string {
	keys := make([]string, 0, len(forms))
	for key := range forms {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Form builds the opening form element for key plus the hidden fields that
// follow it. args are the helper's hash arguments; route parameters found
// in data under route.params fill identifiers args do not provide.
func Form(key, props string, args, data map[string]any) (*markup.Element, []markup.Node, error) {
	endpoint, ok := forms[key]
	if !ok {
		return nil, nil, &HelperArgumentError{Helper: "form", Message: fmt.Sprintf("unknown form key %q", key)}
	}

	values := make(map[string]string, len(endpoint.params))
	for _, param := range endpoint.params {
		value, found := formIdentifier(param, args, data)
		if !found {
			return nil, nil, &HelperArgumentError{Helper: "form", Message: fmt.Sprintf("%s form requires %s", key, param.name)}
		}
		values[param.name] = value
	}
	action, err := fasttemplate.ExecuteFuncStringWithErr(endpoint.action, "{", "}", func(w io.Writer, tag string) (int, error) {
		value, ok := values[tag]
		if !ok {
			return 0, fmt.Errorf("no value for %q", tag)
		}
		return io.WriteString(w, value)
	})
	if err != nil {
		return nil, nil, &HelperArgumentError{Helper: "form", Message: err.Error()}
	}

	el := markup.El("form",
		markup.A("form-id", endpoint.id),
		markup.A("action", action),
		markup.A("method", endpoint.method),
	)
	el.Attrs = append(el.Attrs, markup.ParseAttrs(props)...)

	var hidden []markup.Node
	if endpoint.hidden != nil {
		hidden, err = endpoint.hidden(args)
		if err != nil {
			return nil, nil, &HelperArgumentError{Helper: "form", Message: fmt.Sprintf("%s form: %v", key, err)}
		}
	}
	return el, hidden, nil
}

func formIdentifier(param formParam, args, data map[string]any) (string, bool) {
	for _, path := range param.sources {
		if value := Resolve(args, path); value != nil && fmt.Sprint(value) != "" {
			return formatNumber(value), true
		}
	}
	params, _ := Resolve(data, "route.params").(map[string]any)
	for _, key := range param.route {
		if value := params[key]; value != nil && fmt.Sprint(value) != "" {
			return formatNumber(value), true
		}
	}
	return "", false
}

func hiddenInput(name, value string) markup.Node {
	return markup.El("input", markup.A("type", "hidden"), markup.A("name", name), markup.A("value", value))
}

func productHidden(args map[string]any) ([]markup.Node, error) {
	id := Resolve(args, "product.id")
	if id == nil {
		return nil, fmt.Errorf("product with an id is required")
	}
	return []markup.Node{hiddenInput("product_id", formatNumber(id))}, nil
}

func removeItemHidden(args map[string]any) ([]markup.Node, error) {
	index, ok := toInt(Resolve(args, "item.index"))
	if !ok {
		return nil, fmt.Errorf("item with an index is required")
	}
	return []markup.Node{
		hiddenInput("line", fmt.Sprint(index+1)),
		hiddenInput("quantity", "0"),
	}, nil
}

func tokenHidden(args map[string]any) ([]markup.Node, error) {
	token := Resolve(args, "token")
	if token == nil {
		return nil, nil
	}
	return []markup.Node{hiddenInput("token", fmt.Sprint(token))}, nil
}

// SelectField renders a <select> of the named entries in options (a list of
// {name: ...} objects), preceded by an empty placeholder option.
func SelectField(kind, placeholder, name, selected, props string, options []any, disabled bool) string {
	if name == "" {
		name = kind
	}
	el := markup.El("select", markup.A("name", name), markup.A("select-id", kind))
	el.Attrs = append(el.Attrs, markup.ParseAttrs(props)...)
	el.AttrIf(disabled, "disabled", "disabled")
	el.Append(markup.El("option", markup.A("value", "")).Append(markup.Text(placeholder)))
	for _, raw := range options {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		label := fmt.Sprint(entry["name"])
		opt := markup.El("option", markup.A("value", label)).
			AttrIf(selected != "" && selected == label, "selected", "selected").
			Append(markup.Text(label))
		el.Append(opt)
	}
	return el.String()
}

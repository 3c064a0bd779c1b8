package countries

import "net/http"

// Component bundles the country data, its handler and the render data the
// select field tags consume.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the JSON handler.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}

// SelectData returns render data for the select field tags: every country
// under "countries" and, when country names a known entry, its states under
// "states".
func (c *Component) SelectData(country string) (map[string]any, error) {
	list, err := listFor(c.Options())
	if err != nil {
		return nil, err
	}
	all := make([]Option, 0, len(list))
	for _, entry := range list {
		all = append(all, Option{Name: entry.Name, Code: entry.Code})
	}
	out := map[string]any{"countries": TemplateOptions(all)}
	if states := StateOptions(list, country); states != nil {
		out["states"] = TemplateOptions(states)
	}
	return out, nil
}

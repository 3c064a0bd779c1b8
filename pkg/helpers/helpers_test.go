package helpers_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/helpers"
	"github.com/goliatone/go-storetheme/pkg/render/template/gotemplate"
	"github.com/goliatone/go-storetheme/pkg/settings"
	"github.com/goliatone/go-storetheme/pkg/source"
)

type harness struct {
	files fstest.MapFS
	data  map[string]any
	mode  editor.Mode
	dev   bool
}

func (h harness) render(t *testing.T, tmpl string) string {
	t.Helper()
	out, err := h.try(t, tmpl)
	require.NoError(t, err)
	return out
}

func (h harness) try(t *testing.T, tmpl string) (string, error) {
	t.Helper()
	engine, err := gotemplate.New(gotemplate.WithTemplateFunc(helpers.Functions()))
	require.NoError(t, err)
	files := h.files
	if files == nil {
		files = fstest.MapFS{}
	}
	src, err := source.New(files)
	require.NoError(t, err)

	reg := helpers.New(context.Background(), helpers.Bindings{
		Data:        h.data,
		Mode:        h.mode,
		Development: h.dev,
		Source:      src,
		Compiler:    engine,
		Resolve:     listResolver,
	})
	return reg.Render(tmpl, nil)
}

// listResolver renders each visible section of a group through its partial.
func listResolver(reg *helpers.Registry, name string, doc *settings.Document, data map[string]any) (string, error) {
	var b strings.Builder
	for _, key := range doc.Order {
		section := doc.Sections[key]
		if section == nil || section.Hidden() {
			continue
		}
		out, err := reg.Partial("sections", section.Type, map[string]any{
			"section":      section.Map(),
			"section_name": key,
			"group_name":   name,
		})
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

func products() []any {
	return []any{
		map[string]any{"name": "a"},
		map[string]any{"name": "b"},
		map[string]any{"name": "c"},
	}
}

func TestIterateHonoursLimitAndIndex(t *testing.T) {
	items := products()
	h := harness{data: map[string]any{"items": items}}

	got := h.render(t, `{% iterate items as="p" limit=2 %}[{{ index }}:{{ p.name }}:{{ p.index }}]{% enditerate %}`)
	assert.Equal(t, "[0:a:0][1:b:1]", got)

	got = h.render(t, `{% iterate items limit=3 %}{{ current.name }}{% enditerate %}`)
	assert.Equal(t, "abc", got)

	got = h.render(t, `{% iterate items limit=10 %}{{ current.name }}{% enditerate %}`)
	assert.Equal(t, "abc", got)

	for _, raw := range items {
		_, has := raw.(map[string]any)["index"]
		assert.False(t, has, "iterate must not mutate the source items")
	}
}

func TestIterateRejectsNonCollections(t *testing.T) {
	h := harness{data: map[string]any{"items": 3}, dev: true}
	got := h.render(t, `{% iterate items %}x{% enditerate %}`)
	assert.Contains(t, got, "invalid collection")

	h.dev = false
	assert.Equal(t, "", h.render(t, `{% iterate items %}x{% enditerate %}`))
}

func TestPaginationWindow(t *testing.T) {
	cases := []struct {
		page, pages, limit int
		start, end         int
	}{
		{page: 7, pages: 20, limit: 5, start: 3, end: 7},
		{page: 2, pages: 20, limit: 5, start: 1, end: 5},
		{page: 3, pages: 3, limit: 5, start: 1, end: 3},
		{page: 1, pages: 1, limit: 5, start: 1, end: 1},
	}
	for _, tc := range cases {
		start, end := helpers.PaginationWindow(tc.page, tc.pages, tc.limit)
		assert.Equal(t, tc.start, start, "start for page %d", tc.page)
		assert.Equal(t, tc.end, end, "end for page %d", tc.page)
	}
}

func TestPaginationTag(t *testing.T) {
	h := harness{data: map[string]any{"p": map[string]any{"page": 7, "pages": 20}}}
	got := h.render(t, `{% pagination p previous="prev" next="next" limit=5 %}`)

	for n := 3; n <= 7; n++ {
		assert.Contains(t, got, `data-page="`+strconv.Itoa(n)+`"`)
	}
	assert.NotContains(t, got, `data-page="2"`)
	assert.NotContains(t, got, `data-page="8"`)
	assert.Contains(t, got, `data-page="7" class="active" aria-current="page"`)
	assert.Contains(t, got, `href="?page=6" class="prev" rel="prev"`)
	assert.Contains(t, got, `href="?page=8" class="next" rel="next"`)
	assert.Equal(t, 2, strings.Count(got, "pagination-collapse"))
}

func TestPaginationClampsPage(t *testing.T) {
	nav, ok := helpers.Pagination(map[string]any{"page": 50, "pages": 3}, helpers.PaginationOptions{})
	require.True(t, ok)
	got := nav.String()
	assert.Contains(t, got, `data-page="3" class="active" aria-current="page"`)
	assert.Contains(t, got, `href="?page=2"`)
	assert.NotContains(t, got, "?page=49")
	assert.NotContains(t, got, `rel="next"`)
	assert.NotContains(t, got, "pagination-collapse")

	nav, ok = helpers.Pagination(map[string]any{"page": -4, "pages": 2}, helpers.PaginationOptions{})
	require.True(t, ok)
	got = nav.String()
	assert.Contains(t, got, `data-page="1" class="active" aria-current="page"`)
	assert.NotContains(t, got, `rel="prev"`)
}

func TestPaginationWithoutPagesRendersNothing(t *testing.T) {
	nav, ok := helpers.Pagination(map[string]any{"page": 0, "pages": 0}, helpers.PaginationOptions{})
	assert.True(t, ok)
	assert.Nil(t, nav)

	h := harness{data: map[string]any{"p": map[string]any{"page": 0, "pages": 0}}, dev: true}
	assert.Equal(t, "", h.render(t, `{% pagination p %}`))
}

func TestResolveFunction(t *testing.T) {
	h := harness{data: map[string]any{"a": map[string]any{"b": map[string]any{"c": 42}}}}
	assert.Equal(t, "42|", h.render(t, `{{ resolve("a.b.c") }}|{{ resolve("a.x.c") }}`))

	assert.Equal(t, 42, helpers.Resolve(h.data, "a.b.c"))
	assert.Nil(t, helpers.Resolve(h.data, "a.x.c"))
}

func TestIfCondOperators(t *testing.T) {
	h := harness{data: map[string]any{"a": 1, "b": "1", "c": 2}}
	cases := map[string]string{
		`{% ifCond a "==" b %}yes{% else %}no{% endifCond %}`:  "yes",
		`{% ifCond a "===" b %}yes{% else %}no{% endifCond %}`: "no",
		`{% ifCond a "<" c %}yes{% else %}no{% endifCond %}`:   "yes",
		`{% ifCond a "&&" c %}yes{% else %}no{% endifCond %}`:  "yes",
		`{% ifCond a "<>" c %}yes{% else %}no{% endifCond %}`:  "no",
		`{% ifCond a "!=" c %}yes{% endifCond %}`:              "yes",
	}
	for tmpl, want := range cases {
		assert.Equal(t, want, h.render(t, tmpl), tmpl)
	}
}

func TestUnlessAndIncludes(t *testing.T) {
	h := harness{data: map[string]any{
		"empty": "",
		"tags":  map[string]any{"data": []any{"sale", "new"}},
	}}
	assert.Equal(t, "shown", h.render(t, `{% unless empty %}shown{% else %}hidden{% endunless %}`))
	assert.Equal(t, "yes", h.render(t, `{% includes tags "sale" %}yes{% else %}no{% endincludes %}`))
	assert.Equal(t, "no", h.render(t, `{% includes tags "old" %}yes{% else %}no{% endincludes %}`))
}

func TestFormProductAction(t *testing.T) {
	h := harness{data: map[string]any{"product": map[string]any{"id": "P1"}}}
	got := h.render(t, `{% form "product" props="class='add'" product=product %}<button>Add</button>{% endform %}`)

	assert.True(t, strings.HasPrefix(got, `<form form-id="product_form" action="/cart/add" method="POST" class="add">`), got)
	assert.Contains(t, got, `<input type="hidden" name="product_id" value="P1"/>`)
	assert.True(t, strings.HasSuffix(got, `<button>Add</button></form>`), got)
}

func TestFormRouteParams(t *testing.T) {
	h := harness{data: map[string]any{"route": map[string]any{"params": map[string]any{"address_id": 12}}}}
	got := h.render(t, `{% form "delete-address" %}{% endform %}`)
	assert.Contains(t, got, `action="/account/addresses/12/delete"`)
}

func TestFormUnknownKeyRendersBodyOnly(t *testing.T) {
	h := harness{}
	assert.Equal(t, "<p>body</p>", h.render(t, `{% form "unknown-key" %}<p>body</p>{% endform %}`))

	_, _, err := helpers.Form("unknown-key", "", nil, nil)
	var argErr *helpers.HelperArgumentError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, "form", argErr.Helper)
}

func TestRenderPartialMergesScope(t *testing.T) {
	h := harness{
		files: fstest.MapFS{"sections/card.html": {Data: []byte(`<b>{{ title }}</b>{{ currency.symbol }}{{ outer }}`)}},
		data:  map[string]any{"currency": map[string]any{"symbol": "$"}, "outer": "!"},
	}
	assert.Equal(t, "<b>Hi</b>$!", h.render(t, `{% render "card" title="Hi" %}`))
}

func TestRenderMissingPartialIsFatal(t *testing.T) {
	h := harness{}
	_, err := h.try(t, `{% render "absent" %}`)
	require.Error(t, err)
	var notFound *source.PartialNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, "absent", notFound.Name)
}

func TestSectionsTagResolvesGroup(t *testing.T) {
	h := harness{files: fstest.MapFS{
		"sections/footer.json": {Data: []byte(`{"order":["a","b"],"sections":{"a":{"type":"card","settings":{"title":"A"}},"b":{"type":"card","settings":{"show":false}}}}`)},
		"sections/card.html":   {Data: []byte(`[{{ group_name }}/{{ section_name }}:{{ section.settings.title }}]`)},
	}}
	assert.Equal(t, "[footer/a:A]", h.render(t, `{% sections "footer" %}`))

	h.mode = editor.ModeEditor
	h.data = map[string]any{"footer": map[string]any{
		"order":    []any{"z"},
		"sections": map[string]any{"z": map[string]any{"type": "card", "settings": map[string]any{"title": "Z"}}},
	}}
	assert.Equal(t, "[footer/z:Z]", h.render(t, `{% sections "footer" %}`))
}

func TestWidgetsOrderAndEditorWrap(t *testing.T) {
	section := map[string]any{
		"widgets": map[string]any{
			"b": map[string]any{"title": "B"},
			"a": map[string]any{"title": "A"},
			"c": map[string]any{"title": "C"},
		},
		"widgets_order": []any{"c"},
	}
	h := harness{data: map[string]any{"section": section, "section_name": "hero"}}
	tmpl := `{% widgets section.widgets as="w" %}{{ widget_name }}={{ w.title }};{% endwidgets %}`
	assert.Equal(t, "c=C;a=A;b=B;", h.render(t, tmpl))

	h.mode = editor.ModeEditor
	got := h.render(t, tmpl)
	assert.Contains(t, got, `data-type="widget" data-name="hero--c"`)
	assert.Equal(t, 3, strings.Count(got, editor.ClassWrapper))
}

func TestWidgetNavigationEnrichment(t *testing.T) {
	h := harness{data: map[string]any{
		"section": map[string]any{"widgets": map[string]any{
			"nav": map[string]any{"type": "navigation", "settings": map[string]any{"menu": "main"}},
		}},
		"navigations": map[string]any{"main": []any{map[string]any{"title": "Home"}}},
	}}
	got := h.render(t, `{% widget "nav" %}{% for link in widget.navigation %}{{ link.title }}{% endfor %}{% endwidget %}`)
	assert.Equal(t, "Home", got)

	h.dev = true
	assert.Contains(t, h.render(t, `{% widget "nope" %}x{% endwidget %}`), "invalid widget")
	h.dev = false
	assert.Equal(t, "", h.render(t, `{% widget "nope" %}x{% endwidget %}`))
}

func TestCommerceHelpers(t *testing.T) {
	h := harness{data: map[string]any{
		"currency": map[string]any{"symbol": "$"},
		"cart":     map[string]any{"items": []any{map[string]any{"product_id": "P1", "quantity": 2}}},
		"p1":       map[string]any{"id": "P1", "price": 10, "actual_price": 12},
		"p2":       map[string]any{"id": "P2", "price": 5},
	}}
	assert.Equal(t, "2", h.render(t, `{% inCart p1 %}{{ item.quantity }}{% else %}none{% endinCart %}`))
	assert.Equal(t, "none", h.render(t, `{% inCart p2 %}{{ item.quantity }}{% else %}none{% endinCart %}`))
	assert.Equal(t, "$10.00", h.render(t, `{{ money(10) }}`))
	assert.Equal(t, `$10<strike style="margin-left:10px;">$12</strike>`, h.render(t, `{{ product_price(p1) }}`))
	assert.Equal(t, "$5", h.render(t, `{{ product_price(p2) }}`))
	assert.Equal(t, "15%|7|3", h.render(t, `{{ percentage(15) }}|{{ add(3, 4) }}|{{ subtract(5, 2) }}`))
}

func TestVariationsThreadProduct(t *testing.T) {
	h := harness{data: map[string]any{"product": map[string]any{
		"name": "Tee",
		"variations": []any{map[string]any{
			"name":   "Size",
			"values": []any{map[string]any{"value": "S"}, map[string]any{"value": "M"}},
		}},
	}}}
	got := h.render(t, `{% variations product %}{{ name }}:{% variantOptions variation %}{{ value }}/{{ product.name }} {% endvariantOptions %}{% endvariations %}`)
	assert.Equal(t, "Size:S/Tee M/Tee ", got)
}

func TestSelectFields(t *testing.T) {
	h := harness{data: map[string]any{
		"countries": []any{map[string]any{"name": "Nigeria"}, map[string]any{"name": "Ghana"}},
		"addr":      map[string]any{"country": "Ghana"},
	}}
	tmpl := `{% country_select_field "class='x'" name="country" selected=addr.country %}`
	got := h.render(t, tmpl)
	assert.Contains(t, got, `<select name="country" select-id="country" class="x">`)
	assert.Contains(t, got, `<option value="">Select Country</option>`)
	assert.Contains(t, got, `<option value="Ghana" selected="selected">Ghana</option>`)
	assert.NotContains(t, got, "disabled")

	h.mode = editor.ModeEditor
	assert.Contains(t, h.render(t, tmpl), `disabled="disabled"`)
}

func TestFormattingHelpers(t *testing.T) {
	h := harness{data: map[string]any{
		"list": []any{"a", "b"},
		"obj":  map[string]any{"k": "v"},
		"html": `<p onclick="x()">hi</p>`,
	}, dev: true}
	assert.Equal(t, "<style type=\"text/css\">a{color:red}</style>", h.render(t, `{% styles %}a{color:red}{% endstyles %}`))
	assert.Equal(t, "<script type=\"text/javascript\">var a = 1 < 2;</script>", h.render(t, `{% script %}var a = 1 < 2;{% endscript %}`))
	assert.Equal(t, "b", h.render(t, `{{ item(list, 1) }}`))
	assert.Contains(t, h.render(t, `{{ item(obj, 0) }}`), "not a list")
	assert.Equal(t, "Primary Menu|HELLO|hello", h.render(t, `{{ "primary-menu"|clean }}|{{ "hello"|uppercase }}|{{ "HELLO"|lowercase }}`))
	assert.Equal(t, "<p>hi</p>", h.render(t, `{{ html|sanitize }}`))
	assert.Equal(t, `{&quot;k&quot;:&quot;v&quot;}`, h.render(t, `{{ obj|json }}`))
	assert.Equal(t, `{"k":"v"}`, h.render(t, `{{ obj|json|safe }}`))
}

func TestTagsRequireRegistry(t *testing.T) {
	engine, err := gotemplate.New()
	require.NoError(t, err)
	_, err = engine.RenderString(`{% unless x %}y{% endunless %}`, nil)
	require.Error(t, err)
}

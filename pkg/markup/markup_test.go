package markup

import "testing"

func TestElementRendersEscapedAttributes(t *testing.T) {
	el := El("section", A("data-type", "section"), A("data-name", `he"ro<`)).
		Class("taojaa-editor-wrapper", "", " active ").
		Append(Text("a < b"), Raw("<b>raw</b>"))

	want := `<section data-type="section" data-name="he&#34;ro&lt;" class="taojaa-editor-wrapper active">a &lt; b<b>raw</b></section>`
	if got := el.String(); got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestVoidElementsSelfClose(t *testing.T) {
	got := String(El("input", A("type", "hidden"), A("name", "product_id"), A("value", "P1")))
	want := `<input type="hidden" name="product_id" value="P1"/>`
	if got != want {
		t.Fatalf("render mismatch\nwant: %s\n got: %s", want, got)
	}
}

func TestGroupAndOpenClose(t *testing.T) {
	form := El("form", A("action", "/cart/add"), A("method", "POST"))
	if got := Open(form); got != `<form action="/cart/add" method="POST">` {
		t.Fatalf("unexpected open tag %q", got)
	}
	if got := Close(form); got != "</form>" {
		t.Fatalf("unexpected close tag %q", got)
	}

	got := String(Group{El("br"), nil, Text("x")})
	if got != "<br/>x" {
		t.Fatalf("unexpected group output %q", got)
	}
}

func TestScriptChildrenAreLiteral(t *testing.T) {
	got := String(El("script").Append(Raw(`if (a < b && c) {}`)))
	if got != `<script>if (a < b && c) {}</script>` {
		t.Fatalf("unexpected script output %q", got)
	}
}

func TestAttrIfAndGet(t *testing.T) {
	el := El("select").AttrIf(true, "disabled", "disabled").AttrIf(false, "multiple", "multiple")
	if _, ok := el.Get("multiple"); ok {
		t.Fatalf("attribute added despite false condition")
	}
	if v, ok := el.Get("disabled"); !ok || v != "disabled" {
		t.Fatalf("expected disabled attribute, got %q %v", v, ok)
	}
}

func TestTitle(t *testing.T) {
	cases := map[string]string{
		"featured-products":  "Featured Products",
		"hero_banner":        "Hero Banner",
		"  image  with-text": "Image With Text",
		"":                   "",
		"faq":                "Faq",
	}
	for in, want := range cases {
		if got := Title(in); got != want {
			t.Fatalf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseAttrs(t *testing.T) {
	got := ParseAttrs(`class='btn primary' id="buy" required data-x=1`)
	want := []Attr{{"class", "btn primary"}, {"id", "buy"}, {"required", ""}, {"data-x", "1"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d attrs, got %#v", len(want), got)
	}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Fatalf("attr %d = %#v, want %#v", idx, got[idx], want[idx])
		}
	}
	if ParseAttrs("   ") != nil {
		t.Fatalf("expected nil for blank props")
	}
}

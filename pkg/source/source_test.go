package source

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

func themeFS() fstest.MapFS {
	return fstest.MapFS{
		"theme/sections/hero.html":         {Data: []byte("<h1>{{ section_name }}</h1>")},
		"theme/sections/footer.json":       {Data: []byte(`{"order":["links"],"sections":{"links":{"type":"links"}}}`)},
		"theme/sections/header.yaml":       {Data: []byte("order: [logo]\nsections:\n  logo:\n    type: logo\n")},
		"theme/components/button.hbs":      {Data: []byte("<button>{{ label }}</button>")},
		"theme/templates/index.json":       {Data: []byte(`{"layout":"theme","order":[],"sections":{}}`)},
		"theme/templates/product.json":     {Data: []byte(`{"order":[]}`)},
		"theme/templates/notes.txt":        {Data: []byte("ignored")},
		"theme/layouts/theme.html":         {Data: []byte("<main>{{ content }}</main>")},
		"theme/sections/broken-group.json": {Data: []byte(`{"order": 3}`)},
	}
}

func TestPartialLookupUsesCategoryAndExtension(t *testing.T) {
	src, err := New(themeFS(), WithBase("theme"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	got, err := src.Section("hero")
	if err != nil {
		t.Fatalf("section: %v", err)
	}
	if got != "<h1>{{ section_name }}</h1>" {
		t.Fatalf("unexpected source %q", got)
	}

	hbs, _ := New(themeFS(), WithBase("theme"), WithExtension("hbs"))
	if _, err := hbs.Component("button"); err != nil {
		t.Fatalf("component with custom extension: %v", err)
	}
	if hbs.PartialPath(CategoryComponents, "button") != "theme/components/button.hbs" {
		t.Fatalf("unexpected path %s", hbs.PartialPath(CategoryComponents, "button"))
	}
}

func TestMissingPartialReturnsTypedError(t *testing.T) {
	src, _ := New(themeFS(), WithBase("theme"))
	_, err := src.Layout("missing")
	var notFound *PartialNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected PartialNotFoundError, got %T (%v)", err, err)
	}
	if notFound.Category != CategoryLayouts || notFound.Name != "missing" {
		t.Fatalf("unexpected error fields %+v", notFound)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected error to unwrap to fs.ErrNotExist")
	}

	if _, err := src.Section("../secrets"); !errors.As(err, &notFound) {
		t.Fatalf("expected invalid names to be rejected, got %v", err)
	}
}

func TestSettingsDocuments(t *testing.T) {
	src, _ := New(themeFS(), WithBase("theme"))

	doc, err := src.Template("index")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if doc.Layout != "theme" || doc.Name != "index" {
		t.Fatalf("unexpected document %+v", doc)
	}

	group, err := src.Group("header")
	if err != nil {
		t.Fatalf("yaml group: %v", err)
	}
	if diff := cmp.Diff([]string{"logo"}, group.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	if _, err := src.Group("absent"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if _, err := src.Group("broken-group"); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestListTemplates(t *testing.T) {
	src, _ := New(themeFS(), WithBase("theme"))
	names, err := src.List(CategoryTemplates)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"index", "product"}, names); diff != "" {
		t.Fatalf("templates mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsNilFS(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatalf("expected error")
	}
}

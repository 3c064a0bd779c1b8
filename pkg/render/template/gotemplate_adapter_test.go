package template_test

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-storetheme/pkg/render/template"
	"github.com/goliatone/go-storetheme/pkg/render/template/gotemplate"
	"github.com/goliatone/go-storetheme/pkg/testsupport"
)

//go:embed testdata/templates/*.html
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_IncludeResolvesThroughLoader(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("layout", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render layout: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "layout.golden"))
	if result != want {
		t.Fatalf("layout mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-global", nil, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-global.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q", want, result)
	}
}

func TestGoTemplateEngine_RenderStringEscaping(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("{{ raw }}|{{ body }}|{{ count }}|{{ ratio }}", map[string]any{
		"raw":   "<b>",
		"body":  template.SafeHTML("<b>ok</b>"),
		"count": float64(3),
		"ratio": 1.5,
	})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	want := "&lt;b&gt;|<b>ok</b>|3|1.500000"
	if got != want {
		t.Fatalf("render string mismatch\nwant: %q\n got: %q", want, got)
	}
}

func TestGoTemplateEngine_DropsUnaddressableKeys(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	got, err := engine.RenderString("{{ title }}", map[string]any{
		"title":        "Home",
		"footer-group": map[string]any{"order": []any{}},
	})
	if err != nil {
		t.Fatalf("keys outside the identifier alphabet must not fail rendering: %v", err)
	}
	if got != "Home" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestGoTemplateEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.RenderTemplate("absent", nil)
	if err == nil {
		t.Fatalf("expected missing template error")
	}
	var execErr *gotemplate.ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("expected ExecutionError, got %T: %v", err, err)
	}
}

func TestGoTemplateEngine_ParseError(t *testing.T) {
	engine, err := gotemplate.New()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected parse error")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	sub, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(
		gotemplate.WithFS(sub),
		gotemplate.WithTemplateFunc(map[string]any{"greet": func(name string) string { return "hi " + name }}),
		gotemplate.WithExtension(".html"),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestGoTemplateEngine_TemplateFuncs(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.Render(`{{ greet("Ada") }}`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "hi Ada" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestGoTemplateEngine_ServesGoTemplateRenderer(t *testing.T) {
	var renderer gotemplatepkg.Renderer = newEngine(t)

	got, err := renderer.Render("hello", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render named template: %v", err)
	}
	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if got != want {
		t.Fatalf("named template mismatch\nwant: %q\n got: %q", want, got)
	}

	got, err = renderer.Render("{{ name }}!", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render inline template: %v", err)
	}
	if got != "Ada!" {
		t.Fatalf("unexpected inline output %q", got)
	}
}

func TestGoTemplateEngine_ConcurrentRenderString(t *testing.T) {
	engine := newEngine(t)

	const workers = 100
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", i)
			got, err := engine.RenderString(`{{ greet(name) }}`, map[string]any{"name": name})
			if err != nil {
				errs <- err
				return
			}
			if got != "hi "+name {
				errs <- fmt.Errorf("worker %d rendered %q", i, got)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

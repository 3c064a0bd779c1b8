// Package storefront renders storefront themes: settings documents are
// normalised, their sections resolved through partials, instrumented for
// the visual editor when asked and finally composed into a layout.
//
// A Renderer is safe for concurrent use. Its configuration is fixed at
// construction and each render call binds its own helper registry.
package storefront

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/goliatone/go-storetheme/components/countries"
	"github.com/goliatone/go-storetheme/internal/ctxlog"
	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/helpers"
	"github.com/goliatone/go-storetheme/pkg/render/template"
	"github.com/goliatone/go-storetheme/pkg/render/template/gotemplate"
	"github.com/goliatone/go-storetheme/pkg/settings"
	"github.com/goliatone/go-storetheme/pkg/source"
	"github.com/goliatone/go-storetheme/pkg/themes"
)

// Renderer renders templates, components and section groups of one theme.
type Renderer struct {
	cfg       Config
	logger    *slog.Logger
	catalog   *themes.Catalog
	locations *countries.Component
	source    *source.Source
	compiler  *gotemplate.Engine
	theme     map[string]any
}

// New builds a Renderer. The theme comes from WithFS, WithBasePath or
// WithConfig; a theme.yaml manifest in the theme root is loaded when no
// catalog was supplied.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{locations: countries.New()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	var srcOpts []source.Option
	if r.cfg.Extension != "" {
		srcOpts = append(srcOpts, source.WithExtension(r.cfg.Extension))
	}
	var err error
	switch {
	case r.cfg.FS != nil:
		r.source, err = source.New(r.cfg.FS, srcOpts...)
	case r.cfg.BasePath != "":
		r.source, err = source.NewDir(r.cfg.BasePath, srcOpts...)
	default:
		err = errors.New("storefront: a theme FS or base path is required")
	}
	if err != nil {
		return nil, err
	}

	funcs := helpers.Functions()
	if err := r.loadTheme(); err != nil {
		return nil, err
	}
	if assets, ok := r.theme["assets"].(map[string]any); ok {
		funcs["asset_url"] = func(key any) string {
			url, _ := assets[fmt.Sprint(key)].(string)
			return url
		}
	}

	r.compiler, err = gotemplate.New(gotemplate.WithTemplateFunc(funcs))
	if err != nil {
		return nil, fmt.Errorf("storefront: compiler: %w", err)
	}
	return r, nil
}

func (r *Renderer) loadTheme() error {
	if r.catalog == nil {
		manifest, err := themes.LoadManifest(r.source.FS(), themes.ManifestFile)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
		r.catalog = themes.NewCatalog()
		if err := r.catalog.Register(manifest); err != nil {
			return fmt.Errorf("storefront: %w", err)
		}
		if r.cfg.ThemeName == "" {
			r.cfg.ThemeName = manifest.Name
		}
	}
	if r.cfg.ThemeName == "" {
		return nil
	}
	sel, err := r.catalog.Select(r.cfg.ThemeName, r.cfg.ThemeVariant)
	if err != nil {
		return fmt.Errorf("storefront: %w", err)
	}
	r.theme = themes.Context(themes.Config(sel), themes.AssetKeys(sel)...)
	return nil
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config { return r.cfg }

// Source exposes the partial source, for tooling that lists templates.
func (r *Renderer) Source() *source.Source { return r.source }

func (r *Renderer) log(ctx context.Context) *slog.Logger {
	return ctxlog.FromContext(ctx, r.logger)
}

// RegisterHelpers binds the helper registry for one render call over data.
// The selected theme is available to templates as `theme`, and the country
// list as `countries` (plus `states` of data's `country`), unless data
// provides its own.
func (r *Renderer) RegisterHelpers(ctx context.Context, data map[string]any) *helpers.Registry {
	ambient := make(map[string]any, len(data)+3)
	if r.theme != nil {
		ambient["theme"] = r.theme
	}
	r.addLocations(ctx, ambient, data)
	for key, value := range data {
		ambient[key] = value
	}
	return helpers.New(ctx, helpers.Bindings{
		Data:        ambient,
		Mode:        r.cfg.Mode,
		Development: r.cfg.Development(),
		Source:      r.source,
		Compiler:    r.compiler,
		Resolve:     r.resolveGroup,
		Logger:      r.logger,
	})
}

func (r *Renderer) addLocations(ctx context.Context, ambient, data map[string]any) {
	if r.locations == nil {
		return
	}
	_, hasCountries := data["countries"]
	_, hasStates := data["states"]
	if hasCountries && hasStates {
		return
	}
	country, _ := data["country"].(string)
	options, err := r.locations.SelectData(country)
	if err != nil {
		r.log(ctx).Warn("country data unavailable", "error", err)
		return
	}
	for key, value := range options {
		ambient[key] = value
	}
}

// LoadTemplate renders templates/<name>.json.
func (r *Renderer) LoadTemplate(ctx context.Context, name string, data map[string]any) (string, error) {
	doc, err := r.source.Template(name)
	if err != nil {
		return "", err
	}
	return r.LoadTemplateContent(ctx, doc, data, name)
}

// LoadTemplateContent renders an already loaded template document: the
// sections are resolved as a group named name, the overlay for the
// configured mode is applied and the result is placed in the document's
// layout, if any.
func (r *Renderer) LoadTemplateContent(ctx context.Context, doc *settings.Document, data map[string]any, name string) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("storefront: template %q: %w", name, settings.ErrEmptyDocument)
	}
	settings.Normalize(doc)
	if doc.Name == "" {
		doc.Name = name
	}

	reg := r.RegisterHelpers(ctx, data)
	body, err := r.resolveGroup(reg, name, doc, reg.Data())
	if err != nil {
		return "", err
	}

	body, err = editor.Apply(r.cfg.Mode, body, editor.Options{Name: name, Origin: r.cfg.EditorOrigin})
	if err != nil {
		return "", err
	}

	if doc.Layout == "" {
		return body, nil
	}
	layout, err := r.source.Layout(doc.Layout)
	if err != nil {
		return "", err
	}
	r.log(ctx).Debug("rendering layout", "template", name, "layout", doc.Layout)
	return reg.Render(layout, map[string]any{
		"layout":  false,
		"content": template.SafeHTML(body),
	})
}

// LoadComponent renders components/<name> against data.
func (r *Renderer) LoadComponent(ctx context.Context, name string, data map[string]any) (string, error) {
	return r.RegisterHelpers(ctx, data).Partial(source.CategoryComponents, name, nil)
}

// CompileSection compiles one section partial source against data, wrapped
// for the inspector in editor mode.
func (r *Renderer) CompileSection(ctx context.Context, data map[string]any, partial string) (string, error) {
	return r.compileSection(r.RegisterHelpers(ctx, data), partial, nil)
}

func (r *Renderer) compileSection(reg *helpers.Registry, partial string, data map[string]any) (string, error) {
	if reg.Editing() {
		partial = editor.SectionEditorMode(partial)
	}
	return reg.Render(partial, data)
}

// ResolveGroup renders the sections of doc in order as the group name.
func (r *Renderer) ResolveGroup(ctx context.Context, name string, doc *settings.Document, data map[string]any) (string, error) {
	reg := r.RegisterHelpers(ctx, data)
	return r.resolveGroup(reg, name, doc, reg.Data())
}

func (r *Renderer) resolveGroup(reg *helpers.Registry, name string, doc *settings.Document, data map[string]any) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("storefront: group %q: %w", name, settings.ErrEmptyDocument)
	}
	logger := r.log(reg.Context())
	settings.Normalize(doc)

	var b strings.Builder
	for position, key := range doc.Order {
		section, ok := doc.Sections[key]
		if !ok || section == nil {
			return "", &MissingSectionError{Key: key, Document: documentName(doc, name)}
		}
		if section.Hidden() {
			logger.Debug("section skipped", "group", name, "section", key)
			continue
		}
		partial, err := r.source.Section(section.Type)
		if err != nil {
			return "", err
		}
		scope := make(map[string]any, len(data)+4)
		for k, v := range data {
			scope[k] = v
		}
		scope["section"] = section.Map()
		scope["section_name"] = key
		scope["group_name"] = name
		scope["section_id"] = position

		out, err := r.compileSection(reg, partial, scope)
		if err != nil {
			return "", fmt.Errorf("storefront: section %q of %s: %w", key, documentName(doc, name), err)
		}
		logger.Debug("section rendered", "group", name, "section", key, "type", section.Type)
		b.WriteString(out)
	}

	if reg.Editing() {
		return editor.GroupEditorMode(b.String(), name), nil
	}
	return b.String(), nil
}

func documentName(doc *settings.Document, fallback string) string {
	if doc.Name != "" {
		return doc.Name
	}
	return fallback
}

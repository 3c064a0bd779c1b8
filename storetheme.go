// Package storetheme is the entry point of the storefront theme renderer.
// It re-exports the storefront renderer and its options so hosts can render
// a theme with a single import.
package storetheme

import (
	"context"
	"io/fs"
	"log/slog"
	"os"

	"github.com/goliatone/go-storetheme/components/countries"
	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/storefront"
	"github.com/goliatone/go-storetheme/pkg/themes"
)

// Renderer renders templates, components and section groups of one theme.
type Renderer = storefront.Renderer

// Config is the ambient renderer configuration.
type Config = storefront.Config

// Option customises a Renderer.
type Option = storefront.Option

// Mode selects the editor overlay.
type Mode = editor.Mode

// Overlay modes.
const (
	ModePlain   = editor.ModePlain
	ModePreview = editor.ModePreview
	ModeEditor  = editor.ModeEditor
)

// Errors surfaced by render calls; match them with errors.As.
type (
	MissingSectionError  = storefront.MissingSectionError
	PartialNotFoundError = storefront.PartialNotFoundError
	HelperArgumentError  = storefront.HelperArgumentError
	ExecutionError       = storefront.ExecutionError
)

// New builds a Renderer from options.
func New(options ...Option) (*Renderer, error) {
	return storefront.New(options...)
}

// FromEnv builds a Renderer configured from THEME_* environment variables.
// Later options override the environment.
func FromEnv(options ...Option) (*Renderer, error) {
	cfg := storefront.ConfigFromEnv(os.LookupEnv)
	return storefront.New(append([]Option{storefront.WithConfig(cfg)}, options...)...)
}

// RenderTemplate renders templates/<name>.json of the theme in fsys. It is
// the simplest entry point for callers that render a single page.
func RenderTemplate(ctx context.Context, fsys fs.FS, name string, data map[string]any, options ...Option) (string, error) {
	r, err := storefront.New(append([]Option{storefront.WithFS(fsys)}, options...)...)
	if err != nil {
		return "", err
	}
	return r.LoadTemplate(ctx, name, data)
}

// WithFS serves the theme from fsys.
func WithFS(fsys fs.FS) Option { return storefront.WithFS(fsys) }

// WithBasePath serves the theme from a directory on disk.
func WithBasePath(dir string) Option { return storefront.WithBasePath(dir) }

// WithMode sets the editor overlay mode.
func WithMode(mode Mode) Option { return storefront.WithMode(mode) }

// WithEditorOrigin sets the parent editor origin the inspector posts to.
func WithEditorOrigin(origin string) Option { return storefront.WithEditorOrigin(origin) }

// WithLogger sets the fallback logger used when a call's context carries
// none.
func WithLogger(logger *slog.Logger) Option { return storefront.WithLogger(logger) }

// WithEnvironment sets the deployment environment.
func WithEnvironment(env string) Option { return storefront.WithEnvironment(env) }

// WithThemeCatalog selects a theme manifest from catalog.
func WithThemeCatalog(catalog *themes.Catalog, name, variant string) Option {
	return storefront.WithThemeCatalog(catalog, name, variant)
}

// WithCountries replaces the country list behind the select field tags.
func WithCountries(list []countries.Country) Option {
	return storefront.WithLocations(countries.New(countries.WithCountries(list)))
}

// ErrorPage formats a render error as an HTML page.
func ErrorPage(err error, development bool) string {
	return storefront.ErrorPage(err, development)
}

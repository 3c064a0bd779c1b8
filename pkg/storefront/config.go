package storefront

import (
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-storetheme/components/countries"
	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/themes"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBasePath     = "THEME_BASE_PATH"
	EnvEditorMode   = "THEME_EDITOR_MODE"
	EnvPreviewMode  = "THEME_PREVIEW_MODE"
	EnvEditorURL    = "TAOJAA_EDITOR_URL"
	EnvThemeEnv     = "THEME_ENV"
	EnvAppEnv       = "APP_ENV"
	EnvPartialExt   = "THEME_PARTIAL_EXT"
	EnvThemeName    = "THEME_NAME"
	EnvThemeVariant = "THEME_VARIANT"
)

// Config is the ambient configuration of a Renderer.
type Config struct {
	// BasePath is the theme directory on disk. Ignored when FS is set.
	BasePath string
	// FS supplies the theme files directly.
	FS fs.FS
	// Extension of section, component and layout partials.
	Extension string
	// Mode is the editor overlay applied to template bodies.
	Mode editor.Mode
	// EditorOrigin is the parent frame origin the inspector posts to.
	EditorOrigin string
	// Environment is "development" or "production"; development renders
	// helper diagnostics inline.
	Environment string
	// ThemeName and ThemeVariant select a go-theme manifest.
	ThemeName    string
	ThemeVariant string
}

// Development reports whether the configuration targets development.
func (c Config) Development() bool {
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "development", "dev", "local":
		return true
	}
	return false
}

// ConfigFromEnv builds a Config from environment variables. lookup is
// usually os.LookupEnv.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}
	env := get(EnvThemeEnv)
	if env == "" {
		env = get(EnvAppEnv)
	}
	return Config{
		BasePath:     get(EnvBasePath),
		Extension:    get(EnvPartialExt),
		Mode:         editor.ModeFor(flag(get(EnvEditorMode)), flag(get(EnvPreviewMode))),
		EditorOrigin: get(EnvEditorURL),
		Environment:  env,
		ThemeName:    get(EnvThemeName),
		ThemeVariant: get(EnvThemeVariant),
	}
}

// flag treats any non-empty value other than a false boolean as set.
func flag(value string) bool {
	if value == "" {
		return false
	}
	parsed, err := strconv.ParseBool(value)
	return err != nil || parsed
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithConfig replaces the renderer configuration.
func WithConfig(cfg Config) Option {
	return func(r *Renderer) {
		r.cfg = cfg
	}
}

// WithFS serves the theme from fsys.
func WithFS(fsys fs.FS) Option {
	return func(r *Renderer) {
		r.cfg.FS = fsys
	}
}

// WithBasePath serves the theme from a directory on disk.
func WithBasePath(dir string) Option {
	return func(r *Renderer) {
		r.cfg.BasePath = dir
	}
}

// WithExtension sets the partial extension.
func WithExtension(ext string) Option {
	return func(r *Renderer) {
		r.cfg.Extension = ext
	}
}

// WithMode sets the editor overlay mode.
func WithMode(mode editor.Mode) Option {
	return func(r *Renderer) {
		r.cfg.Mode = mode
	}
}

// WithEditorOrigin sets the parent editor origin.
func WithEditorOrigin(origin string) Option {
	return func(r *Renderer) {
		r.cfg.EditorOrigin = origin
	}
}

// WithEnvironment sets the deployment environment.
func WithEnvironment(env string) Option {
	return func(r *Renderer) {
		r.cfg.Environment = env
	}
}

// WithLogger sets the fallback logger used when a call's context carries
// none.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Renderer) {
		r.logger = logger
	}
}

// WithThemeCatalog selects name/variant from catalog instead of the
// theme.yaml manifest shipped with the theme directory.
func WithThemeCatalog(catalog *themes.Catalog, name, variant string) Option {
	return func(r *Renderer) {
		r.catalog = catalog
		r.cfg.ThemeName = name
		r.cfg.ThemeVariant = variant
	}
}

// WithLocations replaces the country data exposed to the select field tags.
// Pass nil to expose none.
func WithLocations(locations *countries.Component) Option {
	return func(r *Renderer) {
		r.locations = locations
	}
}

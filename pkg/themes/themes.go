// Package themes loads go-theme manifests for a storefront theme and turns a
// theme/variant selection into the `theme` object exposed to templates.
package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the conventional manifest location inside a theme
// directory.
const ManifestFile = "theme.yaml"

// ErrThemeNotFound is returned when selecting a theme that was never
// registered.
var ErrThemeNotFound = errors.New("themes: theme not found")

type manifestDocument struct {
	Name      string                     `yaml:"name"`
	Version   string                     `yaml:"version"`
	Tokens    map[string]string          `yaml:"tokens"`
	Templates map[string]string          `yaml:"templates"`
	Assets    assetsDocument             `yaml:"assets"`
	Variants  map[string]variantDocument `yaml:"variants"`
}

type assetsDocument struct {
	Prefix string            `yaml:"prefix"`
	Files  map[string]string `yaml:"files"`
}

type variantDocument struct {
	Tokens    map[string]string `yaml:"tokens"`
	Templates map[string]string `yaml:"templates"`
	Assets    assetsDocument    `yaml:"assets"`
}

// ParseManifest decodes a YAML (or JSON) manifest.
func ParseManifest(data []byte) (*theme.Manifest, error) {
	var doc manifestDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("themes: parse manifest: %w", err)
	}
	if strings.TrimSpace(doc.Name) == "" {
		return nil, errors.New("themes: manifest name is required")
	}
	manifest := &theme.Manifest{
		Name:      doc.Name,
		Version:   doc.Version,
		Tokens:    doc.Tokens,
		Templates: doc.Templates,
		Assets:    theme.Assets{Prefix: doc.Assets.Prefix, Files: doc.Assets.Files},
	}
	if len(doc.Variants) > 0 {
		manifest.Variants = make(map[string]theme.Variant, len(doc.Variants))
		for name, variant := range doc.Variants {
			manifest.Variants[name] = theme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    theme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

// LoadManifest reads and parses the manifest at name within fsys.
func LoadManifest(fsys fs.FS, name string) (*theme.Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("themes: read manifest %s: %w", name, err)
	}
	return ParseManifest(data)
}

type registrar interface {
	Register(manifest *theme.Manifest) error
}

// Catalog holds the registered manifests and resolves selections.
type Catalog struct {
	registry  registrar
	manifests map[string]*theme.Manifest
}

// NewCatalog returns an empty catalog backed by a go-theme registry.
func NewCatalog() *Catalog {
	return &Catalog{
		registry:  theme.NewRegistry(),
		manifests: map[string]*theme.Manifest{},
	}
}

// Register validates and stores a manifest.
func (c *Catalog) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("themes: nil manifest")
	}
	if err := c.registry.Register(manifest); err != nil {
		return fmt.Errorf("themes: register %s: %w", manifest.Name, err)
	}
	c.manifests[manifest.Name] = manifest
	return nil
}

// Names lists the registered theme names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select resolves a theme and variant. An empty variant selects the base
// manifest; an unknown variant is an error.
func (c *Catalog) Select(name, variant string) (*theme.Selection, error) {
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, has := manifest.Variants[variant]; !has {
			return nil, fmt.Errorf("themes: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Config flattens a selection: variant tokens, templates and asset files
// override the base manifest's.
func Config(sel *theme.Selection) *theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	manifest := sel.Manifest
	tokens := overlay(manifest.Tokens, nil)
	templates := overlay(manifest.Templates, nil)
	files := overlay(manifest.Assets.Files, nil)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[sel.Variant]; ok {
		tokens = overlay(tokens, variant.Tokens)
		templates = overlay(templates, variant.Templates)
		files = overlay(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		vars["--"+key] = value
	}
	return &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: templates,
		Tokens:   tokens,
		CSSVars:  vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
				return file
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// Context is the `theme` object handed to templates.
func Context(cfg *theme.RendererConfig, assetKeys ...string) map[string]any {
	if cfg == nil {
		return nil
	}
	assets := map[string]any{}
	for _, key := range assetKeys {
		if url := cfg.AssetURL(key); url != "" {
			assets[key] = url
		}
	}
	return map[string]any{
		"name":      cfg.Theme,
		"variant":   cfg.Variant,
		"tokens":    stringsToAny(cfg.Tokens),
		"css_vars":  stringsToAny(cfg.CSSVars),
		"templates": stringsToAny(cfg.Partials),
		"assets":    assets,
	}
}

// AssetKeys lists every asset key declared by the selection.
func AssetKeys(sel *theme.Selection) []string {
	if sel == nil || sel.Manifest == nil {
		return nil
	}
	keys := overlay(sel.Manifest.Assets.Files, sel.Manifest.Variants[sel.Variant].Assets.Files)
	out := make([]string, 0, len(keys))
	for key := range keys {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func overlay(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range override {
		out[key] = value
	}
	return out
}

func stringsToAny(in map[string]string) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

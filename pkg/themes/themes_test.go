package themes

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
)

const acmeManifest = `
name: acme
version: 1.0.0
tokens:
  brand: "#123456"
  accent: "#ffffff"
templates:
  sections.header: sections/header.html
assets:
  prefix: /assets/themes/acme
  files:
    stylesheet: theme.css
    logo: https://cdn.example.com/logo.svg
variants:
  dark:
    tokens:
      brand: "#654321"
    assets:
      files:
        vendor: vendor.dark.js
`

func TestLoadAndSelectVariant(t *testing.T) {
	fsys := fstest.MapFS{ManifestFile: {Data: []byte(acmeManifest)}}
	manifest, err := LoadManifest(fsys, ManifestFile)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}

	catalog := NewCatalog()
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"acme"}, catalog.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	sel, err := catalog.Select("acme", "dark")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := Config(sel)
	if cfg.Tokens["brand"] != "#654321" || cfg.Tokens["accent"] != "#ffffff" {
		t.Fatalf("variant tokens not merged: %v", cfg.Tokens)
	}
	if cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("unexpected vendor url %q", got)
	}
	if got := cfg.AssetURL("logo"); got != "https://cdn.example.com/logo.svg" {
		t.Fatalf("absolute urls must pass through, got %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should be empty, got %q", got)
	}

	ctx := Context(cfg, AssetKeys(sel)...)
	want := map[string]any{
		"logo":       "https://cdn.example.com/logo.svg",
		"stylesheet": "/assets/themes/acme/theme.css",
		"vendor":     "/assets/themes/acme/vendor.dark.js",
	}
	if diff := cmp.Diff(want, ctx["assets"]); diff != "" {
		t.Fatalf("assets mismatch (-want +got):\n%s", diff)
	}
	if ctx["name"] != "acme" || ctx["variant"] != "dark" {
		t.Fatalf("unexpected theme identity %v/%v", ctx["name"], ctx["variant"])
	}
}

func TestSelectErrors(t *testing.T) {
	manifest, err := ParseManifest([]byte(acmeManifest))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	catalog := NewCatalog()
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := catalog.Select("other", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := catalog.Select("acme", "neon"); err == nil {
		t.Fatalf("expected unknown variant error")
	}
	if _, err := ParseManifest([]byte("version: 1")); err == nil {
		t.Fatalf("expected missing name error")
	}
}

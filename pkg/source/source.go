// Package source locates theme partials and settings documents inside a
// theme directory laid out as <base>/<category>/<name><ext>.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/goliatone/go-storetheme/pkg/settings"
)

// Partial categories understood by the loader.
const (
	CategorySections   = "sections"
	CategoryComponents = "components"
	CategoryLayouts    = "layouts"
	CategoryTemplates  = "templates"
)

// DefaultExtension is appended to partial names when none is configured.
const DefaultExtension = ".html"

var settingsExtensions = []string{".json", ".yaml", ".yml"}

// PartialNotFoundError reports a failed partial or settings lookup.
type PartialNotFoundError struct {
	Category string
	Name     string
	Path     string
	Err      error
}

func (e *PartialNotFoundError) Error() string {
	return fmt.Sprintf("source: %s %q not found at %s: %v", strings.TrimSuffix(e.Category, "s"), e.Name, e.Path, e.Err)
}

func (e *PartialNotFoundError) Unwrap() error { return e.Err }

// Option customises a Source.
type Option func(*Source)

// WithExtension sets the partial extension (".html", ".handlebars", ...).
// A missing leading dot is added.
func WithExtension(ext string) Option {
	return func(s *Source) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		s.ext = ext
	}
}

// WithBase sets a sub-directory of the file system holding the theme.
func WithBase(base string) Option {
	return func(s *Source) {
		s.base = strings.Trim(path.Clean("/"+base), "/")
	}
}

// Source reads partials and settings documents. It holds no cache; every
// call performs a fresh read.
type Source struct {
	fsys fs.FS
	base string
	ext  string
}

// New constructs a Source reading from fsys.
func New(fsys fs.FS, opts ...Option) (*Source, error) {
	if fsys == nil {
		return nil, errors.New("source: file system is nil")
	}
	s := &Source{fsys: fsys, ext: DefaultExtension}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// NewDir constructs a Source rooted at a directory on disk.
func NewDir(dir string, opts ...Option) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source: theme directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source: %s is not a directory", dir)
	}
	return New(os.DirFS(dir), opts...)
}

// FS returns the theme file system scoped to the configured base.
func (s *Source) FS() fs.FS {
	if s.base == "" {
		return s.fsys
	}
	sub, err := fs.Sub(s.fsys, s.base)
	if err != nil {
		return s.fsys
	}
	return sub
}

// Extension returns the configured partial extension.
func (s *Source) Extension() string { return s.ext }

// PartialPath returns the lookup path for a partial.
func (s *Source) PartialPath(category, name string) string {
	return s.join(category, name+s.ext)
}

// Partial returns the source of <category>/<name><ext>.
func (s *Source) Partial(category, name string) (string, error) {
	if err := validName(name); err != nil {
		return "", &PartialNotFoundError{Category: category, Name: name, Path: s.PartialPath(category, name), Err: err}
	}
	p := s.PartialPath(category, name)
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return "", &PartialNotFoundError{Category: category, Name: name, Path: p, Err: err}
	}
	return string(data), nil
}

// Section returns a section partial.
func (s *Source) Section(name string) (string, error) {
	return s.Partial(CategorySections, name)
}

// Component returns a component partial.
func (s *Source) Component(name string) (string, error) {
	return s.Partial(CategoryComponents, name)
}

// Layout returns a layout partial.
func (s *Source) Layout(name string) (string, error) {
	return s.Partial(CategoryLayouts, name)
}

// Template loads templates/<name>.json.
func (s *Source) Template(name string) (*settings.Document, error) {
	return s.Settings(CategoryTemplates, name)
}

// Group loads the section group document sections/<name>.json.
func (s *Source) Group(name string) (*settings.Document, error) {
	return s.Settings(CategorySections, name)
}

// Settings loads <category>/<name>.json, trying .yaml and .yml when the
// JSON file does not exist.
func (s *Source) Settings(category, name string) (*settings.Document, error) {
	if err := validName(name); err != nil {
		return nil, &PartialNotFoundError{Category: category, Name: name, Path: s.join(category, name+".json"), Err: err}
	}
	var firstErr error
	firstPath := ""
	for _, ext := range settingsExtensions {
		p := s.join(category, name+ext)
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			if firstErr == nil {
				firstErr, firstPath = err, p
			}
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, &PartialNotFoundError{Category: category, Name: name, Path: p, Err: err}
		}
		doc, err := settings.Decode(data, name)
		if err != nil {
			return nil, fmt.Errorf("source: %s: %w", p, err)
		}
		return doc, nil
	}
	return nil, &PartialNotFoundError{Category: category, Name: name, Path: firstPath, Err: firstErr}
}

// List returns the names of the settings documents stored in category.
func (s *Source) List(category string) ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, s.join(category))
	if err != nil {
		return nil, fmt.Errorf("source: list %s: %w", category, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := path.Ext(entry.Name())
		for _, candidate := range settingsExtensions {
			if ext == candidate {
				names = append(names, strings.TrimSuffix(entry.Name(), ext))
				break
			}
		}
	}
	return names, nil
}

func (s *Source) join(parts ...string) string {
	if s.base != "" {
		parts = append([]string{s.base}, parts...)
	}
	return path.Join(parts...)
}

func validName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fs.ErrInvalid
	}
	if !fs.ValidPath(name) {
		return fs.ErrInvalid
	}
	return nil
}

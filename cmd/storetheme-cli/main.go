package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/goccy/go-json"

	"github.com/goliatone/go-storetheme/internal/ctxlog"
	"github.com/goliatone/go-storetheme/pkg/editor"
	"github.com/goliatone/go-storetheme/pkg/source"
	"github.com/goliatone/go-storetheme/pkg/storefront"
)

func main() {
	cfg := storefront.ConfigFromEnv(os.LookupEnv)

	base := flag.String("base", cfg.BasePath, "theme directory (defaults to $THEME_BASE_PATH)")
	templateName := flag.String("template", "index", "template to render from templates/<name>.json")
	component := flag.String("component", "", "render components/<name> instead of a template")
	dataPath := flag.String("data", "", "JSON file with the ambient render data")
	editorFlag := flag.Bool("editor", cfg.Mode == editor.ModeEditor, "wrap output for the visual editor")
	previewFlag := flag.Bool("preview", cfg.Mode == editor.ModePreview, "wrap output for preview navigation")
	origin := flag.String("origin", cfg.EditorOrigin, "editor parent origin")
	ext := flag.String("ext", cfg.Extension, "partial extension")
	env := flag.String("env", cfg.Environment, "environment (development or production)")
	output := flag.String("output", "", "output file (stdout if empty)")
	errorPage := flag.Bool("error-page", false, "render an error page instead of exiting on render errors")
	interactive := flag.Bool("interactive", false, "pick the template interactively")
	verbose := flag.Bool("verbose", false, "log section rendering")
	flag.Parse()

	cfg.BasePath = *base
	cfg.Mode = editor.ModeFor(*editorFlag, *previewFlag)
	cfg.EditorOrigin = *origin
	cfg.Extension = *ext
	cfg.Environment = *env

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	renderer, err := storefront.New(storefront.WithConfig(cfg), storefront.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to load theme: %v", err)
	}

	data, err := loadData(*dataPath)
	if err != nil {
		log.Fatalf("Failed to read data: %v", err)
	}

	if *interactive && *component == "" {
		picked, err := pickTemplate(renderer.Source(), *templateName)
		if err != nil {
			log.Fatalf("Failed to pick template: %v", err)
		}
		*templateName = picked
	}

	var html string
	if *component != "" {
		html, err = renderer.LoadComponent(ctx, *component, data)
	} else {
		html, err = renderer.LoadTemplate(ctx, *templateName, data)
	}
	if err != nil {
		if !*errorPage {
			log.Fatalf("Failed to render: %v", err)
		}
		logger.Error("render failed", "error", err)
		html = storefront.ErrorPage(err, cfg.Development())
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(html), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Page written to %s\n", *output)
	} else {
		fmt.Println(html)
	}
}

func loadData(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}

func pickTemplate(src *source.Source, current string) (string, error) {
	names, err := src.List(source.CategoryTemplates)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", errors.New("theme has no templates")
	}
	prompt := &survey.Select{
		Message: "Template to render:",
		Options: names,
	}
	for _, name := range names {
		if name == current {
			prompt.Default = current
		}
	}
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errors.New("aborted")
		}
		return "", err
	}
	return out, nil
}

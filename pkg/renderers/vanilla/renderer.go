package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-stepform/pkg/render"
)

const (
	formTemplate       = "templates/form.tmpl"
	completionTemplate = "templates/completion.tmpl"
)

// defaultPartials maps each control onto its template. Theme manifests can
// override entries through their Templates map using the same keys.
var defaultPartials = map[string]string{
	partialKey(render.ControlRadio):    "templates/controls/choice.tmpl",
	partialKey(render.ControlCheckbox): "templates/controls/choice.tmpl",
	partialKey(render.ControlTel):      "templates/controls/input.tmpl",
	partialKey(render.ControlText):     "templates/controls/input.tmpl",
}

func partialKey(control render.Control) string {
	return "controls." + string(control)
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer TemplateRenderer
	selector         theme.ThemeSelector
	stylesheet       *string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemeSelector replaces the built-in theme selector.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(cfg *config) {
		if selector != nil {
			cfg.selector = selector
		}
	}
}

// WithStylesheet replaces the inlined stylesheet. An empty string disables it.
func WithStylesheet(css string) Option {
	return func(cfg *config) {
		cfg.stylesheet = &css
	}
}

// Renderer draws a step as a self-contained HTML page.
type Renderer struct {
	templates  TemplateRenderer
	selector   theme.ThemeSelector
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := newEngine(cfg.templateFS)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	selector := cfg.selector
	if selector == nil {
		defaults, err := NewManifestSelector(DefaultThemeVariant, DefaultManifest())
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: default theme: %w", err)
		}
		selector = defaults
	}

	stylesheet := defaultStylesheet()
	if cfg.stylesheet != nil {
		stylesheet = *cfg.stylesheet
	}

	return &Renderer{templates: renderer, selector: selector, stylesheet: stylesheet}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the completion template for a submitted view and the form
// template otherwise.
func (r *Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	selection, err := r.selector.Select(options.Theme, options.Variant)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: select theme: %w", err)
	}
	themeCfg := rendererConfig(selection)

	view = render.ApplyOptions(view, options)
	data := map[string]any{
		"view":       view,
		"theme":      themeContext(themeCfg),
		"stylesheet": r.stylesheet,
	}

	name := completionTemplate
	if !view.Submitted {
		name = formTemplate
		fields, err := r.renderFields(view.Fields, themeCfg)
		if err != nil {
			return nil, err
		}
		action := strings.TrimSpace(options.Action)
		if action == "" {
			action = "/"
		}
		data["fields"] = fields
		data["action"] = action
		data["step_number"] = view.StepNumber()
	}

	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type renderedField struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

func (r *Renderer) renderFields(fields []render.Field, themeCfg *theme.RendererConfig) ([]renderedField, error) {
	out := make([]renderedField, 0, len(fields))
	for _, field := range fields {
		partial := resolvePartial(field.Control, themeCfg)
		html, err := r.templates.RenderTemplate(partial, map[string]any{"field": field})
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: render field %q: %w", field.ID, err)
		}
		out = append(out, renderedField{ID: field.ID, HTML: html})
	}
	return out, nil
}

func resolvePartial(control render.Control, themeCfg *theme.RendererConfig) string {
	key := partialKey(control)
	if themeCfg != nil {
		if override := strings.TrimSpace(themeCfg.Partials[key]); override != "" {
			return override
		}
	}
	if partial, ok := defaultPartials[key]; ok {
		return partial
	}
	return defaultPartials[partialKey(render.ControlText)]
}

func themeContext(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	ctx := map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"style":   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx["stylesheet_url"] = cfg.AssetURL("stylesheet")
	}
	return ctx
}

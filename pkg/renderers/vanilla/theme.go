package vanilla

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	DefaultThemeName    = "stepform"
	DefaultThemeVariant = "light"
)

// DefaultManifest is the built-in theme. Its tokens become CSS custom
// properties on the form root.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"brand":      "#2f6fed",
			"surface":    "#ffffff",
			"text":       "#1d2433",
			"muted":      "#5b6475",
			"error":      "#c62828",
			"radius":     "8px",
			"font-stack": "system-ui, sans-serif",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": StylesheetName,
			},
		},
		Variants: map[string]theme.Variant{
			"light": {},
			"dark": {
				Tokens: map[string]string{
					"surface": "#141821",
					"text":    "#e7eaf0",
					"muted":   "#9aa3b5",
					"error":   "#ff6b6b",
				},
			},
		},
	}
}

// ManifestSelector resolves theme selections from a fixed set of manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector indexes manifests by name. The first manifest is the
// default theme.
func NewManifestSelector(defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, m := range manifests {
		if m == nil || strings.TrimSpace(m.Name) == "" {
			return nil, fmt.Errorf("vanilla: theme manifest requires a name")
		}
		if _, exists := s.manifests[m.Name]; exists {
			return nil, fmt.Errorf("vanilla: theme %q registered twice", m.Name)
		}
		if s.defaultTheme == "" {
			s.defaultTheme = m.Name
		}
		s.manifests[m.Name] = m
	}
	if s.defaultTheme == "" {
		return nil, fmt.Errorf("vanilla: at least one theme manifest is required")
	}
	return s, nil
}

// Select returns the named theme and variant, falling back to the defaults
// for blank arguments.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("vanilla: unknown theme %q", name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != "" && len(manifest.Variants) > 0 {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("vanilla: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// rendererConfig merges base and variant tokens, templates and assets.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	m := selection.Manifest
	variant := m.Variants[selection.Variant]

	tokens := mergeStrings(m.Tokens, variant.Tokens)
	partials := mergeStrings(m.Templates, variant.Templates)
	files := mergeStrings(m.Assets.Files, variant.Assets.Files)
	prefix := m.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok || file == "" {
				return ""
			}
			if prefix == "" {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

func mergeStrings(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// cssVarsStyle renders vars as a sorted inline style declaration.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", key, vars[key])
	}
	return b.String()
}

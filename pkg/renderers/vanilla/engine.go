package vanilla

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	json "github.com/goccy/go-json"
)

// TemplateRenderer is the seam the renderer executes templates through.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}

// engine is a pongo2 template set over an fs.FS with a parsed-template cache.
type engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

var _ TemplateRenderer = (*engine)(nil)

func newEngine(files fs.FS) (*engine, error) {
	if files == nil {
		return nil, errors.New("vanilla: template fs is required")
	}
	registerDefaultFilters()
	return &engine{
		set:       pongo2.NewSet("stepform", pongo2.NewFSLoader(files)),
		templates: make(map[string]*pongo2.Template),
	}, nil
}

// RenderTemplate executes the named template. data is flattened into plain
// maps first so templates address fields by their JSON names.
func (e *engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("vanilla: engine is nil")
	}

	tmpl, err := e.getTemplate(name)
	if err != nil {
		return "", err
	}

	viewContext, err := convertToContext(data)
	if err != nil {
		return "", fmt.Errorf("vanilla: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("vanilla: execute template %q: %w", name, err)
	}

	rendered := buf.String()
	for _, w := range out {
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *engine) getTemplate(path string) (*pongo2.Template, error) {
	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("vanilla: load template %q: %w", path, err)
	}
	e.templates[path] = tmpl
	return tmpl, nil
}

func convertToContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return convertToContext(map[string]any(v))
	default:
		raw, err := jsonRoundTrip(v)
		if err != nil {
			return nil, err
		}
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("template data must be an object, got %T", raw)
		}
		return pongo2.Context(m), nil
	}
}

// jsonRoundTrip keeps numbers as json.Number so integers print without a
// fractional part.
func jsonRoundTrip(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func registerDefaultFilters() {
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", filterTrim)
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

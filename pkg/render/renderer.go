package render

import (
	"context"
)

// Renderer converts a step View into a byte representation (HTML, plain
// text, etc.). Renderers are pure: they never touch the answer store.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}

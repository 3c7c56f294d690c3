package text

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-stepform/pkg/render"
)

// Renderer prints a step as plain text, one question per block.
type Renderer struct{}

var _ render.Renderer = Renderer{}

// New returns the plain-text renderer.
func New() Renderer {
	return Renderer{}
}

func (Renderer) Name() string {
	return "text"
}

func (Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (Renderer) Render(ctx context.Context, view render.View, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	view = render.ApplyOptions(view, options)

	var buf bytes.Buffer
	if view.Submitted {
		fmt.Fprintln(&buf, view.Completion.Title)
		fmt.Fprintln(&buf, view.Completion.Message)
		return buf.Bytes(), nil
	}

	if view.Title != "" {
		fmt.Fprintln(&buf, view.Title)
		fmt.Fprintln(&buf, strings.Repeat("=", len([]rune(view.Title))))
	}
	fmt.Fprintf(&buf, "Step %d of %d: %s\n", view.StepNumber(), view.StepCount, view.CategoryLabel)
	if view.HelperText != "" {
		fmt.Fprintln(&buf, view.HelperText)
	}
	for _, message := range view.FormErrors {
		fmt.Fprintf(&buf, "! %s\n", message)
	}

	for i, field := range view.Fields {
		fmt.Fprintf(&buf, "\n%d. %s\n", i+1, field.Title)
		switch field.Control {
		case render.ControlRadio, render.ControlCheckbox:
			left, right := "(", ")"
			if field.Control == render.ControlCheckbox {
				left, right = "[", "]"
			}
			for _, option := range field.Choices {
				mark := " "
				if option.Selected {
					mark = "x"
				}
				fmt.Fprintf(&buf, "   %s%s%s %s\n", left, mark, right, option.Label)
			}
		default:
			value := field.Value
			if value == "" {
				value = "_"
			}
			fmt.Fprintf(&buf, "   > %s\n", value)
		}
		for _, message := range field.Errors {
			fmt.Fprintf(&buf, "   ! %s\n", message)
		}
	}

	fmt.Fprintf(&buf, "\n%s\n", navigation(view))
	return buf.Bytes(), nil
}

func navigation(view render.View) string {
	var actions []string
	if view.CanRetreat {
		actions = append(actions, "[Back]")
	}
	if view.IsLast {
		actions = append(actions, "[Submit]")
	} else {
		actions = append(actions, "[Next]")
	}
	return strings.Join(actions, " ")
}

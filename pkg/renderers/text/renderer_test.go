package text_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/renderers/text"
	"github.com/goliatone/go-stepform/pkg/validation"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Step{
		{
			CategoryLabel: "Habits",
			Questions: []catalog.Question{
				{ID: "visits", Title: "How often?", Type: catalog.AnswerSingleChoice, Choices: []catalog.Choice{
					{Label: "Daily", Order: 1},
					{Label: "Weekly", Order: 2},
				}},
				{ID: "drinks", Title: "Drinks", Type: catalog.AnswerMultiChoice, Choices: []catalog.Choice{
					{Label: "Tea", Order: 1},
					{Label: "Coffee", Order: 2},
				}},
			},
		},
		{
			CategoryLabel: "Contact",
			HelperText:    "Optional details.",
			Questions: []catalog.Question{
				{ID: "phone", Title: "Phone", Type: catalog.AnswerPhone},
			},
		},
	}, catalog.WithTitle("Cafe"))
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestRenderer_Render(t *testing.T) {
	cat := testCatalog(t)
	set := answers.EmptySet(cat)
	set["visits"] = answers.SingleChoice("Daily")
	set["drinks"] = answers.MultiChoice("Tea", "Coffee")
	set["phone"] = answers.Text("123")

	tests := []struct {
		name string
		view render.View
		opts render.RenderOptions
		want string
	}{
		{
			name: "first step",
			view: render.NewStepView(cat, set, nil, 0),
			want: "Cafe\n====\n" +
				"Step 1 of 2: Habits\n" +
				"\n1. How often?\n   (x) Daily\n   ( ) Weekly\n" +
				"\n2. Drinks\n   [x] Tea\n   [x] Coffee\n" +
				"\n[Next]\n",
		},
		{
			name: "last step with errors",
			view: render.NewStepView(cat, set, validation.Result{"phone": "invalid phone number."}, 1),
			opts: render.RenderOptions{FormErrors: []string{"could not send"}},
			want: "Cafe\n====\n" +
				"Step 2 of 2: Contact\nOptional details.\n! could not send\n" +
				"\n1. Phone\n   > 123\n   ! invalid phone number.\n" +
				"\n[Back] [Submit]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := text.New().Render(context.Background(), tt.view, tt.opts)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if diff := cmp.Diff(tt.want, string(out)); diff != "" {
				t.Fatalf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderer_Completion(t *testing.T) {
	cat := testCatalog(t)
	view := render.NewStepView(cat, answers.EmptySet(cat), nil, 0)
	view.Submitted = true

	out, err := text.New().Render(context.Background(), view, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "Thank you!\nYour answers have been recorded.\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

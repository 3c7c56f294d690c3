package catalog_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-stepform/pkg/catalog"
)

func TestNew_BuildsIndexInStepOrder(t *testing.T) {
	cat, err := catalog.New([]catalog.Step{
		{
			CategoryLabel: "First",
			Questions: []catalog.Question{
				{ID: "color", Title: "Color", Type: catalog.AnswerSingleChoice, Choices: []catalog.Choice{
					{Label: "Blue", Order: 2},
					{Label: "Red", Order: 1},
				}},
				{ID: "notes", Title: "Notes", Type: catalog.AnswerFreeText},
			},
		},
		{
			CategoryLabel: "Second",
			Questions: []catalog.Question{
				{ID: "phone", Title: "Phone", Type: catalog.AnswerPhone},
			},
		},
	}, catalog.WithTitle("Survey"))
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	if diff := cmp.Diff([]string{"color", "notes", "phone"}, cat.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"phone"}, cat.StepIDs(1)); diff != "" {
		t.Fatalf("step ids mismatch (-want +got):\n%s", diff)
	}
	if step, ok := cat.StepOf("phone"); !ok || step != 1 {
		t.Fatalf("StepOf(phone) = %d, %v", step, ok)
	}

	q, ok := cat.Question("color")
	if !ok {
		t.Fatalf("expected question color")
	}
	if diff := cmp.Diff([]string{"Red", "Blue"}, q.ChoiceLabels()); diff != "" {
		t.Fatalf("choices not ordered (-want +got):\n%s", diff)
	}
	if cat.Title() != "Survey" {
		t.Fatalf("title = %q", cat.Title())
	}
	if got := cat.Completion().Title; got == "" {
		t.Fatalf("expected default completion title")
	}
}

func TestNew_ReturnedStepsAreCopies(t *testing.T) {
	cat, err := catalog.New([]catalog.Step{{
		CategoryLabel: "Only",
		Questions: []catalog.Question{
			{ID: "q", Title: "Q", Type: catalog.AnswerSingleChoice, Choices: []catalog.Choice{{Label: "A", Order: 1}}},
		},
	}})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	step, _ := cat.Step(0)
	step.Questions[0].Choices[0].Label = "mutated"

	q, _ := cat.Question("q")
	if q.Choices[0].Label != "A" {
		t.Fatalf("catalog mutated through returned step")
	}
}

func TestNew_FailsFastOnMalformedEntries(t *testing.T) {
	_, err := catalog.New([]catalog.Step{
		{
			CategoryLabel: "Broken",
			Questions: []catalog.Question{
				{ID: "", Title: "No id", Type: catalog.AnswerFreeText},
				{ID: "pick", Title: "", Type: catalog.AnswerSingleChoice},
				{ID: "pick", Title: "Duplicate", Type: catalog.AnswerMultiChoice, Choices: []catalog.Choice{
					{Label: "A"}, {Label: "A"},
				}},
				{ID: "untyped", Title: "Untyped"},
			},
		},
		{CategoryLabel: "Empty"},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, catalog.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}

	var catErr *catalog.Error
	if !errors.As(err, &catErr) {
		t.Fatalf("expected *catalog.Error, got %T", err)
	}

	var paths []string
	for _, issue := range catErr.Issues {
		paths = append(paths, issue.Path)
	}
	want := []string{
		"steps[0].questions[0].id",
		"steps[0].questions[1].title",
		"steps[0].questions[1].choices",
		"steps[0].questions[2].id",
		"steps[0].questions[2].choices[1].label",
		"steps[0].questions[3].type",
		"steps[1].questions",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("issue paths mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), "7 issue(s)") {
		t.Fatalf("unexpected error summary: %v", err)
	}
}

func TestNew_RequiresSteps(t *testing.T) {
	if _, err := catalog.New(nil); !errors.Is(err, catalog.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for empty catalog, got %v", err)
	}
}

func TestNew_SanitizesMarkup(t *testing.T) {
	cat, err := catalog.New([]catalog.Step{{
		CategoryLabel: "<b>Bold</b> step",
		HelperText:    `<script>alert("x")</script>Tips & tricks`,
		Questions: []catalog.Question{
			{ID: "q", Title: `<img src=x onerror=alert(1)>Name`, Type: catalog.AnswerFreeText},
		},
	}})
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}

	step, _ := cat.Step(0)
	if step.CategoryLabel != "Bold step" {
		t.Fatalf("category label = %q", step.CategoryLabel)
	}
	if step.HelperText != "Tips & tricks" {
		t.Fatalf("helper text = %q", step.HelperText)
	}
	if step.Questions[0].Title != "Name" {
		t.Fatalf("title = %q", step.Questions[0].Title)
	}
}

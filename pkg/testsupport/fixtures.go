package testsupport

import (
	"context"
	"sync"
	"testing"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/flow"
)

// ScenarioSteps is the two-step survey used across packages: a single-choice
// question with choices A and B, then a phone number.
func ScenarioSteps() []catalog.Step {
	return []catalog.Step{
		{
			CategoryLabel: "Choice",
			Questions: []catalog.Question{
				{ID: "choice", Title: "Pick one", Type: catalog.AnswerSingleChoice, Choices: []catalog.Choice{
					{Label: "A", Order: 1},
					{Label: "B", Order: 2},
				}},
			},
		},
		{
			CategoryLabel: "Contact",
			Questions: []catalog.Question{
				{ID: "phone", Title: "Phone", Type: catalog.AnswerPhone},
			},
		},
	}
}

// MustCatalog builds a catalog or fails the test.
func MustCatalog(t *testing.T, steps []catalog.Step, options ...catalog.Option) *catalog.Catalog {
	t.Helper()

	cat, err := catalog.New(steps, options...)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

// ScenarioCatalog returns the catalog built from ScenarioSteps.
func ScenarioCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	return MustCatalog(t, ScenarioSteps())
}

// NewController wires a store over storage and a controller for cat. A nil
// storage gets a fresh in-memory one.
func NewController(t *testing.T, cat *catalog.Catalog, storage answers.Storage, options ...flow.Option) *flow.Controller {
	t.Helper()

	if storage == nil {
		storage = answers.NewMemoryStorage()
	}
	store, err := answers.NewStore(cat, storage)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctrl, err := flow.New(cat, store, options...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	return ctrl
}

// RecordingSender keeps every submission it receives. When Err is set it
// fails instead.
type RecordingSender struct {
	mu          sync.Mutex
	Err         error
	submissions []flow.Submission
}

func (r *RecordingSender) Send(_ context.Context, submission flow.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.submissions = append(r.submissions, submission)
	return nil
}

// Submissions returns a copy of what was sent so far.
func (r *RecordingSender) Submissions() []flow.Submission {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]flow.Submission(nil), r.submissions...)
}

package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every *Error so callers can test with errors.Is.
var ErrInvalid = errors.New("catalog: invalid catalog")

// Issue locates one structural problem, e.g. "steps[1].questions[0].id".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Error aggregates the issues found while building a catalog.
type Error struct {
	Source string
	Issues []Issue
}

func (e *Error) Error() string {
	const maxShown = 3

	var b strings.Builder
	b.WriteString("catalog: ")
	if e.Source != "" {
		b.WriteString(e.Source)
		b.WriteString(": ")
	}
	fmt.Fprintf(&b, "%d issue(s): ", len(e.Issues))
	for i, issue := range e.Issues {
		if i == maxShown {
			fmt.Fprintf(&b, "; ... (total %d)", len(e.Issues))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", issue.Path, issue.Message)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

func validate(steps []Step) []Issue {
	var issues []Issue
	add := func(path, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if len(steps) == 0 {
		add("steps", "at least one step is required")
		return issues
	}

	seen := make(map[string]string)
	for si, step := range steps {
		stepPath := fmt.Sprintf("steps[%d]", si)
		if len(step.Questions) == 0 {
			add(stepPath+".questions", "step has no questions")
		}
		for qi, q := range step.Questions {
			path := fmt.Sprintf("%s.questions[%d]", stepPath, qi)
			if q.ID == "" {
				add(path+".id", "id is required")
			} else if prev, dup := seen[q.ID]; dup {
				add(path+".id", "duplicate id %q (first declared at %s)", q.ID, prev)
			} else {
				seen[q.ID] = path
			}
			if q.Title == "" {
				add(path+".title", "title is required")
			}
			if q.Type == "" {
				add(path+".type", "type is required")
			}
			if q.Type.HasChoices() && len(q.Choices) == 0 {
				add(path+".choices", "%s question needs at least one choice", q.Type)
			}
			labels := make(map[string]struct{}, len(q.Choices))
			for ci, choice := range q.Choices {
				choicePath := fmt.Sprintf("%s.choices[%d]", path, ci)
				if choice.Label == "" {
					add(choicePath+".label", "label is required")
					continue
				}
				if _, dup := labels[choice.Label]; dup {
					add(choicePath+".label", "duplicate label %q", choice.Label)
				}
				labels[choice.Label] = struct{}{}
			}
		}
	}
	return issues
}

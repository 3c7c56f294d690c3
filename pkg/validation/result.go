package validation

import (
	"fmt"
	"sort"
	"strings"
)

// Result maps question ids to error messages. Ids absent from the map are
// valid. Results are recomputed on every pass and never persisted.
type Result map[string]string

// Valid reports whether no question failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// Message returns the error for id, or "" when it is valid.
func (r Result) Message(id string) string {
	return r[id]
}

// IDs returns the failing ids sorted.
func (r Result) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns a copy.
func (r Result) Clone() Result {
	out := make(Result, len(r))
	for id, msg := range r {
		out[id] = msg
	}
	return out
}

// Err returns nil for a valid result, *Error otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	issues := make([]Issue, 0, len(r))
	for _, id := range r.IDs() {
		issues = append(issues, Issue{QuestionID: id, Message: r[id]})
	}
	return &Error{Issues: issues}
}

// Issue is one failing answer.
type Issue struct {
	QuestionID string `json:"questionId"`
	Message    string `json:"message"`
}

// Error reports field validation failures. It is recoverable: callers show
// the messages next to the offending fields.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	const maxShown = 3

	var b strings.Builder
	fmt.Fprintf(&b, "validation: %d invalid answer(s): ", len(e.Issues))
	for i, issue := range e.Issues {
		if i == maxShown {
			fmt.Fprintf(&b, "; ... (total %d)", len(e.Issues))
			break
		}
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", issue.QuestionID, issue.Message)
	}
	return b.String()
}

// Result converts the issues back into a Result.
func (e *Error) Result() Result {
	out := make(Result, len(e.Issues))
	for _, issue := range e.Issues {
		out[issue.QuestionID] = issue.Message
	}
	return out
}

package render

import (
	"errors"
	"strings"
)

// ErrRendererNotFound is returned by Registry.Get for unknown names.
var ErrRendererNotFound = errors.New("render: renderer not found")

// MergeFormErrors concatenates and normalises multiple form-level error
// slices, trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// ApplyOptions folds the extra messages carried by options into a copy of
// view. Field messages for ids that are not on the step become form errors
// so they are never lost.
func ApplyOptions(view View, options RenderOptions) View {
	out := view.clone()
	out.FormErrors = MergeFormErrors(out.FormErrors, options.FormErrors...)
	if len(options.Errors) == 0 {
		return out
	}

	index := make(map[string]int, len(out.Fields))
	for i, field := range out.Fields {
		index[field.ID] = i
	}
	for id, messages := range options.Errors {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		i, ok := index[strings.TrimSpace(id)]
		if !ok {
			out.FormErrors = MergeFormErrors(out.FormErrors, normalized...)
			continue
		}
		out.Fields[i].Errors = normalizeMessages(append(out.Fields[i].Errors, normalized...))
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

package render

// RenderOptions describe per-request data that renderers can use to customise
// their output without changing the view model.
type RenderOptions struct {
	// Action is the form target used by HTML renderers. Empty means "/".
	Action string
	// Theme and Variant select the token set applied by themed renderers.
	Theme   string
	Variant string
	// Errors adds field messages keyed by question id on top of the ones the
	// controller produced. Duplicates are dropped.
	Errors map[string][]string
	// FormErrors surfaces failures that do not belong to one field, such as a
	// sender error on submit.
	FormErrors []string
}

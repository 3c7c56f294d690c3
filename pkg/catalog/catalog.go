package catalog

import (
	"sort"
	"strings"
)

// Catalog is the static, ordered list of survey steps. It is immutable once
// constructed; accessors return copies.
type Catalog struct {
	title      string
	completion Completion
	steps      []Step
	index      map[string]position
	ids        []string
}

type position struct {
	step     int
	question int
}

// Option configures catalog construction.
type Option func(*Catalog)

// WithTitle sets the survey title shown above every step.
func WithTitle(title string) Option {
	return func(c *Catalog) {
		c.title = sanitizeText(title)
	}
}

// WithCompletion overrides the thank-you copy. Empty fields keep the defaults.
func WithCompletion(completion Completion) Option {
	return func(c *Catalog) {
		c.completion = Completion{
			Title:   sanitizeText(completion.Title),
			Message: sanitizeText(completion.Message),
		}
	}
}

// New validates steps and builds a catalog. Every structural problem is
// reported at once through *Error; a catalog is never returned partially
// valid.
func New(steps []Step, options ...Option) (*Catalog, error) {
	return build("", steps, options...)
}

func build(source string, steps []Step, options ...Option) (*Catalog, error) {
	c := &Catalog{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.completion = c.completion.withDefaults()
	c.steps = normaliseSteps(steps)

	if issues := validate(c.steps); len(issues) > 0 {
		return nil, &Error{Source: source, Issues: issues}
	}

	c.index = make(map[string]position)
	for si, step := range c.steps {
		for qi, q := range step.Questions {
			c.index[q.ID] = position{step: si, question: qi}
			c.ids = append(c.ids, q.ID)
		}
	}
	return c, nil
}

// Title returns the survey title (may be empty).
func (c *Catalog) Title() string {
	return c.title
}

// Completion returns the thank-you copy.
func (c *Catalog) Completion() Completion {
	return c.completion
}

// Len returns the number of steps.
func (c *Catalog) Len() int {
	return len(c.steps)
}

// Step returns the step at index i.
func (c *Catalog) Step(i int) (Step, bool) {
	if i < 0 || i >= len(c.steps) {
		return Step{}, false
	}
	return cloneStep(c.steps[i]), true
}

// Steps returns a copy of every step.
func (c *Catalog) Steps() []Step {
	out := make([]Step, len(c.steps))
	for i, step := range c.steps {
		out[i] = cloneStep(step)
	}
	return out
}

// StepIDs returns the question ids of step i.
func (c *Catalog) StepIDs(i int) []string {
	if i < 0 || i >= len(c.steps) {
		return nil
	}
	return c.steps[i].IDs()
}

// IDs returns every question id across all steps, in step order.
func (c *Catalog) IDs() []string {
	return append([]string(nil), c.ids...)
}

// Questions returns every question across all steps, in step order.
func (c *Catalog) Questions() []Question {
	out := make([]Question, 0, len(c.ids))
	for _, step := range c.steps {
		for _, q := range step.Questions {
			out = append(out, cloneQuestion(q))
		}
	}
	return out
}

// Question looks a question up by id.
func (c *Catalog) Question(id string) (Question, bool) {
	pos, ok := c.index[id]
	if !ok {
		return Question{}, false
	}
	return cloneQuestion(c.steps[pos.step].Questions[pos.question]), true
}

// StepOf returns the index of the step containing the question id.
func (c *Catalog) StepOf(id string) (int, bool) {
	pos, ok := c.index[id]
	return pos.step, ok
}

func normaliseSteps(steps []Step) []Step {
	out := make([]Step, len(steps))
	for i, step := range steps {
		clean := Step{
			CategoryLabel: sanitizeText(step.CategoryLabel),
			HelperText:    sanitizeText(step.HelperText),
			Questions:     make([]Question, len(step.Questions)),
		}
		for qi, q := range step.Questions {
			clean.Questions[qi] = normaliseQuestion(q)
		}
		out[i] = clean
	}
	return out
}

func normaliseQuestion(q Question) Question {
	clean := Question{
		ID:    strings.TrimSpace(q.ID),
		Title: sanitizeText(q.Title),
		Type:  AnswerType(strings.TrimSpace(string(q.Type))),
	}
	if len(q.Choices) > 0 {
		clean.Choices = make([]Choice, len(q.Choices))
		for i, choice := range q.Choices {
			clean.Choices[i] = Choice{Label: sanitizeText(choice.Label), Order: choice.Order}
		}
		sort.SliceStable(clean.Choices, func(a, b int) bool {
			return clean.Choices[a].Order < clean.Choices[b].Order
		})
	}
	return clean
}

func cloneStep(step Step) Step {
	out := step
	out.Questions = make([]Question, len(step.Questions))
	for i, q := range step.Questions {
		out.Questions[i] = cloneQuestion(q)
	}
	return out
}

func cloneQuestion(q Question) Question {
	out := q
	out.Choices = append([]Choice(nil), q.Choices...)
	return out
}

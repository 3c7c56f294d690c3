package render

import (
	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/flow"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// Control names the input a field is rendered with.
type Control string

const (
	ControlRadio    Control = "radio"
	ControlCheckbox Control = "checkbox"
	ControlTel      Control = "tel"
	ControlText     Control = "text"
)

// ControlFor maps an answer type onto its input control. Unknown types are
// rendered as plain text inputs.
func ControlFor(t catalog.AnswerType) Control {
	switch t {
	case catalog.AnswerSingleChoice:
		return ControlRadio
	case catalog.AnswerMultiChoice:
		return ControlCheckbox
	case catalog.AnswerPhone:
		return ControlTel
	default:
		return ControlText
	}
}

// Option is one choice as presented to the respondent.
type Option struct {
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Field is a question bound to its current answer and error messages.
type Field struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Type    string   `json:"type"`
	Control Control  `json:"control"`
	Choices []Option `json:"choices,omitempty"`
	Value   string   `json:"value"`
	Errors  []string `json:"errors,omitempty"`
}

// Invalid reports whether the field carries at least one message.
func (f Field) Invalid() bool {
	return len(f.Errors) > 0
}

// Completion is the thank-you content shown after a submission.
type Completion struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// View is everything a renderer needs to draw one step or the completion
// screen.
type View struct {
	Title         string     `json:"title"`
	StepIndex     int        `json:"stepIndex"`
	StepCount     int        `json:"stepCount"`
	CategoryLabel string     `json:"categoryLabel"`
	HelperText    string     `json:"helperText,omitempty"`
	Fields        []Field    `json:"fields"`
	FormErrors    []string   `json:"formErrors,omitempty"`
	CanRetreat    bool       `json:"canRetreat"`
	IsLast        bool       `json:"isLast"`
	Submitted     bool       `json:"submitted"`
	Completion    Completion `json:"completion"`
}

// StepNumber is the 1-based position of the step.
func (v View) StepNumber() int {
	return v.StepIndex + 1
}

// NewView builds the view for the controller's current state.
func NewView(ctrl *flow.Controller) View {
	view := NewStepView(ctrl.Catalog(), ctrl.Answers(), ctrl.Errors(), ctrl.Step())
	view.Submitted = ctrl.Submitted()
	return view
}

// NewStepView builds the view of step i from raw state. Out-of-range indices
// are clamped onto the catalog.
func NewStepView(cat *catalog.Catalog, set answers.Set, errs validation.Result, i int) View {
	completion := cat.Completion()
	count := cat.Len()
	if i < 0 {
		i = 0
	}
	if i >= count {
		i = count - 1
	}

	step, _ := cat.Step(i)
	view := View{
		Title:         cat.Title(),
		StepIndex:     i,
		StepCount:     count,
		CategoryLabel: step.CategoryLabel,
		HelperText:    step.HelperText,
		Fields:        make([]Field, 0, len(step.Questions)),
		CanRetreat:    i > 0,
		IsLast:        i == count-1,
		Completion:    Completion{Title: completion.Title, Message: completion.Message},
	}
	for _, q := range step.Questions {
		view.Fields = append(view.Fields, newField(q, set[q.ID], errs.Message(q.ID)))
	}
	return view
}

func newField(q catalog.Question, value answers.Value, message string) Field {
	field := Field{
		ID:      q.ID,
		Title:   q.Title,
		Type:    string(q.Type),
		Control: ControlFor(q.Type),
		Errors:  normalizeMessages([]string{message}),
	}
	if q.Type.HasChoices() {
		field.Choices = make([]Option, 0, len(q.Choices))
		for _, label := range q.ChoiceLabels() {
			field.Choices = append(field.Choices, Option{Label: label, Selected: value.Contains(label)})
		}
	}
	field.Value = value.String()
	return field
}

func (v View) clone() View {
	out := v
	out.FormErrors = append([]string(nil), v.FormErrors...)
	out.Fields = make([]Field, len(v.Fields))
	for i, field := range v.Fields {
		f := field
		f.Choices = append([]Option(nil), field.Choices...)
		f.Errors = append([]string(nil), field.Errors...)
		out.Fields[i] = f
	}
	return out
}

package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// AnswerType identifies how a question is answered and validated.
type AnswerType string

const (
	AnswerSingleChoice AnswerType = "single-choice"
	AnswerMultiChoice  AnswerType = "multi-choice"
	AnswerFreeText     AnswerType = "free-text"
	AnswerPhone        AnswerType = "phone"
)

// legacyTypeCodes maps the numeric typeOfQuestion codes used by older survey
// documents onto answer types. Codes outside the table are kept verbatim as
// unknown types.
var legacyTypeCodes = map[int]AnswerType{
	1: AnswerSingleChoice,
	2: AnswerMultiChoice,
	3: AnswerFreeText,
	4: AnswerPhone,
}

// Known reports whether the type is one of the built-in answer types. Unknown
// types are kept verbatim and fall back to "required" validation.
func (t AnswerType) Known() bool {
	switch t {
	case AnswerSingleChoice, AnswerMultiChoice, AnswerFreeText, AnswerPhone:
		return true
	default:
		return false
	}
}

// legacyPhoneID is the question id that older documents validate as a phone
// number regardless of its typeOfQuestion code.
const legacyPhoneID = "phone"

// HasChoices reports whether questions of this type must declare choices.
func (t AnswerType) HasChoices() bool {
	return t == AnswerSingleChoice || t == AnswerMultiChoice
}

// Choice is one selectable answer of a choice question.
type Choice struct {
	Label string `json:"label"`
	Order int    `json:"order"`
}

// Question is an immutable catalog entry.
type Question struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Type    AnswerType `json:"type"`
	Choices []Choice   `json:"choices,omitempty"`
}

// ChoiceLabels returns the choice labels in presentation order.
func (q Question) ChoiceLabels() []string {
	if len(q.Choices) == 0 {
		return nil
	}
	out := make([]string, len(q.Choices))
	for i, choice := range q.Choices {
		out[i] = choice.Label
	}
	return out
}

// HasChoice reports whether label is one of the question's choices.
func (q Question) HasChoice(label string) bool {
	for _, choice := range q.Choices {
		if choice.Label == label {
			return true
		}
	}
	return false
}

// Step groups questions that are shown and validated together.
type Step struct {
	CategoryLabel string     `json:"categoryLabel"`
	HelperText    string     `json:"helperText,omitempty"`
	Questions     []Question `json:"questions"`
}

// IDs returns the step's question ids in order.
func (s Step) IDs() []string {
	out := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.ID
	}
	return out
}

// Completion holds the copy shown once the survey is submitted.
type Completion struct {
	Title   string `json:"title,omitempty" yaml:"title"`
	Message string `json:"message,omitempty" yaml:"message"`
}

const (
	defaultCompletionTitle   = "Thank you!"
	defaultCompletionMessage = "Your answers have been recorded."
)

func (c Completion) withDefaults() Completion {
	if c.Title == "" {
		c.Title = defaultCompletionTitle
	}
	if c.Message == "" {
		c.Message = defaultCompletionMessage
	}
	return c
}

// parseAnswerType accepts answer type names and the legacy numeric codes.
// JSON numbers arrive as float64, YAML integers as int.
func parseAnswerType(raw any) (AnswerType, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		trimmed := strings.TrimSpace(v)
		if code, err := strconv.Atoi(trimmed); err == nil {
			return answerTypeFromCode(code)
		}
		name := strings.ToLower(strings.ReplaceAll(trimmed, "_", "-"))
		return AnswerType(name), nil
	case int:
		return answerTypeFromCode(v)
	case float64:
		if v != float64(int(v)) {
			return "", fmt.Errorf("type code %v is not an integer", v)
		}
		return answerTypeFromCode(int(v))
	default:
		return "", fmt.Errorf("unsupported type value %v", raw)
	}
}

func answerTypeFromCode(code int) (AnswerType, error) {
	if t, ok := legacyTypeCodes[code]; ok {
		return t, nil
	}
	return AnswerType(strconv.Itoa(code)), nil
}

func stringifyID(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

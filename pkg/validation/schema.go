package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
)

// Validator checks a single answer and returns a user-facing error.
type Validator func(answers.Value) error

// PhonePattern accepts numbers starting with 0 or +84 followed by nine digits.
var PhonePattern = regexp.MustCompile(`^(0|\+84)\d{9}$`)

const (
	msgInvalidPhone  = "invalid phone number."
	msgSelectOne     = "must select one answer."
	msgSelectAtLeast = "must select at least one answer for %s."
	msgNotEmpty      = "%s must not be empty."
	msgRequired      = "%s is required."
)

// ValidatorSet holds one validator per catalog question.
type ValidatorSet struct {
	ids        []string
	validators map[string]Validator
}

// BuildSchema derives the validator set for cat. It holds no state beyond its
// argument, so several catalogs can be validated side by side.
func BuildSchema(cat *catalog.Catalog) (*ValidatorSet, error) {
	if cat == nil {
		return nil, errors.New("validation: catalog is required")
	}
	questions := cat.Questions()
	set := &ValidatorSet{
		ids:        make([]string, 0, len(questions)),
		validators: make(map[string]Validator, len(questions)),
	}
	for _, q := range questions {
		set.ids = append(set.ids, q.ID)
		set.validators[q.ID] = validatorFor(q)
	}
	return set, nil
}

func validatorFor(q catalog.Question) Validator {
	title := q.Title
	switch q.Type {
	case catalog.AnswerPhone:
		return func(v answers.Value) error {
			if v.Kind() != answers.KindText || !PhonePattern.MatchString(v.String()) {
				return errors.New(msgInvalidPhone)
			}
			return nil
		}
	case catalog.AnswerSingleChoice:
		return func(v answers.Value) error {
			if v.Kind() != answers.KindSingle || v.IsEmpty() {
				return errors.New(msgSelectOne)
			}
			return nil
		}
	case catalog.AnswerMultiChoice:
		return func(v answers.Value) error {
			if v.Kind() != answers.KindMulti || v.IsEmpty() {
				return fmt.Errorf(msgSelectAtLeast, title)
			}
			return nil
		}
	case catalog.AnswerFreeText:
		return func(v answers.Value) error {
			if v.Kind() != answers.KindText || strings.TrimSpace(v.String()) == "" {
				return fmt.Errorf(msgNotEmpty, title)
			}
			return nil
		}
	default:
		return func(v answers.Value) error {
			if v.Kind() == answers.KindMulti || v.IsEmpty() {
				return fmt.Errorf(msgRequired, title)
			}
			return nil
		}
	}
}

// For returns the validator of question id.
func (s *ValidatorSet) For(id string) (Validator, bool) {
	v, ok := s.validators[id]
	return v, ok
}

// IDs returns the ids covered by the set, in catalog order.
func (s *ValidatorSet) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Validate runs the validators of ids against set. With no ids every question
// is checked. Ids without a validator are reported as unknown.
func (s *ValidatorSet) Validate(set answers.Set, ids ...string) Result {
	if len(ids) == 0 {
		ids = s.ids
	}
	result := make(Result)
	for _, id := range ids {
		validate, ok := s.validators[id]
		if !ok {
			result[id] = fmt.Sprintf("unknown question %q.", id)
			continue
		}
		if err := validate(set[id]); err != nil {
			result[id] = err.Error()
		}
	}
	return result
}

// ValidateOne checks a single answer.
func (s *ValidatorSet) ValidateOne(id string, v answers.Value) error {
	validate, ok := s.validators[id]
	if !ok {
		return fmt.Errorf("validation: unknown question %q", id)
	}
	return validate(v)
}

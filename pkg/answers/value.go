package answers

import (
	"strings"

	"github.com/goliatone/go-stepform/pkg/catalog"
)

// Kind tags the shape of an answer value.
type Kind uint8

const (
	// KindText holds free text, phone numbers and answers of unknown types.
	KindText Kind = iota
	// KindSingle holds the label of one selected choice.
	KindSingle
	// KindMulti holds the labels of every selected choice.
	KindMulti
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single-choice"
	case KindMulti:
		return "multi-choice"
	default:
		return "text"
	}
}

// KindFor returns the value kind a question of type t accepts.
func KindFor(t catalog.AnswerType) Kind {
	switch t {
	case catalog.AnswerSingleChoice:
		return KindSingle
	case catalog.AnswerMultiChoice:
		return KindMulti
	default:
		return KindText
	}
}

// Value is a tagged answer: a string for text and single-choice questions, a
// list of labels for multi-choice questions.
type Value struct {
	kind  Kind
	text  string
	items []string
}

// Text builds a free-text (or phone) value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// SingleChoice builds a single-choice value holding the selected label.
func SingleChoice(label string) Value {
	return Value{kind: KindSingle, text: label}
}

// MultiChoice builds a multi-choice value. Duplicate labels are dropped,
// first occurrence wins.
func MultiChoice(labels ...string) Value {
	v := Value{kind: KindMulti}
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		v.items = append(v.items, label)
	}
	return v
}

// Empty returns the empty value of kind k.
func Empty(k Kind) Value {
	return Value{kind: k}
}

// Kind reports the value's tag.
func (v Value) Kind() Kind {
	return v.kind
}

// String returns the text of a text or single-choice value, or the
// comma-joined labels of a multi-choice value.
func (v Value) String() string {
	if v.kind == KindMulti {
		return strings.Join(v.items, ", ")
	}
	return v.text
}

// Items returns the selected labels of a multi-choice value; nil otherwise.
func (v Value) Items() []string {
	if v.kind != KindMulti || len(v.items) == 0 {
		return nil
	}
	return append([]string(nil), v.items...)
}

// Contains reports whether a multi-choice value includes label, or a
// single-choice value equals it.
func (v Value) Contains(label string) bool {
	switch v.kind {
	case KindMulti:
		for _, item := range v.items {
			if item == label {
				return true
			}
		}
		return false
	case KindSingle:
		return v.text == label
	default:
		return false
	}
}

// IsEmpty reports whether nothing has been answered.
func (v Value) IsEmpty() bool {
	if v.kind == KindMulti {
		return len(v.items) == 0
	}
	return v.text == ""
}

// Equal compares kind and content.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.text != other.text || len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// Interface returns the JSON-shaped payload: string or []string.
func (v Value) Interface() any {
	if v.kind == KindMulti {
		items := v.Items()
		if items == nil {
			items = []string{}
		}
		return items
	}
	return v.text
}

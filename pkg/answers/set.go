package answers

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-stepform/pkg/catalog"
)

// Set maps question ids to their current answers. Sets produced by this
// package always hold exactly the catalog's ids.
type Set map[string]Value

// EmptySet returns a Set with every catalog id mapped to the empty value of
// its question's kind.
func EmptySet(cat *catalog.Catalog) Set {
	questions := cat.Questions()
	out := make(Set, len(questions))
	for _, q := range questions {
		out[q.ID] = Empty(KindFor(q.Type))
	}
	return out
}

// Get returns the value stored for id.
func (s Set) Get(id string) (Value, bool) {
	v, ok := s[id]
	return v, ok
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	out := make(Set, len(s))
	for id, v := range s {
		out[id] = copyValue(v)
	}
	return out
}

func copyValue(v Value) Value {
	if v.kind == KindMulti {
		return Value{kind: KindMulti, items: append([]string(nil), v.items...)}
	}
	return v
}

// Encode serialises the set as a JSON object of id -> string | []string.
func (s Set) Encode() ([]byte, error) {
	payload := make(map[string]any, len(s))
	for id, v := range s {
		payload[id] = v.Interface()
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("answers: encode: %w", err)
	}
	return data, nil
}

// Decode parses a persisted blob against cat. Unknown ids are dropped,
// missing ids get empty values and a value whose JSON shape does not fit the
// question's kind is reset to empty. A blob that is not a JSON object is an
// error.
func Decode(cat *catalog.Catalog, data []byte) (Set, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("answers: decode: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("answers: decode: blob is not an object")
	}

	out := EmptySet(cat)
	for _, q := range cat.Questions() {
		msg, ok := raw[q.ID]
		if !ok {
			continue
		}
		if v, ok := decodeValue(KindFor(q.Type), msg); ok {
			out[q.ID] = v
		}
	}
	return out, nil
}

func decodeValue(kind Kind, msg json.RawMessage) (Value, bool) {
	switch kind {
	case KindMulti:
		var items []string
		if err := json.Unmarshal(msg, &items); err != nil {
			return Value{}, false
		}
		return MultiChoice(items...), true
	case KindSingle:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return Value{}, false
		}
		return SingleChoice(s), true
	default:
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return Value{}, false
		}
		return Text(s), true
	}
}

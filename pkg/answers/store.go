package answers

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/catalog"
)

// DefaultKey is the storage key holding the serialized answer set.
const DefaultKey = "surveyAnswers"

var (
	// ErrUnknownQuestion is returned when setting an id the catalog lacks.
	ErrUnknownQuestion = errors.New("answers: unknown question")
	// ErrKindMismatch is returned when a value's kind does not fit the question.
	ErrKindMismatch = errors.New("answers: value kind does not match question type")
)

// ChangeFunc observes the full answer set after every successful mutation.
type ChangeFunc func(Set)

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithOnChange registers a hook fired after each Set and Clear.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Store) {
		if fn != nil {
			s.onChange = append(s.onChange, fn)
		}
	}
}

// Store holds the in-memory answers and mirrors every change to durable
// storage. It is not safe for concurrent use.
type Store struct {
	catalog  *catalog.Catalog
	storage  Storage
	key      string
	logger   *zap.Logger
	onChange []ChangeFunc
	values   Set
}

// NewStore builds a store seeded with empty values. Call Load to restore the
// persisted answers.
func NewStore(cat *catalog.Catalog, storage Storage, options ...Option) (*Store, error) {
	if cat == nil {
		return nil, errors.New("answers: catalog is required")
	}
	if storage == nil {
		return nil, errors.New("answers: storage is required")
	}
	s := &Store{
		catalog: cat,
		storage: storage,
		key:     DefaultKey,
		logger:  zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.values = EmptySet(cat)
	return s, nil
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory answers with the persisted blob. Missing,
// unreadable or corrupt data yields the empty set; Load never fails.
func (s *Store) Load() Set {
	s.values = s.read()
	return s.values.Clone()
}

func (s *Store) read() Set {
	data, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Warn("answer storage unreadable, starting empty",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return EmptySet(s.catalog)
	}
	if !ok {
		return EmptySet(s.catalog)
	}

	set, err := Decode(s.catalog, data)
	if err != nil {
		s.logger.Warn("persisted answers are corrupt, starting empty",
			zap.String("key", s.key),
			zap.Error(err),
		)
		return EmptySet(s.catalog)
	}
	return set
}

// Answers returns a copy of the current answers.
func (s *Store) Answers() Set {
	return s.values.Clone()
}

// Get returns the current value for id.
func (s *Store) Get(id string) (Value, bool) {
	v, ok := s.values[id]
	if !ok {
		return Value{}, false
	}
	return copyValue(v), true
}

// Set updates one answer and synchronously persists the whole set. The
// in-memory value is kept even when the write fails.
func (s *Store) Set(id string, v Value) error {
	q, ok := s.catalog.Question(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownQuestion, id)
	}
	if want := KindFor(q.Type); v.Kind() != want {
		return fmt.Errorf("%w: %q expects %s, got %s", ErrKindMismatch, id, want, v.Kind())
	}

	s.values[id] = copyValue(v)
	if err := s.persist(); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Clear removes the persisted blob and resets every answer to empty.
func (s *Store) Clear() error {
	s.values = EmptySet(s.catalog)
	if err := s.storage.Remove(s.key); err != nil {
		return fmt.Errorf("answers: clear %s: %w", s.key, err)
	}
	s.notify()
	return nil
}

func (s *Store) persist() error {
	data, err := s.values.Encode()
	if err != nil {
		return err
	}
	if err := s.storage.Set(s.key, data); err != nil {
		s.logger.Error("persist answers failed", zap.String("key", s.key), zap.Error(err))
		return fmt.Errorf("answers: persist %s: %w", s.key, err)
	}
	s.logger.Debug("answers persisted", zap.String("key", s.key), zap.Int("bytes", len(data)))
	return nil
}

func (s *Store) notify() {
	if len(s.onChange) == 0 {
		return
	}
	snapshot := s.values.Clone()
	for _, fn := range s.onChange {
		fn(snapshot)
	}
}

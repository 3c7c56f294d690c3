package answers_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Step{
		{
			CategoryLabel: "Habits",
			Questions: []catalog.Question{
				{ID: "freq", Title: "Frequency", Type: catalog.AnswerSingleChoice, Choices: []catalog.Choice{{Label: "A"}, {Label: "B"}}},
				{ID: "drinks", Title: "Drinks", Type: catalog.AnswerMultiChoice, Choices: []catalog.Choice{{Label: "Tea"}, {Label: "Coffee"}}},
			},
		},
		{
			CategoryLabel: "Contact",
			Questions: []catalog.Question{
				{ID: "phone", Title: "Phone", Type: catalog.AnswerPhone},
				{ID: "notes", Title: "Notes", Type: catalog.AnswerFreeText},
			},
		},
	})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

// asPlain flattens a set into comparable JSON-shaped values.
func asPlain(set answers.Set) map[string]any {
	out := make(map[string]any, len(set))
	for id, v := range set {
		out[id] = v.Interface()
	}
	return out
}

func emptyPlain() map[string]any {
	return map[string]any{
		"freq":   "",
		"drinks": []string{},
		"phone":  "",
		"notes":  "",
	}
}

func TestStore_LoadWithoutDataIsEmptyInitialised(t *testing.T) {
	cat := testCatalog(t)
	store, err := answers.NewStore(cat, answers.NewMemoryStorage())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if diff := cmp.Diff(emptyPlain(), asPlain(store.Load())); diff != "" {
		t.Fatalf("load mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SetRoundTripsThroughReload(t *testing.T) {
	cat := testCatalog(t)
	storage := answers.NewMemoryStorage()

	store, err := answers.NewStore(cat, storage)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.Load()

	if err := store.Set("freq", answers.SingleChoice("B")); err != nil {
		t.Fatalf("set freq: %v", err)
	}
	if err := store.Set("drinks", answers.MultiChoice("Tea", "Coffee")); err != nil {
		t.Fatalf("set drinks: %v", err)
	}
	if err := store.Set("phone", answers.Text("0912345678")); err != nil {
		t.Fatalf("set phone: %v", err)
	}

	reloaded, err := answers.NewStore(cat, storage)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	want := map[string]any{
		"freq":   "B",
		"drinks": []string{"Tea", "Coffee"},
		"phone":  "0912345678",
		"notes":  "",
	}
	if diff := cmp.Diff(want, asPlain(reloaded.Load())); diff != "" {
		t.Fatalf("reload mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_ClearResetsMemoryAndStorage(t *testing.T) {
	cat := testCatalog(t)
	storage := answers.NewMemoryStorage()
	store, _ := answers.NewStore(cat, storage)
	store.Load()

	if err := store.Set("notes", answers.Text("hello")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}

	if _, ok, _ := storage.Get(answers.DefaultKey); ok {
		t.Fatalf("expected blob removed")
	}
	if diff := cmp.Diff(emptyPlain(), asPlain(store.Answers())); diff != "" {
		t.Fatalf("memory not reset (-want +got):\n%s", diff)
	}

	reloaded, _ := answers.NewStore(cat, storage)
	if diff := cmp.Diff(emptyPlain(), asPlain(reloaded.Load())); diff != "" {
		t.Fatalf("reload after clear mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_SetRejectsUnknownIDsAndWrongKinds(t *testing.T) {
	cat := testCatalog(t)
	store, _ := answers.NewStore(cat, answers.NewMemoryStorage())

	if err := store.Set("missing", answers.Text("x")); !errors.Is(err, answers.ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
	if err := store.Set("drinks", answers.SingleChoice("Tea")); !errors.Is(err, answers.ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
	if err := store.Set("freq", answers.Text("A")); !errors.Is(err, answers.ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func TestStore_CorruptBlobFallsBackToEmpty(t *testing.T) {
	cat := testCatalog(t)

	cases := []struct {
		name string
		blob string
	}{
		{name: "not json", blob: "{{{"},
		{name: "json array", blob: `["freq"]`},
		{name: "json null", blob: "null"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			storage := answers.NewMemoryStorage()
			_ = storage.Set(answers.DefaultKey, []byte(tc.blob))

			store, _ := answers.NewStore(cat, storage, answers.WithLogger(zap.New(core)))
			if diff := cmp.Diff(emptyPlain(), asPlain(store.Load())); diff != "" {
				t.Fatalf("load mismatch (-want +got):\n%s", diff)
			}
			if logs.Len() != 1 {
				t.Fatalf("expected one warning, got %d", logs.Len())
			}
		})
	}
}

func TestStore_MismatchedShapesResetPerKey(t *testing.T) {
	cat := testCatalog(t)
	storage := answers.NewMemoryStorage()
	blob := `{"freq": ["A"], "drinks": "Tea", "phone": "0912345678", "stale": "x"}`
	_ = storage.Set(answers.DefaultKey, []byte(blob))

	store, _ := answers.NewStore(cat, storage)
	want := map[string]any{
		"freq":   "",
		"drinks": []string{},
		"phone":  "0912345678",
		"notes":  "",
	}
	if diff := cmp.Diff(want, asPlain(store.Load())); diff != "" {
		t.Fatalf("load mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_OnChangeAndCustomKey(t *testing.T) {
	cat := testCatalog(t)
	storage := answers.NewMemoryStorage()

	var seen []string
	store, _ := answers.NewStore(cat, storage,
		answers.WithKey("custom"),
		answers.WithOnChange(func(set answers.Set) {
			v, _ := set.Get("notes")
			seen = append(seen, v.String())
		}),
	)

	_ = store.Set("notes", answers.Text("a"))
	_ = store.Clear()

	if diff := cmp.Diff([]string{"a", ""}, seen); diff != "" {
		t.Fatalf("hook calls mismatch (-want +got):\n%s", diff)
	}
	if store.Key() != "custom" {
		t.Fatalf("key = %q", store.Key())
	}
}

type failingStorage struct {
	answers.Storage
}

func (failingStorage) Set(string, []byte) error { return errors.New("disk full") }

func TestStore_SetSurfacesWriteFailures(t *testing.T) {
	cat := testCatalog(t)
	store, _ := answers.NewStore(cat, failingStorage{Storage: answers.NewMemoryStorage()})

	err := store.Set("notes", answers.Text("kept"))
	if err == nil {
		t.Fatalf("expected persist error")
	}
	if v, _ := store.Get("notes"); v.String() != "kept" {
		t.Fatalf("expected in-memory value kept, got %q", v.String())
	}
}

func TestFileStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	storage, err := answers.NewFileStorage(dir)
	if err != nil {
		t.Fatalf("new file storage: %v", err)
	}

	if _, ok, err := storage.Get("surveyAnswers"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := storage.Set("surveyAnswers", []byte(`{"a":"b"}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	data, ok, err := storage.Get("surveyAnswers")
	if err != nil || !ok || string(data) != `{"a":"b"}` {
		t.Fatalf("get = %q, %v, %v", data, ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "surveyAnswers.json")); err != nil {
		t.Fatalf("expected file on disk: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected temp files cleaned up, found %d entries", len(entries))
	}

	if err := storage.Remove("surveyAnswers"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := storage.Remove("surveyAnswers"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
	if err := storage.Set("../escape", nil); err == nil {
		t.Fatalf("expected invalid key error")
	}
	if _, err := answers.NewFileStorage(" "); err == nil {
		t.Fatalf("expected error for blank dir")
	}
}

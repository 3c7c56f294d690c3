package flow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/flow"
	"github.com/goliatone/go-stepform/pkg/testsupport"
	"github.com/goliatone/go-stepform/pkg/validation"
)

func newController(t *testing.T, cat *catalog.Catalog, storage answers.Storage, opts ...flow.Option) *flow.Controller {
	t.Helper()
	return testsupport.NewController(t, cat, storage, opts...)
}

func TestScenario_TwoStepSurvey(t *testing.T) {
	cat := testsupport.ScenarioCatalog(t)
	storage := answers.NewMemoryStorage()
	sender := &testsupport.RecordingSender{}
	submittedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ctrl := newController(t, cat, storage,
		flow.WithSender(sender),
		flow.WithClock(func() time.Time { return submittedAt }),
	)

	err := ctrl.Advance()
	var vErr *validation.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := ctrl.Errors().Message("choice"); got != "must select one answer." {
		t.Fatalf("choice error = %q", got)
	}
	if ctrl.Step() != 0 {
		t.Fatalf("expected to stay on step 0, got %d", ctrl.Step())
	}

	if err := ctrl.SetAnswer("choice", answers.SingleChoice("A")); err != nil {
		t.Fatalf("set choice: %v", err)
	}
	if ctrl.Errors().Message("choice") != "" {
		t.Fatalf("expected error cleared once the answer is fixed")
	}
	if err := ctrl.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if ctrl.Step() != 1 || !ctrl.IsLast() {
		t.Fatalf("expected last step, got %d", ctrl.Step())
	}

	if err := ctrl.SetAnswer("phone", answers.Text("12345")); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	if err := ctrl.Submit(context.Background()); err == nil {
		t.Fatalf("expected submit to fail")
	}
	if got := ctrl.Errors().Message("phone"); got != "invalid phone number." {
		t.Fatalf("phone error = %q", got)
	}
	if ctrl.Submitted() || ctrl.Step() != 1 {
		t.Fatalf("expected to remain on the last step")
	}

	if err := ctrl.SetAnswer("phone", answers.Text("0912345678")); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	if err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !ctrl.Submitted() || ctrl.Step() != 0 {
		t.Fatalf("expected submitted state at step 0, got submitted=%v step=%d", ctrl.Submitted(), ctrl.Step())
	}
	if _, ok, _ := storage.Get(answers.DefaultKey); ok {
		t.Fatalf("expected storage cleared")
	}

	want := []flow.Submission{{
		Answers: []flow.Answer{
			{QuestionID: "choice", Answer: "A"},
			{QuestionID: "phone", Answer: "0912345678"},
		},
		SubmittedAt: submittedAt,
	}}
	if diff := cmp.Diff(want, sender.Submissions()); diff != "" {
		t.Fatalf("submission mismatch (-want +got):\n%s", diff)
	}

	reloaded, _ := answers.NewStore(cat, storage)
	for id, v := range reloaded.Load() {
		if !v.IsEmpty() {
			t.Fatalf("expected %s empty after submit, got %q", id, v.String())
		}
	}

	if err := ctrl.Advance(); !errors.Is(err, flow.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted, got %v", err)
	}
	if ctrl.Retreat() {
		t.Fatalf("retreat must not leave the submitted state")
	}
	if err := ctrl.SetAnswer("phone", answers.Text("0912345678")); !errors.Is(err, flow.ErrSubmitted) {
		t.Fatalf("expected ErrSubmitted on SetAnswer, got %v", err)
	}
}

func TestAdvance_ValidatesOnlyCurrentStep(t *testing.T) {
	cat := testsupport.ScenarioCatalog(t)
	ctrl := newController(t, cat, answers.NewMemoryStorage(), flow.WithSender(&testsupport.RecordingSender{}))

	// The phone on step 1 is invalid; step 0 must still advance.
	_ = ctrl.SetAnswer("phone", answers.Text("bad"))
	_ = ctrl.SetAnswer("choice", answers.SingleChoice("B"))

	if err := ctrl.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(ctrl.Errors()) != 0 {
		t.Fatalf("expected no errors, got %v", ctrl.Errors())
	}
	if err := ctrl.Advance(); !errors.Is(err, flow.ErrLastStep) {
		t.Fatalf("expected ErrLastStep, got %v", err)
	}
}

func TestRetreat_NeverValidatesOrMutates(t *testing.T) {
	cat := testsupport.ScenarioCatalog(t)
	ctrl := newController(t, cat, answers.NewMemoryStorage())

	if ctrl.Retreat() {
		t.Fatalf("retreat at step 0 must be a no-op")
	}

	_ = ctrl.SetAnswer("choice", answers.SingleChoice("A"))
	if err := ctrl.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	_ = ctrl.SetAnswer("phone", answers.Text("12"))
	_ = ctrl.Submit(context.Background())

	before := ctrl.Answers()
	if !ctrl.Retreat() {
		t.Fatalf("expected retreat to succeed")
	}
	if ctrl.Step() != 0 {
		t.Fatalf("step = %d", ctrl.Step())
	}
	if len(ctrl.Errors()) != 0 {
		t.Fatalf("expected errors cleared on retreat")
	}
	after := ctrl.Answers()
	for id, v := range before {
		if !v.Equal(after[id]) {
			t.Fatalf("answer %s changed on retreat", id)
		}
	}
}

func TestSubmit_OnlyFromLastStep(t *testing.T) {
	ctrl := newController(t, testsupport.ScenarioCatalog(t), answers.NewMemoryStorage())
	if err := ctrl.Submit(context.Background()); !errors.Is(err, flow.ErrNotLastStep) {
		t.Fatalf("expected ErrNotLastStep, got %v", err)
	}
}

func TestSubmit_SenderFailureKeepsAnswers(t *testing.T) {
	cat := testsupport.ScenarioCatalog(t)
	storage := answers.NewMemoryStorage()
	sender := &testsupport.RecordingSender{Err: errors.New("offline")}
	ctrl := newController(t, cat, storage, flow.WithSender(sender))

	_ = ctrl.SetAnswer("choice", answers.SingleChoice("A"))
	_ = ctrl.Advance()
	_ = ctrl.SetAnswer("phone", answers.Text("+84912345678"))

	if err := ctrl.Submit(context.Background()); err == nil {
		t.Fatalf("expected sender error")
	}
	if ctrl.Submitted() {
		t.Fatalf("must not enter submitted state when sending fails")
	}
	if _, ok, _ := storage.Get(answers.DefaultKey); !ok {
		t.Fatalf("answers must stay persisted when sending fails")
	}
}

func TestNew_RestoresPersistedAnswers(t *testing.T) {
	cat := testsupport.ScenarioCatalog(t)
	storage := answers.NewMemoryStorage()
	_ = storage.Set(answers.DefaultKey, []byte(`{"choice":"B","phone":""}`))

	ctrl := newController(t, cat, storage)
	if ctrl.Step() != 0 {
		t.Fatalf("initial step = %d", ctrl.Step())
	}
	if got := ctrl.Answer("choice").String(); got != "B" {
		t.Fatalf("restored choice = %q", got)
	}
}

func TestNew_RequiresCatalogAndStore(t *testing.T) {
	cat := testsupport.ScenarioCatalog(t)
	if _, err := flow.New(cat, nil); err == nil {
		t.Fatalf("expected error without store")
	}
	store, _ := answers.NewStore(cat, answers.NewMemoryStorage())
	if _, err := flow.New(nil, store); err == nil {
		t.Fatalf("expected error without catalog")
	}
}

func TestLogSender(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sender := flow.LogSender{Logger: zap.New(core)}

	err := sender.Send(context.Background(), flow.Submission{
		Answers: []flow.Answer{{QuestionID: "phone", Answer: "0912345678"}},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	entries := logs.FilterMessage("survey submitted").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["phone"]; got != "0912345678" {
		t.Fatalf("logged phone = %v", got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := sender.Send(ctx, flow.Submission{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

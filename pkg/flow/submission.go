package flow

import (
	"context"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
)

// Answer is one submitted question/answer pair. Answer holds a string or a
// []string for multi-choice questions.
type Answer struct {
	QuestionID string `json:"questionId"`
	Answer     any    `json:"answer"`
}

// Submission is handed to a Sender once every answer validates.
type Submission struct {
	Answers     []Answer  `json:"answers"`
	SubmittedAt time.Time `json:"submittedAt"`
}

func newSubmission(cat *catalog.Catalog, set answers.Set, at time.Time) Submission {
	ids := cat.IDs()
	sub := Submission{
		Answers:     make([]Answer, 0, len(ids)),
		SubmittedAt: at,
	}
	for _, id := range ids {
		sub.Answers = append(sub.Answers, Answer{QuestionID: id, Answer: set[id].Interface()})
	}
	return sub
}

// Sender delivers a submission to whatever lies beyond the form.
type Sender interface {
	Send(ctx context.Context, submission Submission) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, submission Submission) error

func (f SenderFunc) Send(ctx context.Context, submission Submission) error {
	return f(ctx, submission)
}

// LogSender is the stub sender: it only logs the submission.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	fields := make([]zap.Field, 0, len(submission.Answers)+1)
	fields = append(fields, zap.Time("submitted_at", submission.SubmittedAt))
	for _, a := range submission.Answers {
		fields = append(fields, zap.Any(a.QuestionID, a.Answer))
	}
	logger.Info("survey submitted", fields...)
	return nil
}

// JSONSender writes each submission as an indented JSON document.
type JSONSender struct {
	W io.Writer
}

func (s JSONSender) Send(ctx context.Context, submission Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(submission, "", "  ")
	if err != nil {
		return fmt.Errorf("flow: encode submission: %w", err)
	}
	data = append(data, '\n')
	_, err = s.W.Write(data)
	return err
}

// Chain sends to every sender in order and stops at the first failure.
type Chain []Sender

func (c Chain) Send(ctx context.Context, submission Submission) error {
	for _, sender := range c {
		if sender == nil {
			continue
		}
		if err := sender.Send(ctx, submission); err != nil {
			return err
		}
	}
	return nil
}

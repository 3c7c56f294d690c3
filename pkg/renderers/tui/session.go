package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/flow"
	"github.com/goliatone/go-stepform/pkg/render"
	"github.com/goliatone/go-stepform/pkg/validation"
)

const (
	actionNext   = "Next"
	actionBack   = "Back"
	actionSubmit = "Submit"
)

const phoneHelp = "10 digits starting with 0, or +84 followed by 9 digits"

// Session walks a controller through its steps on a terminal. Every answer is
// written through to the controller as soon as it is given, so an aborted
// session resumes where it stopped.
type Session struct {
	driver   PromptDriver
	theme    Theme
	pageSize int
	logger   *zap.Logger
}

// New constructs a session with defaults (survey driver on stdout).
func New(options ...Option) *Session {
	s := &Session{
		theme:  DefaultTheme,
		logger: zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.driver == nil {
		s.driver = NewSurveyDriver(nil)
	}
	return s
}

// Run prompts step after step until the survey is submitted, then prints the
// completion message. It returns ErrAborted when the user interrupts.
func (s *Session) Run(ctx context.Context, ctrl *flow.Controller) error {
	if ctrl == nil {
		return ErrNoController
	}

	for !ctrl.Submitted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		view := render.NewView(ctrl)
		if err := s.promptStep(ctx, ctrl, view); err != nil {
			return err
		}
		if err := s.navigate(ctx, ctrl, view); err != nil {
			return err
		}
	}

	return s.printCompletion(ctx, render.NewView(ctrl))
}

func (s *Session) promptStep(ctx context.Context, ctrl *flow.Controller, view render.View) error {
	header := fmt.Sprintf("Step %d of %d: %s", view.StepNumber(), view.StepCount, view.CategoryLabel)
	if err := s.info(ctx, header); err != nil {
		return err
	}
	if view.HelperText != "" {
		if err := s.info(ctx, view.HelperText); err != nil {
			return err
		}
	}

	for _, field := range view.Fields {
		for _, message := range field.Errors {
			if err := s.errorLine(ctx, fmt.Sprintf("%s: %s", field.Title, message)); err != nil {
				return err
			}
		}
		value, err := s.promptField(ctx, field)
		if err != nil {
			return err
		}
		if err := ctrl.SetAnswer(field.ID, value); err != nil {
			return fmt.Errorf("tui: save %s: %w", field.ID, err)
		}
	}
	return nil
}

func (s *Session) promptField(ctx context.Context, field render.Field) (answers.Value, error) {
	switch field.Control {
	case render.ControlRadio:
		labels, selected := choiceState(field)
		cfg := SelectConfig{Message: field.Title, Options: labels, PageSize: s.pageSize}
		if len(selected) > 0 {
			cfg.DefaultIndex = selected[0]
		}
		idx, err := s.driver.Select(ctx, cfg)
		if err != nil {
			return answers.Value{}, err
		}
		if idx < 0 || idx >= len(labels) {
			return answers.SingleChoice(""), nil
		}
		return answers.SingleChoice(labels[idx]), nil

	case render.ControlCheckbox:
		labels, selected := choiceState(field)
		indices, err := s.driver.MultiSelect(ctx, SelectConfig{
			Message:  field.Title,
			Options:  labels,
			Defaults: selected,
			PageSize: s.pageSize,
		})
		if err != nil {
			return answers.Value{}, err
		}
		return answers.MultiChoice(valuesAt(labels, indices)...), nil

	default:
		cfg := InputConfig{Message: field.Title, Default: field.Value}
		if field.Control == render.ControlTel {
			cfg.Help = phoneHelp
		}
		text, err := s.driver.Input(ctx, cfg)
		if err != nil {
			return answers.Value{}, err
		}
		return answers.Text(strings.TrimSpace(text)), nil
	}
}

func (s *Session) navigate(ctx context.Context, ctrl *flow.Controller, view render.View) error {
	options := []string{actionNext}
	if view.IsLast {
		options = []string{actionSubmit}
	}
	if view.CanRetreat {
		options = append(options, actionBack)
	}

	idx, err := s.driver.Select(ctx, SelectConfig{Message: "Continue", Options: options})
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(options) {
		return nil
	}

	switch options[idx] {
	case actionBack:
		ctrl.Retreat()
		return nil
	case actionNext:
		err = ctrl.Advance()
	case actionSubmit:
		err = ctrl.Submit(ctx)
	}

	var vErr *validation.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &vErr):
		s.logger.Debug("answers rejected", zap.Int("issues", len(vErr.Issues)))
		return s.reportIssues(ctx, ctrl, view, vErr)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		// Sender failures keep the answers; the user can retry.
		s.logger.Warn("submit failed", zap.Error(err))
		return s.errorLine(ctx, fmt.Sprintf("Could not submit your answers: %v", err))
	}
}

// reportIssues prints failures that belong to other steps; the current
// step's messages are shown above its prompts on the next pass.
func (s *Session) reportIssues(ctx context.Context, ctrl *flow.Controller, view render.View, vErr *validation.Error) error {
	onStep := make(map[string]struct{}, len(view.Fields))
	for _, field := range view.Fields {
		onStep[field.ID] = struct{}{}
	}
	for _, issue := range vErr.Issues {
		if _, ok := onStep[issue.QuestionID]; ok {
			continue
		}
		title := issue.QuestionID
		if q, ok := ctrl.Catalog().Question(issue.QuestionID); ok {
			title = q.Title
		}
		if err := s.errorLine(ctx, fmt.Sprintf("%s: %s", title, issue.Message)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) printCompletion(ctx context.Context, view render.View) error {
	if err := s.info(ctx, view.Completion.Title); err != nil {
		return err
	}
	return s.info(ctx, view.Completion.Message)
}

func (s *Session) info(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.InfoPrefix+msg)
}

func (s *Session) errorLine(ctx context.Context, msg string) error {
	return s.driver.Info(ctx, s.theme.ErrorPrefix+msg)
}

func choiceState(field render.Field) ([]string, []int) {
	labels := make([]string, 0, len(field.Choices))
	var selected []int
	for i, option := range field.Choices {
		labels = append(labels, option.Label)
		if option.Selected {
			selected = append(selected, i)
		}
	}
	return labels, selected
}

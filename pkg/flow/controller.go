package flow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-stepform/pkg/answers"
	"github.com/goliatone/go-stepform/pkg/catalog"
	"github.com/goliatone/go-stepform/pkg/validation"
)

// Controller sequences the survey steps. States are the step indices
// 0..N-1 plus a terminal submitted state with no transition out.
//
// Advance validates only the current step; Submit validates every question.
// Controller is not safe for concurrent use.
type Controller struct {
	catalog    *catalog.Catalog
	store      *answers.Store
	validators *validation.ValidatorSet
	sender     Sender
	logger     *zap.Logger
	now        func() time.Time

	step      int
	submitted bool
	errors    validation.Result
}

// New builds the validator set for cat and restores the persisted answers.
// A malformed catalog is a fatal construction error.
func New(cat *catalog.Catalog, store *answers.Store, options ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.New("flow: answer store is required")
	}
	validators, err := validation.BuildSchema(cat)
	if err != nil {
		return nil, fmt.Errorf("flow: build schema: %w", err)
	}

	c := &Controller{
		catalog:    cat,
		store:      store,
		validators: validators,
		logger:     zap.NewNop(),
		now:        time.Now,
		errors:     validation.Result{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.sender == nil {
		c.sender = LogSender{Logger: c.logger}
	}

	c.store.Load()
	return c, nil
}

// Catalog returns the catalog driving the controller.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Step returns the active step index.
func (c *Controller) Step() int {
	return c.step
}

// StepCount returns the number of steps.
func (c *Controller) StepCount() int {
	return c.catalog.Len()
}

// Current returns the active step.
func (c *Controller) Current() catalog.Step {
	step, _ := c.catalog.Step(c.step)
	return step
}

// IsFirst reports whether the active step is the first one.
func (c *Controller) IsFirst() bool {
	return c.step == 0
}

// IsLast reports whether the active step is the final one.
func (c *Controller) IsLast() bool {
	return c.step == c.catalog.Len()-1
}

// Submitted reports whether the survey reached its terminal state.
func (c *Controller) Submitted() bool {
	return c.submitted
}

// Errors returns the field errors from the last validation pass.
func (c *Controller) Errors() validation.Result {
	return c.errors.Clone()
}

// Answers returns a copy of the current answers.
func (c *Controller) Answers() answers.Set {
	return c.store.Answers()
}

// Answer returns the current value of one question.
func (c *Controller) Answer(id string) answers.Value {
	v, _ := c.store.Get(id)
	return v
}

// SetAnswer writes through to the store. A field that is currently flagged is
// re-validated so its message disappears as soon as the answer is fixed.
func (c *Controller) SetAnswer(id string, v answers.Value) error {
	if c.submitted {
		return ErrSubmitted
	}
	if err := c.store.Set(id, v); err != nil {
		return err
	}
	if _, flagged := c.errors[id]; flagged {
		if err := c.validators.ValidateOne(id, v); err != nil {
			c.errors[id] = err.Error()
		} else {
			delete(c.errors, id)
		}
	}
	return nil
}

// Advance moves to the next step when every answer of the current step is
// valid. On failure it stays put and returns *validation.Error.
func (c *Controller) Advance() error {
	if c.submitted {
		return ErrSubmitted
	}
	if c.IsLast() {
		return ErrLastStep
	}

	result := c.validators.Validate(c.store.Answers(), c.catalog.StepIDs(c.step)...)
	if !result.Valid() {
		c.errors = result
		c.logger.Debug("step validation failed",
			zap.Int("step", c.step),
			zap.Strings("fields", result.IDs()),
		)
		return result.Err()
	}

	c.errors = validation.Result{}
	c.step++
	c.logger.Debug("advanced", zap.Int("step", c.step))
	return nil
}

// Retreat moves to the previous step without validating. It reports whether
// the step changed.
func (c *Controller) Retreat() bool {
	if c.submitted || c.step == 0 {
		return false
	}
	c.step--
	c.errors = validation.Result{}
	c.logger.Debug("retreated", zap.Int("step", c.step))
	return true
}

// Submit validates every question, hands the answers to the sender, clears
// the store and enters the submitted state. When the sender fails nothing is
// cleared and the error is returned.
func (c *Controller) Submit(ctx context.Context) error {
	if c.submitted {
		return ErrSubmitted
	}
	if !c.IsLast() {
		return ErrNotLastStep
	}

	set := c.store.Answers()
	result := c.validators.Validate(set)
	if !result.Valid() {
		c.errors = result
		c.logger.Debug("submit validation failed", zap.Strings("fields", result.IDs()))
		return result.Err()
	}

	submission := newSubmission(c.catalog, set, c.now())
	if err := c.sender.Send(ctx, submission); err != nil {
		return fmt.Errorf("flow: send submission: %w", err)
	}

	c.errors = validation.Result{}
	c.step = 0
	c.submitted = true
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("clear answers after submit failed", zap.Error(err))
		return err
	}
	return nil
}

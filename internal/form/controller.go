// Package form implements a reusable controller for the
// "edit fields, validate, submit, reflect outcome" cycle shared by the
// login, registration and profile flows.
package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// FallbackErrorMessage is reported when a submit fails without a message.
const FallbackErrorMessage = "an error occurred"

// ErrSubmitInProgress is returned when HandleSubmit is called while a
// previous submit has not resolved yet.
var ErrSubmitInProgress = errors.New("form: submit already in progress")

// FieldSet holds the named string values of a form.
type FieldSet map[string]string

// Clone returns an independent copy of the field set.
func (f FieldSet) Clone() FieldSet {
	out := make(FieldSet, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// With returns a copy of the field set with field set to value.
func (f FieldSet) With(field, value string) FieldSet {
	out := f.Clone()
	out[field] = value
	return out
}

// Status is the lifecycle of the last submit attempt plus a domain
// extension. An empty Error means no error.
type Status[S any] struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
	Success bool   `json:"success"`
	Ext     S      `json:"ext"`
}

// HasError reports whether the status carries an error message.
func (s Status[S]) HasError() bool {
	return s.Error != ""
}

// StatusPatch transforms the status extension. A nil patch leaves it as is.
type StatusPatch[S any] func(S) S

// FieldChange describes a single edit. Fields already contains Value.
type FieldChange struct {
	Field  string
	Value  string
	Fields FieldSet
}

// ValidationError is the cause recorded when Validate rejects a submit.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PanicError is the cause recorded when Validate or OnSubmit panics.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("form: recovered panic: %v", e.Value)
}

// Options configures a Controller.
type Options[S any] struct {
	InitialState   FieldSet
	InitialExt     S
	Validate       func(FieldSet) string
	OnSubmit       func(context.Context, FieldSet) error
	OnSuccess      func()
	ResetOnSuccess bool
	OnFieldChange  func(FieldChange) StatusPatch[S]
	// OnTransition observes every status replacement. It runs with the
	// controller lock held and must not call back into the controller.
	OnTransition func(Status[S])
}

// Controller owns one form's fields and status.
type Controller[S any] struct {
	opts Options[S]

	mu       sync.Mutex
	fields   FieldSet
	status   Status[S]
	lastErr  error
	inFlight bool
}

// New creates a controller seeded from opts.
func New[S any](opts Options[S]) *Controller[S] {
	if opts.InitialState == nil {
		opts.InitialState = FieldSet{}
	}
	opts.InitialState = opts.InitialState.Clone()
	c := &Controller[S]{opts: opts}
	c.fields = opts.InitialState.Clone()
	c.status = c.defaultStatus()
	return c
}

func (c *Controller[S]) defaultStatus() Status[S] {
	return Status[S]{Ext: c.opts.InitialExt}
}

// Fields returns a copy of the current field values.
func (c *Controller[S]) Fields() FieldSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fields.Clone()
}

// Status returns the current status.
func (c *Controller[S]) Status() Status[S] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the cause of the last failed submit, if any. Validation
// failures are reported as *ValidationError.
func (c *Controller[S]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// SetFields replaces every field value without touching the status.
func (c *Controller[S]) SetFields(fields FieldSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = fields.Clone()
}

// HandleChange sets field to value. Any edit clears the previous outcome.
func (c *Controller[S]) HandleChange(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fields = c.fields.With(field, value)

	if c.opts.OnFieldChange != nil {
		patch := c.opts.OnFieldChange(FieldChange{Field: field, Value: value, Fields: c.fields.Clone()})
		if patch != nil {
			next := c.status
			next.Ext = patch(next.Ext)
			c.transition(next)
		}
	}

	next := c.status
	next.Error = ""
	next.Success = false
	c.transition(next)
}

// HandleSubmit validates and submits the current fields. It blocks until
// OnSubmit returns and reports the resulting status. Calls made while a
// submit is pending fail with ErrSubmitInProgress and change nothing.
// A panic in Validate or OnSubmit is reported as a failed submit.
func (c *Controller[S]) HandleSubmit(ctx context.Context) (Status[S], error) {
	data, st, started, err := c.beginSubmit()
	if !started {
		return st, err
	}

	st = c.finishSubmit(c.submit(ctx, data))
	if st.Success && c.opts.OnSuccess != nil {
		c.opts.OnSuccess()
	}
	return st, nil
}

func (c *Controller[S]) beginSubmit() (FieldSet, Status[S], bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		return nil, c.status, false, ErrSubmitInProgress
	}
	c.lastErr = nil
	c.transition(c.withOutcome(true, "", false))
	data := c.fields.Clone()

	if err := c.validate(data.Clone()); err != nil {
		c.fail(err)
		return nil, c.status, false, nil
	}
	c.inFlight = true
	return data, c.status, true, nil
}

func (c *Controller[S]) validate(data FieldSet) (err error) {
	if c.opts.Validate == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	if msg := c.opts.Validate(data); msg != "" {
		return &ValidationError{Message: msg}
	}
	return nil
}

func (c *Controller[S]) submit(ctx context.Context, data FieldSet) (err error) {
	if c.opts.OnSubmit == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return c.opts.OnSubmit(ctx, data)
}

func (c *Controller[S]) finishSubmit(err error) Status[S] {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	if err != nil {
		c.fail(err)
		return c.status
	}

	c.transition(c.withOutcome(false, "", true))
	if c.opts.ResetOnSuccess {
		c.fields = c.opts.InitialState.Clone()
	}
	return c.status
}

// fail records err and leaves the form interactive. Callers hold c.mu.
func (c *Controller[S]) fail(err error) {
	msg := err.Error()
	var pe *PanicError
	if msg == "" || errors.As(err, &pe) {
		msg = FallbackErrorMessage
	}
	c.lastErr = err
	c.transition(c.withOutcome(false, msg, false))
}

// Reset restores the initial fields and the default status.
func (c *Controller[S]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fields = c.opts.InitialState.Clone()
	c.lastErr = nil
	c.transition(c.defaultStatus())
}

func (c *Controller[S]) withOutcome(loading bool, errMsg string, success bool) Status[S] {
	return Status[S]{Loading: loading, Error: errMsg, Success: success, Ext: c.status.Ext}
}

func (c *Controller[S]) transition(next Status[S]) {
	c.status = next
	if c.opts.OnTransition != nil {
		c.opts.OnTransition(next)
	}
}

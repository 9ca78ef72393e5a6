// Package form keeps the state of one form being edited: the current values,
// one error message per field, and which fields the user has touched.
package form

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	formkit "github.com/reoring/formkit"
)

// ErrNilSchema is returned by operations on a Form built without a schema.
var ErrNilSchema = errors.New("form: nil schema")

// Option configures a Form.
type Option func(*Form)

// WithLogger sets the form logger.
func WithLogger(l *zap.Logger) Option {
	return func(f *Form) {
		if l != nil {
			f.logger = l
		}
	}
}

// Form owns the values, errors and touched maps of one form instance.
// Every operation runs to completion under a lock, so the three maps are
// consistent whenever a call returns. Readers receive copies.
type Form struct {
	mu        sync.Mutex
	schema    *formkit.Schema
	logger    *zap.Logger
	initial   formkit.Values
	values    formkit.Values
	errors    formkit.FieldErrors
	touched   map[string]bool
	submitted bool
}

// New seeds a form with initial values (e.g. an existing record being
// edited). initial is copied.
func New(schema *formkit.Schema, initial formkit.Values, opts ...Option) *Form {
	f := &Form{
		schema:  schema,
		logger:  zap.NewNop(),
		initial: initial.Clone(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.values = f.initial.Clone()
	f.errors = formkit.FieldErrors{}
	f.touched = map[string]bool{}
	return f
}

// Schema returns the schema the form validates against.
func (f *Form) Schema() *formkit.Schema { return f.schema }

// SetValue stores value and immediately re-validates that field only. The
// field error is set on failure and cleared on success.
func (f *Form) SetValue(ctx context.Context, field string, value any) formkit.FieldResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setValueLocked(ctx, field, value)
}

func (f *Form) setValueLocked(ctx context.Context, field string, value any) formkit.FieldResult {
	value = formkit.CopyValue(value)
	f.values[field] = value
	if f.schema == nil {
		return formkit.FieldResult{Valid: true}
	}
	res := f.schema.ValidateField(ctx, field, value)
	if res.Valid {
		delete(f.errors, field)
	} else {
		f.errors[field] = res.Error
	}
	return res
}

// SetValues applies several values, validating each field as SetValue does.
// Fields are applied in name order.
func (f *Form) SetValues(ctx context.Context, values formkit.Values) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		f.setValueLocked(ctx, k, values[k])
	}
}

// HandleBlur marks field as touched. The flag is never unset except by
// ResetForm, and the error state is left as is.
func (f *Form) HandleBlur(field string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[field] = true
}

// ValidateForm recomputes the errors from the current values, replacing any
// per-field errors accumulated through SetValue, and reports validity.
func (f *Form) ValidateForm(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked(ctx).Valid
}

// Result is like ValidateForm but returns the full result.
func (f *Form) Result(ctx context.Context) formkit.FormResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked(ctx)
}

func (f *Form) validateLocked(ctx context.Context) formkit.FormResult {
	if f.schema == nil {
		f.errors = formkit.FieldErrors{}
		return formkit.FormResult{Valid: true, Errors: formkit.FieldErrors{}}
	}
	res := f.schema.ValidateForm(ctx, f.values)
	f.errors = res.Errors.Clone()
	return res
}

// ResetForm replaces values with newValues (or the initial values when
// newValues is nil) and clears errors, touched flags and the submit flag.
func (f *Form) ResetForm(newValues formkit.Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if newValues == nil {
		f.values = f.initial.Clone()
	} else {
		f.values = newValues.Clone()
	}
	f.errors = formkit.FieldErrors{}
	f.touched = map[string]bool{}
	f.submitted = false
}

// HandleSubmit marks a submit attempt, touches every declared field,
// validates, and calls fn with a copy of the values only when the form is
// valid. It returns fn's error, or the Issues when validation fails.
func (f *Form) HandleSubmit(ctx context.Context, fn func(context.Context, formkit.Values) error) error {
	f.mu.Lock()
	if f.schema == nil {
		f.mu.Unlock()
		return ErrNilSchema
	}
	f.submitted = true
	for _, name := range f.schema.Fields() {
		f.touched[name] = true
	}
	res := f.validateLocked(ctx)
	values := f.values.Clone()
	f.mu.Unlock()

	if !res.Valid {
		f.logger.Debug("submit rejected", zap.Strings("fields", res.Errors.Fields()))
		return res.Issues
	}
	if fn == nil {
		return nil
	}
	return fn(ctx, values)
}

// Values returns a copy of the current values.
func (f *Form) Values() formkit.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.Clone()
}

// Value returns the current value of field.
func (f *Form) Value(field string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[field]
	return formkit.CopyValue(v), ok
}

// Errors returns a copy of the current field errors.
func (f *Form) Errors() formkit.FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors.Clone()
}

// Error returns the current error of field, or "".
func (f *Form) Error(field string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errors[field]
}

// Touched returns a copy of the touched flags.
func (f *Form) Touched() map[string]bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]bool, len(f.touched))
	for k, v := range f.touched {
		out[k] = v
	}
	return out
}

// IsTouched reports whether field has been blurred at least once.
func (f *Form) IsTouched(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[field]
}

// IsValid reports whether the error map is empty.
func (f *Form) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errors) == 0
}

// IsDirty reports whether at least one field was touched.
func (f *Form) IsDirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.touched) > 0
}

// SubmitAttempted reports whether HandleSubmit ran since the last reset.
func (f *Form) SubmitAttempted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitted
}

// ShouldShowError applies the display policy: an existing error is shown
// once the field was touched or a submit was attempted.
func (f *Form) ShouldShowError(field string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showLocked(field)
}

func (f *Form) showLocked(field string) bool {
	if _, ok := f.errors[field]; !ok {
		return false
	}
	return f.touched[field] || f.submitted
}

// FieldProps is what a field component renders from.
type FieldProps struct {
	Name      string
	Value     any
	Error     string
	Touched   bool
	ShowError bool
}

// Field snapshots the props for one field.
func (f *Form) Field(name string) FieldProps {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FieldProps{
		Name:      name,
		Value:     formkit.CopyValue(f.values[name]),
		Error:     f.errors[name],
		Touched:   f.touched[name],
		ShowError: f.showLocked(name),
	}
}

package dsl

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	formkit "github.com/reoring/formkit"
)

// FieldDef produces the declaration of a named field. It is implemented by
// the builders returned from String, Number, Bool, Enum and List.
type FieldDef interface {
	Field(name string) (formkit.Field, error)
}

// base accumulates rules and the first construction error.
type base struct {
	typ   formkit.FieldType
	rules []formkit.Rule
	err   error
}

func (b *base) add(r formkit.Rule) { b.rules = append(b.rules, r) }

func (b *base) Field(name string) (formkit.Field, error) {
	if b.err != nil {
		return formkit.Field{}, b.err
	}
	return formkit.Field{Name: name, Type: b.typ, Rules: append([]formkit.Rule(nil), b.rules...)}, nil
}

func msgOf(msg []string) string {
	if len(msg) == 0 {
		return ""
	}
	return msg[0]
}

// StringBuilder declares a text field.
type StringBuilder struct{ base }

// String starts a text field with no rules.
func String() *StringBuilder { return &StringBuilder{base{typ: formkit.TypeString}} }

// Required rejects blank input.
func (s *StringBuilder) Required(msg ...string) *StringBuilder {
	s.add(formkit.Required(msgOf(msg)))
	return s
}

// Min requires at least n characters.
func (s *StringBuilder) Min(n int, msg ...string) *StringBuilder {
	s.add(formkit.MinLength(n, msgOf(msg)))
	return s
}

// Max allows at most n characters.
func (s *StringBuilder) Max(n int, msg ...string) *StringBuilder {
	s.add(formkit.MaxLength(n, msgOf(msg)))
	return s
}

// Pattern requires a regular expression match. A bad expression is
// reported by Build.
func (s *StringBuilder) Pattern(expr string, msg ...string) *StringBuilder {
	re, err := regexp.Compile(expr)
	if err != nil {
		if s.err == nil {
			s.err = fmt.Errorf("invalid pattern %q: %w", expr, err)
		}
		return s
	}
	s.add(formkit.Pattern(re, msgOf(msg)))
	return s
}

// Email requires an e-mail address.
func (s *StringBuilder) Email(msg ...string) *StringBuilder {
	s.add(formkit.Email(msgOf(msg)))
	return s
}

// OneOf restricts the value to values.
func (s *StringBuilder) OneOf(values []string, msg ...string) *StringBuilder {
	s.add(formkit.OneOf(values, msgOf(msg)))
	return s
}

// Custom appends a predicate rule.
func (s *StringBuilder) Custom(name string, fn func(context.Context, string) bool, msg ...string) *StringBuilder {
	s.add(formkit.Custom(name, func(ctx context.Context, v any) bool {
		str, ok := v.(string)
		return ok && fn(ctx, str)
	}, msgOf(msg)))
	return s
}

// NumberBuilder declares a numeric field. Numeric strings are accepted so
// values straight from text inputs validate as numbers.
type NumberBuilder struct{ base }

// Number starts a numeric field with no rules.
func Number() *NumberBuilder { return &NumberBuilder{base{typ: formkit.TypeNumber}} }

// Required rejects missing input.
func (n *NumberBuilder) Required(msg ...string) *NumberBuilder {
	n.add(formkit.Required(msgOf(msg)))
	return n
}

// Min requires value >= x.
func (n *NumberBuilder) Min(x float64, msg ...string) *NumberBuilder {
	n.add(formkit.Min(x, msgOf(msg)))
	return n
}

// Max requires value <= x.
func (n *NumberBuilder) Max(x float64, msg ...string) *NumberBuilder {
	n.add(formkit.Max(x, msgOf(msg)))
	return n
}

// Range requires lo <= value <= hi.
func (n *NumberBuilder) Range(lo, hi float64, msg ...string) *NumberBuilder {
	if lo > hi && n.err == nil {
		n.err = fmt.Errorf("range min %v exceeds max %v", lo, hi)
		return n
	}
	n.add(formkit.Range(lo, hi, msgOf(msg)))
	return n
}

// Positive requires value > 0.
func (n *NumberBuilder) Positive(msg ...string) *NumberBuilder {
	n.add(formkit.Positive(msgOf(msg)))
	return n
}

// Int requires a whole number.
func (n *NumberBuilder) Int(msg ...string) *NumberBuilder {
	n.add(formkit.Integer(msgOf(msg)))
	return n
}

// Custom appends a predicate on the coerced number.
func (n *NumberBuilder) Custom(name string, fn func(context.Context, float64) bool, msg ...string) *NumberBuilder {
	n.add(formkit.Custom(name, func(ctx context.Context, v any) bool {
		f, ok := formkit.AsNumber(v)
		return ok && fn(ctx, f)
	}, msgOf(msg)))
	return n
}

// BoolBuilder declares a switch / checkbox field.
type BoolBuilder struct{ base }

// Bool starts a boolean field with no rules.
func Bool() *BoolBuilder { return &BoolBuilder{base{typ: formkit.TypeBool}} }

// Required rejects a missing value; false is a value.
func (b *BoolBuilder) Required(msg ...string) *BoolBuilder {
	b.add(formkit.Required(msgOf(msg)))
	return b
}

// MustBeTrue requires the switch to be on (terms acceptance and the like).
func (b *BoolBuilder) MustBeTrue(msg ...string) *BoolBuilder {
	b.add(formkit.Custom("mustBeTrue", func(_ context.Context, v any) bool {
		on, ok := v.(bool)
		return ok && on
	}, msgOf(msg)))
	return b
}

// EnumBuilder declares a single-choice field (radio group, select).
type EnumBuilder struct {
	base
	values  []string
	enumMsg string
}

// Enum starts a field restricted to values.
func Enum(values ...string) *EnumBuilder {
	e := &EnumBuilder{base: base{typ: formkit.TypeString}, values: values}
	if len(values) == 0 {
		e.err = errors.New("enum without values")
	}
	return e
}

// Required rejects a missing choice.
func (e *EnumBuilder) Required(msg ...string) *EnumBuilder {
	e.add(formkit.Required(msgOf(msg)))
	return e
}

// Message sets the message reported for a value outside the set.
func (e *EnumBuilder) Message(msg string) *EnumBuilder {
	e.enumMsg = msg
	return e
}

// Field appends the membership rule after any Required rule.
func (e *EnumBuilder) Field(name string) (formkit.Field, error) {
	f, err := e.base.Field(name)
	if err != nil {
		return f, err
	}
	f.Rules = append(f.Rules, formkit.OneOf(e.values, e.enumMsg))
	return f, nil
}

// ListBuilder declares a multi-choice field holding a list of strings
// (category selectors, tag pickers).
type ListBuilder struct{ base }

// List starts a list field with no rules.
func List() *ListBuilder { return &ListBuilder{base{typ: formkit.TypeList}} }

// Required rejects an empty selection.
func (l *ListBuilder) Required(msg ...string) *ListBuilder {
	l.add(formkit.Required(msgOf(msg)))
	return l
}

// Min requires at least n items.
func (l *ListBuilder) Min(n int, msg ...string) *ListBuilder {
	l.add(formkit.MinLength(n, msgOf(msg)))
	return l
}

// Max allows at most n items.
func (l *ListBuilder) Max(n int, msg ...string) *ListBuilder {
	l.add(formkit.MaxLength(n, msgOf(msg)))
	return l
}

// Each restricts every item to values.
func (l *ListBuilder) Each(values []string, msg ...string) *ListBuilder {
	l.add(formkit.OneOf(values, msgOf(msg)))
	return l
}

// Custom appends a predicate on the whole list.
func (l *ListBuilder) Custom(name string, fn func(context.Context, []string) bool, msg ...string) *ListBuilder {
	l.add(formkit.Custom(name, func(ctx context.Context, v any) bool {
		list, ok := formkit.AsStrings(v)
		return ok && fn(ctx, list)
	}, msgOf(msg)))
	return l
}

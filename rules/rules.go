package rules

import (
	"context"
	"reflect"
	"strings"

	formkit "github.com/reoring/formkit"
)

// Op defines simple comparison operators for If(...).Then(...)
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Check is the function shape of a cross-field rule.
type Check = func(context.Context, formkit.Values) []formkit.Issue

// Conditional composes conditional execution of rules.
type Conditional struct {
	field string
	op    Op
	want  any
	all   []Conditional // composite AND
	any   []Conditional // composite OR
}

// If builds a conditional comparing the value of field against want.
func If(field string, op Op, want any) Conditional {
	return Conditional{field: field, op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds evaluates the conditional against values.
func (c Conditional) Holds(v formkit.Values) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(v) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(v) {
				return true
			}
		}
		return false
	}
	cur, ok := v.Get(c.field)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

// Then attaches rules to run when the condition is satisfied.
func (c Conditional) Then(checks ...Check) Check {
	return func(ctx context.Context, v formkit.Values) []formkit.Issue {
		if !c.Holds(v) {
			return nil
		}
		return And(checks...)(ctx, v)
	}
}

// And executes all checks and concatenates Issues.
func And(checks ...Check) Check {
	return func(ctx context.Context, v formkit.Values) []formkit.Issue {
		var out []formkit.Issue
		for _, r := range checks {
			if r == nil {
				continue
			}
			out = append(out, r(ctx, v)...)
		}
		return out
	}
}

// Or succeeds if any check returns no Issues. When all fail, the branch with
// the fewest issues is returned.
func Or(checks ...Check) Check {
	return func(ctx context.Context, v formkit.Values) []formkit.Issue {
		var best []formkit.Issue
		bestSet := false
		for _, r := range checks {
			if r == nil {
				continue
			}
			iss := r(ctx, v)
			if len(iss) == 0 {
				return nil
			}
			if !bestSet || len(iss) < len(best) {
				best = iss
				bestSet = true
			}
		}
		return best
	}
}

// Named turns a check into a Refinement for formkit.WithRefine.
func Named(name string, c Check) formkit.Refinement {
	return formkit.Refinement{Name: name, Check: c}
}

// EqualFields requires field to equal other (e.g. a confirmation input).
// The issue is attached to field.
func EqualFields(field, other, msg string) Check {
	return func(_ context.Context, v formkit.Values) []formkit.Issue {
		a, _ := v.Get(field)
		b, _ := v.Get(other)
		if reflect.DeepEqual(a, b) {
			return nil
		}
		return []formkit.Issue{issue(field, formkit.CodeCustom, msg, map[string]any{"other": other})}
	}
}

// RequiredIf requires field to be non-empty whenever cond holds.
func RequiredIf(field string, cond Conditional, msg string) Check {
	return cond.Then(func(_ context.Context, v formkit.Values) []formkit.Issue {
		cur, _ := v.Get(field)
		if !formkit.IsEmpty(cur) {
			return nil
		}
		return []formkit.Issue{issue(field, formkit.CodeRequired, msg, nil)}
	})
}

// AtLeastOne ensures the list at field has at least one element.
func AtLeastOne(field, msg string) Check {
	return func(_ context.Context, v formkit.Values) []formkit.Issue {
		cur, ok := v.Get(field)
		if !ok {
			return []formkit.Issue{issue(field, formkit.CodeTooFewItems, msg, map[string]any{"min": 1})}
		}
		n, ok := formkit.AsLength(cur)
		if !ok {
			// Not a collection; do not issue error here to avoid noise
			return nil
		}
		if n == 0 {
			return []formkit.Issue{issue(field, formkit.CodeTooFewItems, msg, map[string]any{"min": 1})}
		}
		return nil
	}
}

// UniqueItems ensures the list at field has no repeated entries. Entries are
// compared after trimming and case folding.
func UniqueItems(field, msg string) Check {
	return func(_ context.Context, v formkit.Values) []formkit.Issue {
		cur, _ := v.Get(field)
		list, ok := formkit.AsStrings(cur)
		if !ok {
			return nil
		}
		seen := map[string]int{}
		for i, s := range list {
			key := strings.ToLower(strings.TrimSpace(s))
			if j, dup := seen[key]; dup {
				return []formkit.Issue{issue(field, formkit.CodeCustom, msg, map[string]any{"first": j, "dup": i, "key": s})}
			}
			seen[key] = i
		}
		return nil
	}
}

func issue(field, code, msg string, params map[string]any) formkit.Issue {
	return formkit.Issue{Path: formkit.FieldPointer(field), Field: field, Code: code, Message: msg, Params: params}
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return equal(cur, want)
	case Ne:
		return !equal(cur, want)
	case Lt, Le, Gt, Ge:
		return compareOrdered(cur, op, want)
	default:
		return false
	}
}

// equal compares numerically when both sides are numbers (including numeric
// strings from text inputs), otherwise structurally.
func equal(a, b any) bool {
	fa, okA := formkit.AsNumber(a)
	fb, okB := formkit.AsNumber(b)
	if okA && okB {
		return fa == fb
	}
	return reflect.DeepEqual(a, b)
}

func compareOrdered(cur any, op Op, want any) bool {
	a, ok := formkit.AsNumber(cur)
	if !ok {
		return false
	}
	b, ok := formkit.AsNumber(want)
	if !ok {
		return false
	}
	switch op {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

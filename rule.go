package formkit

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/reoring/formkit/i18n"
)

// RuleKind tags the closed set of rule variants.
type RuleKind int

const (
	KindRequired RuleKind = iota + 1
	KindMinLength
	KindMaxLength
	KindMin
	KindMax
	KindRange
	KindPositive
	KindInteger
	KindEnum
	KindPattern
	KindEmail
	KindCustom
)

var kindNames = map[RuleKind]string{
	KindRequired:  "required",
	KindMinLength: "minLength",
	KindMaxLength: "maxLength",
	KindMin:       "min",
	KindMax:       "max",
	KindRange:     "range",
	KindPositive:  "positive",
	KindInteger:   "integer",
	KindEnum:      "enum",
	KindPattern:   "pattern",
	KindEmail:     "email",
	KindCustom:    "custom",
}

func (k RuleKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "RuleKind(" + strconv.Itoa(int(k)) + ")"
}

// Predicate is the user-supplied check behind a Custom rule.
type Predicate func(ctx context.Context, v any) bool

// Rule is a single predicate plus the message reported when it rejects a
// value. Only the fields relevant to Kind are set.
type Rule struct {
	Kind    RuleKind
	Name    string
	Message string

	Length  int
	Min     float64
	Max     float64
	Values  []string
	Pattern *regexp.Regexp
	Check   Predicate
}

// Required rejects nil, blank strings, and empty lists.
func Required(msg string) Rule { return Rule{Kind: KindRequired, Message: msg} }

// MinLength requires at least n runes (strings) or n items (lists).
func MinLength(n int, msg string) Rule { return Rule{Kind: KindMinLength, Length: n, Message: msg} }

// MaxLength allows at most n runes (strings) or n items (lists).
func MaxLength(n int, msg string) Rule { return Rule{Kind: KindMaxLength, Length: n, Message: msg} }

// Min requires a number >= x.
func Min(x float64, msg string) Rule { return Rule{Kind: KindMin, Min: x, Message: msg} }

// Max requires a number <= x.
func Max(x float64, msg string) Rule { return Rule{Kind: KindMax, Max: x, Message: msg} }

// Range requires lo <= number <= hi.
func Range(lo, hi float64, msg string) Rule {
	return Rule{Kind: KindRange, Min: lo, Max: hi, Message: msg}
}

// Positive requires a number > 0.
func Positive(msg string) Rule { return Rule{Kind: KindPositive, Message: msg} }

// Integer requires a whole number.
func Integer(msg string) Rule { return Rule{Kind: KindInteger, Message: msg} }

// OneOf requires the value (or every list element) to be one of values.
func OneOf(values []string, msg string) Rule {
	return Rule{Kind: KindEnum, Values: append([]string(nil), values...), Message: msg}
}

// Pattern requires the string form of the value to match re.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return Rule{Kind: KindPattern, Pattern: re, Message: msg}
}

// MustPattern compiles expr and panics when it is invalid.
func MustPattern(expr, msg string) Rule { return Pattern(regexp.MustCompile(expr), msg) }

// Email requires a plausible e-mail address.
func Email(msg string) Rule { return Rule{Kind: KindEmail, Message: msg} }

// Custom wraps an arbitrary predicate; name shows up in Issue.Rule.
func Custom(name string, fn Predicate, msg string) Rule {
	return Rule{Kind: KindCustom, Name: name, Check: fn, Message: msg}
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// evaluate is the single dispatcher for all rule kinds. It returns the issue
// code and params when v is rejected, or "" when v passes.
func evaluate(ctx context.Context, r Rule, v any) (string, map[string]any) {
	if r.Kind == KindRequired {
		if IsEmpty(v) {
			return CodeRequired, nil
		}
		return "", nil
	}
	// every other rule treats a blank value as "not provided"
	if IsEmpty(v) {
		return "", nil
	}
	switch r.Kind {
	case KindMinLength, KindMaxLength:
		n, ok := AsLength(v)
		if !ok {
			return CodeInvalidType, map[string]any{"expected": "string"}
		}
		_, isText := v.(string)
		if r.Kind == KindMinLength && n < r.Length {
			if isText {
				return CodeTooShort, map[string]any{"min": r.Length, "got": n}
			}
			return CodeTooFewItems, map[string]any{"min": r.Length, "got": n}
		}
		if r.Kind == KindMaxLength && n > r.Length {
			if isText {
				return CodeTooLong, map[string]any{"max": r.Length, "got": n}
			}
			return CodeTooManyItems, map[string]any{"max": r.Length, "got": n}
		}
	case KindMin, KindMax, KindRange, KindPositive, KindInteger:
		f, ok := AsNumber(v)
		if !ok {
			return CodeInvalidType, map[string]any{"expected": "number"}
		}
		switch r.Kind {
		case KindMin:
			if f < r.Min {
				return CodeTooSmall, map[string]any{"min": r.Min, "got": f}
			}
		case KindMax:
			if f > r.Max {
				return CodeTooBig, map[string]any{"max": r.Max, "got": f}
			}
		case KindRange:
			if f < r.Min {
				return CodeTooSmall, map[string]any{"min": r.Min, "max": r.Max, "got": f}
			}
			if f > r.Max {
				return CodeTooBig, map[string]any{"min": r.Min, "max": r.Max, "got": f}
			}
		case KindPositive:
			if f <= 0 {
				return CodeNotPositive, map[string]any{"got": f}
			}
		case KindInteger:
			if f != math.Trunc(f) {
				return CodeNotInteger, map[string]any{"got": f}
			}
		}
	case KindEnum:
		if list, ok := AsStrings(v); ok {
			for _, s := range list {
				if !contains(r.Values, s) {
					return CodeInvalidEnum, map[string]any{"values": r.Values, "got": s}
				}
			}
			return "", nil
		}
		s, ok := AsString(v)
		if !ok {
			return CodeInvalidType, map[string]any{"expected": "string"}
		}
		if !contains(r.Values, s) {
			return CodeInvalidEnum, map[string]any{"values": r.Values, "got": s}
		}
	case KindPattern:
		s, ok := AsString(v)
		if !ok {
			return CodeInvalidType, map[string]any{"expected": "string"}
		}
		if r.Pattern != nil && !r.Pattern.MatchString(s) {
			return CodePattern, map[string]any{"pattern": r.Pattern.String()}
		}
	case KindEmail:
		s, ok := v.(string)
		if !ok {
			return CodeInvalidType, map[string]any{"expected": "string"}
		}
		if !emailRe.MatchString(strings.TrimSpace(s)) {
			return CodeInvalidFormat, map[string]any{"format": "email"}
		}
	case KindCustom:
		if r.Check != nil && !r.Check(ctx, v) {
			return CodeCustom, map[string]any{"rule": r.Name}
		}
	}
	return "", nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// issueFor builds the Issue for a rejected value. An empty rule message is
// replaced by the translator's default for the code.
func issueFor(tr i18n.Translator, field string, r Rule, code string, params map[string]any) Issue {
	msg := r.Message
	if msg == "" {
		if tr == nil {
			tr = i18n.Current()
		}
		msg = tr.Message(code, paramStrings(params))
	}
	name := r.Name
	if name == "" {
		name = r.Kind.String()
	}
	return Issue{Path: FieldPointer(field), Field: field, Code: code, Message: msg, Params: params, Rule: name}
}

func paramStrings(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		switch t := v.(type) {
		case []string:
			out[k] = strings.Join(t, ", ")
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			out[k] = fmt.Sprint(t)
		}
	}
	return out
}

package formkit

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/reoring/formkit/i18n"
)

// ErrInvalidSchema is wrapped by every schema construction failure.
var ErrInvalidSchema = errors.New("formkit: invalid schema")

// FormErrorKey is the FieldErrors key used for form-level issues, i.e.
// refinement issues that do not name a field.
const FormErrorKey = "_form"

// UnknownPolicy controls how ValidateForm treats keys the schema does not
// declare.
type UnknownPolicy int

const (
	UnknownStrip  UnknownPolicy = iota // Ignore unknown keys.
	UnknownStrict                      // Report unknown keys as issues.
)

// FieldType is an optional hint of the value shape a field expects. Rules
// coerce on their own; the hint only feeds the JSON Schema projection.
type FieldType string

const (
	TypeAny    FieldType = ""
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "boolean"
	TypeList   FieldType = "array"
)

// Field declares the ordered rules of one form field.
type Field struct {
	Name  string
	Type  FieldType
	Rules []Rule
}

// NewField is shorthand for Field{Name: name, Rules: rules}.
func NewField(name string, rules ...Rule) Field { return Field{Name: name, Rules: rules} }

// Refinement is a cross-field check run after every field passed. Issues
// without a Field are reported under FormErrorKey.
type Refinement struct {
	Name  string
	Check func(ctx context.Context, v Values) []Issue
}

// FieldResult is the outcome of validating a single field.
type FieldResult struct {
	Valid bool
	Error string
	Issue Issue
}

// FormResult is the outcome of validating a whole value set. Errors holds at
// most one message per field; Issues keeps everything that was reported.
type FormResult struct {
	Valid  bool
	Errors FieldErrors
	Issues Issues
}

// Option configures a Schema.
type Option func(*Schema)

// WithLogger sets the logger used for diagnostics such as validating a field
// the schema does not know.
func WithLogger(l *zap.Logger) Option {
	return func(s *Schema) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUnknownPolicy sets how ValidateForm treats undeclared keys.
func WithUnknownPolicy(p UnknownPolicy) Option {
	return func(s *Schema) { s.unknown = p }
}

// WithRefine appends cross-field refinements.
func WithRefine(refs ...Refinement) Option {
	return func(s *Schema) {
		for _, r := range refs {
			if r.Check != nil {
				s.refines = append(s.refines, r)
			}
		}
	}
}

// WithTranslator fixes the Translator for default messages. Without it the
// process-wide i18n translator is consulted on every call.
func WithTranslator(tr i18n.Translator) Option {
	return func(s *Schema) { s.tr = tr }
}

// Schema maps field names to ordered rules.
type Schema struct {
	fields  []Field
	index   map[string]int
	unknown UnknownPolicy
	refines []Refinement
	logger  *zap.Logger
	tr      i18n.Translator
}

// NewSchema validates the field declarations and returns a Schema.
func NewSchema(fields []Field, opts ...Option) (*Schema, error) {
	s := &Schema{
		fields: make([]Field, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
		logger: zap.NewNop(),
	}
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w: field name is empty", ErrInvalidSchema)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		}
		for i, r := range f.Rules {
			if err := checkRule(r); err != nil {
				return nil, fmt.Errorf("%w: field %q rule %d: %v", ErrInvalidSchema, f.Name, i, err)
			}
		}
		s.index[f.Name] = len(s.fields)
		s.fields = append(s.fields, Field{Name: f.Name, Type: f.Type, Rules: append([]Rule(nil), f.Rules...)})
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(fields []Field, opts ...Option) *Schema {
	s, err := NewSchema(fields, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func checkRule(r Rule) error {
	switch r.Kind {
	case KindRequired, KindPositive, KindInteger, KindEmail, KindMin, KindMax:
	case KindMinLength, KindMaxLength:
		if r.Length < 0 {
			return fmt.Errorf("negative length %d", r.Length)
		}
	case KindRange:
		if r.Min > r.Max {
			return fmt.Errorf("range min %v exceeds max %v", r.Min, r.Max)
		}
	case KindEnum:
		if len(r.Values) == 0 {
			return errors.New("enum without values")
		}
	case KindPattern:
		if r.Pattern == nil {
			return errors.New("pattern rule without expression")
		}
	case KindCustom:
		if r.Check == nil {
			return errors.New("custom rule without predicate")
		}
	default:
		return fmt.Errorf("unknown rule kind %d", int(r.Kind))
	}
	return nil
}

// Localized returns a copy of s reporting default messages through tr. The
// field declarations are shared.
func (s *Schema) Localized(tr i18n.Translator) *Schema {
	cp := *s
	cp.tr = tr
	return &cp
}

// Translator returns the translator set with WithTranslator or Localized,
// or nil when the schema follows the process-wide i18n.Current.
func (s *Schema) Translator() i18n.Translator { return s.tr }

// Logger returns the schema logger.
func (s *Schema) Logger() *zap.Logger { return s.logger }

// Unknown returns the unknown-key policy.
func (s *Schema) Unknown() UnknownPolicy { return s.unknown }

// Fields returns field names in declaration order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// Has reports whether the schema declares field.
func (s *Schema) Has(field string) bool {
	_, ok := s.index[field]
	return ok
}

// Type returns the declared type hint of field.
func (s *Schema) Type(field string) FieldType {
	i, ok := s.index[field]
	if !ok {
		return TypeAny
	}
	return s.fields[i].Type
}

// Rules returns a copy of the rules declared for field.
func (s *Schema) Rules(field string) []Rule {
	i, ok := s.index[field]
	if !ok {
		return nil
	}
	return append([]Rule(nil), s.fields[i].Rules...)
}

func (s *Schema) translator() i18n.Translator {
	if s.tr != nil {
		return s.tr
	}
	return i18n.Current()
}

// check runs one rule. A panicking predicate is treated as a pass so a
// broken rule cannot take the whole form down.
func (s *Schema) check(ctx context.Context, field string, r Rule, v any) (code string, params map[string]any) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Warn("rule panicked, accepting value",
				zap.String("field", field),
				zap.String("rule", r.Kind.String()),
				zap.Any("panic", p))
			code, params = "", nil
		}
	}()
	return evaluate(ctx, r, v)
}

// ValidateField validates one value in isolation and reports the first
// failing rule. A field the schema does not declare is accepted after a
// warning is logged.
func (s *Schema) ValidateField(ctx context.Context, field string, value any) FieldResult {
	i, ok := s.index[field]
	if !ok {
		s.logger.Warn("no rule for field, accepting value", zap.String("field", field))
		return FieldResult{Valid: true}
	}
	tr := s.translator()
	for _, r := range s.fields[i].Rules {
		if code, params := s.check(ctx, field, r, value); code != "" {
			iss := issueFor(tr, field, r, code, params)
			return FieldResult{Valid: false, Error: iss.Message, Issue: iss}
		}
	}
	return FieldResult{Valid: true}
}

// ValidateForm validates every declared field against values (absent keys
// count as empty), collecting every issue, then runs refinements when the
// fields passed. Errors keeps the first message per field.
func (s *Schema) ValidateForm(ctx context.Context, values Values) FormResult {
	var iss Issues
	tr := s.translator()
	if s.unknown == UnknownStrict {
		iss = append(iss, s.unknownKeyIssues(tr, values)...)
	}
	for _, f := range s.fields {
		v := values[f.Name]
		for _, r := range f.Rules {
			if code, params := s.check(ctx, f.Name, r, v); code != "" {
				iss = AppendIssues(iss, issueFor(tr, f.Name, r, code, params))
			}
		}
	}
	if len(iss) == 0 {
		iss = s.refine(ctx, tr, values)
	}
	if len(iss) == 0 {
		return FormResult{Valid: true, Errors: FieldErrors{}}
	}
	return FormResult{Valid: false, Errors: iss.FirstPerField(), Issues: iss}
}

func (s *Schema) unknownKeyIssues(tr i18n.Translator, values Values) Issues {
	var keys []string
	for k := range values {
		if !s.Has(k) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var out Issues
	for _, k := range keys {
		out = append(out, Issue{Path: FieldPointer(k), Field: k, Code: CodeUnknownKey, Message: tr.Message(CodeUnknownKey, nil)})
	}
	return out
}

func (s *Schema) refine(ctx context.Context, tr i18n.Translator, values Values) Issues {
	var out Issues
	for _, r := range s.refines {
		for _, it := range s.runRefinement(ctx, r, values) {
			if it.Rule == "" {
				it.Rule = r.Name
			}
			if it.Field == "" {
				it.Field = FormErrorKey
			}
			if it.Path == "" {
				it.Path = FieldPointer(it.Field)
			}
			if it.Message == "" {
				code := it.Code
				if code == "" {
					code = CodeCustom
				}
				it.Message = tr.Message(code, paramStrings(it.Params))
			}
			if it.Code == "" {
				it.Code = CodeCustom
			}
			out = AppendIssues(out, it)
		}
	}
	return out
}

// runRefinement runs one refinement. A panic is logged and treated as no
// issues, the same way check handles field rules.
func (s *Schema) runRefinement(ctx context.Context, r Refinement, values Values) (out []Issue) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Warn("refinement panicked, accepting form",
				zap.String("refinement", r.Name),
				zap.Any("panic", p))
			out = nil
		}
	}()
	return r.Check(ctx, values)
}

// Parse validates values and returns only the declared fields, or the
// Issues when validation fails.
func (s *Schema) Parse(ctx context.Context, values Values) (Values, error) {
	res := s.ValidateForm(ctx, values)
	if !res.Valid {
		return nil, res.Issues
	}
	out := make(Values, len(s.fields))
	for _, f := range s.fields {
		if v, ok := values[f.Name]; ok {
			out[f.Name] = deepCopy(v)
		}
	}
	return out, nil
}

// Is reports whether values pass ValidateForm.
func (s *Schema) Is(ctx context.Context, values Values) bool {
	return s.ValidateForm(ctx, values).Valid
}

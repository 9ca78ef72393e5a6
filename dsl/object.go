package dsl

import (
	"context"

	"go.uber.org/zap"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/i18n"
)

type fieldEntry struct {
	name string
	def  FieldDef
}

// ObjectBuilder collects field definitions and form-level options.
type ObjectBuilder struct {
	fields  []fieldEntry
	refines []formkit.Refinement
	unknown formkit.UnknownPolicy
	logger  *zap.Logger
	tr      i18n.Translator
}

// Object creates a new object builder. Unknown keys are stripped by default,
// matching how partial form values usually arrive.
func Object() *ObjectBuilder {
	return &ObjectBuilder{unknown: formkit.UnknownStrip}
}

// Field registers a field. Declaration order is the order issues are
// reported in.
func (b *ObjectBuilder) Field(name string, def FieldDef) *ObjectBuilder {
	b.fields = append(b.fields, fieldEntry{name: name, def: def})
	return b
}

// Refine adds a cross-field check executed after every field passed.
func (b *ObjectBuilder) Refine(name string, fn func(context.Context, formkit.Values) []formkit.Issue) *ObjectBuilder {
	if fn == nil {
		return b
	}
	b.refines = append(b.refines, formkit.Refinement{Name: name, Check: fn})
	return b
}

// UnknownStrict reports undeclared keys as issues.
func (b *ObjectBuilder) UnknownStrict() *ObjectBuilder {
	b.unknown = formkit.UnknownStrict
	return b
}

// UnknownStrip ignores undeclared keys.
func (b *ObjectBuilder) UnknownStrip() *ObjectBuilder {
	b.unknown = formkit.UnknownStrip
	return b
}

// Logger sets the schema logger.
func (b *ObjectBuilder) Logger(l *zap.Logger) *ObjectBuilder {
	b.logger = l
	return b
}

// Translator fixes the translator used for default messages.
func (b *ObjectBuilder) Translator(tr i18n.Translator) *ObjectBuilder {
	b.tr = tr
	return b
}

// Build validates the builder and returns a Schema. Field definition errors
// are returned as Issues pointing at the field.
func (b *ObjectBuilder) Build() (*formkit.Schema, error) {
	fields := make([]formkit.Field, 0, len(b.fields))
	var iss formkit.Issues
	for _, e := range b.fields {
		if e.def == nil {
			iss = formkit.AppendIssues(iss, buildIssue(e.name, "nil field definition"))
			continue
		}
		f, err := e.def.Field(e.name)
		if err != nil {
			iss = formkit.AppendIssues(iss, buildIssue(e.name, err.Error()))
			continue
		}
		fields = append(fields, f)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	opts := []formkit.Option{
		formkit.WithUnknownPolicy(b.unknown),
		formkit.WithRefine(b.refines...),
		formkit.WithLogger(b.logger),
	}
	if b.tr != nil {
		opts = append(opts, formkit.WithTranslator(b.tr))
	}
	return formkit.NewSchema(fields, opts...)
}

// MustBuild is like Build but panics on error.
func (b *ObjectBuilder) MustBuild() *formkit.Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func buildIssue(field, msg string) formkit.Issue {
	return formkit.Issue{Path: formkit.FieldPointer(field), Field: field, Code: formkit.CodeParseError, Message: msg}
}

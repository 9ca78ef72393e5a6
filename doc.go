// Package formkit validates form values against declarative field rules.
//
// - A Schema maps field names to an ordered list of Rules (Required,
//   MinLength, Range, OneOf, Pattern, Custom and friends)
// - ValidateField checks one value as a user types and reports the first
//   failing rule; ValidateForm checks a whole value set and reports the
//   first message per field
// - Failures are Issues (JSON Pointer, code, message) which implement error
//
// Fields the schema does not declare are accepted by ValidateField after a
// warning is logged, so partially-specified forms keep working.
//
// Layout:
// - dsl/ holds the fluent builder, rules/ cross-field refinements
// - form/ holds per-instance form state (values, errors, touched)
// - source/ decodes JSON bodies and url.Values, schemafile/ loads YAML/JSON
//   schema documents, i18n/ provides default messages
// - middleware/ wires validation into echo and gin, cmd/formkit is the CLI
//
// Typical usage:
//
//	s := dsl.Object().
//		Field("name", dsl.String().Required("Name is required")).
//		Field("price", dsl.Number().Positive("Price must be greater than 0")).
//		MustBuild()
//
//	res := s.ValidateField(ctx, "price", "-5") // res.Error == "Price must be greater than 0"
//	out := s.ValidateForm(ctx, formkit.Values{"name": ""})
package formkit

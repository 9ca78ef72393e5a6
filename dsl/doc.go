// Package dsl builds formkit schemas fluently:
//
//	meal := dsl.Object().
//		Field("name", dsl.String().Required("Name is required").Max(80)).
//		Field("price", dsl.Number().Required().Positive("Price must be greater than 0")).
//		Field("period", dsl.Enum("breakfast", "lunch", "dinner", "snack").Required()).
//		Field("categories", dsl.List().Max(5)).
//		MustBuild()
//
// Messages are optional; an omitted message falls back to the i18n default
// for the issue code.
package dsl

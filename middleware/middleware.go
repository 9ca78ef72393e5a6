package middleware

import (
	"context"
	"io"
	"net/http"
	"strings"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/i18n"
	"github.com/reoring/formkit/source"
)

type ctxKeyValues struct{}

// ContextWithValues attaches validated form values to the context.
func ContextWithValues(ctx context.Context, v formkit.Values) context.Context {
	return context.WithValue(ctx, ctxKeyValues{}, v)
}

// ValuesFromContext retrieves values stored by ContextWithValues.
func ValuesFromContext(ctx context.Context) (formkit.Values, bool) {
	v, ok := ctx.Value(ctxKeyValues{}).(formkit.Values)
	return v, ok
}

// Localize returns s reporting default messages in the best language for
// the Accept-Language header of r. A schema without its own translator gets
// the matching built-in dictionary. A translator implementing
// i18n.Localizer picks its own locale; any other translator is kept as is.
func Localize(s *formkit.Schema, r *http.Request) *formkit.Schema {
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return s
	}
	switch tr := s.Translator().(type) {
	case nil:
		return s.Localized(i18n.Dictionary(i18n.MatchLanguage(header)))
	case i18n.Localizer:
		return s.Localized(tr.Localize(header))
	default:
		return s
	}
}

// Decode reads a JSON object from body and validates it with s. On success
// only the declared fields are returned. Duplicate keys are rejected.
func Decode(ctx context.Context, s *formkit.Schema, body io.Reader) (formkit.Values, error) {
	raw, err := source.JSONReader(body)
	if err != nil {
		return nil, err
	}
	return s.Parse(ctx, raw)
}

// ErrorPayload shapes a validation failure for JSON responses. Errors holds
// one message per field, issues the full list.
func ErrorPayload(err error) map[string]any {
	iss, ok := formkit.AsIssues(err)
	if !ok {
		return map[string]any{"valid": false, "error": err.Error()}
	}
	return map[string]any{
		"valid":  false,
		"errors": iss.FirstPerField(),
		"issues": iss,
	}
}

// Status is the HTTP status for a Decode error: 422 for validation issues,
// 400 for everything else.
func Status(err error) int {
	if iss, ok := formkit.AsIssues(err); ok {
		for _, it := range iss {
			if it.Code == formkit.CodeParseError || it.Code == formkit.CodeDuplicateKey {
				return http.StatusBadRequest
			}
		}
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

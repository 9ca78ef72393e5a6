package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/dsl"
	"github.com/reoring/formkit/i18n"
	"github.com/reoring/formkit/middleware"
)

func mealSchema() *formkit.Schema {
	return dsl.Object().
		Field("name", dsl.String().Required()).
		Field("price", dsl.Number().Required().Positive("Price must be greater than 0")).
		MustBuild()
}

func TestDecode(t *testing.T) {
	ctx := context.Background()
	v, err := middleware.Decode(ctx, mealSchema(), strings.NewReader(`{"name":"Soup","price":4,"extra":1}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, ok := v["extra"]; ok || v["name"] != "Soup" {
		t.Fatalf("unexpected values %v", v)
	}

	_, err = middleware.Decode(ctx, mealSchema(), strings.NewReader(`{"name":"","price":-5}`))
	if middleware.Status(err) != http.StatusUnprocessableEntity {
		t.Fatalf("validation failure should be 422")
	}
	payload := middleware.ErrorPayload(err)
	errs, _ := payload["errors"].(formkit.FieldErrors)
	if errs["price"] != "Price must be greater than 0" || errs["name"] != "Required" {
		t.Fatalf("unexpected payload %v", payload)
	}

	_, err = middleware.Decode(ctx, mealSchema(), strings.NewReader(`{"name":`))
	if middleware.Status(err) != http.StatusBadRequest {
		t.Fatalf("malformed body should be 400")
	}
	_, err = middleware.Decode(ctx, mealSchema(), strings.NewReader(`{"name":"a","name":"b","price":1}`))
	if middleware.Status(err) != http.StatusBadRequest {
		t.Fatalf("duplicate keys should be 400")
	}
}

func TestErrorPayload_PlainError(t *testing.T) {
	p := middleware.ErrorPayload(errors.New("boom"))
	if p["error"] != "boom" || p["valid"] != false {
		t.Fatalf("unexpected payload %v", p)
	}
	if middleware.Status(errors.New("boom")) != http.StatusBadRequest {
		t.Fatalf("plain errors are 400")
	}
}

func TestLocalize(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/meals", nil)
	r.Header.Set("Accept-Language", "ja-JP,ja;q=0.9")
	s := middleware.Localize(mealSchema(), r)
	if got := s.ValidateField(context.Background(), "name", "").Error; got != "必須項目です" {
		t.Fatalf("got %q", got)
	}
}

type fixedTranslator string

func (f fixedTranslator) Message(string, map[string]string) string { return string(f) }

func TestLocalize_KeepsSchemaTranslator(t *testing.T) {
	c := i18n.NewCatalog("en")
	c.Add("en", map[string]any{"validation": map[string]any{"required": "Please fill this in"}})
	c.Add("ja", map[string]any{"validation": map[string]any{"required": "入力してください"}})
	s := dsl.Object().
		Field("name", dsl.String().Required()).
		Translator(c.Translator("en")).
		MustBuild()
	ctx := context.Background()

	cases := []struct{ header, want string }{
		{"", "Please fill this in"},
		{"en-GB", "Please fill this in"},
		{"ja-JP,ja;q=0.9", "入力してください"},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodPost, "/meals", nil)
		if tc.header != "" {
			r.Header.Set("Accept-Language", tc.header)
		}
		if got := middleware.Localize(s, r).ValidateField(ctx, "name", "").Error; got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.header, got, tc.want)
		}
	}

	fixed := s.Localized(fixedTranslator("custom"))
	r := httptest.NewRequest(http.MethodPost, "/meals", nil)
	r.Header.Set("Accept-Language", "ja")
	if got := middleware.Localize(fixed, r).ValidateField(ctx, "name", "").Error; got != "custom" {
		t.Fatalf("plain translator should be kept, got %q", got)
	}
}

func TestLocalize_NoHeaderKeepsSchema(t *testing.T) {
	s := mealSchema()
	r := httptest.NewRequest(http.MethodPost, "/meals", nil)
	if got := middleware.Localize(s, r); got != s {
		t.Fatalf("schema without a header should be returned unchanged")
	}
}

func TestContextValues(t *testing.T) {
	ctx := middleware.ContextWithValues(context.Background(), formkit.Values{"a": 1})
	v, ok := middleware.ValuesFromContext(ctx)
	if !ok || v["a"] != 1 {
		t.Fatalf("values not found")
	}
	if _, ok := middleware.ValuesFromContext(context.Background()); ok {
		t.Fatalf("empty context has no values")
	}
}

package formkit_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	formkit "github.com/reoring/formkit"
)

func TestIsEmpty(t *testing.T) {
	empty := []any{nil, "", "  \t", json.Number(""), []string{}, []any{}}
	for _, v := range empty {
		if !formkit.IsEmpty(v) {
			t.Fatalf("%#v should be empty", v)
		}
	}
	filled := []any{"x", 0, false, json.Number("0"), []string{""}}
	for _, v := range filled {
		if formkit.IsEmpty(v) {
			t.Fatalf("%#v should not be empty", v)
		}
	}
}

func TestAsNumber(t *testing.T) {
	ok := map[any]float64{
		"12.99":             12.99,
		" -5 ":              -5,
		json.Number("1e3"): 1000,
		int64(7):           7,
		uint8(2):           2,
	}
	for in, want := range ok {
		got, valid := formkit.AsNumber(in)
		if !valid || got != want {
			t.Fatalf("%#v: got %v, %v", in, got, valid)
		}
	}
	for _, in := range []any{"abc", "NaN", "Inf", true, []string{"1"}} {
		if _, valid := formkit.AsNumber(in); valid {
			t.Fatalf("%#v should not coerce", in)
		}
	}
}

func TestAsString_NumericKinds(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{int8(-3), "-3"},
		{int16(300), "300"},
		{int32(3), "3"},
		{uint(2), "2"},
		{uint8(7), "7"},
		{uint16(9), "9"},
		{uint32(11), "11"},
		{uint64(1 << 40), "1099511627776"},
		{float32(2.5), "2.5"},
	}
	for _, c := range cases {
		got, ok := formkit.AsString(c.in)
		if !ok || got != c.want {
			t.Fatalf("%#v: got %q, %v", c.in, got, ok)
		}
	}
	if _, ok := formkit.AsString(struct{}{}); ok {
		t.Fatalf("struct should not render")
	}
}

func TestOneOf_AcceptsEveryNumericKind(t *testing.T) {
	s := formkit.MustSchema([]formkit.Field{
		formkit.NewField("servings", formkit.OneOf([]string{"2", "3"}, "Pick 2 or 3")),
		formkit.NewField("sizes", formkit.OneOf([]string{"2", "3"}, "Pick 2 or 3")),
	})
	ctx := context.Background()
	for _, v := range []any{int32(3), uint(2), uint64(3), int8(2), float32(3)} {
		if res := s.ValidateField(ctx, "servings", v); !res.Valid {
			t.Fatalf("%#v should be accepted, got %+v", v, res)
		}
	}
	if got := s.ValidateField(ctx, "servings", uint16(4)).Error; got != "Pick 2 or 3" {
		t.Fatalf("got %q", got)
	}
	if !s.ValidateField(ctx, "sizes", []any{int32(2), uint(3)}).Valid {
		t.Fatalf("list of numeric kinds should be accepted")
	}
}

func TestValuesCloneIsDeep(t *testing.T) {
	v := formkit.Values{
		"tags":   []string{"a"},
		"nested": map[string]any{"list": []any{"x"}},
	}
	c := v.Clone()
	c["tags"].([]string)[0] = "changed"
	c["nested"].(map[string]any)["list"].([]any)[0] = "changed"
	if v["tags"].([]string)[0] != "a" {
		t.Fatalf("slice shared after Clone")
	}
	if v["nested"].(map[string]any)["list"].([]any)[0] != "x" {
		t.Fatalf("nested value shared after Clone")
	}
	if got := formkit.Values(nil).Clone(); got == nil {
		t.Fatalf("nil Values should clone to an empty map")
	}
}

func TestFieldPointer(t *testing.T) {
	cases := map[string]string{
		"price": "/price",
		"a/b~c": "/a~1b~0c",
		"~1":    "/~01",
		"":      "/",
	}
	for in, want := range cases {
		if got := formkit.FieldPointer(in); got != want {
			t.Fatalf("%q: got %q want %q", in, got, want)
		}
	}
}

func TestIssues_ErrorSummary(t *testing.T) {
	var iss formkit.Issues
	for i := 0; i < 5; i++ {
		iss = formkit.AppendIssues(iss, formkit.Issue{Path: fmt.Sprintf("/f%d", i), Code: formkit.CodeRequired})
	}
	want := "required at /f0; required at /f1; required at /f2; ... (total 5)"
	if iss.Error() != want {
		t.Fatalf("got %q", iss.Error())
	}
	if (formkit.Issues{{Code: formkit.CodeCustom}}).Error() != "custom at /" {
		t.Fatalf("empty path should render as /")
	}

	wrapped := fmt.Errorf("submit: %w", iss)
	got, ok := formkit.AsIssues(wrapped)
	if !ok || len(got) != 5 {
		t.Fatalf("AsIssues failed on wrapped error")
	}
	if _, ok := formkit.AsIssues(errors.New("plain")); ok {
		t.Fatalf("plain error is not Issues")
	}
}

func TestIssues_FirstPerField(t *testing.T) {
	iss := formkit.Issues{
		{Field: "price", Message: "first"},
		{Field: "name", Message: "name"},
		{Field: "price", Message: "second"},
		{Message: "no field"},
	}
	want := formkit.FieldErrors{"price": "first", "name": "name"}
	if diff := cmp.Diff(want, iss.FirstPerField()); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "price"}, want.Fields()); diff != "" {
		t.Fatalf("Fields not sorted:\n%s", diff)
	}
}

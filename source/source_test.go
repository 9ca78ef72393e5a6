package source_test

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/source"
)

func TestJSONBytes_Object(t *testing.T) {
	v, err := source.JSONBytes([]byte(`{"name":"Soup","price":12.99,"tags":["hot"],"veg":true,"note":null}`))
	if err != nil {
		t.Fatalf("JSONBytes: %v", err)
	}
	want := formkit.Values{
		"name":  "Soup",
		"price": json.Number("12.99"),
		"tags":  []any{"hot"},
		"veg":   true,
		"note":  nil,
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	if n, ok := formkit.AsNumber(v["price"]); !ok || n != 12.99 {
		t.Fatalf("price should coerce, got %v", v["price"])
	}
}

func TestJSONReader_Errors(t *testing.T) {
	cases := map[string]string{
		"array":    `[1,2]`,
		"scalar":   `"x"`,
		"broken":   `{"a":`,
		"trailing": `{"a":1} {"b":2}`,
		"empty":    ``,
	}
	for name, in := range cases {
		_, err := source.JSONReader(strings.NewReader(in))
		iss, ok := formkit.AsIssues(err)
		if !ok || len(iss) != 1 {
			t.Fatalf("%s: expected one issue, got %v", name, err)
		}
		if iss[0].Path != "/" {
			t.Fatalf("%s: unexpected path %q", name, iss[0].Path)
		}
	}
	_, err := source.JSONBytes([]byte(`[1]`))
	iss, _ := formkit.AsIssues(err)
	if iss[0].Code != formkit.CodeInvalidType {
		t.Fatalf("non-object should be invalid_type, got %s", iss[0].Code)
	}
}

func TestJSONReader_DuplicateKeys(t *testing.T) {
	v, err := source.JSONBytes([]byte(`{"b":1,"a":1,"b":2,"a":3}`))
	iss, ok := formkit.AsIssues(err)
	if !ok || len(iss) != 2 {
		t.Fatalf("expected two duplicate issues, got %v", err)
	}
	if iss[0].Path != "/a" || iss[1].Path != "/b" || iss[0].Code != formkit.CodeDuplicateKey {
		t.Fatalf("unexpected issues %v", iss)
	}
	if v["b"] != json.Number("2") {
		t.Fatalf("last value should win, got %v", v["b"])
	}

	_, err = source.JSONBytes([]byte(`{"size/unit":1,"size/unit":2}`))
	iss, _ = formkit.AsIssues(err)
	if len(iss) != 1 || iss[0].Path != "/size~1unit" || iss[0].Field != "size/unit" {
		t.Fatalf("duplicate key path should be escaped: %v", iss)
	}
}

func TestURLValues(t *testing.T) {
	in := url.Values{
		"name":       {"Soup"},
		"categories": {"hot"},
		"sizes":      {"s", "m"},
		"blank":      {},
	}
	got := source.URLValues(in, "categories")
	want := formkit.Values{
		"name":       "Soup",
		"categories": []string{"hot"},
		"sizes":      []string{"s", "m"},
		"blank":      nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("values (-want +got):\n%s", diff)
	}
	in["sizes"][0] = "xl"
	if got["sizes"].([]string)[0] != "s" {
		t.Fatalf("slices must be copied")
	}
}

package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	j "github.com/goccy/go-json"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/schemafile"
)

var mealSchemaPath = filepath.Join("..", "..", "schemafile", "testdata", "meal.yaml")

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "--schema", mealSchemaPath, "--values", filepath.Join("testdata", "bad_meal.json"))
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	var rep formReport
	if err := j.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if rep.Valid || rep.Errors["name"] != "Name is required" || rep.Errors["price"] != "Price must be greater than 0" {
		t.Fatalf("unexpected report %+v", rep)
	}

	out, err = execute(t, "validate", "--schema", mealSchemaPath, "--values", filepath.Join("testdata", "good_meal.json"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, `"valid": true`) {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestCheckFieldCommand(t *testing.T) {
	out, err := execute(t, "check-field", "--schema", mealSchemaPath, "--field", "price", "--value", "-5")
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	var rep fieldReport
	if err := j.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rep.Error != "Price must be greater than 0" {
		t.Fatalf("unexpected report %+v", rep)
	}

	if _, err := execute(t, "check-field", "--schema", mealSchemaPath, "--field", "price", "--value", "12.99"); err != nil {
		t.Fatalf("check-field: %v", err)
	}
}

func TestJSONSchemaCommand(t *testing.T) {
	out, err := execute(t, "jsonschema", "--schema", mealSchemaPath)
	if err != nil {
		t.Fatalf("jsonschema: %v", err)
	}
	var doc map[string]any
	if err := j.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["type"] != "object" {
		t.Fatalf("unexpected document %v", doc)
	}
}

func TestRunValidate_RuleMessage(t *testing.T) {
	s, err := schemafile.Load(mealSchemaPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var out bytes.Buffer
	err = runValidate(context.Background(), &out, s, formkit.Values{"name": "Tea", "price": 2, "period": "lunch", "calories": "1.5"})
	if !errors.Is(err, errInvalid) {
		t.Fatalf("expected errInvalid, got %v", err)
	}
	if !strings.Contains(out.String(), "Calories must be a whole number") {
		t.Fatalf("unexpected output %s", out.String())
	}
}

func TestMissingSchemaFlag(t *testing.T) {
	if _, err := execute(t, "jsonschema", "--schema", ""); err == nil || errors.Is(err, errInvalid) {
		t.Fatalf("expected a usage error, got %v", err)
	}
}

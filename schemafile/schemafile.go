// Package schemafile loads form schemas from YAML or JSON documents.
//
// A document looks like:
//
//	name: meal
//	unknown: strip
//	fields:
//	  - name: name
//	    type: string
//	    rules:
//	      - {kind: required, message: "Name is required"}
//	      - {kind: maxLength, value: 80}
//	  - name: price
//	    type: number
//	    rules:
//	      - {kind: positive, message: "Price must be greater than 0"}
//
// Custom predicates have no declarative form; attach them in code.
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	formkit "github.com/reoring/formkit"
)

// Format selects the document syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// Document is the on-disk schema shape.
type Document struct {
	Name    string     `yaml:"name" json:"name"`
	Unknown string     `yaml:"unknown" json:"unknown"`
	Fields  []FieldDoc `yaml:"fields" json:"fields"`
}

// FieldDoc declares one field.
type FieldDoc struct {
	Name  string    `yaml:"name" json:"name"`
	Type  string    `yaml:"type" json:"type"`
	Rules []RuleDoc `yaml:"rules" json:"rules"`
}

// RuleDoc declares one rule. Which of Value/Min/Max/Values/Pattern is read
// depends on Kind.
type RuleDoc struct {
	Kind    string   `yaml:"kind" json:"kind"`
	Message string   `yaml:"message" json:"message"`
	Value   *float64 `yaml:"value" json:"value"`
	Min     *float64 `yaml:"min" json:"min"`
	Max     *float64 `yaml:"max" json:"max"`
	Values  []string `yaml:"values" json:"values"`
	Pattern string   `yaml:"pattern" json:"pattern"`
}

// ErrUnsupportedFormat is returned by Load for unknown file extensions.
var ErrUnsupportedFormat = errors.New("schemafile: unsupported format")

// Load reads a schema file; the format follows the extension (.yaml, .yml,
// .json).
func Load(path string, opts ...formkit.Option) (*formkit.Schema, error) {
	var f Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f = FormatYAML
	case ".json":
		f = FormatJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: read %s: %w", path, err)
	}
	return Parse(data, f, opts...)
}

// Parse decodes a document and builds the schema. JSON is decoded through
// the YAML parser, which accepts it as a subset.
func Parse(data []byte, f Format, opts ...formkit.Option) (*formkit.Schema, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		kind := "yaml"
		if f == FormatJSON {
			kind = "json"
		}
		return nil, fmt.Errorf("schemafile: decode %s: %w", kind, err)
	}
	return Build(doc, opts...)
}

// Build turns a decoded document into a schema. Extra options are applied
// after the document's own settings.
func Build(doc Document, opts ...formkit.Option) (*formkit.Schema, error) {
	fields := make([]formkit.Field, 0, len(doc.Fields))
	for _, fd := range doc.Fields {
		f, err := buildField(fd)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	var base []formkit.Option
	switch strings.ToLower(doc.Unknown) {
	case "", "strip":
		base = append(base, formkit.WithUnknownPolicy(formkit.UnknownStrip))
	case "strict":
		base = append(base, formkit.WithUnknownPolicy(formkit.UnknownStrict))
	default:
		return nil, fmt.Errorf("schemafile: unknown policy %q", doc.Unknown)
	}
	s, err := formkit.NewSchema(fields, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	s.Logger().Debug("schema loaded", zap.String("name", doc.Name), zap.Int("fields", len(fields)))
	return s, nil
}

func buildField(fd FieldDoc) (formkit.Field, error) {
	f := formkit.Field{Name: fd.Name}
	switch strings.ToLower(fd.Type) {
	case "", "any":
	case "string", "text":
		f.Type = formkit.TypeString
	case "number":
		f.Type = formkit.TypeNumber
	case "boolean", "bool":
		f.Type = formkit.TypeBool
	case "array", "list":
		f.Type = formkit.TypeList
	default:
		return f, fmt.Errorf("schemafile: field %q: unknown type %q", fd.Name, fd.Type)
	}
	for i, rd := range fd.Rules {
		r, err := buildRule(rd)
		if err != nil {
			return f, fmt.Errorf("schemafile: field %q rule %d: %w", fd.Name, i, err)
		}
		f.Rules = append(f.Rules, r)
	}
	return f, nil
}

func buildRule(rd RuleDoc) (formkit.Rule, error) {
	need := func(p *float64, name string) (float64, error) {
		if p == nil {
			return 0, fmt.Errorf("%s: missing %s", rd.Kind, name)
		}
		return *p, nil
	}
	switch rd.Kind {
	case "required":
		return formkit.Required(rd.Message), nil
	case "minLength", "maxLength":
		v, err := need(rd.Value, "value")
		if err != nil {
			return formkit.Rule{}, err
		}
		if v != math.Trunc(v) {
			return formkit.Rule{}, fmt.Errorf("%s: value must be a whole number, got %v", rd.Kind, v)
		}
		if rd.Kind == "minLength" {
			return formkit.MinLength(int(v), rd.Message), nil
		}
		return formkit.MaxLength(int(v), rd.Message), nil
	case "min":
		v, err := need(firstSet(rd.Value, rd.Min), "value")
		if err != nil {
			return formkit.Rule{}, err
		}
		return formkit.Min(v, rd.Message), nil
	case "max":
		v, err := need(firstSet(rd.Value, rd.Max), "value")
		if err != nil {
			return formkit.Rule{}, err
		}
		return formkit.Max(v, rd.Message), nil
	case "range":
		lo, err := need(rd.Min, "min")
		if err != nil {
			return formkit.Rule{}, err
		}
		hi, err := need(rd.Max, "max")
		if err != nil {
			return formkit.Rule{}, err
		}
		return formkit.Range(lo, hi, rd.Message), nil
	case "positive":
		return formkit.Positive(rd.Message), nil
	case "integer":
		return formkit.Integer(rd.Message), nil
	case "enum":
		if len(rd.Values) == 0 {
			return formkit.Rule{}, errors.New("enum: missing values")
		}
		return formkit.OneOf(rd.Values, rd.Message), nil
	case "pattern":
		re, err := regexp.Compile(rd.Pattern)
		if err != nil {
			return formkit.Rule{}, fmt.Errorf("pattern: %w", err)
		}
		return formkit.Pattern(re, rd.Message), nil
	case "email":
		return formkit.Email(rd.Message), nil
	default:
		return formkit.Rule{}, fmt.Errorf("unknown rule kind %q", rd.Kind)
	}
}

func firstSet(ps ...*float64) *float64 {
	for _, p := range ps {
		if p != nil {
			return p
		}
	}
	return nil
}

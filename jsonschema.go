package formkit

import (
	js "github.com/reoring/formkit/jsonschema"
)

// JSONSchema projects the schema into a JSON Schema object. Custom rules and
// refinements have no JSON Schema counterpart and are omitted.
func (s *Schema) JSONSchema() (*js.Schema, error) {
	out := &js.Schema{
		Schema:     js.Draft,
		Type:       "object",
		Properties: make(map[string]*js.Schema, len(s.fields)),
	}
	for _, f := range s.fields {
		prop := fieldJSONSchema(f)
		out.Properties[f.Name] = prop
		for _, r := range f.Rules {
			if r.Kind == KindRequired {
				out.Required = append(out.Required, f.Name)
				break
			}
		}
	}
	switch s.unknown {
	case UnknownStrict:
		out.AdditionalProperties = false
	default:
		out.AdditionalProperties = true
	}
	return out, nil
}

func fieldJSONSchema(f Field) *js.Schema {
	t := f.Type
	if t == TypeAny {
		t = inferType(f.Rules)
	}
	prop := &js.Schema{Type: string(t)}
	target := prop
	if t == TypeList {
		prop.Items = &js.Schema{Type: "string"}
	}
	for _, r := range f.Rules {
		if r.Message != "" {
			if prop.Messages == nil {
				prop.Messages = map[string]string{}
			}
			prop.Messages[r.Kind.String()] = r.Message
		}
		switch r.Kind {
		case KindMinLength:
			if t == TypeList {
				prop.MinItems = js.Int(r.Length)
			} else {
				prop.MinLength = js.Int(r.Length)
			}
		case KindMaxLength:
			if t == TypeList {
				prop.MaxItems = js.Int(r.Length)
			} else {
				prop.MaxLength = js.Int(r.Length)
			}
		case KindMin:
			prop.Minimum = js.Float(r.Min)
		case KindMax:
			prop.Maximum = js.Float(r.Max)
		case KindRange:
			prop.Minimum = js.Float(r.Min)
			prop.Maximum = js.Float(r.Max)
		case KindPositive:
			prop.ExclusiveMinimum = js.Float(0)
		case KindInteger:
			prop.Type = "integer"
		case KindEnum:
			if t == TypeList {
				target = prop.Items
			}
			target.Enum = make([]any, len(r.Values))
			for i, v := range r.Values {
				target.Enum[i] = v
			}
		case KindPattern:
			if r.Pattern != nil {
				prop.Pattern = r.Pattern.String()
			}
		case KindEmail:
			prop.Format = "email"
		}
	}
	return prop
}

func inferType(rules []Rule) FieldType {
	for _, r := range rules {
		switch r.Kind {
		case KindMin, KindMax, KindRange, KindPositive, KindInteger:
			return TypeNumber
		case KindMinLength, KindMaxLength, KindPattern, KindEmail, KindEnum:
			return TypeString
		}
	}
	return TypeAny
}

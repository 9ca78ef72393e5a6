// Package source turns request bodies into formkit.Values.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	j "github.com/goccy/go-json"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/i18n"
)

// JSONBytes decodes a JSON object into form values.
func JSONBytes(b []byte) (formkit.Values, error) { return JSONReader(bytes.NewReader(b)) }

// JSONReader decodes a JSON object from r into form values. Numbers are kept
// as json.Number so no precision is lost before rules coerce them. Input
// that is not a single object, and repeated top-level keys, are reported as
// Issues.
func JSONReader(r io.Reader) (formkit.Values, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, parseIssue(err)
	}
	if d, ok := tok.(j.Delim); !ok || d != '{' {
		return nil, formkit.Issues{{Path: "/", Code: formkit.CodeInvalidType, Message: i18n.T(formkit.CodeInvalidType, nil), Params: map[string]any{"expected": "object"}}}
	}

	out := formkit.Values{}
	var dups []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, parseIssue(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, parseIssue(fmt.Errorf("expected object key, got %v", tok))
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, parseIssue(err)
		}
		if _, seen := out[key]; seen {
			dups = append(dups, key)
		}
		out[key] = v
	}
	if _, err := dec.Token(); err != nil {
		return nil, parseIssue(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, parseIssue(errors.New("trailing data after object"))
	}
	if len(dups) > 0 {
		sort.Strings(dups)
		var iss formkit.Issues
		for _, k := range dups {
			iss = formkit.AppendIssues(iss, formkit.Issue{Path: formkit.FieldPointer(k), Field: k, Code: formkit.CodeDuplicateKey, Message: i18n.T(formkit.CodeDuplicateKey, nil)})
		}
		return out, iss
	}
	return out, nil
}

func parseIssue(err error) formkit.Issues {
	return formkit.Issues{{Path: "/", Code: formkit.CodeParseError, Message: i18n.T(formkit.CodeParseError, nil), Params: map[string]any{"cause": err.Error()}}}
}

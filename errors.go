package formkit

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Issue codes
const (
	CodeRequired      = "required"
	CodeInvalidType   = "invalid_type"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeTooFewItems   = "too_few_items"
	CodeTooManyItems  = "too_many_items"
	CodeTooSmall      = "too_small"
	CodeTooBig        = "too_big"
	CodeNotPositive   = "not_positive"
	CodeNotInteger    = "not_integer"
	CodeInvalidEnum   = "invalid_enum"
	CodePattern       = "pattern"
	CodeInvalidFormat = "invalid_format"
	CodeCustom        = "custom"
	CodeUnknownKey    = "unknown_key"
	CodeDuplicateKey  = "duplicate_key"
	CodeParseError    = "parse_error"
)

// Issue represents a single validation entry.
type Issue struct {
	Path    string `json:"path"`            // JSON Pointer of the field (for example: /price).
	Field   string `json:"field,omitempty"` // Field name; empty for form-level issues.
	Code    string `json:"code"`            // One of the codes listed above.
	Message string `json:"message"`
	// Params carries structured parameters (e.g., {"min":1}) for i18n.
	Params map[string]any `json:"params,omitempty"`
	// Rule optionally records the rule name that produced this issue.
	Rule string `json:"rule,omitempty"`
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		path := it.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(b, "%s at %s", it.Code, path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// FirstPerField collapses issues into one message per field. Issues are
// walked in order and later messages for a field that already has one are
// dropped, even when they are more specific. Issues without a field are
// skipped.
func (iss Issues) FirstPerField() FieldErrors {
	out := FieldErrors{}
	for _, it := range iss {
		if it.Field == "" {
			continue
		}
		if _, ok := out[it.Field]; ok {
			continue
		}
		out[it.Field] = it.Message
	}
	return out
}

// ForField returns the issues attached to a single field, in order.
func (iss Issues) ForField(field string) Issues {
	var out Issues
	for _, it := range iss {
		if it.Field == field {
			out = append(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// FieldErrors maps a field name to its single visible error message.
type FieldErrors map[string]string

// Has reports whether field carries an error.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Fields returns the erroring field names sorted.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for k := range fe {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy; a nil map clones to an empty one.
func (fe FieldErrors) Clone() FieldErrors {
	out := make(FieldErrors, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// FieldPointer returns the JSON Pointer of a top-level field, escaping "~"
// and "/" per RFC 6901. An empty name points at the document root.
func FieldPointer(field string) string {
	if field == "" {
		return "/"
	}
	// RFC 6901 escaping
	field = strings.ReplaceAll(field, "~", "~0")
	field = strings.ReplaceAll(field, "/", "~1")
	return "/" + field
}

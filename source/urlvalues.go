package source

import (
	"net/url"

	formkit "github.com/reoring/formkit"
)

// URLValues maps an HTML form post into form values. A key with one value
// becomes a string, a key with several becomes a []string. Keys listed in
// lists always become []string so multi-selects with a single choice keep
// their shape.
func URLValues(in url.Values, lists ...string) formkit.Values {
	isList := make(map[string]bool, len(lists))
	for _, l := range lists {
		isList[l] = true
	}
	out := make(formkit.Values, len(in))
	for k, vs := range in {
		switch {
		case isList[k]:
			out[k] = append([]string(nil), vs...)
		case len(vs) == 1:
			out[k] = vs[0]
		case len(vs) == 0:
			out[k] = nil
		default:
			out[k] = append([]string(nil), vs...)
		}
	}
	return out
}

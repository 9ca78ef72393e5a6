package i18n

import "golang.org/x/text/language"

// MatchLanguage picks the best supported language for an Accept-Language
// header value. The first supported entry is the fallback; with no
// supported entries the built-in Languages are used.
func MatchLanguage(acceptLanguage string, supported ...string) string {
	if len(supported) == 0 {
		supported = Languages()
	}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.Make(s))
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return supported[0]
	}
	_, idx, conf := language.NewMatcher(tags).Match(prefs...)
	if conf == language.No {
		return supported[0]
	}
	return supported[idx]
}

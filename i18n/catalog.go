package i18n

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Catalog is a translation cache keyed by locale and dotted key. Nested
// dictionaries are flattened once when added so lookups are a map hit.
type Catalog struct {
	mu            sync.RWMutex
	defaultLocale string
	entries       map[string]map[string]string
}

// NewCatalog returns an empty catalog falling back to defaultLocale ("en"
// when empty).
func NewCatalog(defaultLocale string) *Catalog {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	return &Catalog{defaultLocale: defaultLocale, entries: map[string]map[string]string{}}
}

// Add merges a nested dictionary for locale. Later additions win on key
// collisions.
func (c *Catalog) Add(locale string, dict map[string]any) {
	flat := map[string]string{}
	flatten("", dict, flat)
	c.mu.Lock()
	defer c.mu.Unlock()
	dst, ok := c.entries[locale]
	if !ok {
		dst = make(map[string]string, len(flat))
		c.entries[locale] = dst
	}
	for k, v := range flat {
		dst[k] = v
	}
}

// AddYAML parses a YAML dictionary and merges it for locale.
func (c *Catalog) AddYAML(locale string, data []byte) error {
	var dict map[string]any
	if err := yaml.Unmarshal(data, &dict); err != nil {
		return fmt.Errorf("i18n: parse %s dictionary: %w", locale, err)
	}
	c.Add(locale, dict)
	return nil
}

// LoadFile reads a YAML dictionary from path and merges it for locale.
func (c *Catalog) LoadFile(locale, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("i18n: read %s: %w", path, err)
	}
	return c.AddYAML(locale, data)
}

// Locales returns the locales present in the catalog, sorted.
func (c *Catalog) Locales() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.entries))
	for l := range c.entries {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves key for locale. It tries the exact locale, its base
// language ("ja-JP" -> "ja"), then the default locale, and finally returns
// the key itself.
func (c *Catalog) Lookup(locale, key string) string {
	if v, ok := c.find(locale, key); ok {
		return v
	}
	return key
}

func (c *Catalog) find(locale, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.candidates(locale) {
		if v, ok := c.entries[l][key]; ok {
			return v, true
		}
	}
	return "", false
}

func (c *Catalog) candidates(locale string) []string {
	out := make([]string, 0, 3)
	if locale != "" {
		out = append(out, locale)
		if i := strings.IndexAny(locale, "-_"); i > 0 {
			out = append(out, locale[:i])
		}
	}
	return append(out, c.defaultLocale)
}

// Translator returns a Translator reading "validation.<code>" entries for
// locale. Codes without a catalog entry fall back to the built-in
// dictionary.
func (c *Catalog) Translator(locale string) Translator {
	return catalogTranslator{c: c, locale: locale}
}

type catalogTranslator struct {
	c      *Catalog
	locale string
}

// Localize returns a translator over the same catalog for the best locale in
// acceptLanguage. Catalog locales and the built-in languages are candidates;
// the current locale wins ties and an empty header keeps it.
func (t catalogTranslator) Localize(acceptLanguage string) Translator {
	if strings.TrimSpace(acceptLanguage) == "" {
		return t
	}
	supported := withFirst(t.locale, append(t.c.Locales(), Languages()...))
	seen := make(map[string]bool, len(supported))
	uniq := supported[:0]
	for _, l := range supported {
		if l != "" && !seen[l] {
			seen[l] = true
			uniq = append(uniq, l)
		}
	}
	if len(uniq) == 0 {
		return t
	}
	return catalogTranslator{c: t.c, locale: MatchLanguage(acceptLanguage, uniq...)}
}

func (t catalogTranslator) Message(code string, data map[string]string) string {
	if v, ok := t.c.find(t.locale, "validation."+code); ok {
		return Format(v, data)
	}
	base := t.locale
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}
	return Dictionary(base).Message(code, data)
}

func flatten(prefix string, in map[string]any, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case nil:
			// skip
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional parameters to embed in the message (for example,
// "min" or "values"); placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// Localizer is a Translator that can switch to the best language for an
// Accept-Language header while keeping its own message source.
type Localizer interface {
	Translator
	Localize(acceptLanguage string) Translator
}

var dictionaries = map[string]map[string]string{
	"en": {
		"required":       "Required",
		"invalid_type":   "Invalid type",
		"too_short":      "Must be at least {min} characters",
		"too_long":       "Must be at most {max} characters",
		"too_few_items":  "Must have at least {min} items",
		"too_many_items": "Must have at most {max} items",
		"too_small":      "Must be at least {min}",
		"too_big":        "Must be at most {max}",
		"not_positive":   "Must be greater than 0",
		"not_integer":    "Must be a whole number",
		"invalid_enum":   "Must be one of: {values}",
		"pattern":        "Invalid format",
		"invalid_format": "Invalid {format}",
		"custom":         "Invalid value",
		"unknown_key":    "Unknown field",
		"duplicate_key":  "Duplicate field",
		"parse_error":    "Could not read the form data",
	},
	"ja": {
		"required":       "必須項目です",
		"invalid_type":   "型が不正です",
		"too_short":      "{min}文字以上で入力してください",
		"too_long":       "{max}文字以内で入力してください",
		"too_few_items":  "{min}個以上選択してください",
		"too_many_items": "{max}個以下で選択してください",
		"too_small":      "{min}以上の値を入力してください",
		"too_big":        "{max}以下の値を入力してください",
		"not_positive":   "0より大きい値を入力してください",
		"not_integer":    "整数を入力してください",
		"invalid_enum":   "次のいずれかを選択してください: {values}",
		"pattern":        "形式が正しくありません",
		"invalid_format": "{format}の形式が正しくありません",
		"custom":         "値が正しくありません",
		"unknown_key":    "未知の項目です",
		"duplicate_key":  "項目が重複しています",
		"parse_error":    "フォームデータを解析できません",
	},
}

// Languages lists the languages of the built-in dictionary.
func Languages() []string { return []string{"en", "ja"} }

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	dict, ok := dictionaries[t.lang]
	if !ok {
		dict = dictionaries["en"]
	}
	msg, ok := dict[code]
	if !ok {
		return code
	}
	return Format(msg, data)
}

func (t dictTranslator) Localize(acceptLanguage string) Translator {
	if strings.TrimSpace(acceptLanguage) == "" {
		return t
	}
	return Dictionary(MatchLanguage(acceptLanguage, withFirst(t.lang, Languages())...))
}

// withFirst returns list with first moved (or added) to the front.
func withFirst(first string, list []string) []string {
	out := []string{first}
	for _, l := range list {
		if l != first {
			out = append(out, l)
		}
	}
	return out
}

// Dictionary returns the built-in Translator for lang, falling back to "en".
func Dictionary(lang string) Translator {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// Current returns the process-wide Translator.
func Current() Translator {
	mu.RLock()
	defer mu.RUnlock()
	return currentTranslator
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return Current().Message(code, data) }

// Format substitutes {name} placeholders in msg with values from data.
// Unknown placeholders are left as written.
func Format(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}
